package attainment

import (
	"context"
	"fmt"
)

// Engine computes attainment reports from a Source. It holds no state of its
// own; read consistency across one report is the Source's concern.
type Engine struct {
	src Source
}

// NewEngine creates an engine reading from src.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// ComputeCourseReport rolls up a single course in course-scoped mode.
func (e *Engine) ComputeCourseReport(ctx context.Context, courseID int64) (*CourseReport, error) {
	course, err := e.src.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	pos, err := e.src.ListProgramOutcomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing program outcomes: %w", err)
	}

	cg, err := LoadCourseGraph(ctx, e.src, course)
	if err != nil {
		return nil, err
	}
	return BuildCourseReport(cg, pos), nil
}

// ComputeProgramReport rolls up every course and pools program outcomes
// across them.
func (e *Engine) ComputeProgramReport(ctx context.Context) (*ProgramReport, error) {
	g, err := LoadGraph(ctx, e.src)
	if err != nil {
		return nil, err
	}
	return BuildProgramReport(g), nil
}
