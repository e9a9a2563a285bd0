package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/vineyard/internal/app/attainment"
)

// SnapshotReader runs fn against one consistent view of the outcome graph
// and the score store.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context, src attainment.Source) error) error
}

// ReportService defines the interface for attainment reports
type ReportService interface {
	CourseReport(ctx context.Context, courseID int64) (*attainment.CourseReport, error)
	ProgramReport(ctx context.Context) (*attainment.ProgramReport, error)
}

// reportServiceImpl implements the ReportService interface
type reportServiceImpl struct {
	reader  SnapshotReader
	timeout time.Duration
	logger  zerolog.Logger
}

// NewReportService creates a new report service. A zero timeout leaves the
// caller's deadline untouched.
func NewReportService(reader SnapshotReader, timeout time.Duration, logger zerolog.Logger) ReportService {
	return &reportServiceImpl{
		reader:  reader,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *reportServiceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// CourseReport computes the course-scoped rollup for one course.
func (s *reportServiceImpl) CourseReport(ctx context.Context, courseID int64) (*attainment.CourseReport, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var report *attainment.CourseReport
	err := s.reader.ReadSnapshot(ctx, func(ctx context.Context, src attainment.Source) error {
		var err error
		report, err = attainment.NewEngine(src).ComputeCourseReport(ctx, courseID)
		return err
	})
	if err != nil {
		s.logger.Debug().Err(err).Int64("courseID", courseID).Msg("Course report failed")
		return nil, err
	}

	s.logger.Debug().
		Int64("courseID", courseID).
		Int("assessments", len(report.Assessments)).
		Int("learningOutcomes", len(report.LearningOutcomes)).
		Msg("Course report computed")
	return report, nil
}

// ProgramReport computes every course rollup and the pooled program outcomes.
func (s *reportServiceImpl) ProgramReport(ctx context.Context) (*attainment.ProgramReport, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var report *attainment.ProgramReport
	err := s.reader.ReadSnapshot(ctx, func(ctx context.Context, src attainment.Source) error {
		var err error
		report, err = attainment.NewEngine(src).ComputeProgramReport(ctx)
		return err
	})
	if err != nil {
		s.logger.Debug().Err(err).Msg("Program report failed")
		return nil, err
	}

	s.logger.Debug().Int("courses", len(report.Courses)).Msg("Program report computed")
	return report, nil
}
