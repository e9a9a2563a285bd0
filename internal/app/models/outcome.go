package models

// ProgramOutcome is an institution-level competency certified by the program.
type ProgramOutcome struct {
	ID          int64  `json:"id" db:"id"`
	Code        string `json:"code" db:"code"`
	Description string `json:"description" db:"description"`
}

// LearningOutcome is a course-level competency that feeds one or more program outcomes.
type LearningOutcome struct {
	ID          int64  `json:"id" db:"id"`
	CourseID    int64  `json:"courseId" db:"course_id"`
	Code        string `json:"code" db:"code"`
	Description string `json:"description" db:"description"`
}

// ProgramOutcomeLink is a weighted LO -> PO edge.
type ProgramOutcomeLink struct {
	LearningOutcomeID  int64  `json:"learningOutcomeId" db:"learning_outcome_id"`
	ProgramOutcomeID   int64  `json:"programOutcomeId" db:"program_outcome_id"`
	ProgramOutcomeCode string `json:"programOutcomeCode"` // Joined from program_outcomes
	Weight             int    `json:"weight" db:"weight"`
}

// LearningOutcomeLink is a weighted Assessment -> LO edge.
type LearningOutcomeLink struct {
	AssessmentID      int64 `json:"assessmentId" db:"assessment_id"`
	LearningOutcomeID int64 `json:"learningOutcomeId" db:"learning_outcome_id"`
	Weight            int   `json:"weight" db:"weight"`
}
