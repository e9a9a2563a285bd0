// Package seed loads a small demo program into an empty database.
package seed

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appModels "github.com/yigit/vineyard/internal/app/models"
	appRepos "github.com/yigit/vineyard/internal/app/repositories"
	"github.com/yigit/vineyard/internal/db"
	"github.com/yigit/vineyard/internal/pkg/auth"
)

// DemoPassword is the plain-text password of every seeded account.
const DemoPassword = "vineyard-demo"

type demoUser struct {
	identifier, email, firstName, lastName string
	role                                   appModels.RoleType
}

type demoAssessment struct {
	typ    appModels.AssessmentType
	links  map[string]int     // LO code -> weight
	scores map[string]float64 // student identifier -> score
}

type demoCourse struct {
	code, name       string
	learningOutcomes map[string]string         // LO code -> description
	programLinks     map[string]map[string]int // LO code -> PO code -> weight
	assessments      []demoAssessment
}

var demoUsers = []demoUser{
	{"head01", "head01@vineyard.local", "Ayse", "Kaya", appModels.RoleHead},
	{"teacher01", "teacher01@vineyard.local", "Mehmet", "Demir", appModels.RoleTeacher},
	{"20210001", "20210001@vineyard.local", "Ali", "Yilmaz", appModels.RoleStudent},
	{"20210002", "20210002@vineyard.local", "Zeynep", "Celik", appModels.RoleStudent},
	{"20210003", "20210003@vineyard.local", "Can", "Arslan", appModels.RoleStudent},
}

var demoProgramOutcomes = []appModels.ProgramOutcome{
	{Code: "P1", Description: "Apply engineering knowledge to software problems"},
	{Code: "P2", Description: "Design and conduct experiments, analyse data"},
	{Code: "P3", Description: "Work effectively in teams"},
}

var demoCourses = []demoCourse{
	{
		code: "SE101",
		name: "Introduction to Software Engineering",
		learningOutcomes: map[string]string{
			"SE101-L1": "Describe the software lifecycle",
			"SE101-L2": "Write and review requirements",
		},
		programLinks: map[string]map[string]int{
			"SE101-L1": {"P1": 3},
			"SE101-L2": {"P1": 2, "P3": 4},
		},
		assessments: []demoAssessment{
			{appModels.AssessmentMidterm, map[string]int{"SE101-L1": 5}, map[string]float64{"20210001": 80, "20210002": 90}},
			{appModels.AssessmentProject, map[string]int{"SE101-L2": 4}, map[string]float64{"20210001": 70, "20210002": 85, "20210003": 60}},
			{appModels.AssessmentFinal, map[string]int{"SE101-L1": 2, "SE101-L2": 3}, map[string]float64{"20210001": 75, "20210003": 65}},
		},
	},
	{
		code: "SE201",
		name: "Data Structures",
		learningOutcomes: map[string]string{
			"SE201-L1": "Analyse algorithm complexity",
		},
		programLinks: map[string]map[string]int{
			"SE201-L1": {"P1": 4, "P2": 5},
		},
		assessments: []demoAssessment{
			{appModels.AssessmentMidterm, map[string]int{"SE201-L1": 3}, map[string]float64{"20210001": 55, "20210002": 72}},
			{appModels.AssessmentMidterm, map[string]int{"SE201-L1": 3}, map[string]float64{"20210001": 68}},
		},
	},
}

// CreateDemoData inserts the demo program in one transaction. It does nothing
// when any course already exists.
func CreateDemoData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	var hasCourses bool
	if err := database.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses)`).Scan(&hasCourses); err != nil {
		return fmt.Errorf("failed to check for existing courses: %w", err)
	}
	if hasCourses {
		lgr.Info().Msg("Courses already present, skipping demo data")
		return nil
	}

	hashed, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	lgr.Info().Msg("Creating demo data...")
	err = database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return insertDemo(ctx, appRepos.NewCatalogRepository(tx), appRepos.NewScoreRepository(tx), hashed)
	})
	if err != nil {
		return fmt.Errorf("failed to create demo data: %w", err)
	}

	lgr.Info().
		Int("users", len(demoUsers)).
		Int("programOutcomes", len(demoProgramOutcomes)).
		Int("courses", len(demoCourses)).
		Msg("Demo data created")
	return nil
}

func insertDemo(ctx context.Context, catalog *appRepos.CatalogRepository, scores *appRepos.ScoreRepository, passwordHash string) error {
	userIDs := make(map[string]int64, len(demoUsers))
	var headID *int64
	for _, u := range demoUsers {
		id, err := catalog.CreateUser(ctx, &appModels.User{
			Identifier: u.identifier,
			Email:      u.email,
			Password:   passwordHash,
			FirstName:  u.firstName,
			LastName:   u.lastName,
			RoleType:   u.role,
		})
		if err != nil {
			return err
		}
		userIDs[u.identifier] = id
		if u.role == appModels.RoleHead && headID == nil {
			headID = &id
		}
	}

	poIDs := make(map[string]int64, len(demoProgramOutcomes))
	for i := range demoProgramOutcomes {
		id, err := catalog.CreateProgramOutcome(ctx, &demoProgramOutcomes[i])
		if err != nil {
			return err
		}
		poIDs[demoProgramOutcomes[i].Code] = id
	}

	for _, dc := range demoCourses {
		courseID, err := catalog.CreateCourse(ctx, &appModels.Course{Code: dc.code, Name: dc.name, CreatedByID: headID})
		if err != nil {
			return err
		}

		loIDs := make(map[string]int64, len(dc.learningOutcomes))
		for _, code := range sortedCodes(dc.learningOutcomes) {
			id, err := catalog.CreateLearningOutcome(ctx, &appModels.LearningOutcome{
				CourseID:    courseID,
				Code:        code,
				Description: dc.learningOutcomes[code],
			})
			if err != nil {
				return err
			}
			loIDs[code] = id

			for _, poCode := range sortedCodes(dc.programLinks[code]) {
				err := catalog.LinkProgramOutcome(ctx, appModels.ProgramOutcomeLink{
					LearningOutcomeID: id,
					ProgramOutcomeID:  poIDs[poCode],
					Weight:            dc.programLinks[code][poCode],
				})
				if err != nil {
					return err
				}
			}
		}

		for _, da := range dc.assessments {
			assessmentID, err := catalog.CreateAssessment(ctx, &appModels.Assessment{CourseID: courseID, Type: da.typ})
			if err != nil {
				return err
			}
			for _, loCode := range sortedCodes(da.links) {
				err := catalog.LinkAssessment(ctx, appModels.LearningOutcomeLink{
					AssessmentID:      assessmentID,
					LearningOutcomeID: loIDs[loCode],
					Weight:            da.links[loCode],
				})
				if err != nil {
					return err
				}
			}
			for _, student := range sortedCodes(da.scores) {
				if err := scores.UpsertScore(ctx, userIDs[student], assessmentID, da.scores[student]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func sortedCodes[V any](m map[string]V) []string {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
