// Package services holds the application use cases behind the HTTP layer.
//
// Services defined in this package:
// - ReportService: course-scoped and program-wide attainment reports
// - GradeService: bulk grade ingestion and the existing-grades view
//
// Services depend on small interfaces declared next to them so that both the
// PostgreSQL repositories and the in-memory store can back them.
package services
