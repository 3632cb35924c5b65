package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/bibash21-creator/result-finder-33/internal/gradebook"
	"github.com/bibash21-creator/result-finder-33/internal/models"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
	"github.com/bibash21-creator/result-finder-33/pkg/export"
	"github.com/bibash21-creator/result-finder-33/pkg/storage"
)

type exportStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListAll(ctx context.Context) ([]models.Student, error)
}

// ExportFile is a rendered export ready to be streamed to a client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders roster and result-sheet exports, archiving a copy of
// each render on local disk.
type ExportService struct {
	repo    exportStudentRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	archive *storage.LocalStorage
	logger  *zap.Logger
}

// NewExportService constructs an ExportService instance. archive may be nil
// when no export directory is configured.
func NewExportService(repo exportStudentRepository, archive *storage.LocalStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:    repo,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		archive: archive,
		logger:  logger,
	}
}

// RosterCSV renders the full roster, one row per student, with aggregates
// derived from the stored subject rows.
func (s *ExportService) RosterCSV(ctx context.Context) (*ExportFile, error) {
	students, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	data := export.Dataset{
		Headers: []string{"Student ID", "Name", "Semester", "Subjects", "Total Credits", "GPA", "Average Score"},
	}
	for _, student := range students {
		data.Rows = append(data.Rows, map[string]string{
			"Student ID":    student.ID,
			"Name":          student.FullName,
			"Semester":      student.Semester,
			"Subjects":      strconv.Itoa(len(student.Subjects)),
			"Total Credits": strconv.Itoa(gradebook.TotalCredits(student.Subjects)),
			"GPA":           formatFloat(gradebook.GPA(student.Subjects), 2),
			"Average Score": formatFloat(gradebook.AverageScore(student.Subjects), 1),
		})
	}

	rendered, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
	}

	file := &ExportFile{
		Filename:    fmt.Sprintf("roster-%s.csv", time.Now().UTC().Format("20060102-150405")),
		ContentType: "text/csv",
		Data:        rendered,
	}
	s.store(file)
	return file, nil
}

// ResultSheetPDF renders one student's result sheet with per-subject rows and
// aggregate footer lines.
func (s *ExportService) ResultSheetPDF(ctx context.Context, studentID string) (*ExportFile, error) {
	student, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	data := export.Dataset{
		Headers: []string{"Code", "Subject", "Credits", "Score", "Grade"},
	}
	for _, subject := range student.Subjects {
		data.Rows = append(data.Rows, map[string]string{
			"Code":    subject.Code,
			"Subject": subject.Name,
			"Credits": strconv.Itoa(subject.Credits),
			"Score":   formatFloat(subject.Score, 1),
			"Grade":   subject.Grade,
		})
	}

	title := fmt.Sprintf("Result Sheet - %s (%s)", student.FullName, student.ID)
	footer := []string{
		fmt.Sprintf("Semester: %s", student.Semester),
		fmt.Sprintf("Total Credits: %d", gradebook.TotalCredits(student.Subjects)),
		fmt.Sprintf("GPA: %s", formatFloat(gradebook.GPA(student.Subjects), 2)),
		fmt.Sprintf("Average Score: %s", formatFloat(gradebook.AverageScore(student.Subjects), 1)),
	}

	rendered, err := s.pdf.Render(data, title, footer)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render result sheet pdf")
	}

	file := &ExportFile{
		Filename:    fmt.Sprintf("result-%s-%s.pdf", student.ID, time.Now().UTC().Format("20060102-150405")),
		ContentType: "application/pdf",
		Data:        rendered,
	}
	s.store(file)
	return file, nil
}

func (s *ExportService) store(file *ExportFile) {
	if s.archive == nil {
		return
	}
	if _, err := s.archive.Save(file.Filename, file.Data); err != nil {
		s.logger.Warn("failed to archive export", zap.String("filename", file.Filename), zap.Error(err))
	}
}

func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}
