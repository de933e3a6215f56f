package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smart-classroom/scs-api/internal/models"
	appErrors "github.com/smart-classroom/scs-api/pkg/errors"
	"github.com/smart-classroom/scs-api/pkg/export"
	"github.com/smart-classroom/scs-api/pkg/storage"
)

// Export formats for the published timetable.
const (
	ExportFormatCSV  = "csv"
	ExportFormatPDF  = "pdf"
	ExportFormatJSON = "json"
)

type timetableReader interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.ScheduleEntry, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful render metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       string
	ExpiresAt    time.Time
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders the published timetable to downloadable files and
// hands out signed, expiring download URLs.
type ExportService struct {
	timetable timetableReader
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(timetable timetableReader, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		timetable: timetable,
		storage:   store,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate renders the timetable matching the filter into the requested
// format and stores the file for signed download.
func (s *ExportService) Generate(ctx context.Context, format string, filter models.TimetableFilter) (*ExportResult, error) {
	entries, err := s.timetable.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable for export")
	}

	var payload []byte
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(buildTimetableDataset(entries))
	case ExportFormatPDF:
		payload, err = s.pdf.Render(buildTimetableDataset(entries), exportTitle(filter))
	case ExportFormatJSON:
		payload, err = json.MarshalIndent(entries, "", "  ")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	exportID := fmt.Sprintf("timetable_%s", time.Now().UTC().Format("20060102_150405"))
	filename := fmt.Sprintf("%s.%s", exportID, format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Info("timetable exported",
		zap.String("format", format),
		zap.Int("entries", len(entries)),
		zap.String("file", relPath),
	)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/timetable/export/%s", prefix, token),
		Format:       format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to the configured ResultTTL
// when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func buildTimetableDataset(entries []models.ScheduleEntry) export.Dataset {
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, map[string]string{
			"Day":        entry.Day,
			"Time Slot":  entry.TimeSlot,
			"Course":     entry.CourseName,
			"Faculty":    entry.FacultyName,
			"Classroom":  entry.ClassroomName,
			"Department": entry.Department,
			"Type":       entry.CourseType,
		})
	}
	return export.Dataset{
		Headers: []string{"Day", "Time Slot", "Course", "Faculty", "Classroom", "Department", "Type"},
		Rows:    rows,
	}
}

func exportTitle(filter models.TimetableFilter) string {
	if filter.Department != "" {
		return fmt.Sprintf("Timetable - %s", filter.Department)
	}
	return "Timetable"
}
