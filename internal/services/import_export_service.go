package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/events"
	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/xuri/excelize/v2"
)

// ImportExportService moves quiz definitions in and out of spreadsheets so a
// creator can prepare questions offline.
type ImportExportService interface {
	// Import operations
	ImportQuiz(ctx context.Context, reader io.Reader, filename string) (*models.QuizImportResult, error)
	ImportQuizFromCSV(ctx context.Context, reader io.Reader) (*models.QuizImportResult, error)
	ImportQuizFromExcel(ctx context.Context, reader io.Reader) (*models.QuizImportResult, error)

	// Export operations
	ExportQuiz(ctx context.Context, quiz []models.QuizQuestion) ([]byte, error)
	Template(ctx context.Context) ([]byte, error)
}

const quizSheet = "Quiz"

var quizHeaders = []string{"Question", "Answer", "Hint"}

// Accepted spellings of each column, lower-cased.
var columnAliases = map[string]string{
	"question": "question",
	"q":        "question",
	"prompt":   "question",
	"answer":   "answer",
	"a":        "answer",
	"hint":     "hint",
	"h":        "hint",
}

// Import row error codes
const (
	importCodeRequired = "REQUIRED"
	importCodeLimit    = "LIMIT_EXCEEDED"
)

type importExportService struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewImportExportService(publisher events.EventPublisher, logger *slog.Logger) ImportExportService {
	return &importExportService{
		publisher: publisher,
		logger:    logger,
	}
}

// ===== IMPORT OPERATIONS =====

func (s *importExportService) ImportQuiz(ctx context.Context, reader io.Reader, filename string) (*models.QuizImportResult, error) {
	s.logger.Info("Starting quiz import", "filename", filename)

	var (
		result *models.QuizImportResult
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		result, err = s.ImportQuizFromCSV(ctx, reader)
	case ".xlsx":
		result, err = s.ImportQuizFromExcel(ctx, reader)
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrImportFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	result.FileName = filepath.Base(filename)
	return result, nil
}

func (s *importExportService) ImportQuizFromCSV(ctx context.Context, reader io.Reader) (*models.QuizImportResult, error) {
	start := time.Now()

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read CSV: %w", ErrImportFormat, err)
	}

	result, err := s.importRows(records, models.ImportCSV)
	if err != nil {
		return nil, err
	}
	result.ProcessingTime = time.Since(start)
	s.complete(ctx, result)
	return result, nil
}

func (s *importExportService) ImportQuizFromExcel(ctx context.Context, reader io.Reader) (*models.QuizImportResult, error) {
	start := time.Now()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", ErrImportFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrImportFormat)
	}

	// Prefer a sheet named like the export, otherwise the first one.
	sheetName := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, quizSheet) {
			sheetName = name
			break
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	result, err := s.importRows(rows, models.ImportXLSX)
	if err != nil {
		return nil, err
	}
	result.ProcessingTime = time.Since(start)
	s.complete(ctx, result)
	return result, nil
}

// importRows turns a header row plus data rows into a quiz. Blank rows are
// ignored; incomplete rows and rows past the question cap are reported.
func (s *importExportService) importRows(rows [][]string, fileType models.ImportFileType) (*models.QuizImportResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrImportFormat)
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		if col, ok := columnAliases[strings.ToLower(strings.TrimSpace(header))]; ok {
			if _, seen := headerMap[col]; !seen {
				headerMap[col] = i
			}
		}
	}
	for _, col := range []string{"question", "answer"} {
		if _, exists := headerMap[col]; !exists {
			return nil, fmt.Errorf("%w: missing required column %q", ErrImportFormat, col)
		}
	}

	result := &models.QuizImportResult{
		FileType: fileType,
		Quiz:     []models.QuizQuestion{},
		Skipped:  []models.ImportValidationError{},
	}

	for i, record := range rows[1:] {
		rowNum := i + 2
		q := models.QuizQuestion{
			Prompt:         cell(record, headerMap, "question"),
			ExpectedAnswer: cell(record, headerMap, "answer"),
			Hint:           cell(record, headerMap, "hint"),
		}
		if q == (models.QuizQuestion{}) {
			continue
		}
		result.TotalRows++

		if rowErr, ok := checkImportRow(q, rowNum); !ok {
			result.Skipped = append(result.Skipped, rowErr)
			continue
		}
		if len(result.Quiz) == models.MaxQuizQuestions {
			result.Skipped = append(result.Skipped, models.ImportValidationError{
				Row:     rowNum,
				Column:  "question",
				Message: fmt.Sprintf("a quiz holds at most %d questions", models.MaxQuizQuestions),
				Value:   q.Prompt,
				Code:    importCodeLimit,
			})
			continue
		}
		result.Quiz = append(result.Quiz, q.Clipped())
	}

	return result, nil
}

func checkImportRow(q models.QuizQuestion, rowNum int) (models.ImportValidationError, bool) {
	switch {
	case q.Prompt == "":
		return models.ImportValidationError{Row: rowNum, Column: "question", Message: "question is required", Code: importCodeRequired}, false
	case q.ExpectedAnswer == "":
		return models.ImportValidationError{Row: rowNum, Column: "answer", Message: "answer is required", Value: q.Prompt, Code: importCodeRequired}, false
	}
	return models.ImportValidationError{}, true
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// cell returns the trimmed single-line value of a column, or "" when the row
// is too short or the column is absent.
func cell(record []string, headerMap map[string]int, col string) string {
	i, ok := headerMap[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(lineBreaks.Replace(record[i]))
}

func (s *importExportService) complete(ctx context.Context, result *models.QuizImportResult) {
	s.logger.Info("Quiz import completed",
		"file_type", result.FileType,
		"total_rows", result.TotalRows,
		"imported", len(result.Quiz),
		"skipped", len(result.Skipped))

	if s.publisher == nil {
		return
	}
	event := events.NewQuizImportedEvent(result.FileType, result.TotalRows, len(result.Quiz), len(result.Skipped))
	if err := s.publisher.PublishLinkEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish import event", "error", err)
	}
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportQuiz(ctx context.Context, quiz []models.QuizQuestion) ([]byte, error) {
	rows := make([][]string, 0, len(quiz))
	for _, q := range quiz {
		rows = append(rows, []string{q.Prompt, q.ExpectedAnswer, q.Hint})
	}
	return s.writeWorkbook(rows)
}

// Template is an empty quiz workbook with one example row.
func (s *importExportService) Template(ctx context.Context) ([]byte, error) {
	return s.writeWorkbook([][]string{
		{"Where did we first meet?", "Paris", "Think Eiffel"},
	})
}

func (s *importExportService) writeWorkbook(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", quizSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	header := make([]interface{}, len(quizHeaders))
	for i, h := range quizHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(quizSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(quizSheet, "A1", "C1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(quizSheet, "A", "C", 40); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(quizSheet, cellName, &values); err != nil {
			return nil, fmt.Errorf("failed to write Excel row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
