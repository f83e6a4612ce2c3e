package models

import "time"

type ImportFileType string

const (
	ImportXLSX ImportFileType = "xlsx"
	ImportCSV  ImportFileType = "csv"
)

// QuizImportResult is what a spreadsheet upload turns into. Quiz holds at most
// MaxQuizQuestions entries, already clipped to the field limits.
type QuizImportResult struct {
	FileName       string                  `json:"file_name"`
	FileType       ImportFileType          `json:"file_type"`
	TotalRows      int                     `json:"total_rows"`
	Quiz           []QuizQuestion          `json:"quiz"`
	Skipped        []ImportValidationError `json:"skipped"`
	ProcessingTime time.Duration           `json:"processing_time"`
}

type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code"`
}
