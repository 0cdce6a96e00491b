// Package importer converts uploaded documents into question sets. An
// imported file is just another question source feeding the session
// start path.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/cducdev/learn-english/internal/errors"
	"github.com/cducdev/learn-english/internal/models"
	"github.com/cducdev/learn-english/internal/validator"
)

// Options and sequence answers are packed into one cell, separated by
// this marker.
const listSeparator = "||"

// RowError describes one rejected row. Good rows still import.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult reports what an upload produced.
type ImportResult struct {
	TotalRows    int               `json:"total_rows"`
	SuccessCount int               `json:"success_count"`
	ErrorCount   int               `json:"error_count"`
	Questions    []models.Question `json:"questions"`
	Errors       []RowError        `json:"errors,omitempty"`
}

type Importer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Importer {
	return &Importer{logger: logger}
}

// ImportFile dispatches on the file extension.
func (im *Importer) ImportFile(reader io.Reader, filename string) (*ImportResult, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return im.ImportCSV(reader)
	case ".xlsx":
		return im.ImportExcel(reader)
	case ".xls":
		// The legacy binary workbook format is not readable here.
		return nil, apperrors.NewValidationError("file", "legacy .xls format is not supported, save the workbook as .xlsx", ext)
	default:
		return nil, apperrors.NewValidationError("file", "unsupported file format", ext)
	}
}

func (im *Importer) ImportCSV(reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return im.importRows(records)
}

func (im *Importer) ImportExcel(reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, apperrors.NewValidationError("file", "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return im.importRows(rows)
}

func (im *Importer) importRows(rows [][]string) (*ImportResult, error) {
	if len(rows) < 2 {
		return nil, apperrors.NewValidationError("file", "need a header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range []string{"id", "type", "question", "answer"} {
		if _, ok := headerMap[col]; !ok {
			return nil, apperrors.NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	result := &ImportResult{TotalRows: len(rows) - 1}
	seen := make(map[string]bool)

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		question, err := parseRow(row, headerMap)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if seen[question.ID] {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: fmt.Sprintf("duplicate question id %q", question.ID)})
			continue
		}
		seen[question.ID] = true
		result.Questions = append(result.Questions, question)
	}

	result.SuccessCount = len(result.Questions)
	result.ErrorCount = len(result.Errors)

	im.logger.Info("Imported questions",
		"total_rows", result.TotalRows,
		"success", result.SuccessCount,
		"errors", result.ErrorCount)
	return result, nil
}

func parseRow(row []string, headerMap map[string]int) (models.Question, error) {
	cell := func(name string) string {
		idx, ok := headerMap[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	q := models.Question{
		ID:          cell("id"),
		Type:        models.QuestionType(cell("type")),
		Prompt:      cell("question"),
		Explanation: cell("explanation"),
	}

	if opts := cell("options"); opts != "" {
		q.Options = splitList(opts)
	}

	answer := cell("answer")
	switch q.Type {
	case models.SentenceRearrangement:
		q.Answer = models.SequenceAnswer(splitList(answer))
		if len(q.Options) == 0 {
			q.Options = append([]string(nil), q.Answer.Sequence...)
		}
	case models.MultipleChoice:
		q.Answer = models.TextAnswer(answer)
	default:
		q.Answer = models.TextAnswer(answer)
		if accepted := cell("accepted_answers"); accepted != "" {
			q.AcceptedAnswers = splitList(accepted)
		}
	}

	if err := validator.ValidateQuestion(&q); err != nil {
		return q, err
	}
	return q, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
