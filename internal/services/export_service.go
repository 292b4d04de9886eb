package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/SAP-F-2025/courseware-service/internal/review"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a course's peer-review summary as a downloadable
// spreadsheet for teachers.
type ExportService interface {
	ExportSummaryToCSV(ctx context.Context, summary *review.CoursePeerReviewSummary) ([]byte, error)
	ExportSummaryToExcel(ctx context.Context, summary *review.CoursePeerReviewSummary) ([]byte, error)
}

type exportService struct {
	logger *slog.Logger
}

func NewExportService(logger *slog.Logger) ExportService {
	return &exportService{logger: logger}
}

var summaryHeaders = []string{
	"Group", "Assessments", "Punctuality", "Contributions", "Commitment", "Attitude", "Overall",
}

func (s *exportService) ExportSummaryToCSV(ctx context.Context, summary *review.CoursePeerReviewSummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(summaryHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, g := range summary.Groups {
		if err := w.Write(groupRow(g)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	if summary.Averages != nil {
		if err := w.Write(courseRow(summary.Averages)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	s.logger.Info("Exported peer-review summary to CSV",
		"course_id", summary.CourseID, "groups", len(summary.Groups))
	return buf.Bytes(), nil
}

func (s *exportService) ExportSummaryToExcel(ctx context.Context, summary *review.CoursePeerReviewSummary) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Peer Review"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range summaryHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, g := range summary.Groups {
		for colIndex, value := range groupRow(g) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex)
			f.SetCellValue(sheetName, cell, value)
		}
		rowIndex++
	}
	if summary.Averages != nil {
		for colIndex, value := range courseRow(summary.Averages) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported peer-review summary to Excel",
		"course_id", summary.CourseID, "groups", len(summary.Groups))
	return buf.Bytes(), nil
}

// groupRow renders one group's aggregate. Groups without evaluations show
// a dash in every score column rather than misleading zeros.
func groupRow(g review.GroupCrossActivityStats) []string {
	name := g.GroupName
	if name == "" {
		name = g.GroupID
	}
	row := []string{name, strconv.Itoa(g.AssessmentsCount)}
	if g.Averages == nil {
		return append(row, "-", "-", "-", "-", "-")
	}
	return append(row,
		formatScore(g.Averages.Punctuality),
		formatScore(g.Averages.Contributions),
		formatScore(g.Averages.Commitment),
		formatScore(g.Averages.Attitude),
		formatScore(g.Averages.Overall),
	)
}

func courseRow(avg *review.ScoreAverages) []string {
	return []string{
		"Course (weighted)", "",
		formatScore(avg.Punctuality),
		formatScore(avg.Contributions),
		formatScore(avg.Commitment),
		formatScore(avg.Attitude),
		formatScore(avg.Overall),
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
