package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/courseware-service/internal/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() *review.CoursePeerReviewSummary {
	return &review.CoursePeerReviewSummary{
		CourseID:    "course-1",
		ActivityIDs: []string{"a1", "a2"},
		Groups: []review.GroupCrossActivityStats{
			{
				GroupID:          "g1",
				GroupName:        "Team Alpha",
				AssessmentsCount: 3,
				Averages: &review.ScoreAverages{
					Punctuality:   4.33,
					Contributions: 4,
					Commitment:    3.67,
					Attitude:      5,
					Overall:       4.25,
				},
			},
			{GroupID: "g2", GroupName: "Team Beta", AssessmentsCount: 0},
		},
		StudentIDs: []string{"s1", "s2", "s3"},
		Averages: &review.ScoreAverages{
			Punctuality:   4.33,
			Contributions: 4,
			Commitment:    3.67,
			Attitude:      5,
			Overall:       4.25,
		},
	}
}

func parseCSV(t *testing.T, payload []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportSummaryToCSV(t *testing.T) {
	svc := NewExportService(slog.New(slog.NewTextHandler(io.Discard, nil)))

	payload, err := svc.ExportSummaryToCSV(context.Background(), testSummary())
	require.NoError(t, err)

	rows := parseCSV(t, payload)
	require.Len(t, rows, 4)
	assert.Equal(t, summaryHeaders, rows[0])
	assert.Equal(t, []string{"Team Alpha", "3", "4.33", "4.00", "3.67", "5.00", "4.25"}, rows[1])
	assert.Equal(t, []string{"Team Beta", "0", "-", "-", "-", "-", "-"}, rows[2])
	assert.Equal(t, []string{"Course (weighted)", "", "4.33", "4.00", "3.67", "5.00", "4.25"}, rows[3])
}

func TestExportSummaryToCSV_NoCourseAverages(t *testing.T) {
	svc := NewExportService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	summary := &review.CoursePeerReviewSummary{
		CourseID: "course-1",
		Groups: []review.GroupCrossActivityStats{
			{GroupID: "g1", GroupName: "Team Alpha", AssessmentsCount: 0},
		},
	}

	payload, err := svc.ExportSummaryToCSV(context.Background(), summary)
	require.NoError(t, err)

	rows := parseCSV(t, payload)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Team Alpha", "0", "-", "-", "-", "-", "-"}, rows[1])
}

func TestExportSummaryToCSV_FallsBackToGroupID(t *testing.T) {
	svc := NewExportService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	summary := &review.CoursePeerReviewSummary{
		CourseID: "course-1",
		Groups: []review.GroupCrossActivityStats{
			{GroupID: "g9", AssessmentsCount: 0},
		},
	}

	payload, err := svc.ExportSummaryToCSV(context.Background(), summary)
	require.NoError(t, err)

	rows := parseCSV(t, payload)
	assert.Equal(t, "g9", rows[1][0])
}

func TestExportSummaryToExcel(t *testing.T) {
	svc := NewExportService(slog.New(slog.NewTextHandler(io.Discard, nil)))

	payload, err := svc.ExportSummaryToExcel(context.Background(), testSummary())
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, payload[:2])
}
