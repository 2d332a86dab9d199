package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/HanTheDev/recruit-api/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Resumo"
	candidatesSheet = "Candidatos"
)

// WriteJobReport writes a spreadsheet with the interview reports of one job.
func WriteJobReport(w io.Writer, job models.Job, reports []models.InterviewReport) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(candidatesSheet); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if err := writeSummary(f, job, reports); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeCandidates(f, reports); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeSummary(f *excelize.File, job models.Job, reports []models.InterviewReport) error {
	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetColWidth(summarySheet, "B", "B", 50)

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := [][2]any{
		{"Vaga:", job.Title},
		{"Gerado em:", time.Now().Format("2006-01-02 15:04:05")},
		{"Entrevistas concluídas:", len(reports)},
	}
	if len(reports) > 0 {
		var total, best float64
		for i, r := range reports {
			total += r.OverallScore
			if i == 0 || r.OverallScore > best {
				best = r.OverallScore
			}
		}
		rows = append(rows,
			[2]any{"Nota média:", fmt.Sprintf("%.2f", total/float64(len(reports)))},
			[2]any{"Maior nota:", fmt.Sprintf("%.2f", best)},
		)
	}

	for i, row := range rows {
		n := i + 1
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", n), row[0])
		f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", n), fmt.Sprintf("A%d", n), labelStyle)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", n), row[1])
	}
	return nil
}

func writeCandidates(f *excelize.File, reports []models.InterviewReport) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"Posição", "Candidato", "Email", "Nota", "Recomendação", "Pontos fortes", "Pontos de atenção", "Resumo"}
	widths := []float64{10, 25, 30, 10, 18, 40, 40, 60}
	for col, header := range headers {
		name, _ := excelize.ColumnNumberToName(col + 1)
		f.SetColWidth(candidatesSheet, name, name, widths[col])
		cell := name + "1"
		f.SetCellValue(candidatesSheet, cell, header)
		f.SetCellStyle(candidatesSheet, cell, cell, style)
	}

	for i, r := range reports {
		row := i + 2
		values := []any{
			i + 1,
			r.CandidateName,
			r.CandidateEmail,
			r.OverallScore,
			r.Recommendation,
			strings.Join(r.Strengths, "; "),
			strings.Join(r.Concerns, "; "),
			r.Summary,
		}
		if err := f.SetSheetRow(candidatesSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
	}

	if len(reports) > 0 {
		f.AutoFilter(candidatesSheet, fmt.Sprintf("A1:H%d", len(reports)+1), []excelize.AutoFilterOptions{})
	}

	f.SetPanes(candidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return nil
}
