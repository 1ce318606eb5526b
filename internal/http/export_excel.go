package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/store"
)

// scorecardExportHeader lays out one row per patient: probabilities first,
// then the derived levels, then the temperature call and actions.
var scorecardExportHeader = []string{
	"Patient ID",
	"Timestamp",
	"Seizure Prob",
	"Sepsis Prob",
	"Cardiac Prob",
	"Renal Prob",
	"Poor Outcome Prob",
	"Seizure",
	"Sepsis",
	"Cardiac",
	"Renal",
	"Prognosis",
	"Temp Adjust (degC)",
	"Recommendations",
}

// GET /cds/scorecards/latest/export
// Renders the latest batch as an .xlsx download.
func (h *ScorecardHandler) ExportLatest(w http.ResponseWriter, r *http.Request) {
	batch, name, err := h.store.Latest()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "no scorecard batches published yet")
			return
		}
		h.logger.Error("Failed to load latest batch for export", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "failed to load latest batch")
		return
	}

	data, err := generateScorecardExcel(batch)
	if err != nil {
		h.logger.Error("Failed to generate export", zap.String("name", name), zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "failed to generate export")
		return
	}

	filename := strings.TrimSuffix(name, ".json") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// generateScorecardExcel renders a batch as a styled spreadsheet: frozen
// bold header, one row per patient, absent probabilities shown as N/A.
func generateScorecardExcel(batch *models.Batch) ([]byte, error) {
	f := excelize.NewFile()
	// Don't defer Close() here, WriteTo needs the file open.

	sheetName := "Scorecards"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range scorecardExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	columnWidths := []float64{
		15, // Patient ID
		22, // Timestamp
		13, // Seizure Prob
		13, // Sepsis Prob
		13, // Cardiac Prob
		13, // Renal Prob
		17, // Poor Outcome Prob
		10, // Seizure
		10, // Sepsis
		10, // Cardiac
		10, // Renal
		10, // Prognosis
		18, // Temp Adjust (degC)
		80, // Recommendations
	}
	for i := range scorecardExportHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx := range batch.Items {
		card := &batch.Items[rowIdx]
		row := rowIdx + 2 // row 1 is the header

		values := []any{
			card.PatientID,
			card.Timestamp.Format("2006-01-02 15:04:05"),
			probCell(card.Probabilities.Seizure),
			probCell(card.Probabilities.Sepsis),
			probCell(card.Probabilities.Cardiac),
			probCell(card.Probabilities.Renal),
			probCell(card.Probabilities.Prognosis),
			string(card.RiskLevels.Seizure),
			string(card.RiskLevels.Sepsis),
			string(card.RiskLevels.Cardiac),
			string(card.RiskLevels.Renal),
			string(card.RiskLevels.Prognosis),
			card.TemperatureAdjustC,
			strings.Join(card.Recommendations, "; "),
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell value at row %d, col %d: %w", row, colIdx+1, err)
			}
		}
	}

	// Freeze the header row.
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return buf.Bytes(), nil
}

// probCell renders an absent probability as N/A so the spreadsheet cannot
// be misread as a true zero.
func probCell(p *float64) any {
	if p == nil {
		return "N/A"
	}
	return *p
}
