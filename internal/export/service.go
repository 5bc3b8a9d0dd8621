package export

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/orders-analytics/internal/entity"
)

// Service renders extracts into an XLSX workbook.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// numericColumns are written as numbers rather than text.
var numericColumns = map[string]bool{"count": true, "revenue": true, "avg": true}

// QASheet is the name of the sheet holding the QA summary.
const QASheet = "qa_summary"

// ExtractsXLSX returns a workbook with one sheet per extract followed by a
// QA sheet. Sheet names are the extract names.
func (s *Service) ExtractsXLSX(extracts []entity.Extract, qa *entity.QAReport) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const defaultSheet = "Sheet1"
	for i, e := range extracts {
		sheet := truncate(e.Name, 31)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, e.Columns, e.Rows); err != nil {
			return nil, err
		}
	}

	if qa != nil {
		rows := make([][]string, 0, 16)
		for _, m := range qa.Metrics() {
			rows = append(rows, []string{m.Name, m.Value})
		}
		if len(extracts) == 0 {
			if err := f.SetSheetName(defaultSheet, QASheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(QASheet); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", QASheet, err)
		}
		if err := writeSheet(f, QASheet, []string{"metric", "value"}, rows); err != nil {
			return nil, err
		}
		_ = f.SetColWidth(QASheet, "A", "A", 34)
		_ = f.SetColWidth(QASheet, "B", "B", 80)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"sheets", len(f.GetSheetList()),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows [][]string) error {
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for r, row := range rows {
		vals := make([]any, len(row))
		for i, v := range row {
			vals[i] = v
			if i < len(columns) && numericColumns[columns[i]] {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					vals[i] = n
				}
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, r+2, err)
		}
	}

	if len(columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(columns))
		_ = f.SetColWidth(sheet, "A", last, 18)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
