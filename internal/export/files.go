package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/orders-analytics/internal/entity"
)

// Output layout under the run's output directory.
const (
	QADir          = "qa"
	EDADir         = "eda"
	QASummaryFile  = "cleaning_summary.csv"
	InsightsFile   = "insights.txt"
	CleanedCSVFile = "orders_cleaned.csv"
	ExtractsFile   = "extracts.xlsx"
)

// DirSink writes a batch's file artifacts into one directory.
type DirSink struct {
	dir        string
	exportCSV  bool
	exportXLSX bool
	svc        *Service
	logger     *slog.Logger
}

func NewDirSink(dir string, exportCSV, exportXLSX bool, svc *Service, logger *slog.Logger) *DirSink {
	if logger == nil {
		logger = slog.Default()
	}
	if svc == nil {
		svc = NewService(logger)
	}
	return &DirSink{dir: dir, exportCSV: exportCSV, exportXLSX: exportXLSX, svc: svc, logger: logger}
}

// Write emits the QA summary, the EDA extracts with insights and, when
// enabled, the cleaned table CSV and the extracts workbook.
func (d *DirSink) Write(ctx context.Context, b *entity.Batch) error {
	for _, sub := range []string{QADir, EDADir} {
		if err := os.MkdirAll(filepath.Join(d.dir, sub), 0o755); err != nil {
			return fmt.Errorf("create %s dir: %w", sub, err)
		}
	}

	var written []string
	write := func(rel string, fn func(io.Writer) error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(d.dir, rel)
		if err := writeFile(path, fn); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	}

	if err := write(filepath.Join(QADir, QASummaryFile), func(w io.Writer) error {
		return WriteQACSV(w, b.QA)
	}); err != nil {
		return err
	}

	for _, e := range b.Extracts {
		if err := write(filepath.Join(EDADir, e.Name+".csv"), func(w io.Writer) error {
			return WriteCSV(w, e.Columns, e.Rows)
		}); err != nil {
			return err
		}
	}

	if err := write(filepath.Join(EDADir, InsightsFile), func(w io.Writer) error {
		_, err := io.WriteString(w, strings.Join(b.Insights, "\n")+"\n")
		return err
	}); err != nil {
		return err
	}

	if d.exportCSV {
		if err := write(CleanedCSVFile, func(w io.Writer) error {
			return WriteTableCSV(w, b.Table)
		}); err != nil {
			return err
		}
	}

	if d.exportXLSX {
		data, err := d.svc.ExtractsXLSX(b.Extracts, b.QA)
		if err != nil {
			return err
		}
		if err := write(ExtractsFile, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}); err != nil {
			return err
		}
	}

	d.logger.Info("export.files.ok", "dir", d.dir, "files", len(written))
	return nil
}

// writeFile writes through a temp file so a failed write leaves no partial file.
func writeFile(path string, fn func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := fn(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes a header row followed by rows.
func WriteCSV(w io.Writer, columns []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteTableCSV writes the canonical table in CanonicalColumns order.
func WriteTableCSV(w io.Writer, t *entity.CanonicalTable) error {
	rows := make([][]string, 0, t.Len())
	for _, r := range t.Records() {
		rows = append(rows, r.Strings())
	}
	return WriteCSV(w, entity.CanonicalColumns, rows)
}

// WriteQACSV writes the QA report as metric,value rows.
func WriteQACSV(w io.Writer, qa *entity.QAReport) error {
	metrics := qa.Metrics()
	rows := make([][]string, len(metrics))
	for i, m := range metrics {
		rows[i] = []string{m.Name, m.Value}
	}
	return WriteCSV(w, []string{"metric", "value"}, rows)
}
