package ingest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/orders-analytics/constants"
	"github.com/joseph-ayodele/orders-analytics/internal/common"
	"github.com/joseph-ayodele/orders-analytics/internal/entity"
)

// FileReader reads CSV and XLSX files from the local filesystem.
type FileReader struct {
	logger *slog.Logger
}

func NewFileReader(logger *slog.Logger) *FileReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileReader{logger: logger}
}

func (r *FileReader) Read(ctx context.Context, path string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, unreadable(path, err)
	}
	ext := filepath.Ext(abs)
	if !constants.IsAllowedExt(ext) {
		return nil, unreadable(path, fmt.Errorf("unsupported extension %q", ext))
	}
	format := constants.MapExtToFormat(ext)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, unreadable(path, err)
	}
	sum := sha256.Sum256(data)

	var headers []string
	var rows []entity.RawRecord
	switch format {
	case "CSV":
		headers, rows, err = ParseCSV(bytes.NewReader(data))
	case "XLSX":
		headers, rows, err = ParseXLSX(bytes.NewReader(data))
	}
	if err != nil {
		return nil, unreadable(path, err)
	}

	r.logger.Info("source loaded",
		"path", abs, "format", format, "columns", len(headers), "rows", len(rows))
	return &Source{
		Path:    abs,
		Format:  format,
		SHA256:  hex.EncodeToString(sum[:]),
		Headers: headers,
		Rows:    rows,
	}, nil
}

func unreadable(path string, err error) error {
	return common.NewAppError(common.CodeSource, "read "+path,
		fmt.Errorf("%w: %w", common.ErrUnreadableSource, err))
}

var errNoHeader = errors.New("no header row")

// ParseCSV reads a comma-separated file whose first row is the header.
func ParseCSV(in io.Reader) ([]string, []entity.RawRecord, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errNoHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("csv header: %w", err)
	}
	headers := cleanHeaders(head)

	var rows []entity.RawRecord
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csv row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, record(headers, cells))
	}
	return headers, rows, nil
}

// ParseXLSX reads the first sheet of a workbook; its first row is the header.
// Cells are read unformatted. Numeric cells styled with a date number format
// become time.Time values, so a serial is never re-read from its display text.
func ParseXLSX(in io.Reader) ([]string, []entity.RawRecord, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}
	grid, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(grid) == 0 {
		return nil, nil, errNoHeader
	}

	dates := newDateCells(f, sheets[0])
	headers := cleanHeaders(grid[0])
	rows := make([]entity.RawRecord, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		if len(cells) == 0 {
			continue
		}
		rec := record(headers, cells)
		dates.apply(rec, headers, cells, i+2)
		rows = append(rows, rec)
	}
	return headers, rows, nil
}

var (
	reFmtLiteral = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)
	reFmtDate    = regexp.MustCompile(`[dy]`)
)

// dateCells resolves which cells of a sheet hold date serials.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	byStyle  map[int]bool
}

func newDateCells(f *excelize.File, sheet string) *dateCells {
	d := &dateCells{f: f, sheet: sheet, byStyle: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// apply replaces date-formatted serials in rec with their calendar time.
// row is the 1-based sheet row of cells.
func (d *dateCells) apply(rec entity.RawRecord, headers, cells []string, row int) {
	seen := make(map[string]struct{}, len(headers))
	for j, h := range headers {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		if j >= len(cells) || rec[h] == nil {
			continue
		}
		serial, err := strconv.ParseFloat(cells[j], 64)
		if err != nil || !d.isDate(j+1, row) {
			continue
		}
		if t, err := excelize.ExcelDateToTime(serial, d.date1904); err == nil {
			rec[h] = t
		}
	}
}

func (d *dateCells) isDate(col, row int) bool {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	id, err := d.f.GetCellStyle(d.sheet, axis)
	if err != nil {
		return false
	}
	if v, ok := d.byStyle[id]; ok {
		return v
	}
	style, err := d.f.GetStyle(id)
	v := err == nil && isDateFormat(style)
	d.byStyle[id] = v
	return v
}

// isDateFormat reports whether a number format renders a calendar date.
// Time-only and duration formats do not count.
func isDateFormat(s *excelize.Style) bool {
	if s == nil {
		return false
	}
	if s.CustomNumFmt != nil {
		code := reFmtLiteral.ReplaceAllString(*s.CustomNumFmt, "")
		return reFmtDate.MatchString(strings.ToLower(code))
	}
	switch n := s.NumFmt; {
	case n >= 14 && n <= 17, n == 22, n >= 27 && n <= 36, n >= 50 && n <= 58:
		return true
	}
	return false
}

// cleanHeaders trims names, drops a UTF-8 BOM and names blank columns by position.
func cleanHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = "unnamed_" + strconv.Itoa(i)
		}
		out[i] = h
	}
	return out
}
