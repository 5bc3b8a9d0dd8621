// Package ingest reads tabular order exports into raw records.
package ingest

import (
	"context"

	"github.com/joseph-ayodele/orders-analytics/internal/entity"
)

// Source is a fully loaded input file.
type Source struct {
	Path    string
	Format  string // one of constants.FileTypes
	SHA256  string
	Headers []string
	Rows    []entity.RawRecord
}

// Reader loads an input source. Any error it returns is batch-fatal and
// wraps common.ErrUnreadableSource.
type Reader interface {
	Read(ctx context.Context, path string) (*Source, error)
}

// naTokens are cell values read as missing.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNA reports whether a cell's text is a null token.
func IsNA(s string) bool {
	_, ok := naTokens[s]
	return ok
}

// record builds a RawRecord from one row of cells. Short rows are padded
// with missing values and extra cells are ignored.
func record(headers, cells []string) entity.RawRecord {
	rec := make(entity.RawRecord, len(headers))
	for i, h := range headers {
		if _, dup := rec[h]; dup {
			continue
		}
		if i >= len(cells) || IsNA(cells[i]) {
			rec[h] = nil
			continue
		}
		rec[h] = cells[i]
	}
	return rec
}
