// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/csv"
	"io"

	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

// csvHeader is the fixed column order for CSV export.
var csvHeader = []string{"Title", "Authors", "PublicationDate", "Publication", "Abstract", "DOI", "Url"}

// WriteCSV writes ranked results as CSV to w, one row per rank. Export is
// a pure function of the result list.
func WriteCSV(results []types.RankedResult, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Record.Title,
			r.Record.Authors,
			r.Record.Date,
			r.Record.Venue,
			r.Record.Abstract,
			r.Record.DOI,
			r.Record.FulltextURL,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
