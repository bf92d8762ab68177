// Package tabulate assembles per-window scan output into the final result
// table: one row per window in window order, the likelihood-ratio statistic
// and its chromosome-wide normalization, and stable window identifiers.
package tabulate

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"github.com/popgenlab/xpclr"
)

// Row is one output record. Column order here is the file column order.
type Row struct {
	ID         string  `csv:"id"`
	Chrom      string  `csv:"chrom"`
	Start      int     `csv:"start"`
	Stop       int     `csv:"stop"`
	PosStart   float64 `csv:"pos_start"`
	PosStop    float64 `csv:"pos_stop"`
	ModelL     float64 `csv:"modelL"`
	NullL      float64 `csv:"nullL"`
	SelCoef    float64 `csv:"sel_coef"`
	NSNPs      int     `csv:"nSNPs"`
	NSNPsAvail int     `csv:"nSNPs_avail"`
	XPCLR      float64 `csv:"xpclr"`
	XPCLRNorm  float64 `csv:"xpclr_norm"`
}

// Build combines windows and their scan output into result rows, derives
// xpclr = 2*(modelL-nullL) per row and xpclr_norm as a chromosome-wide
// z-score, and assigns "{chrom}_{start:08d}_{stop:08d}" identifiers from
// the nominal bounds. Row order is the window order.
func Build(chrom string, windows []xpclr.Window, results []xpclr.WindowStats) ([]Row, error) {
	if len(windows) != len(results) {
		return nil, pfx.Err(fmt.Errorf("tabulate: %d windows but %d scan results", len(windows), len(results)))
	}

	rows := make([]Row, len(windows))
	raw := make([]float64, len(windows))
	for i, w := range windows {
		r := results[i]
		raw[i] = 2 * (r.ModelL - r.NullL)

		rows[i] = Row{
			ID:         fmt.Sprintf("%s_%08d_%08d", chrom, w.Start, w.Stop),
			Chrom:      chrom,
			Start:      w.Start,
			Stop:       w.Stop,
			PosStart:   r.PosStart,
			PosStop:    r.PosStop,
			ModelL:     r.ModelL,
			NullL:      r.NullL,
			SelCoef:    r.SelCoef,
			NSNPs:      r.NSNPs,
			NSNPsAvail: r.NSNPsAvail,
			XPCLR:      raw[i],
		}
	}

	norm := Normalize(raw)
	for i := range rows {
		rows[i].XPCLRNorm = norm[i]
	}

	return rows, nil
}

// Normalize z-scores xs against its own NaN-stripped mean and population
// standard deviation, computed once over the whole slice. NaN inputs stay
// NaN. When the finite values have zero variance (including the
// single-window case) every output is NaN: there is no meaningful scale to
// normalize against.
func Normalize(xs []float64) []float64 {
	finite := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			finite = append(finite, x)
		}
	}

	out := make([]float64, len(xs))
	for i := range out {
		out[i] = math.NaN()
	}

	if len(finite) == 0 {
		return out
	}

	mean, err := stats.Mean(finite)
	if err != nil {
		return out
	}
	sd, err := stats.StandardDeviationPopulation(finite)
	if err != nil || sd == 0 {
		return out
	}

	for i, x := range xs {
		if !math.IsNaN(x) {
			out[i] = (x - mean) / sd
		}
	}

	return out
}

// Write emits the rows as a tab-separated table with a header row and no
// index column.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return pfx.Err(err)
	}

	return nil
}
