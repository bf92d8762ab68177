// Package scan provides the default engine behind the xpclr.Scanner
// boundary. The engine owns the window mechanics: selecting which SNPs
// fall inside each nominal window, thinning over-full windows, and
// recording realized window edges. The per-window likelihood evaluation is
// delegated to a Model, so the statistical machinery can be swapped
// without touching the pipeline.
package scan

import (
	"errors"
	"log"
	"math"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/popgenlab/xpclr"
)

var errUnsortedPositions = errors.New("scan: position index is not sorted ascending")

// Model evaluates one window's composite likelihood from the two
// populations' per-SNP alternate-allele frequencies and per-SNP weights.
// It returns the maximized model log-likelihood, the null log-likelihood,
// and the selection-coefficient estimate at the maximum.
type Model interface {
	Likelihood(freqA, freqB, weights []float64, p xpclr.ScanParams) (modelL, nullL, selCoef float64)
}

// Engine implements xpclr.Scanner over any Model.
type Engine struct {
	model Model
}

func New(m Model) *Engine {
	return &Engine{model: m}
}

// Scan produces one WindowStats per window, in window order. Positions must
// be sorted ascending. Windows with fewer than MinSNPs available SNPs yield
// NaN likelihoods; windows with more than MaxSNPs available SNPs are
// thinned deterministically (evenly spaced) down to MaxSNPs.
func (e *Engine) Scan(ds *xpclr.Dataset, windows []xpclr.Window, p xpclr.ScanParams) ([]xpclr.WindowStats, error) {
	if !sort.IntsAreSorted(ds.Positions) {
		return nil, pfx.Err(errUnsortedPositions)
	}

	out := make([]xpclr.WindowStats, 0, len(windows))
	for _, w := range windows {
		out = append(out, e.scanWindow(ds, w, p))
	}

	return out, nil
}

func (e *Engine) scanWindow(ds *xpclr.Dataset, w xpclr.Window, p xpclr.ScanParams) xpclr.WindowStats {
	lo := sort.SearchInts(ds.Positions, w.Start)
	hi := sort.SearchInts(ds.Positions, w.Stop+1)
	avail := hi - lo

	use := thin(lo, hi, p.MaxSNPs)

	if p.Verbose {
		log.Printf("window %d-%d: %d SNPs available, %d used\n", w.Start, w.Stop, avail, len(use))
	}

	stats := xpclr.WindowStats{
		NSNPs:      len(use),
		NSNPsAvail: avail,
		ModelL:     math.NaN(),
		NullL:      math.NaN(),
		SelCoef:    math.NaN(),
		PosStart:   math.NaN(),
		PosStop:    math.NaN(),
	}

	if len(use) == 0 || len(use) < p.MinSNPs {
		return stats
	}

	stats.PosStart = float64(ds.Positions[use[0]])
	stats.PosStop = float64(ds.Positions[use[len(use)-1]])

	freqA := make([]float64, 0, len(use))
	freqB := make([]float64, 0, len(use))
	weights := make([]float64, 0, len(use))
	for _, i := range use {
		freqA = append(freqA, altFrequency(ds.GenotypesA[i]))
		freqB = append(freqB, altFrequency(ds.GenotypesB[i]))
		weights = append(weights, 1)
	}

	stats.ModelL, stats.NullL, stats.SelCoef = e.model.Likelihood(freqA, freqB, weights, p)

	return stats
}

// thin selects up to max indexes from [lo, hi), evenly spaced so the kept
// SNPs still cover the whole window.
func thin(lo, hi, max int) []int {
	n := hi - lo
	if n <= 0 {
		return nil
	}
	if max <= 0 || n <= max {
		use := make([]int, 0, n)
		for i := lo; i < hi; i++ {
			use = append(use, i)
		}
		return use
	}

	use := make([]int, 0, max)
	for k := 0; k < max; k++ {
		use = append(use, lo+k*n/max)
	}

	return use
}

// altFrequency is the frequency of allele class 1 among called alleles at
// one variant, or NaN if every call is missing.
func altFrequency(row []xpclr.Diplotype) float64 {
	called, alt := 0, 0
	for _, d := range row {
		for _, a := range d {
			if a < 0 {
				continue
			}
			called++
			if a == 1 {
				alt++
			}
		}
	}

	if called == 0 {
		return math.NaN()
	}

	return float64(alt) / float64(called)
}
