package scan

import (
	"math"

	"github.com/popgenlab/xpclr"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// floor on per-SNP drift variance so fixed reference-population sites do
// not produce degenerate densities
const varianceFloor = 1e-4

// selGrid is the selection-coefficient grid searched by DriftModel. It
// starts at 0 so the model likelihood can never fall below the null.
var selGrid = func() []float64 {
	grid := make([]float64, 0, 51)
	for s := 0.0; s <= 0.5001; s += 0.01 {
		grid = append(grid, s)
	}
	return grid
}()

// DriftModel is a reference likelihood: population B's allele frequency at
// each SNP is treated as Gaussian around population A's, with variance
// omega*p(1-p) under neutral drift. The alternative shifts the mean toward
// fixation by s*p*(1-p) and maximizes over the selection grid. It is a
// deliberately small stand-in for a full LD-weighted composite likelihood;
// anything implementing Model can replace it.
type DriftModel struct {
	// Omega is the genome-wide drift variance scale relating the two
	// populations.
	Omega float64
}

// NewDriftModel estimates Omega from the squared standardized frequency
// differences across every variant of the (already filtered) dataset.
func NewDriftModel(ds *xpclr.Dataset) *DriftModel {
	diffs := make([]float64, 0, ds.NVariants())
	for i := range ds.Positions {
		pA := altFrequency(ds.GenotypesA[i])
		pB := altFrequency(ds.GenotypesB[i])
		if math.IsNaN(pA) || math.IsNaN(pB) {
			continue
		}
		d := (pB - pA) * (pB - pA) / (pA*(1-pA) + varianceFloor)
		diffs = append(diffs, d)
	}

	omega := varianceFloor
	if len(diffs) > 0 {
		if m := stat.Mean(diffs, nil); m > omega {
			omega = m
		}
	}

	return &DriftModel{Omega: omega}
}

func (m *DriftModel) Likelihood(freqA, freqB, weights []float64, p xpclr.ScanParams) (modelL, nullL, selCoef float64) {
	nullL = m.logLikelihood(freqA, freqB, weights, 0)

	modelL = nullL
	selCoef = 0
	for _, s := range selGrid[1:] {
		if ll := m.logLikelihood(freqA, freqB, weights, s); ll > modelL {
			modelL = ll
			selCoef = s
		}
	}

	return modelL, nullL, selCoef
}

// logLikelihood is the weighted sum of per-SNP Gaussian log-densities of
// population B's frequency given population A's, with the mean displaced
// toward fixation under selection coefficient s.
func (m *DriftModel) logLikelihood(freqA, freqB, weights []float64, s float64) float64 {
	ll := 0.0
	for i := range freqA {
		pA, pB := freqA[i], freqB[i]
		if math.IsNaN(pA) || math.IsNaN(pB) {
			continue
		}

		mu := pA + s*pA*(1-pA)
		if mu > 1 {
			mu = 1
		}
		sigma := math.Sqrt(m.Omega*pA*(1-pA) + varianceFloor)

		dist := distuv.Normal{Mu: mu, Sigma: sigma}
		ll += weights[i] * dist.LogProb(pB)
	}

	return ll
}
