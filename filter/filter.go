// Package filter computes per-variant inclusion masks from allele-count
// diagnostics and compresses the pipeline's aligned arrays by them.
//
// A variant is kept iff it is not multiallelic in either population, not
// all-missing in either population, and segregating (and not a singleton)
// in population B.
package filter

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/popgenlab/xpclr"
)

// NClasses is the number of allele classes tracked per variant. Alleles
// coded beyond class 3 are folded into the last class, which still marks
// the variant multiallelic.
const NClasses = 4

// CountTable holds per-variant allele-class counts for one population.
type CountTable [][NClasses]int

// Diagnostics reports how many variants each predicate removed. Each
// category is counted against variants not already excluded by an
// earlier-listed category, so the categories sum with Kept to Total.
type Diagnostics struct {
	Total          int
	Multiallelic   int
	AllMissing     int
	NonSegregating int
	Kept           int
}

// AlleleCounts tabulates allele-class counts per variant. Missing calls
// (negative allele codes) are not counted.
func AlleleCounts(g xpclr.GenotypeMatrix) CountTable {
	counts := make(CountTable, len(g))

	for i, row := range g {
		for _, d := range row {
			for _, a := range d {
				if a < 0 {
					continue
				}
				c := int(a)
				if c >= NClasses {
					c = NClasses - 1
				}
				counts[i][c]++
			}
		}
	}

	return counts
}

// Mask derives the inclusion mask from the two populations' count tables,
// along with the exclusion diagnostics. The mask is the negation of
// (multiallelic OR all-missing OR non-segregating/singleton-in-B).
func Mask(countsA, countsB CountTable) ([]bool, Diagnostics) {
	diag := Diagnostics{Total: len(countsA)}
	keep := make([]bool, len(countsA))

	for i := range countsA {
		multi := multiallelic(countsA[i]) || multiallelic(countsB[i])
		missing := total(countsA[i]) == 0 || total(countsB[i]) == 0
		nonseg := !segregating(countsB[i]) || singleton(countsB[i])

		switch {
		case multi:
			diag.Multiallelic++
		case missing:
			diag.AllMissing++
		case nonseg:
			diag.NonSegregating++
		default:
			keep[i] = true
			diag.Kept++
		}
	}

	return keep, diag
}

// Apply filters the dataset: it computes both populations' allele counts,
// derives the inclusion mask, and compresses all aligned arrays by it,
// preserving relative order.
func Apply(ds *xpclr.Dataset) (*xpclr.Dataset, Diagnostics, error) {
	countsA := AlleleCounts(ds.GenotypesA)
	countsB := AlleleCounts(ds.GenotypesB)

	if len(countsA) != len(countsB) || len(countsA) != len(ds.Positions) {
		return nil, Diagnostics{}, pfx.Err(fmt.Errorf("pre-filter misalignment: popA %d rows, popB %d rows, %d positions",
			len(countsA), len(countsB), len(ds.Positions)))
	}
	if ds.Distances != nil && len(ds.Distances) != len(ds.Positions) {
		return nil, Diagnostics{}, pfx.Err(fmt.Errorf("pre-filter misalignment: %d distances, %d positions",
			len(ds.Distances), len(ds.Positions)))
	}

	keep, diag := Mask(countsA, countsB)

	out := &xpclr.Dataset{
		GenotypesA: compressGenotypes(ds.GenotypesA, keep),
		GenotypesB: compressGenotypes(ds.GenotypesB, keep),
		Positions:  compressInts(ds.Positions, keep),
	}
	if ds.Distances != nil {
		out.Distances = compressFloats(ds.Distances, keep)
	}

	if err := checkAligned(out); err != nil {
		return nil, diag, err
	}

	return out, diag, nil
}

// checkAligned enforces the post-filter invariant that every retained array
// has the same number of rows. A failure here is an internal bug, not bad
// input.
func checkAligned(ds *xpclr.Dataset) error {
	n := ds.NVariants()
	if ds.GenotypesA.NVariants() != n || ds.GenotypesB.NVariants() != n {
		return pfx.Err(fmt.Errorf("post-filter misalignment: popA %d rows, popB %d rows, %d positions",
			ds.GenotypesA.NVariants(), ds.GenotypesB.NVariants(), n))
	}
	if ds.Distances != nil && len(ds.Distances) != n {
		return pfx.Err(fmt.Errorf("post-filter misalignment: %d distances, %d positions", len(ds.Distances), n))
	}

	return nil
}

func multiallelic(c [NClasses]int) bool {
	for _, n := range c[2:] {
		if n > 0 {
			return true
		}
	}

	return false
}

func total(c [NClasses]int) int {
	t := 0
	for _, n := range c {
		t += n
	}

	return t
}

// segregating reports whether more than one allele class is observed.
func segregating(c [NClasses]int) bool {
	observed := 0
	for _, n := range c {
		if n > 0 {
			observed++
		}
	}

	return observed > 1
}

// singleton reports whether either of the first two allele classes is
// observed exactly once.
func singleton(c [NClasses]int) bool {
	return c[0] == 1 || c[1] == 1
}

func compressGenotypes(g xpclr.GenotypeMatrix, keep []bool) xpclr.GenotypeMatrix {
	out := make(xpclr.GenotypeMatrix, 0, len(g))
	for i, row := range g {
		if keep[i] {
			out = append(out, row)
		}
	}

	return out
}

func compressInts(xs []int, keep []bool) []int {
	out := make([]int, 0, len(xs))
	for i, x := range xs {
		if keep[i] {
			out = append(out, x)
		}
	}

	return out
}

func compressFloats(xs []float64, keep []bool) []float64 {
	out := make([]float64, 0, len(xs))
	for i, x := range xs {
		if keep[i] {
			out = append(out, x)
		}
	}

	return out
}
