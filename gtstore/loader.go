package gtstore

import (
	"fmt"

	"github.com/popgenlab/xpclr"
)

// Loader extracts one chromosome's data for two sample panels from an
// indexed store. It satisfies xpclr.Loader. DistanceKey names the stored
// per-variant field to use as genetic distance; when empty, the dataset
// carries no distances.
type Loader struct {
	Path        string
	Chrom       string
	SamplesA    []string
	SamplesB    []string
	DistanceKey string

	// Store may carry an already-open connection (e.g. an in-memory store);
	// when nil, Path is opened for the duration of Load.
	Store *Store
}

// Load resolves both sample panels before reading any genotype data, so a
// misspelled sample name fails fast, then column-selects the two genotype
// matrices and reads the position index and optional distance field.
func (l Loader) Load() (*xpclr.Dataset, error) {
	store := l.Store
	if store == nil {
		s, err := Open(l.Path)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		store = s
	}

	idxA, err := store.SampleIndices(l.Chrom, l.SamplesA)
	if err != nil {
		return nil, err
	}

	idxB, err := store.SampleIndices(l.Chrom, l.SamplesB)
	if err != nil {
		return nil, err
	}

	positions, err := store.Positions(l.Chrom)
	if err != nil {
		return nil, err
	}

	gtA, err := store.Genotypes(l.Chrom, len(positions), idxA)
	if err != nil {
		return nil, err
	}

	gtB, err := store.Genotypes(l.Chrom, len(positions), idxB)
	if err != nil {
		return nil, err
	}

	ds := &xpclr.Dataset{
		GenotypesA: gtA,
		GenotypesB: gtB,
		Positions:  positions,
	}

	if l.DistanceKey != "" {
		distances, err := store.Field(l.Chrom, l.DistanceKey)
		if err != nil {
			return nil, err
		}
		if len(distances) != len(positions) {
			return nil, fmt.Errorf("gtstore: field %q has %d values for chromosome %s, want %d",
				l.DistanceKey, len(distances), l.Chrom, len(positions))
		}
		ds.Distances = distances
	}

	return ds, nil
}
