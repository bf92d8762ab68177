// Package gtstore reads genotype data from an indexed SQLite store keyed by
// chromosome. The store holds, per chromosome, an ordered sample list, an
// ordered variant/position list, the allele calls, and optional named
// per-variant auxiliary arrays (e.g. genetic distance):
//
//	samples  (chrom TEXT, idx INTEGER, name TEXT)
//	variants (chrom TEXT, idx INTEGER, pos INTEGER)
//	calls    (chrom TEXT, variant INTEGER, sample INTEGER, a0 INTEGER, a1 INTEGER)
//	fields   (chrom TEXT, name TEXT, variant INTEGER, value REAL)
//
// Stores are opened read-only and never mutated.
package gtstore

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
	"github.com/popgenlab/xpclr"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sqlx.DB
}

// Open opens the store at path in read-only mode.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &Store{db: db}, nil
}

// OpenDB wraps an existing connection, e.g. an in-memory store in tests.
func OpenDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

type sampleRow struct {
	Idx  int    `db:"idx"`
	Name string `db:"name"`
}

// SampleIndices resolves sample identifiers to their column indexes within
// chrom's stored sample list, in the order requested. A name absent from
// the store is an error naming the missing sample.
func (s *Store) SampleIndices(chrom string, names []string) ([]int, error) {
	stored := []sampleRow{}
	if err := s.db.Select(&stored, "SELECT idx, name FROM samples WHERE chrom = ? ORDER BY idx", chrom); err != nil {
		return nil, pfx.Err(err)
	}

	lookup := make(map[string]int, len(stored))
	for _, row := range stored {
		lookup[row.Name] = row.Idx
	}

	indices := make([]int, 0, len(names))
	for _, name := range names {
		idx, ok := lookup[name]
		if !ok {
			return nil, fmt.Errorf("gtstore: sample %q not found among the %d samples stored for chromosome %s",
				name, len(stored), chrom)
		}
		indices = append(indices, idx)
	}

	return indices, nil
}

// Positions returns chrom's variant positions in store order.
func (s *Store) Positions(chrom string) ([]int, error) {
	positions := []int{}
	if err := s.db.Select(&positions, "SELECT pos FROM variants WHERE chrom = ? ORDER BY idx", chrom); err != nil {
		return nil, pfx.Err(err)
	}

	return positions, nil
}

type callRow struct {
	A0 int8 `db:"a0"`
	A1 int8 `db:"a1"`
}

// Genotypes column-selects the calls for the given sample indexes, in the
// given order, producing a (variants, len(samples)) matrix.
func (s *Store) Genotypes(chrom string, nVariants int, samples []int) (xpclr.GenotypeMatrix, error) {
	gt := make(xpclr.GenotypeMatrix, nVariants)
	for i := range gt {
		gt[i] = make([]xpclr.Diplotype, len(samples))
	}

	for col, sample := range samples {
		calls := []callRow{}
		err := s.db.Select(&calls, "SELECT a0, a1 FROM calls WHERE chrom = ? AND sample = ? ORDER BY variant", chrom, sample)
		if err != nil {
			return nil, pfx.Err(err)
		}
		if len(calls) != nVariants {
			return nil, pfx.Err(fmt.Errorf("gtstore: sample column %d has %d calls for chromosome %s, want %d",
				sample, len(calls), chrom, nVariants))
		}

		for i, c := range calls {
			gt[i][col] = xpclr.Diplotype{c.A0, c.A1}
		}
	}

	return gt, nil
}

// Field returns the named per-variant auxiliary array for chrom, in store
// order. An unknown field name yields an error, not an empty array.
func (s *Store) Field(chrom, name string) ([]float64, error) {
	values := []float64{}
	err := s.db.Select(&values, "SELECT value FROM fields WHERE chrom = ? AND name = ? ORDER BY variant", chrom, name)
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("gtstore: no field %q stored for chromosome %s", name, chrom)
	}

	return values, nil
}
