package gtstore

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

const testSchema = `
CREATE TABLE samples  (chrom TEXT, idx INTEGER, name TEXT);
CREATE TABLE variants (chrom TEXT, idx INTEGER, pos INTEGER);
CREATE TABLE calls    (chrom TEXT, variant INTEGER, sample INTEGER, a0 INTEGER, a1 INTEGER);
CREATE TABLE fields   (chrom TEXT, name TEXT, variant INTEGER, value REAL);
`

// openTestStore builds an in-memory store with two variants and three
// samples on chromosome 1.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.MustExec(testSchema)

	for idx, name := range []string{"NA001", "NA002", "NA003"} {
		db.MustExec("INSERT INTO samples VALUES ('1', ?, ?)", idx, name)
	}
	for idx, pos := range []int{100, 5000} {
		db.MustExec("INSERT INTO variants VALUES ('1', ?, ?)", idx, pos)
	}

	for _, c := range []struct {
		variant, sample, a0, a1 int
	}{
		{0, 0, 0, 0}, {0, 1, 0, 1}, {0, 2, 1, 1},
		{1, 0, 0, 1}, {1, 1, 0, 0}, {1, 2, 0, 1},
	} {
		db.MustExec("INSERT INTO calls VALUES ('1', ?, ?, ?, ?)", c.variant, c.sample, c.a0, c.a1)
	}

	for idx, v := range []float64{0.0001, 0.005} {
		db.MustExec("INSERT INTO fields VALUES ('1', 'gdist', ?, ?)", idx, v)
	}

	return OpenDB(db)
}

func TestSampleIndices(t *testing.T) {
	s := openTestStore(t)

	indices, err := s.SampleIndices("1", []string{"NA003", "NA001"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, indices, "indices should follow the requested order")
}

func TestSampleIndicesMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.SampleIndices("1", []string{"NA001", "NA999"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NA999", "the error should name the missing sample")
}

func TestPositions(t *testing.T) {
	s := openTestStore(t)

	positions, err := s.Positions("1")
	require.NoError(t, err)
	assert.Equal(t, []int{100, 5000}, positions)
}

func TestFieldUnknown(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Field("1", "nosuchfield")
	require.Error(t, err)
}

func TestLoaderLoad(t *testing.T) {
	s := openTestStore(t)

	loader := Loader{Store: s, Chrom: "1", SamplesA: []string{"NA001", "NA002"}, SamplesB: []string{"NA003"}, DistanceKey: "gdist"}

	ds, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 2, ds.NVariants())
	assert.Equal(t, 2, ds.GenotypesA.NSamples())
	assert.Equal(t, 1, ds.GenotypesB.NSamples())
	assert.Equal(t, []int{100, 5000}, ds.Positions)
	assert.Equal(t, []float64{0.0001, 0.005}, ds.Distances)

	// Column selection: population B is NA003's column.
	assert.EqualValues(t, 1, ds.GenotypesB[0][0][0])
	assert.EqualValues(t, 1, ds.GenotypesB[0][0][1])
	assert.EqualValues(t, 0, ds.GenotypesB[1][0][0])
}

func TestLoaderNoDistanceKey(t *testing.T) {
	s := openTestStore(t)

	loader := Loader{Store: s, Chrom: "1", SamplesA: []string{"NA001"}, SamplesB: []string{"NA002"}}

	ds, err := loader.Load()
	require.NoError(t, err)
	assert.Nil(t, ds.Distances, "distances should be absent without a distance key")
}

func TestLoaderMismatchedFieldLength(t *testing.T) {
	s := openTestStore(t)

	// A field with more values than the chromosome has variants cannot be
	// aligned to the position index.
	s.db.MustExec("INSERT INTO fields VALUES ('1', 'gdist', 2, 0.02)")

	loader := Loader{Store: s, Chrom: "1", SamplesA: []string{"NA001"}, SamplesB: []string{"NA002"}, DistanceKey: "gdist"}

	_, err := loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gdist")
}

func TestLoaderMissingSampleFailsBeforeGenotypes(t *testing.T) {
	s := openTestStore(t)

	loader := Loader{Store: s, Chrom: "1", SamplesA: []string{"NA001"}, SamplesB: []string{"NA404"}}

	_, err := loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NA404")
}
