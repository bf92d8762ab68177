package mapfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/popgenlab/xpclr"
)

// Loader reads the text-mode inputs: a map file describing the variants and
// two flat genotype files, one per population. It satisfies xpclr.Loader.
type Loader struct {
	MapPath   string
	GenoAPath string
	GenoBPath string
}

// Load builds the dataset. Genetic distances come from the map file's
// Morgans column and are always present in this mode. The genotype files
// are whitespace-separated integer allele calls laid out row-major as
// (variant, sample, allele); each file's sample count is derived from its
// length and the map file's variant count.
func (l Loader) Load() (*xpclr.Dataset, error) {
	rows, err := ReadAll(l.MapPath)
	if err != nil {
		return nil, err
	}

	positions := make([]int, len(rows))
	distances := make([]float64, len(rows))
	for i, row := range rows {
		positions[i] = row.Coordinate
		distances[i] = row.Morgans
	}

	gtA, err := readFlatGenotypes(l.GenoAPath, len(rows))
	if err != nil {
		return nil, err
	}

	gtB, err := readFlatGenotypes(l.GenoBPath, len(rows))
	if err != nil {
		return nil, err
	}

	return &xpclr.Dataset{
		GenotypesA: gtA,
		GenotypesB: gtB,
		Positions:  positions,
		Distances:  distances,
	}, nil
}

// readFlatGenotypes reads a flat allele-call file and reshapes it into
// (nVariants, nSamples, 2). The flat length must divide evenly by
// 2*nVariants or the file cannot describe a rectangular matrix.
func readFlatGenotypes(path string, nVariants int) (xpclr.GenotypeMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)

	flat := make([]int8, 0, 2*nVariants)
	for scanner.Scan() {
		v, err := strconv.ParseInt(scanner.Text(), 10, 8)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}
		flat = append(flat, int8(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	if nVariants == 0 {
		if len(flat) != 0 {
			return nil, pfx.Err(fmt.Errorf("%s: %d allele calls but the map file lists no variants", path, len(flat)))
		}
		return xpclr.GenotypeMatrix{}, nil
	}

	if len(flat)%(2*nVariants) != 0 {
		return nil, pfx.Err(fmt.Errorf("%s: %d allele calls cannot be reshaped to (%d variants, samples, 2)",
			path, len(flat), nVariants))
	}
	nSamples := len(flat) / (2 * nVariants)

	gt := make(xpclr.GenotypeMatrix, nVariants)
	for i := range gt {
		gt[i] = make([]xpclr.Diplotype, nSamples)
		for j := range gt[i] {
			base := 2 * (i*nSamples + j)
			gt[i][j] = xpclr.Diplotype{flat[base], flat[base+1]}
		}
	}

	return gt, nil
}
