// Package mapfile loads genotype data from a whitespace-delimited variant
// map file plus two flat genotype files, one per population.
package mapfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// Map columns in the map file to their positions
const (
	VariantID int = iota
	Chromosome
	Morgans
	Coordinate
	Allele1
	Allele2
)

type Row struct {
	VariantID  string
	Chromosome string
	Morgans    float64 // Genetic distance
	Coordinate int     // Labeled "position" by most applications
	Allele1    string  // Can contain > 1 character
	Allele2    string  // Can contain > 1 character
}

type MapFile struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	err     error
}

func Open(path string) (*MapFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return &MapFile{
		path:    path,
		file:    file,
		scanner: bufio.NewScanner(file),
	}, nil
}

func (m *MapFile) Close() error {
	return m.file.Close()
}

func (m *MapFile) Err() error {
	if m.err != nil {
		return m.err
	}

	return m.scanner.Err()
}

// Read returns the next variant row, or nil at end of input or on error
// (check Err). Columns are split on any run of whitespace.
func (m *MapFile) Read() *Row {
	if !m.scanner.Scan() {
		return nil
	}

	cols := strings.Fields(m.scanner.Text())
	if len(cols) < Allele2+1 {
		m.err = fmt.Errorf("mapfile: %s: expected %d columns, got %d", m.path, Allele2+1, len(cols))
		return nil
	}

	row := &Row{
		VariantID:  cols[VariantID],
		Chromosome: cols[Chromosome],
		Allele1:    cols[Allele1],
		Allele2:    cols[Allele2],
	}

	morgans, err := strconv.ParseFloat(cols[Morgans], 64)
	if err != nil {
		m.err = pfx.Err(err)
		return nil
	}
	row.Morgans = morgans

	coord, err := strconv.Atoi(cols[Coordinate])
	if err != nil {
		m.err = pfx.Err(err)
		return nil
	}
	row.Coordinate = coord

	return row
}

// ReadAll reads every variant row from path. Rows are returned in file
// order; positions are assumed pre-sorted by the caller and are not
// re-sorted here.
func ReadAll(path string) ([]Row, error) {
	m, err := Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer m.Close()

	rows := make([]Row, 0)
	for {
		row := m.Read()
		if row == nil {
			break
		}
		rows = append(rows, *row)
	}
	if err := m.Err(); err != nil {
		return nil, err
	}

	return rows, nil
}
