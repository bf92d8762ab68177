// Package xpclr holds the shared data model for the XP-CLR selection scan
// pipeline: genotype matrices for two populations, their aligned position
// index, scan windows, and the contract that any scan engine must satisfy.
package xpclr

// MissingAllele marks an uncalled allele in a Diplotype.
const MissingAllele = -1

// Diplotype is one sample's two allele calls at one variant. Allele values
// are 0-based allele-class indexes; MissingAllele marks an uncalled allele.
type Diplotype [2]int8

// Missing reports whether neither allele was called.
func (d Diplotype) Missing() bool {
	return d[0] == MissingAllele && d[1] == MissingAllele
}

// GenotypeMatrix is indexed [variant][sample]. Rows align 1:1 with the
// position index of the Dataset that carries it.
type GenotypeMatrix [][]Diplotype

// NVariants returns the number of variant rows.
func (g GenotypeMatrix) NVariants() int {
	return len(g)
}

// NSamples returns the number of sample columns, or 0 for an empty matrix.
func (g GenotypeMatrix) NSamples() int {
	if len(g) == 0 {
		return 0
	}

	return len(g[0])
}

// Dataset bundles the four aligned arrays the pipeline passes between
// stages. Distances is nil unless a genetic-distance source was configured.
// All non-nil members have equal variant counts.
type Dataset struct {
	GenotypesA GenotypeMatrix
	GenotypesB GenotypeMatrix
	Positions  []int
	Distances  []float64
}

// NVariants returns the number of variants in the dataset.
func (d *Dataset) NVariants() int {
	return len(d.Positions)
}

// Loader produces a Dataset from one of the two supported input sources.
// The store-backed and text-backed loaders both satisfy it; the orchestrator
// picks one at startup and the rest of the pipeline does not care which.
type Loader interface {
	Load() (*Dataset, error)
}
