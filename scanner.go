package xpclr

// ScanParams are the knobs forwarded to the scan engine. The pipeline does
// not interpret them; engines are free to ignore the ones their model does
// not use.
type ScanParams struct {
	// RecombRate is the assumed uniform recombination rate per base pair,
	// used to derive genetic distances when none are supplied.
	RecombRate float64

	// LDCutoff is the r² above which SNP pairs are down-weighted by engines
	// that model linkage disequilibrium.
	LDCutoff float64

	// Phased indicates the genotype data are phased haplotypes.
	Phased bool

	// MinSNPs and MaxSNPs bound how many SNPs a window may use. Windows
	// with fewer than MinSNPs available SNPs yield undefined likelihoods;
	// windows with more than MaxSNPs are thinned down to MaxSNPs.
	MinSNPs int
	MaxSNPs int

	Verbose bool
}

// WindowStats is one window's scan output. PosStart and PosStop are the
// realized genomic span of the SNPs actually used; they and the likelihoods
// are NaN when the window used no SNPs.
type WindowStats struct {
	ModelL  float64
	NullL   float64
	SelCoef float64

	NSNPs      int
	NSNPsAvail int

	PosStart float64
	PosStop  float64
}

// Scanner is the boundary to the statistical engine. Implementations must
// return exactly one WindowStats per input window, in input order, and must
// not mutate the dataset. Non-finite likelihoods are legal outputs and flow
// through to the result table.
type Scanner interface {
	Scan(ds *Dataset, windows []Window, p ScanParams) ([]WindowStats, error)
}
