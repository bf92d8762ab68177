// xpclr runs a windowed XP-CLR selection scan over one chromosome: it loads
// genotype data for two populations from either an indexed SQLite store or
// a map file plus flat genotype files, filters the variants, builds the
// scan windows, runs the scan engine, and writes a tab-separated result
// table.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/popgenlab/xpclr"
	"github.com/popgenlab/xpclr/filter"
	"github.com/popgenlab/xpclr/gtstore"
	"github.com/popgenlab/xpclr/mapfile"
	"github.com/popgenlab/xpclr/scan"
	"github.com/popgenlab/xpclr/tabulate"
)

func main() {
	var (
		out      string
		chrom    string
		store    string
		gdistKey string
		samplesA string
		samplesB string
		mapPath  string
		genoA    string
		genoB    string

		ldCutoff float64
		rrate    float64
		phased   bool
		verbose  bool
		maxSNPs  int
		minSNPs  int
		size     int
		start    int
		stop     int
		step     int
	)

	flag.StringVar(&out, "out", "", "Path to the tab-separated output table (required)")
	flag.StringVar(&chrom, "chrom", "", "Chromosome label to analyze (required)")
	flag.StringVar(&store, "store", "", "Path to an indexed genotype store. Mutually exclusive with -map/-popA/-popB.")
	flag.StringVar(&gdistKey, "gdistkey", "", "Name of the store field holding per-variant genetic distances. Only meaningful with -store.")
	flag.StringVar(&samplesA, "samplesA", "", "Comma-separated sample IDs for population A (required with -store)")
	flag.StringVar(&samplesB, "samplesB", "", "Comma-separated sample IDs for population B (required with -store)")
	flag.StringVar(&mapPath, "map", "", "Whitespace-delimited six-column map file: id, chromosome, genetic distance, position, ref, alt")
	flag.StringVar(&genoA, "popA", "", "Flat genotype file for population A (required with -map)")
	flag.StringVar(&genoB, "popB", "", "Flat genotype file for population B (required with -map)")
	flag.Float64Var(&ldCutoff, "ld", 0.95, "r² cutoff above which SNP pairs are down-weighted")
	flag.Float64Var(&rrate, "rrate", 1e-8, "Assumed uniform recombination rate per base pair")
	flag.BoolVar(&phased, "phased", false, "Treat genotype data as phased haplotypes")
	flag.BoolVar(&verbose, "verbose", false, "Log per-window SNP selection")
	flag.IntVar(&maxSNPs, "maxsnps", 200, "Maximum SNPs used per window")
	flag.IntVar(&minSNPs, "minsnps", 10, "Minimum SNPs required per window")
	flag.IntVar(&size, "size", 20000, "Window size in base pairs")
	flag.IntVar(&start, "start", 1, "First window start coordinate")
	flag.IntVar(&stop, "stop", 0, "Scan stop coordinate. Defaults to the last filtered position.")
	flag.IntVar(&step, "step", 20000, "Distance between successive window starts")
	flag.Parse()

	if out == "" || chrom == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide -out and -chrom")
	}

	// Fail before any expensive work if we will not be able to write the
	// result table.
	if err := checkWritable(out); err != nil {
		log.Fatalln(pfx.Err(err))
	}

	loader, err := chooseLoader(store, chrom, samplesA, samplesB, gdistKey, mapPath, genoA, genoB)
	if err != nil {
		flag.PrintDefaults()
		log.Fatalln(err)
	}

	ds, err := loader.Load()
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Loaded", ds.NVariants(), "variants:",
		ds.GenotypesA.NSamples(), "samples in population A,",
		ds.GenotypesB.NSamples(), "samples in population B")

	ds, diag, err := filter.Apply(ds)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Multiallelic variants excluded:", diag.Multiallelic)
	log.Println("All-missing variants excluded:", diag.AllMissing)
	log.Println("Variants fixed or singleton in population B excluded:", diag.NonSegregating)
	log.Println("Variants retained:", diag.Kept, "of", diag.Total)

	if ds.NVariants() == 0 {
		log.Fatalln("No variants remain after filtering")
	}

	if stop == 0 {
		stop = ds.Positions[ds.NVariants()-1]
	}

	windows := xpclr.BuildWindows(start, stop, step, size)
	log.Println("Scanning", len(windows), "windows from", start, "to", stop)

	params := xpclr.ScanParams{
		RecombRate: rrate,
		LDCutoff:   ldCutoff,
		Phased:     phased,
		MinSNPs:    minSNPs,
		MaxSNPs:    maxSNPs,
		Verbose:    verbose,
	}

	var scanner xpclr.Scanner = scan.New(scan.NewDriftModel(ds))
	results, err := scanner.Scan(ds, windows, params)
	if err != nil {
		log.Fatalln(err)
	}

	rows, err := tabulate.Build(chrom, windows, results)
	if err != nil {
		log.Fatalln(err)
	}

	f, err := os.Create(out)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	defer f.Close()

	if err := tabulate.Write(f, rows); err != nil {
		log.Fatalln(err)
	}

	log.Println("Wrote", len(rows), "rows to", out)
}

// chooseLoader picks the loading mode from which inputs were supplied: an
// indexed store path selects store mode, a map file selects text mode.
// Supplying both, or neither, is a configuration error.
func chooseLoader(store, chrom, samplesA, samplesB, gdistKey, mapPath, genoA, genoB string) (xpclr.Loader, error) {
	textMode := mapPath != "" || genoA != "" || genoB != ""

	switch {
	case store != "" && textMode:
		return nil, pfx.Err(errBothModes)
	case store != "":
		if samplesA == "" || samplesB == "" {
			return nil, pfx.Err(errNoSamples)
		}
		return gtstore.Loader{
			Path:        store,
			Chrom:       chrom,
			SamplesA:    splitSamples(samplesA),
			SamplesB:    splitSamples(samplesB),
			DistanceKey: gdistKey,
		}, nil
	case textMode:
		if mapPath == "" || genoA == "" || genoB == "" {
			return nil, pfx.Err(errPartialText)
		}
		return mapfile.Loader{
			MapPath:   mapPath,
			GenoAPath: genoA,
			GenoBPath: genoB,
		}, nil
	}

	return nil, pfx.Err(errNoMode)
}

func splitSamples(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}

	return out
}

// checkWritable probes the output directory by creating and removing a
// temporary file, so an unwritable destination fails before any data is
// loaded and no partial output is left behind.
func checkWritable(out string) error {
	f, err := os.CreateTemp(filepath.Dir(out), ".xpclr-write-probe-*")
	if err != nil {
		return err
	}
	f.Close()

	return os.Remove(f.Name())
}
