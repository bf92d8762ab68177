package xpclr_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/popgenlab/xpclr"
	"github.com/popgenlab/xpclr/filter"
	"github.com/popgenlab/xpclr/mapfile"
	"github.com/popgenlab/xpclr/tabulate"
)

// fixedScanner returns the same likelihoods for every window, standing in
// for an external statistical engine.
type fixedScanner struct {
	modelL, nullL float64
}

func (s fixedScanner) Scan(ds *xpclr.Dataset, windows []xpclr.Window, p xpclr.ScanParams) ([]xpclr.WindowStats, error) {
	out := make([]xpclr.WindowStats, 0, len(windows))
	for range windows {
		out = append(out, xpclr.WindowStats{
			ModelL: s.modelL,
			NullL:  s.nullL,
			NSNPs:  ds.NVariants(), NSNPsAvail: ds.NVariants(),
			PosStart: float64(ds.Positions[0]),
			PosStop:  float64(ds.Positions[ds.NVariants()-1]),
		})
	}

	return out, nil
}

// Three biallelic, fully called variants on chromosome 1, one window
// covering all of them, and an engine pinned to modelL=-10/nullL=-12.
func TestPipelineSingleWindow(t *testing.T) {
	dir := t.TempDir()

	mapPath := filepath.Join(dir, "test.map")
	if err := os.WriteFile(mapPath, []byte(
		"rs1 1 0.0001 100 A G\nrs2 1 0.0050 5000 C T\nrs3 1 0.0200 19999 G A\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	genoA := filepath.Join(dir, "popA.geno")
	if err := os.WriteFile(genoA, []byte("0 1 0 0\n0 0 0 1\n1 1 0 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	genoB := filepath.Join(dir, "popB.geno")
	if err := os.WriteFile(genoB, []byte("0 1 0 1\n0 1 0 1\n0 1 0 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var loader xpclr.Loader = mapfile.Loader{MapPath: mapPath, GenoAPath: genoA, GenoBPath: genoB}
	ds, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	ds, diag, err := filter.Apply(ds)
	if err != nil {
		t.Fatal(err)
	}
	if diag.Kept != 3 {
		t.Fatalf("all 3 variants should pass filtering, kept %d (%+v)", diag.Kept, diag)
	}

	stop := ds.Positions[ds.NVariants()-1]
	windows := xpclr.BuildWindows(1, stop, 20000, 20000)
	if len(windows) != 1 || windows[0] != (xpclr.Window{Start: 1, Stop: 20000}) {
		t.Fatalf("expected exactly one window (1, 20000), got %v", windows)
	}

	var scanner xpclr.Scanner = fixedScanner{modelL: -10, nullL: -12}
	results, err := scanner.Scan(ds, windows, xpclr.ScanParams{MinSNPs: 1, MaxSNPs: 200})
	if err != nil {
		t.Fatal(err)
	}

	rows, err := tabulate.Build("1", windows, results)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}

	row := rows[0]
	if row.ID != "1_00000001_00020000" {
		t.Errorf("unexpected id %q", row.ID)
	}
	if row.XPCLR != 4 {
		t.Errorf("expected xpclr 4, got %v", row.XPCLR)
	}
	if !math.IsNaN(row.XPCLRNorm) {
		t.Errorf("a single window has zero variance; expected NaN norm, got %v", row.XPCLRNorm)
	}
	if row.NSNPs != 3 || row.NSNPsAvail != 3 {
		t.Errorf("expected 3 SNPs used and available, got %+v", row)
	}
}
