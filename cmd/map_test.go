package cmd

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/genomelift/genomelift/internal/genome"
	"github.com/genomelift/genomelift/internal/liftover"
)

func Test_isRegionArg(t *testing.T) {
	tests := []struct {
		arg  string
		want bool
	}{
		{"chr7:117559590", false},
		{"chr7:117559590-117559620", true},
		{"chr7", false},
		{"chr7:100-200", true},
	}
	for _, tt := range tests {
		if got := isRegionArg(tt.arg); got != tt.want {
			t.Errorf("isRegionArg(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}

func testMapper(t *testing.T) mapper {
	t.Helper()

	lift, err := liftover.Read(strings.NewReader(
		"chain 100 chr1 20 + 0 10 chrA 200 + 100 108 1\n5\t2\t0\n3\n"))
	if err != nil {
		t.Fatal(err)
	}
	return lift.Indexed()
}

func Test_printPositions(t *testing.T) {
	m := testMapper(t)
	var buf bytes.Buffer
	out := bufio.NewWriter(&buf)

	printPositions(out, "chr1:4", m.MapPoint(genome.Fwd(genome.Point{Contig: "chr1", At: 4})))
	printPositions(out, "chr1:5", m.MapPoint(genome.Fwd(genome.Point{Contig: "chr1", At: 5})))
	out.Flush()

	want := "chr1:4\tchrA:104\t+\nchr1:5\t-\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func Test_mapBed(t *testing.T) {
	m := testMapper(t)

	path := filepath.Join(t.TempDir(), "regions.bed")
	bed := "track name=test\n# comment\nchr1\t3\t9\n"
	if err := os.WriteFile(path, []byte(bed), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	out := bufio.NewWriter(&buf)
	if err := mapBed(out, m, path); err != nil {
		t.Fatal(err)
	}
	out.Flush()

	want := "chrA\t103\t105\tchr1:3-9\t0\t+\nchrA\t105\t107\tchr1:3-9\t0\t+\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	if err := mapBed(out, m, filepath.Join(t.TempDir(), "missing.bed")); err == nil {
		t.Error("missing file must error")
	}
}
