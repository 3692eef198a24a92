package genome

import (
	"fmt"
	"strconv"
	"strings"
)

// Point addresses a single base by contig name rather than a resolved
// contig handle. It's the query form accepted at the liftover boundary,
// where names are resolved against the chain file's own contig table
type Point struct {
	Contig string
	At     uint64
}

// Region is the half-open interval counterpart of Point
type Region struct {
	Contig string
	Start  uint64
	End    uint64
}

// String renders the point as "chr7:117559590" (0-based)
func (p Point) String() string {
	return fmt.Sprintf("%s:%d", p.Contig, p.At)
}

// String renders the region as "chr7:117559590-117559620" (half-open)
func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Contig, r.Start, r.End)
}

// ParsePoint reads a "contig:at" string with a 0-based coordinate
func ParsePoint(s string) (Point, error) {
	name, at, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return Point{}, fmt.Errorf("invalid position %q, expected contig:at", s)
	}
	n, err := strconv.ParseUint(at, 10, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return Point{Contig: name, At: n}, nil
}

// ParseRegion reads a "contig:start-end" string with 0-based half-open
// coordinates
func ParseRegion(s string) (Region, error) {
	name, coords, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return Region{}, fmt.Errorf("invalid region %q, expected contig:start-end", s)
	}
	rawStart, rawEnd, ok := strings.Cut(coords, "-")
	if !ok {
		return Region{}, fmt.Errorf("invalid region %q, expected contig:start-end", s)
	}
	start, err := strconv.ParseUint(rawStart, 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("invalid region %q: %w", s, err)
	}
	end, err := strconv.ParseUint(rawEnd, 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("invalid region %q: %w", s, err)
	}
	if end < start {
		return Region{}, fmt.Errorf("invalid region %q: end before start", s)
	}
	return Region{Contig: name, Start: start, End: end}, nil
}
