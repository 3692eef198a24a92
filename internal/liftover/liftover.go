package liftover

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/genomelift/genomelift/internal/genome"
)

// Liftover is the ordered collection of chains read from one chain
// file, plus a table resolving contig names to the canonical source
// contig handles the chains were built with. It is immutable once
// constructed, so a single instance can serve concurrent queries
// without locking
type Liftover[From, To genome.Contig] struct {
	Chains []Chain[From, To]

	contigs map[string]From
}

// NewLiftover wraps parsed chains and their source contig table
func NewLiftover[From, To genome.Contig](chains []Chain[From, To], contigs map[string]From) *Liftover[From, To] {
	return &Liftover[From, To]{Chains: chains, contigs: contigs}
}

// Contig resolves a source contig by name
func (l *Liftover[From, To]) Contig(name string) (From, bool) {
	c, ok := l.contigs[name]
	return c, ok
}

// TargetContigs lists the distinct target contigs the chains map onto,
// sorted by name
func (l *Liftover[From, To]) TargetContigs() []To {
	seen := make(map[To]bool)
	var out []To
	for i := range l.Chains {
		c := l.Chains[i].Header.Q.Value.Contig
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b To) int { return cmp.Compare(a.Name(), b.Name()) })
	return out
}

// MapPoint maps a position, addressed by contig name, through every
// chain in the collection. Results are sorted and deduplicated, and
// carry the query's orientation. An unknown contig name yields no
// results rather than an error
func (l *Liftover[From, To]) MapPoint(query genome.Oriented[genome.Point]) []genome.Oriented[genome.Position[To]] {
	contig, ok := l.contigs[query.Value.Contig]
	if !ok {
		slog.Warn("liftover query names an unknown contig", "contig", query.Value.Contig)
		return nil
	}

	pos := genome.Oriented[genome.Position[From]]{
		Orientation: query.Orientation,
		Value:       genome.Position[From]{Contig: contig, At: query.Value.At},
	}
	pos = genome.SetPositionOrientation(pos, genome.Forward, contig.Size())

	var matches []genome.Oriented[genome.Position[To]]
	for i := range l.Chains {
		for hit := range l.Chains[i].MapPoint(pos) {
			hit = genome.SetPositionOrientation(hit, query.Orientation, hit.Value.Contig.Size())
			matches = append(matches, hit)
		}
	}
	return sortedPositions(matches)
}

// MapRegion maps a half-open region, addressed by contig name, through
// every chain in the collection, concatenating the fragments each
// chain produces
func (l *Liftover[From, To]) MapRegion(query genome.Oriented[genome.Region]) []genome.Oriented[genome.Span[To]] {
	contig, ok := l.contigs[query.Value.Contig]
	if !ok {
		slog.Warn("liftover query names an unknown contig", "contig", query.Value.Contig)
		return nil
	}

	span := genome.Oriented[genome.Span[From]]{
		Orientation: query.Orientation,
		Value:       genome.Span[From]{Contig: contig, Start: query.Value.Start, End: query.Value.End},
	}
	span = genome.SetSpanOrientation(span, genome.Forward, contig.Size())

	var matches []genome.Oriented[genome.Span[To]]
	for i := range l.Chains {
		for hit := range l.Chains[i].MapSpan(span) {
			hit = genome.SetSpanOrientation(hit, query.Orientation, hit.Value.Contig.Size())
			matches = append(matches, hit)
		}
	}
	return sortedSpans(matches)
}

// sortedPositions orders results by contig name, coordinate, and
// strand, and drops exact duplicates produced by overlapping chains
func sortedPositions[C genome.Contig](ps []genome.Oriented[genome.Position[C]]) []genome.Oriented[genome.Position[C]] {
	slices.SortFunc(ps, func(a, b genome.Oriented[genome.Position[C]]) int {
		if d := cmp.Compare(a.Value.Contig.Name(), b.Value.Contig.Name()); d != 0 {
			return d
		}
		if d := cmp.Compare(a.Value.At, b.Value.At); d != 0 {
			return d
		}
		return cmp.Compare(a.Orientation, b.Orientation)
	})
	return slices.Compact(ps)
}

func sortedSpans[C genome.Contig](ss []genome.Oriented[genome.Span[C]]) []genome.Oriented[genome.Span[C]] {
	slices.SortFunc(ss, func(a, b genome.Oriented[genome.Span[C]]) int {
		if d := cmp.Compare(a.Value.Contig.Name(), b.Value.Contig.Name()); d != 0 {
			return d
		}
		if d := cmp.Compare(a.Value.Start, b.Value.Start); d != 0 {
			return d
		}
		if d := cmp.Compare(a.Value.End, b.Value.End); d != 0 {
			return d
		}
		return cmp.Compare(a.Orientation, b.Orientation)
	})
	return slices.Compact(ss)
}
