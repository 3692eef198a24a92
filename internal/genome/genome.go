// Package genome holds the coordinate primitives shared by the liftover
// engine: contig handles, 0-based positions, half-open spans, and strand
// orientation with its flip algebra
package genome

// Contig is the capability a chromosome-like handle provides: a name and
// a fixed length in bases. It is a type constraint so the engine can be
// generic over cheap, comparable handle representations on the source
// and target side independently
type Contig interface {
	comparable

	Name() string
	Size() uint64
}

// NamedContig is the simplest concrete contig: a name and its length.
// Values are small and compare by value, so they're copied freely
// instead of shared
type NamedContig struct {
	name string
	size uint64
}

// NewContig returns a contig handle for a sequence with the passed
// name and length in bases
func NewContig(name string, size uint64) NamedContig {
	return NamedContig{name: name, size: size}
}

// Name is the contig's name, eg "chr7"
func (c NamedContig) Name() string { return c.name }

// Size is the contig's length in bases
func (c NamedContig) Size() uint64 { return c.size }

// Position is a single 0-based coordinate on a contig. A position is
// equivalent to the 1-length span [At, At+1)
type Position[C Contig] struct {
	Contig C
	At     uint64
}

// Span converts the position to its 1-length span
func (p Position[C]) Span() Span[C] {
	return Span[C]{Contig: p.Contig, Start: p.At, End: p.At + 1}
}

// Span is a 0-based half-open interval [Start, End) on a contig
type Span[C Contig] struct {
	Contig C
	Start  uint64
	End    uint64
}

// Len is the number of bases the span covers
func (s Span[C]) Len() uint64 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Empty reports whether the span covers no bases
func (s Span[C]) Empty() bool { return s.End <= s.Start }

// Contains reports whether the position falls on this contig and
// within [Start, End)
func (s Span[C]) Contains(p Position[C]) bool {
	return s.Contig == p.Contig && s.Start <= p.At && p.At < s.End
}

// Intersect clips the passed span against this one. Both spans must
// sit on the same contig and be expressed against the same strand;
// the result may be empty
func (s Span[C]) Intersect(o Span[C]) Span[C] {
	start := max(s.Start, o.Start)
	end := min(s.End, o.End)
	if end < start {
		end = start
	}
	return Span[C]{Contig: s.Contig, Start: start, End: end}
}

// Position converts a 1-length span back to a position. The second
// return is false when the span doesn't cover exactly one base
func (s Span[C]) Position() (Position[C], bool) {
	if s.Start+1 != s.End {
		return Position[C]{}, false
	}
	return Position[C]{Contig: s.Contig, At: s.Start}, true
}
