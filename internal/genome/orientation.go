package genome

import "fmt"

// Orientation is the strand a coordinate is expressed against
type Orientation uint8

const (
	// Forward is the 5' -> 3' strand
	Forward Orientation = iota
	// Reverse is the 3' -> 5' strand; coordinates against it count
	// from the other end of the contig
	Reverse
)

// Flip returns the opposite strand
func (o Orientation) Flip() Orientation {
	if o == Forward {
		return Reverse
	}
	return Forward
}

// String renders the strand the way chain and BED files spell it
func (o Orientation) String() string {
	if o == Reverse {
		return "-"
	}
	return "+"
}

// ParseOrientation reads a "+" or "-" strand field
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "+":
		return Forward, nil
	case "-":
		return Reverse, nil
	}
	return Forward, fmt.Errorf("invalid strand %q", s)
}

// Oriented tags a value with the strand its coordinates are expressed
// against. Values on different strands are never comparable by raw
// coordinate; one side has to be converted first
type Oriented[T any] struct {
	Orientation Orientation
	Value       T
}

// Fwd wraps a value as forward-stranded
func Fwd[T any](v T) Oriented[T] {
	return Oriented[T]{Orientation: Forward, Value: v}
}

// Rev wraps a value as reverse-stranded
func Rev[T any](v T) Oriented[T] {
	return Oriented[T]{Orientation: Reverse, Value: v}
}

// FlipPosition mirrors a position onto the opposite strand of a contig
// that is size bases long. Flipping twice is the identity. size must be
// the length of the contig the position sits on: a wrong size produces
// an in-range but wrong coordinate with no way to detect it, so callers
// thread the size explicitly
func FlipPosition[C Contig](p Oriented[Position[C]], size uint64) Oriented[Position[C]] {
	return Oriented[Position[C]]{
		Orientation: p.Orientation.Flip(),
		Value:       Position[C]{Contig: p.Value.Contig, At: size - p.Value.At - 1},
	}
}

// FlipSpan mirrors a half-open span onto the opposite strand:
// [s, e) becomes [size-e, size-s)
func FlipSpan[C Contig](s Oriented[Span[C]], size uint64) Oriented[Span[C]] {
	return Oriented[Span[C]]{
		Orientation: s.Orientation.Flip(),
		Value: Span[C]{
			Contig: s.Value.Contig,
			Start:  size - s.Value.End,
			End:    size - s.Value.Start,
		},
	}
}

// SetPositionOrientation re-expresses a position against the passed
// strand, flipping it when needed and leaving it untouched when it
// already matches
func SetPositionOrientation[C Contig](p Oriented[Position[C]], o Orientation, size uint64) Oriented[Position[C]] {
	if p.Orientation == o {
		return p
	}
	return FlipPosition(p, size)
}

// SetSpanOrientation re-expresses a span against the passed strand
func SetSpanOrientation[C Contig](s Oriented[Span[C]], o Orientation, size uint64) Oriented[Span[C]] {
	if s.Orientation == o {
		return s
	}
	return FlipSpan(s, size)
}

// FlipPositionOnContig flips a position using the size of the contig
// it sits on
func FlipPositionOnContig[C Contig](p Oriented[Position[C]]) Oriented[Position[C]] {
	return FlipPosition(p, p.Value.Contig.Size())
}

// FlipSpanOnContig flips a span using the size of the contig it sits on
func FlipSpanOnContig[C Contig](s Oriented[Span[C]]) Oriented[Span[C]] {
	return FlipSpan(s, s.Value.Contig.Size())
}
