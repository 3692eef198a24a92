package genome

import "testing"

func Test_spanIntersect(t *testing.T) {
	chr := NewContig("chr1", 1000)
	span := func(start, end uint64) Span[NamedContig] {
		return Span[NamedContig]{Contig: chr, Start: start, End: end}
	}

	tests := []struct {
		name string
		a, b Span[NamedContig]
		want Span[NamedContig]
	}{
		{"nested", span(0, 100), span(10, 20), span(10, 20)},
		{"overlap left", span(10, 50), span(0, 30), span(10, 30)},
		{"overlap right", span(10, 50), span(40, 90), span(40, 50)},
		{"touching is empty", span(10, 50), span(50, 60), span(50, 50)},
		{"disjoint is empty", span(10, 20), span(30, 40), span(30, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersect(tt.b)
			if got.Start != tt.want.Start || got.End != tt.want.End {
				t.Errorf("intersect = [%d, %d), want [%d, %d)", got.Start, got.End, tt.want.Start, tt.want.End)
			}
			if tt.want.Empty() != got.Empty() {
				t.Errorf("emptiness = %v, want %v", got.Empty(), tt.want.Empty())
			}
		})
	}
}

func Test_spanContains(t *testing.T) {
	chr := NewContig("chr1", 1000)
	other := NewContig("chr2", 1000)
	s := Span[NamedContig]{Contig: chr, Start: 10, End: 20}

	// half-open: the start is in, the end is the first base out
	if !s.Contains(Position[NamedContig]{Contig: chr, At: 10}) {
		t.Error("start of the span should be contained")
	}
	if s.Contains(Position[NamedContig]{Contig: chr, At: 20}) {
		t.Error("end of the span should not be contained")
	}
	if s.Contains(Position[NamedContig]{Contig: other, At: 15}) {
		t.Error("a position on another contig should not be contained")
	}
}

func Test_positionSpanConversion(t *testing.T) {
	chr := NewContig("chr1", 1000)
	p := Position[NamedContig]{Contig: chr, At: 42}

	// position -> 1-length span -> position survives the round trip
	s := p.Span()
	if s.Start != 42 || s.End != 43 {
		t.Errorf("span = [%d, %d), want [42, 43)", s.Start, s.End)
	}
	back, ok := s.Position()
	if !ok || back != p {
		t.Errorf("round trip = %v (%v), want %v", back, ok, p)
	}

	// wider spans refuse the conversion
	if _, ok := (Span[NamedContig]{Contig: chr, Start: 10, End: 12}).Position(); ok {
		t.Error("a 2-length span should not convert to a position")
	}
}
