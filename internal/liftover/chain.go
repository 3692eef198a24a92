// Package liftover maps genomic coordinates between two reference
// assembly builds using UCSC chain alignments. A chain file fragments
// the alignment into gapped blocks, so a single source interval can
// legitimately map to zero, one, or several disjoint target intervals.
//
// Chain data format: https://genome.ucsc.edu/goldenPath/help/chain.html
package liftover

import (
	"fmt"
	"iter"

	"github.com/genomelift/genomelift/internal/genome"
)

// AlignmentBlock is one ungapped run of aligned bases within a chain.
// DT and DQ are the distances between the end of this block and the
// start of the next one on the source and target side respectively.
// DT is signed: chain files in the wild contain negative source gaps
type AlignmentBlock struct {
	Size uint64
	DT   int64
	DQ   uint64
}

// ChainHeader describes the overall source (T) and target (Q)
// intervals one chain aligns, each against its own strand. The field
// names follow the chain format's target/query vocabulary
type ChainHeader[From, To genome.Contig] struct {
	Score uint64
	T     genome.Oriented[genome.Span[From]]
	Q     genome.Oriented[genome.Span[To]]
	ID    uint32
}

// Chain is one gapped local alignment between an interval of the
// source assembly and an interval of the target assembly. Chains are
// immutable once constructed
type Chain[From, To genome.Contig] struct {
	Header    ChainHeader[From, To]
	blocks    []AlignmentBlock
	lastBlock uint64
}

// NewChain builds a chain from its header, its gapped blocks, and the
// size of the final ungapped block that closes the alignment
func NewChain[From, To genome.Contig](header ChainHeader[From, To], blocks []AlignmentBlock, lastBlock uint64) Chain[From, To] {
	return Chain[From, To]{Header: header, blocks: blocks, lastBlock: lastBlock}
}

// Blocks yields the chain's stored blocks followed by the synthetic
// trailing block with no gap after it
func (c *Chain[From, To]) Blocks() iter.Seq[AlignmentBlock] {
	return func(yield func(AlignmentBlock) bool) {
		for _, b := range c.blocks {
			if !yield(b) {
				return
			}
		}
		yield(AlignmentBlock{Size: c.lastBlock})
	}
}

// Spans walks the blocks with running source and target cursors,
// yielding each block's aligned (source, target) fragment pair. An
// empty fragment means the chain data is malformed, which a correct
// parser never produces, so it panics rather than recovers
func (c *Chain[From, To]) Spans() iter.Seq2[genome.Oriented[genome.Span[From]], genome.Oriented[genome.Span[To]]] {
	return func(yield func(genome.Oriented[genome.Span[From]], genome.Oriented[genome.Span[To]]) bool) {
		tStart := c.Header.T.Value.Start
		qStart := c.Header.Q.Value.Start

		for b := range c.Blocks() {
			t := genome.Oriented[genome.Span[From]]{
				Orientation: c.Header.T.Orientation,
				Value: genome.Span[From]{
					Contig: c.Header.T.Value.Contig,
					Start:  tStart,
					End:    tStart + b.Size,
				},
			}
			q := genome.Oriented[genome.Span[To]]{
				Orientation: c.Header.Q.Orientation,
				Value: genome.Span[To]{
					Contig: c.Header.Q.Value.Contig,
					Start:  qStart,
					End:    qStart + b.Size,
				},
			}
			if t.Value.Empty() || q.Value.Empty() {
				panic(fmt.Sprintf("chain %d: empty alignment fragment [%d, %d)", c.Header.ID, tStart, tStart+b.Size))
			}
			if !yield(t, q) {
				return
			}

			tStart += b.Size
			qStart += b.Size
			tStart = addSigned(tStart, b.DT)
			qStart += b.DQ
		}
	}
}

// MapPoint maps a single source position through this chain, yielding
// the corresponding target position when it lands inside an aligned
// block and nothing when it falls in a gap or outside the chain.
// Blocks within a chain don't overlap, so at most one value comes out;
// results carry the query's original orientation
func (c *Chain[From, To]) MapPoint(query genome.Oriented[genome.Position[From]]) iter.Seq[genome.Oriented[genome.Position[To]]] {
	return func(yield func(genome.Oriented[genome.Position[To]]) bool) {
		loc := genome.SetPositionOrientation(query, c.Header.T.Orientation, c.Header.T.Value.Contig.Size())
		if !c.Header.T.Value.Contains(loc.Value) {
			return
		}
		at := loc.Value.At

		tStart := c.Header.T.Value.Start
		qStart := c.Header.Q.Value.Start
		for b := range c.Blocks() {
			if tStart <= at && at < tStart+b.Size {
				hit := genome.Oriented[genome.Position[To]]{
					Orientation: c.Header.Q.Orientation,
					Value: genome.Position[To]{
						Contig: c.Header.Q.Value.Contig,
						At:     qStart + (at - tStart),
					},
				}
				hit = genome.SetPositionOrientation(hit, query.Orientation, c.Header.Q.Value.Contig.Size())
				if !yield(hit) {
					return
				}
			}

			tStart += b.Size
			qStart += b.Size
			tStart = addSigned(tStart, b.DT)
			qStart += b.DQ
		}
	}
}

// MapSpan maps a source span through this chain, yielding the shifted
// target sub-span of every block the query intersects. A query that
// straddles a gap fragments into several disjoint results; that is the
// expected behavior, not an error
func (c *Chain[From, To]) MapSpan(query genome.Oriented[genome.Span[From]]) iter.Seq[genome.Oriented[genome.Span[To]]] {
	return func(yield func(genome.Oriented[genome.Span[To]]) bool) {
		span := genome.SetSpanOrientation(query, c.Header.T.Orientation, c.Header.T.Value.Contig.Size())
		if span.Value.Contig != c.Header.T.Value.Contig {
			return
		}
		within := c.Header.T.Value.Intersect(span.Value)
		if within.Empty() {
			return
		}

		tStart := c.Header.T.Value.Start
		qStart := c.Header.Q.Value.Start
		for b := range c.Blocks() {
			block := genome.Span[From]{
				Contig: c.Header.T.Value.Contig,
				Start:  tStart,
				End:    tStart + b.Size,
			}
			if hit := block.Intersect(within); !hit.Empty() {
				shift := hit.Start - tStart
				out := genome.Oriented[genome.Span[To]]{
					Orientation: c.Header.Q.Orientation,
					Value: genome.Span[To]{
						Contig: c.Header.Q.Value.Contig,
						Start:  qStart + shift,
						End:    qStart + shift + hit.Len(),
					},
				}
				out = genome.SetSpanOrientation(out, query.Orientation, c.Header.Q.Value.Contig.Size())
				if !yield(out) {
					return
				}
			}

			tStart += b.Size
			qStart += b.Size
			tStart = addSigned(tStart, b.DT)
			qStart += b.DQ
		}
	}
}

// addSigned advances an unsigned cursor by a signed gap, panicking on
// wraparound instead of silently producing a bogus coordinate
func addSigned(u uint64, d int64) uint64 {
	if d >= 0 {
		s := u + uint64(d)
		if s < u {
			panic(fmt.Sprintf("coordinate overflow: %d + %d", u, d))
		}
		return s
	}
	n := uint64(-(d + 1)) + 1
	if n > u {
		panic(fmt.Sprintf("coordinate underflow: %d + %d", u, d))
	}
	return u - n
}
