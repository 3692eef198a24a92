package liftover

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/genomelift/genomelift/internal/genome"
)

// contigTable interns one canonical contig handle per name so every
// chain referencing a contig shares the same value, and so the lookup
// table handed to Liftover is consistent
type contigTable struct {
	byName map[string]genome.NamedContig
}

func newContigTable() *contigTable {
	return &contigTable{byName: make(map[string]genome.NamedContig)}
}

func (t *contigTable) intern(name string, size uint64) (genome.NamedContig, error) {
	if c, ok := t.byName[name]; ok {
		if c.Size() != size {
			return genome.NamedContig{}, fmt.Errorf("contig %q has conflicting sizes %d and %d", name, c.Size(), size)
		}
		return c, nil
	}
	c := genome.NewContig(name, size)
	t.byName[name] = c
	return c, nil
}

// Read parses the UCSC chain text format. Each chain is a header line
// of 12 attributes followed by alignment block lines, closed by a line
// holding only the final block size. UCSC separates block fields with
// tabs and Ensembl with spaces; both are accepted
func Read(r io.Reader) (*Liftover[genome.NamedContig, genome.NamedContig], error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	from := newContigTable()
	to := newContigTable()

	var chains []Chain[genome.NamedContig, genome.NamedContig]
	var open *pendingChain
	line := 0

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		switch {
		case text == "" || strings.HasPrefix(text, "#"):
			continue
		case strings.HasPrefix(text, "chain "):
			if open != nil {
				return nil, fmt.Errorf("line %d: chain %d is missing its final block size", line, open.header.ID)
			}
			header, err := parseHeader(text, from, to)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			open = &pendingChain{header: header}
		default:
			if open == nil {
				return nil, fmt.Errorf("line %d: alignment block outside of a chain: %q", line, text)
			}
			fields := strings.Fields(text)
			switch len(fields) {
			case 1:
				size, err := strconv.ParseUint(fields[0], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid final block size: %w", line, err)
				}
				chains = append(chains, NewChain(open.header, open.blocks, size))
				open = nil
			case 3:
				block, err := parseBlock(fields)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				if block.DT < 0 {
					slog.Warn("negative source gap in chain", "chain", open.header.ID, "dt", block.DT)
				}
				open.blocks = append(open.blocks, block)
			default:
				return nil, fmt.Errorf("line %d: malformed alignment block: %q", line, text)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if open != nil {
		return nil, fmt.Errorf("chain %d is missing its final block size", open.header.ID)
	}

	return NewLiftover(chains, from.byName), nil
}

// ReadFile reads a chain file from disk, transparently decompressing
// gzip, including the concatenated-member files UCSC distributes
func ReadFile(path string) (*Liftover[genome.NamedContig, genome.NamedContig], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	lift, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return lift, nil
}

type pendingChain struct {
	header ChainHeader[genome.NamedContig, genome.NamedContig]
	blocks []AlignmentBlock
}

// parseHeader reads a line like
//
//	chain 4900 chrY 58368225 + 25985403 25985638 chr5 151006098 - 43257292 43257528 1
func parseHeader(text string, from, to *contigTable) (ChainHeader[genome.NamedContig, genome.NamedContig], error) {
	var zero ChainHeader[genome.NamedContig, genome.NamedContig]

	f := strings.Fields(text)
	if len(f) != 13 {
		return zero, fmt.Errorf("chain header has %d fields, expected 13: %q", len(f), text)
	}

	score, err := strconv.ParseUint(f[1], 10, 64)
	if err != nil {
		return zero, fmt.Errorf("invalid chain score: %w", err)
	}
	t, err := parseSide(f[2:7], from)
	if err != nil {
		return zero, err
	}
	q, err := parseSide(f[7:12], to)
	if err != nil {
		return zero, err
	}
	id, err := strconv.ParseUint(f[12], 10, 32)
	if err != nil {
		return zero, fmt.Errorf("invalid chain id: %w", err)
	}

	return ChainHeader[genome.NamedContig, genome.NamedContig]{
		Score: score,
		T:     t,
		Q:     q,
		ID:    uint32(id),
	}, nil
}

// parseSide reads the five name/size/strand/start/end fields of one
// side of a chain header. Start and end are 0-based half-open, and for
// a "-" strand they count from the far end of the contig
func parseSide(f []string, contigs *contigTable) (genome.Oriented[genome.Span[genome.NamedContig]], error) {
	var zero genome.Oriented[genome.Span[genome.NamedContig]]

	size, err := strconv.ParseUint(f[1], 10, 64)
	if err != nil {
		return zero, fmt.Errorf("invalid contig size for %q: %w", f[0], err)
	}
	orientation, err := genome.ParseOrientation(f[2])
	if err != nil {
		return zero, err
	}
	start, err := strconv.ParseUint(f[3], 10, 64)
	if err != nil {
		return zero, fmt.Errorf("invalid start for %q: %w", f[0], err)
	}
	end, err := strconv.ParseUint(f[4], 10, 64)
	if err != nil {
		return zero, fmt.Errorf("invalid end for %q: %w", f[0], err)
	}
	if end < start {
		return zero, fmt.Errorf("inverted interval [%d, %d) for %q", start, end, f[0])
	}
	if end > size {
		return zero, fmt.Errorf("interval [%d, %d) exceeds the size %d of %q", start, end, size, f[0])
	}

	contig, err := contigs.intern(f[0], size)
	if err != nil {
		return zero, err
	}

	return genome.Oriented[genome.Span[genome.NamedContig]]{
		Orientation: orientation,
		Value:       genome.Span[genome.NamedContig]{Contig: contig, Start: start, End: end},
	}, nil
}

func parseBlock(fields []string) (AlignmentBlock, error) {
	size, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return AlignmentBlock{}, fmt.Errorf("invalid block size: %w", err)
	}
	dt, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return AlignmentBlock{}, fmt.Errorf("invalid source gap: %w", err)
	}
	dq, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return AlignmentBlock{}, fmt.Errorf("invalid target gap: %w", err)
	}
	return AlignmentBlock{Size: size, DT: dt, DQ: dq}, nil
}
