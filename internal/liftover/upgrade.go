package liftover

import "github.com/genomelift/genomelift/internal/genome"

// UpgradeContigs relabels every contig handle in a liftover with a
// richer representation, eg swapping a bare name for an interned
// handle. It is a pure relabeling: no coordinate is recomputed, only
// the type denoting each contig changes, applied uniformly to every
// chain header and to the name-lookup table
func UpgradeContigs[From, To, NewFrom, NewTo genome.Contig](
	l *Liftover[From, To],
	from func(From) NewFrom,
	to func(To) NewTo,
) *Liftover[NewFrom, NewTo] {
	chains := make([]Chain[NewFrom, NewTo], 0, len(l.Chains))
	for i := range l.Chains {
		c := &l.Chains[i]
		chains = append(chains, Chain[NewFrom, NewTo]{
			Header: ChainHeader[NewFrom, NewTo]{
				Score: c.Header.Score,
				T: genome.Oriented[genome.Span[NewFrom]]{
					Orientation: c.Header.T.Orientation,
					Value: genome.Span[NewFrom]{
						Contig: from(c.Header.T.Value.Contig),
						Start:  c.Header.T.Value.Start,
						End:    c.Header.T.Value.End,
					},
				},
				Q: genome.Oriented[genome.Span[NewTo]]{
					Orientation: c.Header.Q.Orientation,
					Value: genome.Span[NewTo]{
						Contig: to(c.Header.Q.Value.Contig),
						Start:  c.Header.Q.Value.Start,
						End:    c.Header.Q.Value.End,
					},
				},
				ID: c.Header.ID,
			},
			blocks:    c.blocks,
			lastBlock: c.lastBlock,
		})
	}

	contigs := make(map[string]NewFrom, len(l.contigs))
	for name, contig := range l.contigs {
		contigs[name] = from(contig)
	}

	return &Liftover[NewFrom, NewTo]{Chains: chains, contigs: contigs}
}
