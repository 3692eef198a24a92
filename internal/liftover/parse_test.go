package liftover

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomelift/genomelift/internal/genome"
)

const sampleChains = `# generated for tests

chain 4900 chr1 1000 + 10 60 chrA 2000 + 100 150 1
20	5	5
25

chain 1200 chr2 500 + 0 30 chrB 800 - 10 40 2
10 5 5
15
`

func Test_readChains(t *testing.T) {
	lift, err := Read(strings.NewReader(sampleChains))
	require.NoError(t, err)
	require.Len(t, lift.Chains, 2)

	first := lift.Chains[0]
	assert.Equal(t, uint64(4900), first.Header.Score)
	assert.Equal(t, uint32(1), first.Header.ID)
	assert.Equal(t, genome.Forward, first.Header.T.Orientation)
	assert.Equal(t, "chr1", first.Header.T.Value.Contig.Name())
	assert.Equal(t, uint64(1000), first.Header.T.Value.Contig.Size())
	assert.Equal(t, uint64(10), first.Header.T.Value.Start)
	assert.Equal(t, uint64(60), first.Header.T.Value.End)
	assert.Equal(t, "chrA", first.Header.Q.Value.Contig.Name())
	assert.Equal(t, []AlignmentBlock{{Size: 20, DT: 5, DQ: 5}}, first.blocks)
	assert.Equal(t, uint64(25), first.lastBlock)

	// space-separated blocks and a reverse query strand
	second := lift.Chains[1]
	assert.Equal(t, genome.Reverse, second.Header.Q.Orientation)
	assert.Equal(t, uint64(10), second.Header.Q.Value.Start)
	assert.Equal(t, uint64(40), second.Header.Q.Value.End)
	assert.Equal(t, uint64(15), second.lastBlock)

	chr1, ok := lift.Contig("chr1")
	require.True(t, ok)
	assert.Equal(t, first.Header.T.Value.Contig, chr1)
	_, ok = lift.Contig("chrA")
	assert.False(t, ok, "target contigs must not appear in the source lookup")
}

func Test_readChainsErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"missing final size",
			"chain 1 chr1 100 + 0 10 chrA 100 + 0 10 7\n5 2 2\n",
			"chain 7 is missing its final block size",
		},
		{
			"new chain before close",
			"chain 1 chr1 100 + 0 10 chrA 100 + 0 10 7\nchain 1 chr1 100 + 0 10 chrA 100 + 0 10 8\n10\n",
			"chain 7 is missing its final block size",
		},
		{
			"short header",
			"chain 1 chr1 100 + 0 10 chrA 100 + 0 10\n10\n",
			"expected 13",
		},
		{
			"block outside chain",
			"5 2 2\n",
			"outside of a chain",
		},
		{
			"malformed block",
			"chain 1 chr1 100 + 0 10 chrA 100 + 0 10 7\n5 2\n",
			"malformed alignment block",
		},
		{
			"bad strand",
			"chain 1 chr1 100 * 0 10 chrA 100 + 0 10 7\n10\n",
			"",
		},
		{
			"inverted interval",
			"chain 1 chr1 100 + 10 5 chrA 100 + 0 10 7\n10\n",
			"inverted interval",
		},
		{
			"interval past contig end",
			"chain 1 chr1 100 + 0 200 chrA 1000 + 0 200 7\n200\n",
			"exceeds the size",
		},
		{
			"conflicting contig sizes",
			"chain 1 chr1 100 + 0 10 chrA 100 + 0 10 7\n10\n" +
				"chain 1 chr1 999 + 0 10 chrA 100 + 0 10 8\n10\n",
			"conflicting sizes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.text))
			require.Error(t, err)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func Test_readFile(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "sample.chain")
	require.NoError(t, os.WriteFile(plain, []byte(sampleChains), 0644))

	gzipped := filepath.Join(dir, "sample.chain.gz")
	f, err := os.Create(gzipped)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleChains))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	for _, path := range []string{plain, gzipped} {
		lift, err := ReadFile(path)
		require.NoError(t, err, path)
		assert.Len(t, lift.Chains, 2, path)
	}

	_, err = ReadFile(filepath.Join(dir, "missing.chain"))
	assert.Error(t, err)
}
