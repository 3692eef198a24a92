package ucscweb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomelift/genomelift/internal/genome"
)

// liftoverServer fakes the two round trips the real tool takes: the
// form POST answers with a page linking a trash file, and the follow-up
// GET serves that file's BED lines
func liftoverServer(t *testing.T, bed string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/cgi-bin/hgLiftOver", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="../trash/hgl/hglft_genome_1234_abcd.bed">View Conversions</a>`)
	})
	mux.HandleFunc("/trash/hgl/hglft_genome_1234_abcd.bed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, bed)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func Test_liftRegions(t *testing.T) {
	var form *http.Request
	mux := http.NewServeMux()
	mux.HandleFunc("/cgi-bin/hgLiftOver", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form = r
		fmt.Fprint(w, `<a href="../trash/hgl/hglft_genome_1234_abcd.bed">View Conversions</a>`)
	})
	mux.HandleFunc("/trash/hgl/hglft_genome_1234_abcd.bed", func(w http.ResponseWriter, r *http.Request) {
		// the second input split into two fragments, the third dropped
		fmt.Fprint(w, "chr7\t117559590\t117559593\t0\nchr1\t1000\t1005\t1\nchr1\t1010\t1020\t1\n")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL)
	client.HTTP = server.Client()

	regions := []genome.Region{
		{Contig: "chr7", Start: 117479963, End: 117479966},
		{Contig: "chr1", Start: 100, End: 115},
		{Contig: "chr2", Start: 5, End: 10},
	}
	got, err := client.LiftRegions(context.Background(), "hg19", "hg38", regions, DefaultSettings())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []genome.Region{{Contig: "chr7", Start: 117559590, End: 117559593}}, got[0])
	assert.Equal(t, []genome.Region{
		{Contig: "chr1", Start: 1000, End: 1005},
		{Contig: "chr1", Start: 1010, End: 1020},
	}, got[1])
	assert.Empty(t, got[2])

	require.NotNil(t, form)
	assert.Equal(t, "hg19", form.FormValue("hglft_fromDb"))
	assert.Equal(t, "hg38", form.FormValue("hglft_toDb"))
	assert.Equal(t, "0.95", form.FormValue("hglft_minMatch"))
	assert.Equal(t, "on", form.FormValue("hglft_multiple"))
	assert.Equal(t,
		"chr7\t117479963\t117479966\t0\nchr1\t100\t115\t1\nchr2\t5\t10\t2\n",
		form.FormValue("hglft_userData"))
}

func Test_liftPoints(t *testing.T) {
	server := liftoverServer(t, "chr7\t117559590\t117559591\t0\n")

	client := NewClient(server.URL)
	client.HTTP = server.Client()

	got, err := client.LiftPoints(context.Background(), "hg19", "hg38",
		[]genome.Point{{Contig: "chr7", At: 117479963}}, Loose())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []genome.Point{{Contig: "chr7", At: 117559590}}, got[0])
}

func Test_liftPointsMergedResult(t *testing.T) {
	server := liftoverServer(t, "chr7\t100\t105\t0\n")

	client := NewClient(server.URL)
	client.HTTP = server.Client()

	_, err := client.LiftPoints(context.Background(), "hg19", "hg38",
		[]genome.Point{{Contig: "chr7", At: 50}}, Loose())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merged region")
}

func Test_liftRegionsNoResultLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>ERROR: chain mapping failed</html>")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.HTTP = server.Client()

	_, err := client.LiftRegions(context.Background(), "hg19", "hg38",
		[]genome.Region{{Contig: "chr1", Start: 0, End: 1}}, DefaultSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "links no result file")
}

func Test_parseMapped(t *testing.T) {
	out := make([][]genome.Region, 2)
	err := parseMapped([]byte("# comment\n\nchrX\t5\t9\t1\n"), out)
	require.NoError(t, err)
	assert.Empty(t, out[0])
	assert.Equal(t, []genome.Region{{Contig: "chrX", Start: 5, End: 9}}, out[1])

	err = parseMapped([]byte("chrX\t5\t9\t7\n"), make([][]genome.Region, 2))
	assert.Error(t, err, "an index outside the submitted set must be rejected")

	err = parseMapped([]byte("chrX\t5\n"), make([][]genome.Region, 2))
	assert.Error(t, err)
}

func Test_buildFormMinMatch(t *testing.T) {
	// an exact zero is nudged to the smallest positive float the server
	// still accepts
	_, contentType, err := buildForm("hg19", "hg38", nil, Loose())
	require.NoError(t, err)
	assert.Contains(t, contentType, "multipart/form-data")

	buf, _, err := buildForm("hg19", "hg38", nil, Loose())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1e-45")
}
