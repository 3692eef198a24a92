// Package ucscweb drives the hgLiftOver web form at genome.ucsc.edu.
// It is a cross-checking oracle for the in-process engine, never a
// query path: regions are posted as BED lines and the result file
// linked from the response page is scraped back out.
//
// The web tool merges adjacent output fragments, so its results are a
// coarsening of the engine's, not always an exact match
package ucscweb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/genomelift/genomelift/internal/genome"
)

// Settings mirrors the knobs on the hgLiftOver form
type Settings struct {
	// minimum ratio of bases that must remap
	MinMatch float64
	// minimum hit size in the query assembly
	MinSizeQ uint64
	// minimum chain size in the target assembly
	MinChainT uint64
	// minimum ratio of alignment blocks or exons that must map
	MinBlocks float64
}

// DefaultSettings matches the form's defaults
func DefaultSettings() Settings {
	return Settings{MinMatch: 0.95, MinBlocks: 1}
}

// Loose relaxes the match ratio as far as the server accepts, useful
// when cross-checking single bases
func Loose() Settings {
	s := DefaultSettings()
	s.MinMatch = 0
	return s
}

// Client talks to one genome browser instance
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// NewClient points at the passed genome browser, falling back to the
// public one when baseURL is empty
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://genome.ucsc.edu"
	}
	return &Client{HTTP: http.DefaultClient, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// the response page links the mapped regions as a .bed file and the
// dropped ones as a .err file under the browser's trash directory
var (
	successFileRe = regexp.MustCompile(`\.\./trash[^ >"']+\.bed`)
	failureFileRe = regexp.MustCompile(`\.\./trash[^ >"']+\.err`)
)

// LiftRegions submits the regions to hgLiftOver and returns, for each
// input, the regions it mapped to. An input the tool dropped comes
// back as an empty slice
func (c *Client) LiftRegions(ctx context.Context, fromDB, toDB string, regions []genome.Region, settings Settings) ([][]genome.Region, error) {
	body, contentType, err := buildForm(fromDB, toDB, regions, settings)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/cgi-bin/hgLiftOver", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit hgLiftOver form: %w", err)
	}
	page, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("submit hgLiftOver form: unexpected status %s", res.Status)
	}

	out := make([][]genome.Region, len(regions))
	mapped, err := c.fetchResult(ctx, successFileRe, page)
	if err != nil {
		return nil, err
	}
	if mapped == nil {
		return nil, fmt.Errorf("hgLiftOver response links no result file")
	}
	if err := parseMapped(mapped, out); err != nil {
		return nil, err
	}
	return out, nil
}

// LiftPoints cross-checks single bases by lifting their 1-length
// regions. A result the tool merged into a wider region cannot be
// recovered as a position and is reported as an error
func (c *Client) LiftPoints(ctx context.Context, fromDB, toDB string, points []genome.Point, settings Settings) ([][]genome.Point, error) {
	regions := make([]genome.Region, len(points))
	for i, p := range points {
		regions[i] = genome.Region{Contig: p.Contig, Start: p.At, End: p.At + 1}
	}

	lifted, err := c.LiftRegions(ctx, fromDB, toDB, regions, settings)
	if err != nil {
		return nil, err
	}

	out := make([][]genome.Point, len(points))
	for i, group := range lifted {
		for _, r := range group {
			if r.End != r.Start+1 {
				return nil, fmt.Errorf("position %s came back as the merged region %s", points[i], r)
			}
			out[i] = append(out[i], genome.Point{Contig: r.Contig, At: r.Start})
		}
	}
	return out, nil
}

// fetchResult scrapes the result file path out of the response page
// and downloads it. A missing link means no region ended up in that
// file, which is fine for the .err side
func (c *Client) fetchResult(ctx context.Context, re *regexp.Regexp, page []byte) ([]byte, error) {
	match := re.Find(page)
	if match == nil {
		return nil, nil
	}
	// the link is relative to cgi-bin; clean it into an absolute path
	url := c.BaseURL + path.Join("/cgi-bin", string(match))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch result file %s: %w", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch result file %s: unexpected status %s", url, res.Status)
	}
	return io.ReadAll(res.Body)
}

// parseMapped reads the result BED, regrouping lines by the input
// index we wrote into the name column
func parseMapped(data []byte, out [][]genome.Region) error {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return fmt.Errorf("malformed result line: %q", line)
		}
		start, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed result line %q: %w", line, err)
		}
		end, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed result line %q: %w", line, err)
		}
		idx, err := strconv.Atoi(fields[3])
		if err != nil || idx < 0 || idx >= len(out) {
			return fmt.Errorf("result line %q names no submitted region", line)
		}
		out[idx] = append(out[idx], genome.Region{Contig: fields[0], Start: start, End: end})
	}
	return nil
}

// buildForm assembles the multipart form hgLiftOver expects. Each
// region is a BED line named with its input index so the output can be
// regrouped
func buildForm(fromDB, toDB string, regions []genome.Region, s Settings) (*bytes.Buffer, string, error) {
	var bed strings.Builder
	for i, r := range regions {
		fmt.Fprintf(&bed, "%s\t%d\t%d\t%d\n", r.Contig, r.Start, r.End, i)
	}

	minMatch := s.MinMatch
	if minMatch == 0 {
		// the server rejects an exact zero with a chain mapping error
		minMatch = 1e-45
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"hglft_fromOrg", "Human"},
		{"hglft_fromDb", fromDB},
		{"hglft_toOrg", "Human"},
		{"hglft_toDb", toDB},
		{"hglft_minMatch", strconv.FormatFloat(minMatch, 'g', -1, 64)},
		{"hglft_multiple", "on"},
		{"boolshad.hglft_multiple", "0"},
		{"hglft_minSizeQ", strconv.FormatUint(s.MinSizeQ, 10)},
		{"hglft_minChainT", strconv.FormatUint(s.MinChainT, 10)},
		{"hglft_minBlocks", strconv.FormatFloat(s.MinBlocks, 'g', -1, 64)},
		{"boolshad.hglft_fudgeThick", "0"},
		{"hglft_userData", bed.String()},
		{"hglft_doRefreshOnly", "0"},
		{"Submit", "Submit"},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if _, err := w.CreateFormFile("hglft_dataFile", ""); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
