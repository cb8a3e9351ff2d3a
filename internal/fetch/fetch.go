// Package fetch downloads the current-alerts archive published by the NWS
// and unpacks the shape and attribute payloads into memory. It is plumbing
// around the parsers; nothing here inspects the payload bytes.
package fetch

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client downloads the alerts archive from a fixed URL.
type Client struct {
	url        string
	httpClient *http.Client
}

func New(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads the archive and returns the .shp and .dbf member bytes.
func (c *Client) Fetch(ctx context.Context) ([]byte, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	return Unpack(resp.Body)
}

// Unpack reads a gzipped tar stream and extracts the first .shp and .dbf
// members. Both must be present.
func Unpack(r io.Reader) ([]byte, []byte, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening gzip stream: %w", err)
	}
	defer gz.Close()

	var shp, dbf []byte

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		switch {
		case shp == nil && strings.HasSuffix(hdr.Name, ".shp"):
			if shp, err = io.ReadAll(tr); err != nil {
				return nil, nil, fmt.Errorf("error reading %s: %w", hdr.Name, err)
			}
		case dbf == nil && strings.HasSuffix(hdr.Name, ".dbf"):
			if dbf, err = io.ReadAll(tr); err != nil {
				return nil, nil, fmt.Errorf("error reading %s: %w", hdr.Name, err)
			}
		}
	}

	if shp == nil {
		return nil, nil, fmt.Errorf("archive is missing a .shp member")
	}
	if dbf == nil {
		return nil, nil, fmt.Errorf("archive is missing a .dbf member")
	}
	return shp, dbf, nil
}
