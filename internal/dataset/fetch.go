// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/countymaps/choropleth/internal/topo"
	"golang.org/x/sync/errgroup"
)

// A Fetcher retrieves documents by URL or local path.
type Fetcher struct {
	// Client is used for http and https sources. If nil,
	// http.DefaultClient is used.
	Client *http.Client

	// Notify, if non-nil, is called before each fetch starts. It
	// may be called concurrently.
	Notify func(src string)
}

// Fetch returns the contents of src. Sources starting with http:// or
// https:// are retrieved with a GET request; anything else is read
// from the local file system. There are no retries.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if f.Notify != nil {
		f.Notify(src)
	}
	if !isURL(src) {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", src, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: %s", src, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src, err)
	}
	return data, nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Data is the input of a map: the topology and the statistics to
// join onto it.
type Data struct {
	Topology *topo.Topology
	Records  []Record
}

// Load fetches and decodes the topology and education documents
// concurrently. It returns only once both are available. If either
// fails, Load returns the first error and cancels the other fetch.
func Load(ctx context.Context, f *Fetcher, topologySrc, educationSrc string) (*Data, error) {
	var d Data
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := f.Fetch(ctx, topologySrc)
		if err != nil {
			return err
		}
		t, err := topo.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%s: %w", topologySrc, err)
		}
		d.Topology = t
		return nil
	})
	g.Go(func() error {
		data, err := f.Fetch(ctx, educationSrc)
		if err != nil {
			return err
		}
		recs, err := ParseRecords(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%s: %w", educationSrc, err)
		}
		d.Records = recs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
