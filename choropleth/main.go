// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command choropleth draws a map of U.S. county educational
// attainment.
//
// choropleth fetches a county topology [1] and a list of per-county
// education statistics, shades each county by the percentage of
// adults holding a bachelor's degree or higher, and writes an SVG
// document with a legend. Opened in a browser, the map shows each
// county's statistic on hover and can be panned by dragging and
// zoomed with the mouse wheel.
//
// Sources may be http(s) URLs or local files. They default to the
// freeCodeCamp choropleth datasets.
//
// Default flags may also be given in the CHOROPLETH_FLAGS environment
// variable, using shell quoting rules. Command-line flags override
// them.
//
// [1] https://github.com/topojson/topojson-specification
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/countymaps/choropleth/internal/choropleth"
	"github.com/countymaps/choropleth/internal/dataset"
	"github.com/countymaps/choropleth/internal/geo"
	shellquote "github.com/kballard/go-shellquote"
)

const envFlags = "CHOROPLETH_FLAGS"

// errReported is returned by parseArgs for errors the flag set has
// already printed along with the usage message.
var errReported = errors.New("flag error reported")

type config struct {
	out        string
	topology   string
	education  string
	object     string
	projection string
	noData     string
	html       bool
	timeout    time.Duration
	verbose    bool
}

func newFlagSet(cfg *config) *flag.FlagSet {
	fs := flag.NewFlagSet("choropleth", flag.ContinueOnError)
	fs.StringVar(&cfg.out, "o", "", "write output to `file` (default: stdout)")
	fs.StringVar(&cfg.topology, "topology", dataset.DefaultTopologyURL, "read the county topology from `source`")
	fs.StringVar(&cfg.education, "education", dataset.DefaultEducationURL, "read education statistics from `source`")
	fs.StringVar(&cfg.object, "object", choropleth.DefaultObject, "draw topology object `name`")
	fs.StringVar(&cfg.projection, "projection", "identity", "project shapes with `proj` (identity or mercator)")
	fs.StringVar(&cfg.noData, "nodata", "", "fill counties without statistics with `#rrggbb` (default: color of the minimum)")
	fs.BoolVar(&cfg.html, "html", false, "write an HTML page instead of a bare SVG")
	fs.DurationVar(&cfg.timeout, "timeout", 0, "give up loading data after `duration` (default: no limit)")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose output")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags]\n", os.Args[0])
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses the flags in the environment variable value env
// followed by args.
func parseArgs(env string, args []string) (*config, error) {
	envArgs, err := shellquote.Split(env)
	if err != nil {
		return nil, fmt.Errorf("parsing $%s: %w", envFlags, err)
	}
	cfg := &config{}
	fs := newFlagSet(cfg)
	if err := fs.Parse(append(envArgs, args...)); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		return nil, errReported
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return cfg, nil
}

// options converts the command-line configuration to scene options.
func (cfg *config) options() (choropleth.Options, error) {
	opts := choropleth.Options{Object: cfg.object}
	switch cfg.projection {
	case "identity", "":
	case "mercator":
		opts.Projection = choropleth.DefaultMercator()
	default:
		return opts, fmt.Errorf("unknown projection %q", cfg.projection)
	}
	if cfg.noData != "" {
		c, err := parseHexColor(cfg.noData)
		if err != nil {
			return opts, err
		}
		opts.NoDataFill = c
	}
	return opts, nil
}

func parseHexColor(s string) (color.Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return nil, fmt.Errorf("bad color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad color %q: want #rrggbb", s)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}

func main() {
	log.SetPrefix("choropleth: ")
	log.SetFlags(0)

	cfg, err := parseArgs(os.Getenv(envFlags), os.Args[1:])
	if err == flag.ErrHelp {
		os.Exit(0)
	} else if err == errReported {
		os.Exit(2)
	} else if err != nil {
		log.Print(err)
		os.Exit(2)
	}
	opts, err := cfg.options()
	if err != nil {
		log.Print(err)
		os.Exit(2)
	}

	status := newStatus(os.Stderr, cfg.verbose)
	if err := run(context.Background(), cfg, opts, status); err != nil {
		status.Stop()
		log.Fatal(err)
	}
	status.Stop()
}

// run loads the data, builds the map, and writes it. Nothing is
// written unless the map was built successfully.
func run(ctx context.Context, cfg *config, opts choropleth.Options, status *status) error {
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	f := &dataset.Fetcher{Notify: func(src string) {
		status.Status("fetching %s", src)
	}}
	data, err := dataset.Load(ctx, f, cfg.topology, cfg.education)
	if err != nil {
		return err
	}

	status.Status("building map")
	scene, err := choropleth.Build(data, opts)
	if err != nil {
		return err
	}
	if cfg.verbose {
		status.Logf("%d counties, %d statistics, %d counties without statistics, domain %v",
			len(scene.Counties), len(data.Records), scene.Unmatched, scene.Scale.Domain)
		if _, ok := opts.Projection.(geo.Mercator); ok {
			status.Logf("applying Mercator projection %+v", scene.Mercator)
		}
	}

	status.Status("writing map")
	return write(cfg, scene)
}

func write(cfg *config, scene *choropleth.Scene) error {
	var w io.Writer = os.Stdout
	if cfg.out != "" {
		f, err := os.Create(cfg.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	var err error
	if cfg.html {
		err = scene.WriteHTML(w)
	} else {
		err = scene.WriteSVG(w)
	}
	if err != nil {
		return err
	}
	if f, ok := w.(*os.File); ok && cfg.out != "" {
		return f.Close()
	}
	return nil
}
