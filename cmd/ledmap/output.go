package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/coreman2200/ledmap/internal/config"
	"github.com/coreman2200/ledmap/internal/mapper"
	"github.com/coreman2200/ledmap/internal/pixelblaze"
)

// points converts m to output points, applying the configured scale and centring.
func points(o config.Output, m mapper.Map) []pixelblaze.Point {
	return prepare(o, pixelblaze.FromMap(m, 1))
}

func prepare(o config.Output, ps []pixelblaze.Point) []pixelblaze.Point {
	ps = pixelblaze.Scale(ps, o.Scale)
	if o.Center {
		ps = pixelblaze.Center(ps)
	}
	return ps
}

// render writes ps in the configured output format.
func render(w io.Writer, o config.Output, ps []pixelblaze.Point) error {
	switch o.Format {
	case "", "json":
		return pixelblaze.Encode(w, ps, true)
	case "json2d":
		return pixelblaze.Encode(w, ps, false)
	case "js":
		return pixelblaze.WriteFunction(w, ps, true)
	}
	return fmt.Errorf("unknown output format %q", o.Format)
}

// writeOutput renders ps fully before touching o.Path, so a render error leaves
// an existing file as it was.
func writeOutput(o config.Output, ps []pixelblaze.Point) error {
	var buf bytes.Buffer
	if err := render(&buf, o, ps); err != nil {
		return err
	}
	if o.Path == "" || o.Path == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(o.Path, buf.Bytes(), 0644)
}

// readMap decodes a JSON map from path, or from stdin when path is "-".
func readMap(path string) ([]pixelblaze.Point, error) {
	if path == "-" {
		return pixelblaze.Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ps, err := pixelblaze.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}
