package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Output formats understood by the renderers.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Converter turns SVG into PNG or PDF by piping it through rsvg-convert
// (librsvg). The zero value looks the tool up on PATH.
type Converter struct {
	// Bin is the rsvg-convert executable; empty means "rsvg-convert".
	Bin string
}

func (c Converter) bin() string {
	if c.Bin == "" {
		return "rsvg-convert"
	}
	return c.Bin
}

// Available reports whether the converter's executable can be found.
func (c Converter) Available() bool {
	_, err := exec.LookPath(c.bin())
	return err == nil
}

// Convert returns svg in format. SVG passes through untouched; scale only
// applies to PNG.
func (c Converter) Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		return c.run(ctx, svg, format, "--zoom", fmt.Sprintf("%.2f", scale))
	case FormatPDF:
		return c.run(ctx, svg, format)
	default:
		return nil, fmt.Errorf("cannot convert svg to %q", format)
	}
}

func (c Converter) run(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin := c.bin()
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("%s output needs %s from librsvg (brew install librsvg, apt install librsvg2-bin): %w", format, bin, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", bin, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Convert converts with the default Converter.
func Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	return Converter{}.Convert(ctx, svg, format, scale)
}
