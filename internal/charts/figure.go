package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	apperrors "pageviews/internal/errors"
)

// Figure is a rendered chart held in memory.
type Figure interface {
	// Title returns the chart's main title.
	Title() string
	// WritePNG encodes the figure as PNG.
	WritePNG(w io.Writer) error
}

// SavePNG renders fig and writes it to path, replacing any existing file.
// The figure is encoded fully before the file is touched, so a render
// failure leaves a previous artifact in place.
func SavePNG(fig Figure, path string) error {
	var buf bytes.Buffer
	if err := fig.WritePNG(&buf); err != nil {
		return apperrors.NewRenderError(fmt.Sprintf("render %q", fig.Title()), err).
			WithContext("path", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("create output directory", err).
			WithContext("path", path)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return apperrors.NewStorageError("write chart", err).
			WithContext("path", path)
	}
	return nil
}

func wrapBuildError(chart string, err error) error {
	return apperrors.NewRenderError("build "+chart, err)
}

// palette gives each month (or year) a stable colour; index i wraps.
var palette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
	{R: 0xae, G: 0xc7, B: 0xe8, A: 0xff},
	{R: 0xff, G: 0xbb, B: 0x78, A: 0xff},
}

func paletteColor(i int) color.Color {
	return palette[i%len(palette)]
}
