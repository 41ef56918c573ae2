// Package text provides font metrics for layout and paint. Layout only
// needs word advances and line metrics, so the interface is deliberately
// small and every implementation must be deterministic for identical input.
package text

import (
	"fmt"
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Font selects a face for measurement and drawing.
type Font struct {
	Size   float64
	Bold   bool
	Italic bool
}

// Metrics are the vertical extents of a face. Line height is
// Ascent+Descent, maximized over the runs sharing a line.
type Metrics struct {
	Ascent  float64
	Descent float64
}

// Measurer computes text advances and face metrics.
type Measurer interface {
	Advance(s string, f Font) float64
	Metrics(f Font) Metrics
}

// FontPaths names the TTF files backing each style combination.
type FontPaths struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
}

// SystemFonts locates a usable font family on the host system.
func SystemFonts() (FontPaths, error) {
	var paths FontPaths
	candidates := []struct {
		dst   *string
		names []string
	}{
		{&paths.Regular, []string{"DejaVuSans.ttf", "Arial.ttf", "LiberationSans-Regular.ttf", "FreeSans.ttf"}},
		{&paths.Bold, []string{"DejaVuSans-Bold.ttf", "Arial_Bold.ttf", "LiberationSans-Bold.ttf", "FreeSansBold.ttf"}},
		{&paths.Italic, []string{"DejaVuSans-Oblique.ttf", "Arial_Italic.ttf", "LiberationSans-Italic.ttf"}},
		{&paths.BoldItalic, []string{"DejaVuSans-BoldOblique.ttf", "LiberationSans-BoldItalic.ttf"}},
	}
	for _, c := range candidates {
		for _, name := range c.names {
			if p, err := findfont.Find(name); err == nil {
				*c.dst = p
				break
			}
		}
	}
	if paths.Regular == "" {
		return paths, fmt.Errorf("no usable system font found")
	}
	return paths, nil
}

// path returns the configured file for a style, falling back to regular.
func (fp FontPaths) path(f Font) string {
	switch {
	case f.Bold && f.Italic && fp.BoldItalic != "":
		return fp.BoldItalic
	case f.Bold && fp.Bold != "":
		return fp.Bold
	case f.Italic && fp.Italic != "":
		return fp.Italic
	}
	return fp.Regular
}

type faceKey struct {
	path string
	size float64
}

// FaceMeasurer measures with real TTF faces. Parsed fonts and constructed
// faces are cached; safe for concurrent use.
type FaceMeasurer struct {
	paths FontPaths

	mu    sync.Mutex
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
}

// NewFaceMeasurer builds a measurer over the given font files. The regular
// face must parse; the others fall back to it.
func NewFaceMeasurer(paths FontPaths) (*FaceMeasurer, error) {
	m := &FaceMeasurer{
		paths: paths,
		fonts: make(map[string]*truetype.Font),
		faces: make(map[faceKey]font.Face),
	}
	if _, err := m.fontFor(paths.Regular); err != nil {
		return nil, fmt.Errorf("loading regular font %s: %w", paths.Regular, err)
	}
	return m, nil
}

func (m *FaceMeasurer) fontFor(path string) (*truetype.Font, error) {
	if f, ok := m.fonts[path]; ok {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	m.fonts[path] = f
	return f, nil
}

func (m *FaceMeasurer) face(f Font) font.Face {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.paths.path(f)
	key := faceKey{path: path, size: f.Size}
	if face, ok := m.faces[key]; ok {
		return face
	}
	ttf, err := m.fontFor(path)
	if err != nil {
		// Styled font file unreadable: fall back to the regular face,
		// which NewFaceMeasurer guaranteed.
		ttf = m.fonts[m.paths.Regular]
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: f.Size})
	m.faces[key] = face
	return face
}

// Face exposes the cached face for a font, so a rasterizer can draw with
// the exact faces layout measured against.
func (m *FaceMeasurer) Face(f Font) font.Face {
	return m.face(f)
}

func (m *FaceMeasurer) Advance(s string, f Font) float64 {
	return fixedToFloat(font.MeasureString(m.face(f), s))
}

func (m *FaceMeasurer) Metrics(f Font) Metrics {
	fm := m.face(f).Metrics()
	return Metrics{
		Ascent:  fixedToFloat(fm.Ascent),
		Descent: fixedToFloat(fm.Descent),
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// FixedMeasurer is a deterministic metric with a constant per-rune advance,
// independent of the font. Used by layout tests.
type FixedMeasurer struct {
	CharWidth float64
	Ascent    float64
	Descent   float64
}

func (m FixedMeasurer) Advance(s string, _ Font) float64 {
	return float64(len([]rune(s))) * m.CharWidth
}

func (m FixedMeasurer) Metrics(_ Font) Metrics {
	return Metrics{Ascent: m.Ascent, Descent: m.Descent}
}

// Approximate estimates metrics from the font size alone. It is the
// fallback when no system font can be found; pages still lay out readably.
type Approximate struct{}

func (Approximate) Advance(s string, f Font) float64 {
	return float64(len([]rune(s))) * f.Size * 0.6
}

func (Approximate) Metrics(f Font) Metrics {
	return Metrics{Ascent: f.Size * 0.8, Descent: f.Size * 0.4}
}

// Default returns a face-backed measurer over system fonts, or Approximate
// when none can be found.
func Default() Measurer {
	paths, err := SystemFonts()
	if err != nil {
		return Approximate{}
	}
	m, err := NewFaceMeasurer(paths)
	if err != nil {
		return Approximate{}
	}
	return m
}
