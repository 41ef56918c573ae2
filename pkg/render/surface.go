package render

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"

	"github.com/Hopiu/bowser/pkg/style"
	"github.com/Hopiu/bowser/pkg/text"
)

// Raster rasterizes draw commands into an RGBA image. When a FaceMeasurer
// is supplied, text draws with the same faces layout measured with;
// without one, gg's built-in face is used and glyph widths will not match
// layout exactly.
type Raster struct {
	dc    *gg.Context
	faces *text.FaceMeasurer
}

// NewRaster returns a white w x h surface. faces may be nil.
func NewRaster(w, h int, faces *text.FaceMeasurer) *Raster {
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	return &Raster{dc: dc, faces: faces}
}

func (r *Raster) setColor(c style.Color) {
	r.dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}

func (r *Raster) FillRect(rect Rect, c style.Color) {
	r.setColor(c)
	r.dc.DrawRectangle(rect.X, rect.Y, rect.W, rect.H)
	r.dc.Fill()
}

func (r *Raster) DrawText(x, y float64, s string, f text.Font, c style.Color) {
	if r.faces != nil {
		r.dc.SetFontFace(r.faces.Face(f))
	}
	r.setColor(c)
	r.dc.DrawString(s, x, y)
}

func (r *Raster) DrawImage(rect Rect, img image.Image) {
	if img == nil || rect.W <= 0 || rect.H <= 0 {
		return
	}
	b := img.Bounds()
	if float64(b.Dx()) != rect.W || float64(b.Dy()) != rect.H {
		img = resize.Resize(uint(rect.W), uint(rect.H), img, resize.Bilinear)
	}
	r.dc.DrawImage(img, int(rect.X), int(rect.Y))
}

// Image returns the rasterized pixels.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

// SavePNG writes the surface to a PNG file.
func (r *Raster) SavePNG(path string) error {
	return r.dc.SavePNG(path)
}
