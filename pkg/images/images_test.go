package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
)

// pngBytes encodes a w x h solid image as PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	img, err := Decode(pngBytes(t, 3, 2))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v", b)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("expected error for garbage bytes")
	}
}

func TestDecodeDataURL_Base64(t *testing.T) {
	raw := pngBytes(t, 1, 1)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	got, err := DecodeDataURL(dataURL)
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Error("payload mismatch")
	}
}

func TestDecodeDataURL_Percent(t *testing.T) {
	got, err := DecodeDataURL("data:text/plain,hello%20world")
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if string(got) != "hello world" {
		t.Errorf("payload = %q", got)
	}
}

func TestDecodeDataURL_Malformed(t *testing.T) {
	for _, in := range []string{"data:no-comma", "http://x/y.png"} {
		if _, err := DecodeDataURL(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestResourceSize(t *testing.T) {
	img, _ := Decode(pngBytes(t, 4, 5))
	r := &Resource{Identity: "a", Img: img}
	if w, h := r.Size(); w != 4 || h != 5 {
		t.Errorf("Size = %d x %d", w, h)
	}
	failed := &Resource{Identity: "b", Err: errors.New("404")}
	if failed.OK() {
		t.Error("failed resource must not be OK")
	}
	if w, h := failed.Size(); w != 0 || h != 0 {
		t.Error("failed resource has no size")
	}
}

func TestCacheErrorMarker(t *testing.T) {
	c := NewCache()
	c.Set(&Resource{Identity: "broken.png", Err: errors.New("fetch failed")})
	got, ok := c.Get("broken.png")
	if !ok || got.OK() {
		t.Error("error marker must be cached and not OK")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set(&Resource{Identity: "shared"})
			c.Get("shared")
		}()
	}
	wg.Wait()
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}
