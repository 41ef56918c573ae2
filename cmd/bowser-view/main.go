// Command bowser-view is a minimal windowed browser: a URL bar on top, the
// rendered page below. Each submitted URL renders off the UI goroutine and
// swaps into the canvas when ready.
package main

import (
	"fmt"
	"image"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/Hopiu/bowser/pkg/config"
	"github.com/Hopiu/bowser/pkg/pipeline"
	"github.com/Hopiu/bowser/pkg/render"
	"github.com/Hopiu/bowser/pkg/text"
	"github.com/Hopiu/bowser/std/net"
)

const imageWait = 8 * time.Second

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	cfg, err := config.Load("bowser.toml")
	if err != nil {
		logger.Fatal("bad config", "err", err)
	}
	logger.SetLevel(cfg.LogLevel())

	a := app.New()
	w := a.NewWindow("bowser")
	w.Resize(fyne.NewSize(float32(cfg.Viewport.Width), float32(cfg.Viewport.Height)+80))

	surface := render.NewRaster(cfg.Viewport.Width, cfg.Viewport.Height, nil)
	canvasImg := canvas.NewImageFromImage(surface.Image())
	canvasImg.FillMode = canvas.ImageFillOriginal

	status := widget.NewLabel("Enter a URL and press Enter")

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://example.com")
	urlEntry.OnSubmitted = func(url string) {
		status.SetText("Loading " + url + "...")
		go func() {
			img, err := renderPage(cfg, logger, url)
			if err != nil {
				status.SetText("Error: " + err.Error())
				return
			}
			canvasImg.Image = img
			canvasImg.Refresh()
			status.SetText(url)
			w.SetTitle(fmt.Sprintf("bowser - %s", url))
		}()
	}

	topBar := container.NewBorder(nil, nil, nil, nil, urlEntry)
	content := container.NewBorder(topBar, status, nil, nil, canvasImg)
	w.SetContent(content)

	// Keep focus on the URL entry so Tab has somewhere to go.
	w.Canvas().Focus(urlEntry)

	w.ShowAndRun()
}

// renderPage fetches, lays out, and rasterizes one document, waiting a
// bounded time for its images.
func renderPage(cfg config.Config, logger *log.Logger, url string) (image.Image, error) {
	body, _, err := net.Fetch(url)
	if err != nil {
		return nil, err
	}

	measurer, faces := makeMeasurer(cfg, logger)
	p := pipeline.New(pipeline.Config{
		Width:    float64(cfg.Viewport.Width),
		Measurer: measurer,
		Logger:   logger,
		Workers:  cfg.Fetch.Workers,
	})
	defer p.Close()

	p.Load(string(body), url)
	deadline := time.Now().Add(imageWait)
	for p.PendingEmbeds() > 0 && time.Now().Before(deadline) {
		if p.Pump() == 0 {
			time.Sleep(20 * time.Millisecond)
		}
	}

	height := int(p.Height() + 0.5)
	if height < cfg.Viewport.Height {
		height = cfg.Viewport.Height
	}
	surface := render.NewRaster(cfg.Viewport.Width, height, faces)
	p.Render(surface)
	return surface.Image(), nil
}

func makeMeasurer(cfg config.Config, logger *log.Logger) (text.Measurer, *text.FaceMeasurer) {
	paths, err := cfg.FontPaths()
	if err != nil {
		logger.Warn("no system fonts, using approximate metrics", "err", err)
		return text.Approximate{}, nil
	}
	faces, err := text.NewFaceMeasurer(paths)
	if err != nil {
		logger.Warn("font unusable, using approximate metrics", "err", err)
		return text.Approximate{}, nil
	}
	return faces, faces
}
