// Command bowser renders an HTML document to a PNG image. The source may
// be a local file or an HTTP(S) URL; relative image references resolve
// against it either way.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Hopiu/bowser/pkg/config"
	"github.com/Hopiu/bowser/pkg/debug"
	"github.com/Hopiu/bowser/pkg/pipeline"
	"github.com/Hopiu/bowser/pkg/render"
	"github.com/Hopiu/bowser/pkg/text"
	"github.com/Hopiu/bowser/std/net"
)

func main() {
	var (
		outPath  = flag.String("o", "page.png", "output PNG file")
		domPath  = flag.String("dom", "", "also write the parsed tree as .svg, .png, or .dot")
		confPath = flag.String("config", "bowser.toml", "config file")
		width    = flag.Int("width", 0, "viewport width, overriding the config")
		timeout  = flag.Duration("timeout", 10*time.Second, "how long to wait for images")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.html | URL>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	source := flag.Arg(0)

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	cfg, err := config.Load(*confPath)
	if err != nil {
		logger.Fatal("bad config", "err", err)
	}
	logger.SetLevel(cfg.LogLevel())
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if *width > 0 {
		cfg.Viewport.Width = *width
	}

	markup, err := loadSource(source)
	if err != nil {
		logger.Fatal("loading document", "source", source, "err", err)
	}

	measurer, faces := makeMeasurer(cfg, logger)
	p := pipeline.New(pipeline.Config{
		Width:    float64(cfg.Viewport.Width),
		Measurer: measurer,
		Logger:   logger,
		Workers:  cfg.Fetch.Workers,
	})
	defer p.Close()

	p.Load(markup, source)

	deadline := time.Now().Add(*timeout)
	for p.PendingEmbeds() > 0 && time.Now().Before(deadline) {
		if p.Pump() == 0 {
			time.Sleep(20 * time.Millisecond)
		}
	}
	if n := p.PendingEmbeds(); n > 0 {
		logger.Warn("rendering with unresolved images", "count", n)
	}

	height := int(p.Height() + 0.5)
	if height < cfg.Viewport.Height {
		height = cfg.Viewport.Height
	}
	surface := render.NewRaster(cfg.Viewport.Width, height, faces)
	p.Render(surface)
	if err := surface.SavePNG(*outPath); err != nil {
		logger.Fatal("writing PNG", "path", *outPath, "err", err)
	}
	fmt.Printf("rendered %s to %s (%dx%d)\n", source, *outPath, cfg.Viewport.Width, height)

	if *domPath != "" {
		if err := writeDOM(p, *domPath); err != nil {
			logger.Fatal("writing DOM graph", "path", *domPath, "err", err)
		}
		fmt.Printf("wrote parse tree to %s\n", *domPath)
	}
}

func loadSource(source string) (string, error) {
	if net.IsNetworkURL(source) {
		body, _, err := net.Fetch(source)
		return string(body), err
	}
	body, err := os.ReadFile(source)
	return string(body), err
}

// makeMeasurer prefers real font metrics; when no usable TTF is around it
// falls back to size-based estimates and rasterizes with the built-in face.
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

func writeDOM(p *pipeline.Pipeline, path string) error {
	dot := debug.ToDOT(p.Document())
	var data []byte
	var err error
	switch {
	case strings.HasSuffix(path, ".svg"):
		data, err = debug.RenderSVG(dot)
	case strings.HasSuffix(path, ".png"):
		data, err = debug.RenderPNG(dot)
	default:
		data = []byte(dot)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
