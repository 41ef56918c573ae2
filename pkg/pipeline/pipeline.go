// Package pipeline drives a document from markup to pixels: parse, box
// tree, layout, display list, and incremental updates as embedded
// resources arrive. One Pipeline owns one document at a time; loading a
// new document bumps the generation, which quietly retires every fetch the
// old document still had in flight.
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/Hopiu/bowser/pkg/html"
	"github.com/Hopiu/bowser/pkg/images"
	"github.com/Hopiu/bowser/pkg/layout"
	"github.com/Hopiu/bowser/pkg/render"
	"github.com/Hopiu/bowser/pkg/resource"
	"github.com/Hopiu/bowser/pkg/style"
	"github.com/Hopiu/bowser/pkg/text"
	"github.com/Hopiu/bowser/std/net"
)

// Config carries the pipeline's collaborators. Zero values get sensible
// defaults; a nil Coordinator makes the pipeline start and own one over
// DefaultFetcher.
type Config struct {
	Width       float64
	Measurer    text.Measurer
	Resolver    style.Resolver
	Coordinator *resource.Coordinator
	Logger      *log.Logger
	Workers     int
}

type Pipeline struct {
	width    float64
	resolver style.Resolver
	engine   *layout.Engine
	coord    *resource.Coordinator
	ownCoord bool
	logger   *log.Logger

	generation uint64
	doc        *html.Node
	root       *layout.Box
	list       *render.DisplayList
}

func New(cfg Config) *Pipeline {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Measurer == nil {
		cfg.Measurer = text.Default()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = style.UserAgent()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}

	p := &Pipeline{
		width:    cfg.Width,
		resolver: cfg.Resolver,
		coord:    cfg.Coordinator,
		logger:   cfg.Logger,
	}
	p.engine = layout.NewEngine(cfg.Measurer)
	p.engine.Logger = cfg.Logger
	if p.coord == nil {
		p.coord = resource.NewCoordinator(images.NewCache(), resource.DefaultFetcher{}, cfg.Workers)
		p.coord.SetLogger(cfg.Logger)
		p.ownCoord = true
	}
	return p
}

// Load replaces the current document: parse, build, lay out, paint, and
// schedule fetches for every unresolved embed. Identities resolve against
// base when it is non-empty. Resources already cached render in the first
// frame; the rest render as placeholders until their completions apply.
func (p *Pipeline) Load(markup, base string) {
	p.generation++
	p.doc = html.Parse(markup)
	p.root = layout.Build(p.doc, p.resolver)
	p.resolveEmbeds(base)
	p.engine.Layout(p.root, p.width)
	p.list = render.Paint(p.root)
	p.logger.Info("document loaded",
		"generation", p.generation, "commands", len(p.list.Commands()))
}

func (p *Pipeline) resolveEmbeds(base string) {
	byIdentity := make(map[string][]*layout.Box)
	for _, e := range layout.Embeds(p.root) {
		if e.Src == "" {
			continue
		}
		if base != "" && !images.IsDataURL(e.Src) {
			e.Src = net.ResolveURL(base, e.Src)
		}
		byIdentity[e.Src] = append(byIdentity[e.Src], e)
	}
	for identity, boxes := range byIdentity {
		if r, ok := p.coord.Request(identity, p.generation); ok {
			for _, b := range boxes {
				b.Resource = r
			}
		}
	}
}

// Apply folds one completion into the document. Completions tagged with an
// older generation are dropped: their document is gone, and the resource
// sits in the cache for whoever asks next. Reports whether the display
// list changed.
func (p *Pipeline) Apply(comp resource.Completion) bool {
	if comp.Generation != p.generation {
		p.logger.Debug("stale completion dropped",
			"identity", comp.Identity, "generation", comp.Generation)
		return false
	}
	embeds := layout.CollectEmbeds(p.root, comp.Identity)
	if len(embeds) == 0 {
		return false
	}

	heightBefore := p.root.Height
	containers := make(map[*layout.Box]bool)
	for _, e := range embeds {
		e.Resource = comp.Resource
		containers[inlineContainerOf(e)] = true
		p.engine.LayoutSubtree(e)
	}

	if p.root.Height != heightBefore {
		// Content below the embeds moved; their painted spans are no
		// longer the only stale region.
		p.list = render.Paint(p.root)
		return true
	}
	for c := range containers {
		if c != nil {
			p.list.Replace(c)
		}
	}
	return true
}

func inlineContainerOf(b *layout.Box) *layout.Box {
	for ; b != nil; b = b.Parent {
		if b.IsInlineContainer() {
			return b
		}
	}
	return nil
}

// Pump applies every completion already waiting, without blocking, and
// reports how many changed the document. Callers run it from their frame
// loop.
func (p *Pipeline) Pump() int {
	applied := 0
	for {
		select {
		case comp := <-p.coord.Completions():
			if p.Apply(comp) {
				applied++
			}
		default:
			return applied
		}
	}
}

// WaitOne blocks for a single completion and applies it. Reports false
// when the completion was stale or matched nothing.
func (p *Pipeline) WaitOne() bool {
	return p.Apply(<-p.coord.Completions())
}

// Render replays the display list onto a surface.
func (p *Pipeline) Render(s render.Surface) {
	render.Execute(p.list, s)
}

// RenderViewport replays only the commands visible in the viewport.
func (p *Pipeline) RenderViewport(s render.Surface, viewport render.Rect) {
	render.ExecuteViewport(p.list, s, viewport)
}

// PendingEmbeds reports how many embeds still await a resource.
func (p *Pipeline) PendingEmbeds() int {
	n := 0
	for _, e := range layout.Embeds(p.root) {
		if e.Src != "" && e.Resource == nil {
			n++
		}
	}
	return n
}

func (p *Pipeline) Document() *html.Node { return p.doc }

func (p *Pipeline) Root() *layout.Box { return p.root }

func (p *Pipeline) DisplayList() *render.DisplayList { return p.list }

func (p *Pipeline) Generation() uint64 { return p.generation }

// Height is the laid-out page height, for sizing output surfaces.
func (p *Pipeline) Height() float64 {
	if p.root == nil {
		return 0
	}
	return p.root.Y + p.root.PaddingBoxHeight() + p.root.Style.GetMargin().Bottom
}

// Close stops the coordinator if the pipeline owns it.
func (p *Pipeline) Close() {
	if p.ownCoord {
		p.coord.Close()
	}
}
