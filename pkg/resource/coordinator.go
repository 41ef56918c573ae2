package resource

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Hopiu/bowser/pkg/images"
)

// Completion is one answer to one Request. The generation echoes the value
// passed to Request, so the consumer can discard answers its document has
// outgrown.
type Completion struct {
	Identity   string
	Generation uint64
	Resource   *images.Resource
}

// Coordinator runs fetches on a fixed worker pool and funnels results back
// through a single completions channel. Each identity is fetched at most
// once no matter how many boxes request it: concurrent requests for an
// in-flight identity just join its waiter list, and the shared cache
// answers everything after that, errors included.
type Coordinator struct {
	cache   *images.Cache
	fetcher Fetcher
	logger  *log.Logger

	mu      sync.Mutex
	pending map[string][]uint64

	jobs        chan string
	completions chan Completion
	done        chan struct{}
	wg          sync.WaitGroup
}

// NewCoordinator starts workers goroutines over the fetcher. The cache may
// be shared with other coordinators.
func NewCoordinator(cache *images.Cache, fetcher Fetcher, workers int) *Coordinator {
	if workers < 1 {
		workers = 1
	}
	c := &Coordinator{
		cache:       cache,
		fetcher:     fetcher,
		logger:      log.New(io.Discard),
		pending:     make(map[string][]uint64),
		jobs:        make(chan string, workers*4),
		completions: make(chan Completion, 64),
		done:        make(chan struct{}),
	}
	c.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go c.worker()
	}
	return c
}

// SetLogger replaces the discard logger. Call before the first Request.
func (c *Coordinator) SetLogger(l *log.Logger) { c.logger = l }

// Completions is the channel fetch results arrive on. The consumer drains
// it from its own loop; workers block once its buffer fills.
func (c *Coordinator) Completions() <-chan Completion { return c.completions }

// Request asks for an identity on behalf of a document generation. A
// cached resource comes back immediately with ok true and produces no
// completion. Otherwise the fetch is scheduled, deduplicated against any
// in-flight fetch for the same identity, and a Completion will carry the
// answer later. Data URIs decode synchronously; they never hit a worker.
func (c *Coordinator) Request(identity string, generation uint64) (*images.Resource, bool) {
	if identity == "" {
		return nil, false
	}
	if r, ok := c.cache.Get(identity); ok {
		return r, true
	}
	if images.IsDataURL(identity) {
		r := decodeInline(identity)
		c.cache.Set(r)
		return r, true
	}

	c.mu.Lock()
	waiters := c.pending[identity]
	c.pending[identity] = append(waiters, generation)
	first := len(waiters) == 0
	c.mu.Unlock()

	if first {
		select {
		case c.jobs <- identity:
		default:
			// Queue full: hand the send to a goroutine rather than
			// blocking the caller.
			go func() {
				select {
				case c.jobs <- identity:
				case <-c.done:
				}
			}()
		}
	}
	return nil, false
}

// Close stops the workers. Undelivered completions are dropped.
func (c *Coordinator) Close() {
	close(c.done)
	c.wg.Wait()
}

func (c *Coordinator) worker() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case identity := <-c.jobs:
			res := c.load(identity)
			c.cache.Set(res)

			c.mu.Lock()
			generations := c.pending[identity]
			delete(c.pending, identity)
			c.mu.Unlock()

			for _, gen := range generations {
				select {
				case c.completions <- Completion{Identity: identity, Generation: gen, Resource: res}:
				case <-c.done:
					return
				}
			}
		}
	}
}

func (c *Coordinator) load(identity string) *images.Resource {
	data, _, err := c.fetcher.Fetch(identity)
	if err != nil {
		c.logger.Warn("fetch failed", "identity", identity, "err", err)
		return &images.Resource{Identity: identity, Err: err}
	}
	img, err := images.Decode(data)
	if err != nil {
		c.logger.Warn("decode failed", "identity", identity, "err", err)
		return &images.Resource{Identity: identity, Err: err}
	}
	return &images.Resource{Identity: identity, Img: img}
}

func decodeInline(identity string) *images.Resource {
	data, err := images.DecodeDataURL(identity)
	if err != nil {
		return &images.Resource{Identity: identity, Err: err}
	}
	img, err := images.Decode(data)
	if err != nil {
		return &images.Resource{Identity: identity, Err: err}
	}
	return &images.Resource{Identity: identity, Img: img}
}
