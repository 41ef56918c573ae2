// Package images holds decoded image resources and the shared cache keyed
// by identity (URL or data: payload). Resources outlive any single box:
// multiple embed boxes, possibly in different documents, may reference the
// same cached entry.
package images

import (
	"image"
	"sync"
)

// Resource is a decoded image or an error marker for an identity that
// failed to fetch or decode. Failed identities are cached too, so a broken
// image is not refetched for every box referencing it.
type Resource struct {
	Identity string
	Img      image.Image
	Err      error
}

// OK reports whether the resource holds decoded pixels.
func (r *Resource) OK() bool {
	return r != nil && r.Err == nil && r.Img != nil
}

// Size returns the intrinsic pixel dimensions, or (0, 0) for a failed
// resource.
func (r *Resource) Size() (w, h int) {
	if !r.OK() {
		return 0, 0
	}
	b := r.Img.Bounds()
	return b.Dx(), b.Dy()
}

// Cache is a mutex-guarded identity -> resource map. It is shared across
// documents, so access is safe from any goroutine.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Resource
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Resource)}
}

func (c *Cache) Get(identity string) (*Resource, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[identity]
	return r, ok
}

func (c *Cache) Set(r *Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[r.Identity] = r
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry. Used by tests and on memory pressure.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Resource)
}
