// Package resource coordinates asynchronous loading of embedded content.
// Layout proceeds with placeholders while fetches run on a worker pool;
// completions are delivered back to the owning document, tagged with the
// document generation that asked for them.
package resource

import (
	"os"
	"strings"

	"github.com/Hopiu/bowser/std/net"
)

// Fetcher retrieves the raw bytes behind an identity. Implementations must
// be safe for concurrent use; the worker pool calls Fetch from multiple
// goroutines.
type Fetcher interface {
	Fetch(identity string) (body []byte, contentType string, err error)
}

// DefaultFetcher loads http(s) URLs over the network and anything else
// from the local filesystem, with an optional file:// prefix.
type DefaultFetcher struct{}

func (DefaultFetcher) Fetch(identity string) ([]byte, string, error) {
	if net.IsNetworkURL(identity) {
		return net.Fetch(identity)
	}
	data, err := os.ReadFile(strings.TrimPrefix(identity, "file://"))
	return data, "", err
}
