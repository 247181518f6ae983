package cache

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
	gocache "github.com/patrickmn/go-cache"
)

// Page is a rendered response.
type Page struct {
	Status      int
	ContentType string
	Body        []byte
}

// PageCache keeps rendered public pages in memory for ttl. A zero ttl
// disables it.
type PageCache struct {
	ttl   time.Duration
	items *gocache.Cache
}

func NewPageCache(ttl time.Duration) *PageCache {
	if ttl <= 0 {
		return &PageCache{}
	}
	return &PageCache{ttl: ttl, items: gocache.New(ttl, 2*ttl)}
}

func (p *PageCache) Enabled() bool {
	return p != nil && p.items != nil
}

// Key returns the cache key for a request URI.
func Key(uri string) string {
	return generateHash(uri)
}

// generateHash generates an xxHash hash for the given string
func generateHash(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

func (p *PageCache) Get(uri string) (Page, bool) {
	if !p.Enabled() {
		return Page{}, false
	}
	v, ok := p.items.Get(Key(uri))
	if !ok {
		return Page{}, false
	}
	return v.(Page), true
}

// Set stores a successful page. Other statuses are not cached.
func (p *PageCache) Set(uri string, page Page) {
	if !p.Enabled() || page.Status != http.StatusOK {
		return
	}
	p.items.Set(Key(uri), page, p.ttl)
}

// Purge drops every cached page. Called after any content write.
func (p *PageCache) Purge() {
	if !p.Enabled() {
		return
	}
	p.items.Flush()
}

func (p *PageCache) Len() int {
	if !p.Enabled() {
		return 0
	}
	return p.items.ItemCount()
}
