// Package cache memoises scanner output per code text. Units are often
// resubmitted unchanged (shared includes, repeated CI runs), and scanning is a
// pure function of catalog and text, so results can be reused safely.
package cache

import (
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redactyl/drcscan/internal/types"
)

// Findings is an LRU of findings keyed by catalog digest and text hash.
// A nil *Findings is a valid, always-missing cache.
type Findings struct {
	lru *lru.Cache[string, []types.Finding]
}

// New returns a cache holding up to size texts. size <= 0 disables caching.
func New(size int) (*Findings, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[string, []types.Finding](size)
	if err != nil {
		return nil, err
	}
	return &Findings{lru: c}, nil
}

// Key derives the cache key for text scanned with the catalog identified by digest.
func Key(digest, text string) string {
	return digest + ":" + fastHash(text) + ":" + strconv.Itoa(len(text))
}

// Get returns a copy of the cached findings for key.
func (f *Findings) Get(key string) ([]types.Finding, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.lru.Get(key)
	if !ok {
		return nil, false
	}
	return clone(v), true
}

// Add stores a copy of findings under key.
func (f *Findings) Add(key string, findings []types.Finding) {
	if f == nil {
		return
	}
	f.lru.Add(key, clone(findings))
}

// Len reports the number of cached texts.
func (f *Findings) Len() int {
	if f == nil {
		return 0
	}
	return f.lru.Len()
}

func clone(in []types.Finding) []types.Finding {
	out := make([]types.Finding, len(in))
	copy(out, in)
	return out
}

func fastHash(s string) string {
	if len(s) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64String(s)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
