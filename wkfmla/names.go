package wkfmla

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// NameResolver maps the numeric sheet and external-file ids found in
// references to display names. Both lookups report false for unknown ids.
type NameResolver interface {
	SheetName(id int) (string, bool)
	ExternalFileName(id int) (string, bool)
}

// StaticNames is a NameResolver backed by two maps.
type StaticNames struct {
	Sheets map[int]string
	Files  map[int]string
}

func (n StaticNames) SheetName(id int) (string, bool) {
	s, ok := n.Sheets[id]
	return s, ok
}

func (n StaticNames) ExternalFileName(id int) (string, bool) {
	s, ok := n.Files[id]
	return s, ok
}

type noNames struct{}

func (noNames) SheetName(int) (string, bool)        { return "", false }
func (noNames) ExternalFileName(int) (string, bool) { return "", false }

type nameKey struct {
	file bool
	id   int
}

type nameEntry struct {
	name string
	ok   bool
}

// CachedNames memoizes the answers of another NameResolver in a bounded LRU.
// It is safe for concurrent use, so one instance can serve a whole DecodeBatch.
type CachedNames struct {
	next  NameResolver
	cache *lru.Cache[nameKey, nameEntry]
}

// NewCachedNames wraps next with a cache holding at most size answers.
func NewCachedNames(next NameResolver, size int) (*CachedNames, error) {
	cache, err := lru.New[nameKey, nameEntry](size)
	if err != nil {
		return nil, err
	}
	return &CachedNames{next: next, cache: cache}, nil
}

func (c *CachedNames) SheetName(id int) (string, bool) {
	return c.lookup(nameKey{id: id}, c.next.SheetName)
}

func (c *CachedNames) ExternalFileName(id int) (string, bool) {
	return c.lookup(nameKey{file: true, id: id}, c.next.ExternalFileName)
}

// Len returns the number of cached answers.
func (c *CachedNames) Len() int {
	return c.cache.Len()
}

func (c *CachedNames) lookup(key nameKey, fn func(int) (string, bool)) (string, bool) {
	if e, ok := c.cache.Get(key); ok {
		return e.name, e.ok
	}
	name, ok := fn(key.id)
	c.cache.Add(key, nameEntry{name: name, ok: ok})
	return name, ok
}
