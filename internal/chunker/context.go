package chunker

import (
	"container/list"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
)

// DefaultContextLines is how far into a file FileContext looks for
// header material.
const DefaultContextLines = 100

// contextPrefixes mark lines that carry file-level context: comments,
// imports, and module declarations across the supported languages.
var contextPrefixes = []string{
	"*", "//", "#", ";",
	"import", "from", "package", "using", "include",
}

// contextSubstrings mark declaration lines worth carrying into every
// chunk's prompt.
var contextSubstrings = []string{
	"class ", "def ", "function ",
	"IDENTIFICATION DIVISION", "PROGRAM-ID",
}

// FileContext extracts header comments, imports, and declarations from the
// first maxLines lines of a file. The result is prepended to chunk prompts
// so extraction sees file-level identifiers. Results are memoized in the
// chunker's cache when one is configured.
func (c *Chunker) FileContext(content string, maxLines int) []string {
	if maxLines <= 0 {
		maxLines = DefaultContextLines
	}

	lines := strings.Split(content, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	var key uint64
	if c.cache != nil {
		key = contextKey(lines, maxLines)
		if ctx, ok := c.cache.get(key); ok {
			return ctx
		}
	}

	ctx := extractContext(lines)

	if c.cache != nil {
		c.cache.put(key, ctx)
	}
	return ctx
}

func extractContext(lines []string) []string {
	var ctx []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if hasContextPrefix(trimmed) || hasContextSubstring(line) {
			ctx = append(ctx, line)
		}
	}
	return ctx
}

func hasContextPrefix(trimmed string) bool {
	for _, p := range contextPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

func hasContextSubstring(line string) bool {
	for _, s := range contextSubstrings {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

func contextKey(lines []string, maxLines int) uint64 {
	h := fnv.New64a()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	h.Write([]byte(strconv.Itoa(maxLines)))
	return h.Sum64()
}

// ContextCache is a bounded LRU cache of extracted file contexts, keyed by
// a hash of the file prefix. Safe for concurrent use.
type ContextCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[uint64]*list.Element
}

type cacheEntry struct {
	key     uint64
	context []string
}

// NewContextCache creates a cache holding at most capacity entries.
// Non-positive capacity selects the default of 256.
func NewContextCache(capacity int) *ContextCache {
	if capacity <= 0 {
		capacity = 256
	}
	return &ContextCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[uint64]*list.Element),
	}
}

// Len reports the number of cached contexts.
func (c *ContextCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ContextCache) get(key uint64) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).context, true
}

func (c *ContextCache) put(key uint64, context []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).context = context
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&cacheEntry{key: key, context: context})
	c.entries[key] = el

	if len(c.entries) > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}
