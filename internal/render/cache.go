package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxIdleRenderers bounds how many idle renderers are kept per option set
const maxIdleRenderers = 4

// rendererKey identifies the options a glamour renderer was built with
type rendererKey struct {
	style    string
	width    int
	emoji    bool
	newLines bool
}

func keyFor(opts Options) rendererKey {
	return rendererKey{
		style:    opts.Style,
		width:    opts.Width,
		emoji:    opts.EnableEmoji,
		newLines: opts.PreserveNewLines,
	}
}

// rendererCache lends glamour renderers out one caller at a time.
// A TermRenderer is not safe for concurrent Render calls.
type rendererCache struct {
	mu   sync.Mutex
	idle map[rendererKey]chan *glamour.TermRenderer
}

var renderers = newRendererCache()

func newRendererCache() *rendererCache {
	return &rendererCache{idle: make(map[rendererKey]chan *glamour.TermRenderer)}
}

func (c *rendererCache) slot(key rendererKey) chan *glamour.TermRenderer {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch, ok := c.idle[key]
	if !ok {
		ch = make(chan *glamour.TermRenderer, maxIdleRenderers)
		c.idle[key] = ch
	}
	return ch
}

// acquire returns an idle renderer for opts or builds a new one
func (c *rendererCache) acquire(opts Options) (*glamour.TermRenderer, error) {
	select {
	case r := <-c.slot(keyFor(opts)):
		return r, nil
	default:
		return newRenderer(opts)
	}
}

// release hands r back; it is dropped when the slot is full
func (c *rendererCache) release(opts Options, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	select {
	case c.slot(keyFor(opts)) <- r:
	default:
	}
}

func (c *rendererCache) idleCount(opts Options) int {
	return len(c.slot(keyFor(opts)))
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops every idle renderer
func ClearCache() {
	renderers.mu.Lock()
	renderers.idle = make(map[rendererKey]chan *glamour.TermRenderer)
	renderers.mu.Unlock()
}

// CacheSize returns the number of distinct option sets seen
func CacheSize() int {
	renderers.mu.Lock()
	defer renderers.mu.Unlock()
	return len(renderers.idle)
}
