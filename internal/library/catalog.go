package library

import (
	"fmt"
	"sync"
)

// Kind distinguishes the two catalog lists.
type Kind int

const (
	KindVideo Kind = iota
	KindSubtitle
)

func (k Kind) String() string {
	if k == KindSubtitle {
		return "subtitle"
	}
	return "video"
}

// Entry is a catalog row: a path plus its selection flag.
type Entry struct {
	Path     string
	AbsPath  string
	Selected bool
	// HasSubtitle is only meaningful for videos.
	HasSubtitle bool
}

// Catalog holds the latest Inventory of a root with per-entry selection.
// Entries start selected; Refresh keeps deselections for paths that still
// exist.
type Catalog struct {
	mu         sync.Mutex
	opts       Options
	inv        Inventory
	deselected map[Kind]map[string]struct{}
}

// NewCatalog returns an empty catalog. Call SetRoot or Refresh to populate it.
func NewCatalog(opts Options) *Catalog {
	return &Catalog{
		opts: opts,
		deselected: map[Kind]map[string]struct{}{
			KindVideo:    {},
			KindSubtitle: {},
		},
	}
}

// SetRoot scans root and replaces the catalog contents, resetting every
// entry to selected.
func (c *Catalog) SetRoot(root string) (Inventory, error) {
	inv, err := Scan(root, c.opts)
	if err != nil {
		return Inventory{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inv = inv
	c.deselected = map[Kind]map[string]struct{}{
		KindVideo:    {},
		KindSubtitle: {},
	}
	return inv, nil
}

// Refresh rescans the current root. Deselections for paths that disappeared
// are dropped; new paths start selected.
func (c *Catalog) Refresh() (Inventory, error) {
	c.mu.Lock()
	root := c.inv.Root
	c.mu.Unlock()
	if root == "" {
		return Inventory{}, fmt.Errorf("refresh: no directory selected")
	}
	inv, err := Scan(root, c.opts)
	if err != nil {
		return Inventory{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inv = inv
	present := map[Kind]map[string]struct{}{
		KindVideo:    {},
		KindSubtitle: {},
	}
	for _, v := range inv.Videos {
		present[KindVideo][v.Path] = struct{}{}
	}
	for _, s := range inv.Subtitles {
		present[KindSubtitle][s.Path] = struct{}{}
	}
	for kind, paths := range c.deselected {
		for path := range paths {
			if _, ok := present[kind][path]; !ok {
				delete(paths, path)
			}
		}
	}
	return inv, nil
}

// Root returns the scanned root, or "" before the first scan.
func (c *Catalog) Root() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inv.Root
}

// Inventory returns the latest scan result.
func (c *Catalog) Inventory() Inventory {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inv
}

// Entries lists the catalog rows of kind in display order.
func (c *Catalog) Entries(kind Kind) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Entry
	switch kind {
	case KindVideo:
		out = make([]Entry, 0, len(c.inv.Videos))
		for _, v := range c.inv.Videos {
			_, off := c.deselected[kind][v.Path]
			out = append(out, Entry{Path: v.Path, AbsPath: v.AbsPath, Selected: !off, HasSubtitle: v.HasSubtitle})
		}
	case KindSubtitle:
		out = make([]Entry, 0, len(c.inv.Subtitles))
		for _, s := range c.inv.Subtitles {
			_, off := c.deselected[kind][s.Path]
			out = append(out, Entry{Path: s.Path, AbsPath: s.AbsPath, Selected: !off})
		}
	}
	return out
}

// Selected returns the absolute paths of the selected entries of kind.
func (c *Catalog) Selected(kind Kind) []string {
	entries := c.Entries(kind)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Selected {
			out = append(out, e.AbsPath)
		}
	}
	return out
}

// SetSelected marks the entries at the 1-based positions as selected or
// deselected. An empty positions list applies to every entry of kind.
func (c *Catalog) SetSelected(kind Kind, selected bool, positions ...int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	paths := c.pathsLocked(kind)
	if len(positions) == 0 {
		for _, p := range paths {
			c.markLocked(kind, p, selected)
		}
		return nil
	}
	for _, pos := range positions {
		if pos < 1 || pos > len(paths) {
			return fmt.Errorf("%s #%d out of range (1-%d)", kind, pos, len(paths))
		}
	}
	for _, pos := range positions {
		c.markLocked(kind, paths[pos-1], selected)
	}
	return nil
}

func (c *Catalog) pathsLocked(kind Kind) []string {
	var out []string
	if kind == KindSubtitle {
		for _, s := range c.inv.Subtitles {
			out = append(out, s.Path)
		}
		return out
	}
	for _, v := range c.inv.Videos {
		out = append(out, v.Path)
	}
	return out
}

func (c *Catalog) markLocked(kind Kind, path string, selected bool) {
	if selected {
		delete(c.deselected[kind], path)
		return
	}
	c.deselected[kind][path] = struct{}{}
}
