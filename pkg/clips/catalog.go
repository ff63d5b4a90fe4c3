package clips

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Catalog holds the expression clips that can be equipped on an avatar.
// It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	clips map[string]*Clip
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		clips: make(map[string]*Clip),
	}
}

// Register adds a clip, replacing any clip with the same name.
func (c *Catalog) Register(clip *Clip) error {
	if err := clip.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clips[clip.Name] = clip
	return nil
}

// Unregister removes a clip from the catalog.
func (c *Catalog) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.clips, name)
}

// Get retrieves a clip by name.
func (c *Catalog) Get(name string) (*Clip, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	clip, ok := c.clips[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return clip, nil
}

// List returns all registered clip names, sorted alphabetically.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.clips))
	for name := range c.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered clips.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clips)
}

// Categories groups clips by name without trailing digits
// ("wave2" -> "wave", "dance3" -> "dance").
func (c *Catalog) Categories() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	categories := make(map[string][]string)
	for name := range c.clips {
		category := extractCategory(name)
		categories[category] = append(categories[category], name)
	}

	for cat := range categories {
		sort.Strings(categories[cat])
	}
	return categories
}

// extractCategory gets the base name without trailing numbers.
func extractCategory(name string) string {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == 0 {
		return name
	}
	return name[:i]
}

// Search finds clips whose name or description contains query, ignoring case.
func (c *Catalog) Search(query string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(query)
	var matches []string
	for name, clip := range c.clips {
		if strings.Contains(strings.ToLower(name), q) || strings.Contains(strings.ToLower(clip.Description), q) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}
