package course

import "sync"

// Catalog caches loaded courses process-wide, keyed by course id.
// Courses are immutable once loaded, so a cached course is safe to share
// across all users and turns.
type Catalog struct {
	loader *Loader

	mu      sync.RWMutex
	courses map[string]*Course
}

// NewCatalog creates a Catalog backed by the given loader.
func NewCatalog(loader *Loader) *Catalog {
	return &Catalog{
		loader:  loader,
		courses: make(map[string]*Course),
	}
}

// Get returns the course with the given id, loading it on first access.
func (c *Catalog) Get(id string) (*Course, error) {
	c.mu.RLock()
	cached, ok := c.courses[id]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	loaded, err := c.loader.Load(id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have loaded it meanwhile; keep the first copy.
	if existing, ok := c.courses[id]; ok {
		return existing, nil
	}
	c.courses[id] = loaded
	return loaded, nil
}

// List returns summaries of all available course documents.
// The listing always reflects the directory, not the cache.
func (c *Catalog) List() ([]Summary, error) {
	return c.loader.List()
}
