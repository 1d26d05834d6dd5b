package catalog

import (
	"strings"
	"sync"

	"github.com/stylerack/stylerack/pkg/errors"
)

// Listing is a raw remote listing: directory paths and file paths with
// '/'-separated segments, as returned by the image host.
type Listing struct {
	Directories []string
	Files       []string
}

// BuildStats reports what a catalog rebuild kept and dropped.
type BuildStats struct {
	Products     int // decoded, image-bearing products kept
	SkippedDirs  int // directories that did not decode (not products)
	OrphanFiles  int // files whose containing directory is not a product
	DroppedEmpty int // decoded products discarded for having no images
}

// Catalog is the in-memory collection of all decoded, image-bearing
// products for the current session, keyed by remote directory path and
// ordered by listing appearance.
//
// All mutation happens through Build and RemoveImage under one lock, so a
// single coherent state bundle has a single writer at a time.
type Catalog struct {
	mu     sync.RWMutex
	byPath map[string]*Product
	byID   map[string]*Product
	order  []string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		byPath: make(map[string]*Product),
		byID:   make(map[string]*Product),
	}
}

// Build replaces the catalog contents with products derived from a remote
// listing. This is a one-shot batch derivation, not an incremental index:
//
//  1. every directory entry's leaf name is decoded; non-conforming names
//     are skipped silently (they are not products),
//  2. every file is attached to the product owning its containing
//     directory; files outside any product are dropped,
//  3. products left with zero images are discarded,
//  4. each product's images are sorted by filename under numeric-aware
//     collation.
func (c *Catalog) Build(l Listing) BuildStats {
	var stats BuildStats

	byPath := make(map[string]*Product, len(l.Directories))
	order := make([]string, 0, len(l.Directories))

	for _, dirPath := range l.Directories {
		leaf := dirPath
		if i := strings.LastIndex(dirPath, "/"); i >= 0 {
			leaf = dirPath[i+1:]
		}
		p, err := ParseFolderName(leaf)
		if err != nil {
			stats.SkippedDirs++
			continue
		}
		p.Path = dirPath
		p.ID = DeriveID(dirPath)
		byPath[dirPath] = p
		order = append(order, dirPath)
	}

	for _, filePath := range l.Files {
		i := strings.LastIndex(filePath, "/")
		if i < 0 {
			stats.OrphanFiles++
			continue
		}
		dir := filePath[:i]
		p, ok := byPath[dir]
		if !ok {
			stats.OrphanFiles++
			continue
		}
		p.Images = append(p.Images, Image{
			RemotePath: filePath,
			FileName:   filePath[i+1:],
		})
	}

	kept := make([]string, 0, len(order))
	byID := make(map[string]*Product, len(byPath))
	for _, path := range order {
		p := byPath[path]
		if len(p.Images) == 0 {
			delete(byPath, path)
			stats.DroppedEmpty++
			continue
		}
		SortImages(p.Images)
		byID[p.ID] = p
		kept = append(kept, path)
	}
	stats.Products = len(kept)

	c.mu.Lock()
	c.byPath = byPath
	c.byID = byID
	c.order = kept
	c.mu.Unlock()

	return stats
}

// Products returns the catalog's products in listing order.
func (c *Catalog) Products() []*Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Product, 0, len(c.order))
	for _, path := range c.order {
		out = append(out, c.byPath[path])
	}
	return out
}

// Find returns the product stored under the given remote directory path.
func (c *Catalog) Find(path string) (*Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if p, ok := c.byPath[path]; ok {
		return p, nil
	}
	return nil, errors.NewNotFoundError("product", path)
}

// FindByID returns the product with the given derived identifier.
func (c *Catalog) FindByID(id string) (*Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if p, ok := c.byID[id]; ok {
		return p, nil
	}
	return nil, errors.NewNotFoundError("product", id)
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// RemoveResult describes the local cascade of an image removal.
type RemoveResult struct {
	// Product is the product the image belonged to.
	Product *Product

	// ProductRemoved is true when removing the image emptied the product's
	// image list, removing the product from the catalog as well.
	ProductRemoved bool
}

// RemoveImage removes an image from the in-memory catalog after a remote
// deletion succeeded. If that empties the owning product's image list the
// product itself is removed. This cascade is local by design: it avoids a
// full remote re-fetch.
func (c *Catalog) RemoveImage(imagePath string) (*RemoveResult, error) {
	i := strings.LastIndex(imagePath, "/")
	if i < 0 {
		return nil, errors.NewNotFoundError("image", imagePath)
	}
	dir := imagePath[:i]

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.byPath[dir]
	if !ok {
		return nil, errors.NewNotFoundError("image", imagePath)
	}

	found := false
	for j, img := range p.Images {
		if img.RemotePath == imagePath {
			p.Images = append(p.Images[:j], p.Images[j+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NewNotFoundError("image", imagePath)
	}

	result := &RemoveResult{Product: p}
	if len(p.Images) == 0 {
		delete(c.byPath, dir)
		delete(c.byID, p.ID)
		for j, path := range c.order {
			if path == dir {
				c.order = append(c.order[:j], c.order[j+1:]...)
				break
			}
		}
		result.ProductRemoved = true
	}
	return result, nil
}
