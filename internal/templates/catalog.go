// Package templates lists the reference images available to the detector.
package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Template categories, one directory each under the catalog root.
const (
	CategoryDecorations = "decorations"
	CategoryMain        = "main"
	CategoryMarket      = "market"
	CategoryOffer       = "offer"
	CategoryAdvert      = "advert"
)

// Categories lists the template categories in display order.
var Categories = []string{
	CategoryDecorations,
	CategoryMain,
	CategoryMarket,
	CategoryOffer,
	CategoryAdvert,
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// ErrUnknownCategory indicates a category that is not one of Categories.
var ErrUnknownCategory = errors.New("unknown template category")

// DirCatalog reads templates from <root>/<category>/<file>.
// Template identifiers are "<category>/<file>".
type DirCatalog struct {
	root string
}

// NewDirCatalog creates a catalog rooted at dir.
func NewDirCatalog(dir string) *DirCatalog {
	return &DirCatalog{root: dir}
}

// Root returns the catalog directory.
func (c *DirCatalog) Root() string {
	return c.root
}

// Templates returns the sorted template identifiers of one category.
// A missing category directory yields an empty list.
func (c *DirCatalog) Templates(category string) ([]string, error) {
	if !IsCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	entries, err := os.ReadDir(filepath.Join(c.root, category))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		ids = append(ids, category+"/"+entry.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// Path returns the image file of a template identifier.
func (c *DirCatalog) Path(id string) (string, error) {
	category, file, ok := Split(id)
	if !ok {
		return "", fmt.Errorf("invalid template identifier %q", id)
	}
	return filepath.Join(c.root, category, file), nil
}

// Exists reports whether the template image is present.
func (c *DirCatalog) Exists(id string) bool {
	path, err := c.Path(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Split separates a template identifier into category and file name.
func Split(id string) (category, file string, ok bool) {
	category, file, ok = strings.Cut(id, "/")
	if !ok || !IsCategory(category) || file == "" || strings.ContainsAny(file, `/\`) || strings.HasPrefix(file, ".") {
		return "", "", false
	}
	return category, file, true
}

// IsCategory reports whether name is a known category.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
