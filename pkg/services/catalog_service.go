package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"

	"image-catalog/pkg/config"
	"image-catalog/pkg/models"
	"image-catalog/pkg/scanner"
)

// ErrNotFound is returned when a requested directory cannot be shown. It
// covers unsafe paths, missing paths and paths that are not directories.
var ErrNotFound = errors.New("directory not found")

// Catalog is what the rendering layer needs from the catalog
type Catalog interface {
	ListCategories() []models.Category
	Resolve(segments []string) (*models.DirectoryContent, error)
}

// Service builds catalog listings from the image tree on every call
type Service struct {
	scanner *scanner.Scanner
}

// New creates a Service on top of an existing scanner
func New(sc *scanner.Scanner) *Service {
	return &Service{scanner: sc}
}

// NewService creates a Service reading the configured image root from disk
func NewService(cfg *config.Config) (*Service, error) {
	abs, err := filepath.Abs(cfg.ImageRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving image root %q: %w", cfg.ImageRoot, err)
	}

	fs := osfs.New(filepath.Dir(abs))
	sc := scanner.New(fs, filepath.Base(abs),
		scanner.WithPrefix(cfg.ImagePrefix),
		scanner.WithOrder(scanner.OrderFor(cfg.SortEntries)),
		scanner.WithStrict(cfg.StrictScan),
		scanner.WithWorkers(cfg.ScanWorkers),
	)
	return New(sc), nil
}

// ListCategories returns every top-level directory with its recursive
// image count and preview. A missing image root is an empty catalog.
func (s *Service) ListCategories() []models.Category {
	categories := []models.Category{}

	info, err := s.scanner.Stat("")
	if err != nil || !info.IsDir() {
		slog.Debug("Image root unavailable", "error", err)
		return categories
	}

	entries, err := s.scanner.ReadDir("")
	if err != nil {
		slog.Debug("Image root unreadable", "error", err)
		return categories
	}

	var dirs []scanner.Entry
	for _, entry := range entries {
		if entry.IsDir {
			dirs = append(dirs, entry)
		}
	}

	aggregates := s.scanner.AggregateAll(rels(dirs))
	for i, dir := range dirs {
		categories = append(categories, models.Category{
			Name:         dir.Name,
			Slug:         dir.Name,
			ImageCount:   aggregates[i].Count,
			PreviewImage: aggregates[i].Preview,
		})
	}
	return categories
}

// Resolve lists the immediate children of the directory named by the
// percent-encoded path segments. Subcategories carry their recursive
// aggregates; images carry their servable path.
func (s *Service) Resolve(segments []string) (*models.DirectoryContent, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrNotFound)
	}

	decoded := make([]string, len(segments))
	for i, segment := range segments {
		d, err := url.PathUnescape(segment)
		if err != nil {
			return nil, fmt.Errorf("%w: bad segment %q: %v", ErrNotFound, segment, err)
		}
		decoded[i] = d
	}

	relPath := strings.Join(decoded, string(filepath.Separator))
	if strings.Contains(relPath, "..") {
		return nil, fmt.Errorf("%w: traversal in %q", ErrNotFound, relPath)
	}
	rel := filepath.ToSlash(relPath)

	info, err := s.scanner.Stat(rel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, rel)
	}

	entries, err := s.scanner.ReadDir(rel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, rel, err)
	}

	var dirs []scanner.Entry
	images := []models.ContentItem{}
	for _, entry := range entries {
		switch {
		case entry.IsDir:
			dirs = append(dirs, entry)
		case entry.IsImage():
			images = append(images, models.NewImageItem(
				scanner.StripImageExt(entry.Name),
				s.scanner.ServablePath(entry.Rel),
			))
		}
	}

	subcategories := make([]models.ContentItem, 0, len(dirs))
	aggregates := s.scanner.AggregateAll(rels(dirs))
	for i, dir := range dirs {
		subcategories = append(subcategories,
			models.NewCategoryItem(dir.Name, aggregates[i].Count, aggregates[i].Preview))
	}

	return &models.DirectoryContent{
		Name:          decoded[len(decoded)-1],
		Subcategories: subcategories,
		Images:        images,
	}, nil
}

func rels(entries []scanner.Entry) []string {
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = entry.Rel
	}
	return out
}
