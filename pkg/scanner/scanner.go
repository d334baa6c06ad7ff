// Package scanner walks an image tree and summarises each subtree as an
// image count plus one representative preview path.
package scanner

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"
)

// imageExtRegex matches the file names recognised as images
var imageExtRegex = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|webp)$`)

// IsImage reports whether name carries one of the recognised image extensions
func IsImage(name string) bool {
	return imageExtRegex.MatchString(name)
}

// StripImageExt removes a recognised image extension from name
func StripImageExt(name string) string {
	return imageExtRegex.ReplaceAllString(name, "")
}

// Aggregate is the recursive summary of a directory subtree
type Aggregate struct {
	Count   int
	Preview *string
}

// Entry is a directory child whose status check succeeded
type Entry struct {
	Name  string
	Rel   string
	IsDir bool
}

// IsImage reports whether the entry is a regular file with an image extension
func (e Entry) IsImage() bool {
	return !e.IsDir && IsImage(e.Name)
}

// Scanner reads the tree below Root through a billy filesystem.
// Paths handed to and returned by its methods are root-relative and
// slash-separated, with "" naming the root itself.
type Scanner struct {
	fs      billy.Filesystem
	root    string
	prefix  string
	order   Order
	strict  bool
	workers int
}

// Option configures a Scanner
type Option func(*Scanner)

// WithPrefix sets the URL prefix servable paths start with
func WithPrefix(prefix string) Option {
	return func(s *Scanner) {
		s.prefix = strings.TrimRight(prefix, "/")
	}
}

// WithOrder normalises listing order before entries are scanned
func WithOrder(order Order) Option {
	return func(s *Scanner) {
		s.order = order
	}
}

// WithStrict logs unreadable directories as warnings instead of debug noise
func WithStrict(strict bool) Option {
	return func(s *Scanner) {
		s.strict = strict
	}
}

// WithWorkers bounds how many sibling subtrees are aggregated at once
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New creates a Scanner over the tree rooted at root inside fs
func New(fs billy.Filesystem, root string, opts ...Option) *Scanner {
	s := &Scanner{
		fs:      fs,
		root:    root,
		prefix:  "/images",
		workers: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stat checks the status of a root-relative path
func (s *Scanner) Stat(rel string) (os.FileInfo, error) {
	return s.fs.Stat(s.fsPath(rel))
}

// ServablePath returns the URL path an image at rel is served under
func (s *Scanner) ServablePath(rel string) string {
	return s.prefix + "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
}

// ReadDir lists the immediate children of rel. Each child is classified by
// its own Stat call rather than the listing's type information; children
// whose status check fails are left out.
func (s *Scanner) ReadDir(rel string) ([]Entry, error) {
	dir := s.fsPath(rel)
	infos, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	if s.order != nil {
		s.order(names)
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		info, err := s.fs.Stat(s.fs.Join(dir, name))
		if err != nil {
			slog.Debug("Skipping entry", "path", path.Join(rel, name), "error", err)
			continue
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			continue
		}
		entries = append(entries, Entry{
			Name:  name,
			Rel:   path.Join(rel, name),
			IsDir: info.IsDir(),
		})
	}
	return entries, nil
}

// Aggregate counts the images anywhere below rel and picks a preview.
// The directory's own first image wins; otherwise the preview of the first
// subdirectory that has one is adopted. An unreadable directory counts as
// empty so that it never aborts the aggregation of its ancestors.
func (s *Scanner) Aggregate(rel string) Aggregate {
	entries, err := s.ReadDir(rel)
	if err != nil {
		s.unreadable(rel, err)
		return Aggregate{}
	}

	var agg Aggregate
	var subDirs []string
	for _, entry := range entries {
		switch {
		case entry.IsDir:
			subDirs = append(subDirs, entry.Rel)
		case entry.IsImage():
			agg.Count++
			if agg.Preview == nil {
				preview := s.ServablePath(entry.Rel)
				agg.Preview = &preview
			}
		}
	}

	for _, dir := range subDirs {
		sub := s.Aggregate(dir)
		agg.Count += sub.Count
		if agg.Preview == nil {
			agg.Preview = sub.Preview
		}
	}
	return agg
}

// AggregateAll aggregates sibling subtrees concurrently. The result at
// index i always belongs to rels[i].
func (s *Scanner) AggregateAll(rels []string) []Aggregate {
	results := make([]Aggregate, len(rels))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, rel := range rels {
		g.Go(func() error {
			results[i] = s.Aggregate(rel)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Scanner) unreadable(rel string, err error) {
	if s.strict {
		slog.Warn("Unreadable directory counted as empty", "path", rel, "error", err)
		return
	}
	slog.Debug("Unreadable directory counted as empty", "path", rel, "error", err)
}

func (s *Scanner) fsPath(rel string) string {
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return s.root
	}
	return s.fs.Join(s.root, filepath.FromSlash(rel))
}
