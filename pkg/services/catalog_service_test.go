package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-catalog/pkg/config"
	"image-catalog/pkg/models"
	"image-catalog/pkg/scanner"
)

func newTree(t *testing.T, paths ...string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("images", 0o755))
	for _, p := range paths {
		full := filepath.Join("images", filepath.FromSlash(p))
		if strings.HasSuffix(p, "/") {
			require.NoError(t, fs.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, fs.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, util.WriteFile(fs, full, []byte("x"), 0o644))
	}
	return fs
}

func newTestService(t *testing.T, paths ...string) *Service {
	t.Helper()
	return New(scanner.New(newTree(t, paths...), "images", scanner.WithOrder(scanner.ByName)))
}

func strPtr(s string) *string {
	return &s
}

func TestListCategories(t *testing.T) {
	svc := newTestService(t, "A/1.jpg", "A/B/2.png", "C/", "stray.jpg", "notes.txt")

	categories := svc.ListCategories()

	assert.Equal(t, []models.Category{
		{Name: "A", Slug: "A", ImageCount: 2, PreviewImage: strPtr("/images/A/1.jpg")},
		{Name: "C", Slug: "C", ImageCount: 0, PreviewImage: nil},
	}, categories)
}

func TestListCategoriesMissingRoot(t *testing.T) {
	svc := New(scanner.New(memfs.New(), "images"))

	categories := svc.ListCategories()
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestListCategoriesRootIsFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "images", []byte("x"), 0o644))
	svc := New(scanner.New(fs, "images"))

	assert.Empty(t, svc.ListCategories())
}

func TestResolve(t *testing.T) {
	svc := newTestService(t, "A/1.jpg", "A/B/2.png", "A/readme.txt", "C/")

	content, err := svc.Resolve([]string{"A"})
	require.NoError(t, err)

	assert.Equal(t, &models.DirectoryContent{
		Name: "A",
		Subcategories: []models.ContentItem{
			models.NewCategoryItem("B", 1, strPtr("/images/A/B/2.png")),
		},
		Images: []models.ContentItem{
			models.NewImageItem("1", "/images/A/1.jpg"),
		},
	}, content)
}

func TestResolveNested(t *testing.T) {
	svc := newTestService(t, "A/B/2.png", "A/B/E/", "A/B/3.WEBP")

	content, err := svc.Resolve([]string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, "B", content.Name)
	require.Len(t, content.Subcategories, 1)
	assert.Equal(t, models.NewCategoryItem("E", 0, nil), content.Subcategories[0])
	assert.Equal(t, []models.ContentItem{
		models.NewImageItem("2", "/images/A/B/2.png"),
		models.NewImageItem("3", "/images/A/B/3.WEBP"),
	}, content.Images)
}

func TestResolveDecodesSegments(t *testing.T) {
	svc := newTestService(t, "Summer 2024/Día uno/beach.jpg")

	content, err := svc.Resolve([]string{"Summer%202024", "D%C3%ADa%20uno"})
	require.NoError(t, err)

	assert.Equal(t, "Día uno", content.Name)
	require.Len(t, content.Images, 1)
	assert.Equal(t, "/images/Summer 2024/Día uno/beach.jpg", content.Images[0].Src)
}

func TestResolveEmptyDirectory(t *testing.T) {
	svc := newTestService(t, "C/")

	content, err := svc.Resolve([]string{"C"})
	require.NoError(t, err)
	assert.Empty(t, content.Subcategories)
	assert.Empty(t, content.Images)
	assert.NotNil(t, content.Subcategories)
	assert.NotNil(t, content.Images)
}

func TestResolveNotFound(t *testing.T) {
	svc := newTestService(t, "A/1.jpg", "A/B/2.png", "C/", "outside.jpg")

	tests := []struct {
		name     string
		segments []string
	}{
		{name: "traversal segment", segments: []string{"A", "..", "C"}},
		{name: "encoded traversal", segments: []string{"A", "%2E%2E", "C"}},
		{name: "dots inside a name", segments: []string{"A..B"}},
		{name: "missing directory", segments: []string{"missing"}},
		{name: "file instead of directory", segments: []string{"A", "1.jpg"}},
		{name: "bad percent encoding", segments: []string{"%zz"}},
		{name: "no segments", segments: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := svc.Resolve(tt.segments)
			assert.Nil(t, content)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestResolveTraversalRejectedEvenWhenPathExists(t *testing.T) {
	// "A/../C" would clean to an existing directory
	svc := newTestService(t, "A/", "C/1.jpg")

	_, err := svc.Resolve([]string{"A", "..", "C"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveIgnoresNonImages(t *testing.T) {
	svc := newTestService(t, "A/readme.txt", "A/2.jpg", "A/B/notes.md")

	content, err := svc.Resolve([]string{"A"})
	require.NoError(t, err)

	require.Len(t, content.Images, 1)
	assert.Equal(t, "2", content.Images[0].Name)
	require.Len(t, content.Subcategories, 1)
	assert.Equal(t, 0, content.Subcategories[0].Count)
	assert.Nil(t, content.Subcategories[0].Preview)
}

func TestCallsAreIdempotent(t *testing.T) {
	svc := newTestService(t, "A/1.jpg", "A/B/2.png", "A/B/C/3.jpg", "D/4.jpg")

	assert.Equal(t, svc.ListCategories(), svc.ListCategories())

	first, err := svc.Resolve([]string{"A"})
	require.NoError(t, err)
	second, err := svc.Resolve([]string{"A"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNewServiceReadsDisk(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "gallery")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "A", "B"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "A", "1.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "A", "B", "2.png"), []byte("x"), 0o644))

	svc, err := NewService(&config.Config{
		ImageRoot:   root,
		ImagePrefix: "/media",
		SortEntries: config.SortName,
		ScanWorkers: 4,
	})
	require.NoError(t, err)

	categories := svc.ListCategories()
	require.Len(t, categories, 1)
	assert.Equal(t, 2, categories[0].ImageCount)
	assert.Equal(t, strPtr("/media/A/1.jpg"), categories[0].PreviewImage)

	content, err := svc.Resolve([]string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []models.ContentItem{models.NewImageItem("2", "/media/A/B/2.png")}, content.Images)
}
