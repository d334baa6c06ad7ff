package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/eknkc/pug"
	"github.com/eknkc/pug/compiler"

	"image-catalog/pkg/config"
	"image-catalog/pkg/models"
	"image-catalog/pkg/services"
)

// BrowsePrefix is the URL path directory pages live under
const BrowsePrefix = "/browse/"

// Handler renders catalog pages and feeds from a Catalog
type Handler struct {
	catalog  services.Catalog
	viewsDir string
}

// New creates a Handler reading pug views from viewsDir
func New(catalog services.Catalog, viewsDir string) *Handler {
	// pug refuses template paths that climb out with ".."
	if abs, err := filepath.Abs(viewsDir); err == nil {
		viewsDir = abs
	}
	return &Handler{
		catalog:  catalog,
		viewsDir: viewsDir,
	}
}

// Routes registers every catalog route on mux
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.IndexHandler)
	mux.HandleFunc(BrowsePrefix, h.DirectoryHandler)
	mux.HandleFunc("/api/categories", h.CategoriesFeedHandler)
	mux.HandleFunc("/api"+BrowsePrefix, h.DirectoryFeedHandler)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
}

// NewMux wires the catalog pages, feeds and image files for cfg
func NewMux(cfg *config.Config, catalog services.Catalog) *http.ServeMux {
	mux := http.NewServeMux()
	New(catalog, cfg.ViewsDir).Routes(mux)
	mux.Handle(cfg.ImagePrefix+"/", Images(cfg.ImagePrefix, cfg.ImageRoot))
	return mux
}

// Images serves the files of the image root under prefix. The catalog only
// hands out paths; this is where their bytes come from.
func Images(prefix, root string) http.Handler {
	return http.StripPrefix(prefix, http.FileServer(http.Dir(root)))
}

// IndexHandler handles requests for the home page
func (h *Handler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	slog.Info("Generating Index")

	categories := h.catalog.ListCategories()
	cards := make([]models.Card, 0, len(categories))
	for _, category := range categories {
		cards = append(cards, models.Card{
			Name:    category.Name,
			Href:    BrowsePrefix + url.PathEscape(category.Slug),
			Count:   category.ImageCount,
			Preview: deref(category.PreviewImage),
		})
	}

	h.render(w, "index.pug", models.Index{Categories: cards})
}

// DirectoryHandler handles requests for a directory page
func (h *Handler) DirectoryHandler(w http.ResponseWriter, r *http.Request) {
	segments := Segments(r, BrowsePrefix)

	content, err := h.catalog.Resolve(segments)
	if err != nil {
		h.notFound(w, r, err)
		return
	}
	slog.Info("Generating Directory Page", "path", strings.Join(segments, "/"))

	base := BrowsePrefix + strings.Join(segments, "/") + "/"
	cards := make([]models.Card, 0, len(content.Subcategories))
	for _, sub := range content.Subcategories {
		cards = append(cards, models.Card{
			Name:    sub.Name,
			Href:    base + url.PathEscape(sub.Slug),
			Count:   sub.Count,
			Preview: deref(sub.Preview),
		})
	}

	h.render(w, "directory.pug", models.DirectoryPage{
		Name:          content.Name,
		ParentHref:    ParentHref(segments),
		Subcategories: cards,
		Images:        content.Images,
		Empty:         len(cards) == 0 && len(content.Images) == 0,
	})
}

// CategoriesFeedHandler handles requests for the category list (JSON)
func (h *Handler) CategoriesFeedHandler(w http.ResponseWriter, _ *http.Request) {
	slog.Info("Generating Categories Feed")
	writeJSON(w, h.catalog.ListCategories())
}

// DirectoryFeedHandler handles requests for a directory listing (JSON)
func (h *Handler) DirectoryFeedHandler(w http.ResponseWriter, r *http.Request) {
	segments := Segments(r, "/api"+BrowsePrefix)

	content, err := h.catalog.Resolve(segments)
	if err != nil {
		h.notFound(w, r, err)
		return
	}
	slog.Info("Generating Directory Feed", "path", strings.Join(segments, "/"))
	writeJSON(w, content)
}

// Segments splits the still-escaped request path below prefix into its
// segments. Decoding is left to the catalog so it happens exactly once.
func Segments(r *http.Request, prefix string) []string {
	rest := strings.TrimPrefix(r.URL.EscapedPath(), prefix)
	var segments []string
	for _, segment := range strings.Split(rest, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// ParentHref returns the link one level above the given path
func ParentHref(segments []string) string {
	if len(segments) <= 1 {
		return "/"
	}
	return BrowsePrefix + strings.Join(segments[:len(segments)-1], "/")
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, services.ErrNotFound) {
		slog.Error("Resolving directory failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	slog.Info("Directory not found", "path", r.URL.Path, "reason", err)
	http.NotFound(w, r)
}

func (h *Handler) render(w http.ResponseWriter, view string, data interface{}) {
	template, err := pug.CompileFile(view, pug.Options{Dir: compiler.FsDir(h.viewsDir)})
	if err != nil {
		slog.Error("Template error", "view", view, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := template.Execute(w, data); err != nil {
		slog.Error("Template execution error", "view", view, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Encoding feed failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		slog.Error("Writing feed failed", "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
