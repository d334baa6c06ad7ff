package models

import "encoding/json"

// ItemType distinguishes the two kinds of entries in a directory listing
type ItemType string

const (
	ItemCategory ItemType = "category"
	ItemImage    ItemType = "image"
)

// Category represents a top-level directory of the catalog
type Category struct {
	Name         string  `json:"name" yaml:"name"`
	Slug         string  `json:"slug" yaml:"slug"`
	ImageCount   int     `json:"imageCount" yaml:"imageCount"`
	PreviewImage *string `json:"previewImage" yaml:"previewImage"`
}

// ContentItem is either a subcategory or an image inside a directory.
// Category items carry Slug, Count and Preview; image items carry Src.
type ContentItem struct {
	Type    ItemType `json:"type" yaml:"type"`
	Name    string   `json:"name" yaml:"name"`
	Slug    string   `json:"slug,omitempty" yaml:"slug,omitempty"`
	Count   int      `json:"count,omitempty" yaml:"count,omitempty"`
	Preview *string  `json:"preview,omitempty" yaml:"preview,omitempty"`
	Src     string   `json:"src,omitempty" yaml:"src,omitempty"`
}

// NewCategoryItem builds a category variant ContentItem
func NewCategoryItem(name string, count int, preview *string) ContentItem {
	return ContentItem{
		Type:    ItemCategory,
		Name:    name,
		Slug:    name,
		Count:   count,
		Preview: preview,
	}
}

// NewImageItem builds an image variant ContentItem
func NewImageItem(name, src string) ContentItem {
	return ContentItem{
		Type: ItemImage,
		Name: name,
		Src:  src,
	}
}

type categoryShape struct {
	Type    ItemType `json:"type" yaml:"type"`
	Name    string   `json:"name" yaml:"name"`
	Slug    string   `json:"slug" yaml:"slug"`
	Count   int      `json:"count" yaml:"count"`
	Preview *string  `json:"preview" yaml:"preview"`
}

type imageShape struct {
	Type ItemType `json:"type" yaml:"type"`
	Name string   `json:"name" yaml:"name"`
	Src  string   `json:"src" yaml:"src"`
}

func (c ContentItem) shape() interface{} {
	if c.Type == ItemImage {
		return imageShape{Type: c.Type, Name: c.Name, Src: c.Src}
	}
	return categoryShape{Type: c.Type, Name: c.Name, Slug: c.Slug, Count: c.Count, Preview: c.Preview}
}

// MarshalJSON emits only the fields of the item's variant
func (c ContentItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.shape())
}

// MarshalYAML emits only the fields of the item's variant
func (c ContentItem) MarshalYAML() (interface{}, error) {
	return c.shape(), nil
}

// DirectoryContent is the listing of a single resolved directory
type DirectoryContent struct {
	Name          string        `json:"name" yaml:"name"`
	Subcategories []ContentItem `json:"subcategories" yaml:"subcategories"`
	Images        []ContentItem `json:"images" yaml:"images"`
}

// Index represents the home page data
type Index struct {
	Categories []Card
}

// DirectoryPage represents the data of a directory detail page
type DirectoryPage struct {
	Name          string
	ParentHref    string
	Subcategories []Card
	Images        []ContentItem
	Empty         bool
}

// Card is a linkable category tile as the views render it
type Card struct {
	Name    string
	Href    string
	Count   int
	Preview string
}
