package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"image-catalog/pkg/models"
)

// newListCategoriesCmd creates a new command for listing categories
func newListCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-categories",
		Short: "List all top-level categories",
		Long:  `List all top-level categories with the number of images anywhere below each and its preview image.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := loadService()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			listCategories(cmd.OutOrStdout(), svc.ListCategories())
			return nil
		},
	}
}

// listCategories displays all categories and their aggregates
func listCategories(w io.Writer, categories []models.Category) {
	fmt.Fprintln(w, "Image Categories:")
	fmt.Fprintln(w, "=================")

	for _, category := range categories {
		fmt.Fprintf(w, "%s\n", category.Name)
		fmt.Fprintf(w, "  Images: %d\n", category.ImageCount)
		if category.PreviewImage != nil {
			fmt.Fprintf(w, "  Preview: %s\n", *category.PreviewImage)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total: %d categories\n", len(categories))
}
