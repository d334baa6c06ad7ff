package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"image-catalog/pkg/models"
)

// newShowCmd creates a new command for showing a directory
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [segment...]",
		Short: "Show the subcategories and images of a folder",
		Long: `Show the contents of the folder named by the given path segments, relative to
the image root. Segments may be percent-encoded, as they appear in catalog URLs.`,
		Example: `  image-catalog show Travel
  image-catalog show Travel "Summer%202024"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := loadService()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			content, err := svc.Resolve(args)
			if err != nil {
				return err
			}
			showDirectory(cmd.OutOrStdout(), content)
			return nil
		},
	}
}

// showDirectory displays details about a resolved directory
func showDirectory(w io.Writer, content *models.DirectoryContent) {
	fmt.Fprintf(w, "Folder: %s\n", content.Name)
	fmt.Fprintf(w, "Collections: %d\n", len(content.Subcategories))
	fmt.Fprintf(w, "Images: %d\n", len(content.Images))
	fmt.Fprintln(w, "================")

	for _, sub := range content.Subcategories {
		fmt.Fprintf(w, "[%s] (images: %d)\n", sub.Name, sub.Count)
		if sub.Preview != nil {
			fmt.Fprintf(w, "   Preview: %s\n", *sub.Preview)
		}
	}

	for i, image := range content.Images {
		fmt.Fprintf(w, "%d. %s\n", i+1, image.Name)
		fmt.Fprintf(w, "   Src: %s\n", image.Src)
	}
}
