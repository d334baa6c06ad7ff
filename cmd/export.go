package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newExportCmd creates a new command for exporting catalog data
func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [format] [segment...]",
		Short: "Export catalog data",
		Long: `Export the category list, or the contents of the folder named by the given path
segments, in the specified format. Supported formats: json, yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := loadService()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			format := "json"
			if len(args) > 0 {
				format = args[0]
				args = args[1:]
			}

			var data interface{}
			if len(args) == 0 {
				data = svc.ListCategories()
			} else {
				content, err := svc.Resolve(args)
				if err != nil {
					return err
				}
				data = content
			}
			return exportData(cmd.OutOrStdout(), format, data)
		},
	}
}

// exportData writes data in the specified format
func exportData(w io.Writer, format string, data interface{}) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling data: %w", err)
		}
		fmt.Fprintln(w, string(out))
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("error marshaling data: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format: %s (supported formats: json, yaml)", format)
	}
}
