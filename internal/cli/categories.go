package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"doctrack/backend/internal/catalog"
)

type categoryListing struct {
	Category      string   `json:"category"`
	DocumentTypes []string `json:"documentTypes"`
}

// NewCategoriesCommand prints the category registry.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List document categories and their allowed document types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCategories(cmd.OutOrStdout(), rootOpts.Format)
		},
	}
}

func printCategories(w io.Writer, format string) error {
	listing := make([]categoryListing, 0)
	for _, c := range catalog.Categories() {
		listing = append(listing, categoryListing{Category: c, DocumentTypes: catalog.DocumentTypesFor(c)})
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	}
	for _, l := range listing {
		fmt.Fprintln(w, l.Category)
		for _, t := range l.DocumentTypes {
			fmt.Fprintf(w, "  - %s\n", t)
		}
	}
	return nil
}
