package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List processed documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, _ := newController()

		documents, err := client.ListDocuments(cmd.Context())
		if err != nil {
			return err
		}

		if len(documents) == 0 {
			fmt.Println(headerStyle.Render("No documents found"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d document(s)", len(documents))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tFile\tCreated\tProcessed\t")
		fmt.Fprintln(w, strings.Repeat("-", 80))
		for _, doc := range documents {
			processed := dateStyle.Render("pending")
			if doc.ProcessedAt != nil {
				processed = dateStyle.Render(doc.ProcessedAt.Format(time.RFC3339))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				idStyle.Render(doc.ID),
				doc.FileName,
				dateStyle.Render(doc.CreatedAt.Format(time.RFC3339)),
				processed,
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}
