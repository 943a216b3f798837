package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document and follow its processing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		_, _, controller := newController()

		doc, err := controller.UploadAndSelect(filepath.Base(path), f)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Document processed"))
		fmt.Printf("  id:   %s\n", idStyle.Render(doc.ID))
		fmt.Printf("  file: %s\n", doc.FileName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
