package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/venkatramks/legal-ai-frontend/config"
	"github.com/venkatramks/legal-ai-frontend/pkg/logger"
	"github.com/venkatramks/legal-ai-frontend/service"
)

var (
	configPath string
	cfg        *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "legalai",
	Short: "Client and reference backend for the legal document pipeline",
	Long: `legalai talks to the legal document processing backend: upload documents,
follow their OCR processing, chat about them and review clause risk analysis.

It also bundles a reference backend (legalai serve) so everything can be tried
locally without the production service.

Quick Start:
  legalai serve                 # Start the local reference backend
  legalai upload contract.pdf   # Upload and process a document
  legalai documents             # List processed documents
  legalai chat <document-id>    # Ask questions about a document
  legalai clauses <document-id> # Run clause risk analysis`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadOrDefault(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+service.UserMessage(err)))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to config file")
}

// newController wires the client core from the loaded config.
func newController() (*service.Client, *service.Orchestrator, *service.Controller) {
	client := service.NewClient(&cfg.API)
	orchestrator := service.NewOrchestrator(client, &cfg.Poller)
	orchestrator.SetProgressFunc(func(line string) {
		fmt.Fprintln(os.Stderr, progressStyle.Render(line))
	})
	return client, orchestrator, service.NewController(client, orchestrator)
}

// selectDocument resolves a document id against the backend and makes it the
// controller's active document.
func selectDocument(cmd *cobra.Command, client *service.Client, controller *service.Controller, documentID string) error {
	documents, err := client.ListDocuments(cmd.Context())
	if err != nil {
		return err
	}
	for i := range documents {
		if documents[i].ID == documentID {
			controller.Select(&documents[i])
			return nil
		}
	}
	return fmt.Errorf("document %s not found, run 'legalai documents' to list ids", documentID)
}
