package cmd

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/venkatramks/legal-ai-frontend/handler"
	"github.com/venkatramks/legal-ai-frontend/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local reference backend",
	Long: `Start a local backend implementing the full document pipeline API:
upload, simulated OCR processing, chat, clause analysis and persistence.
Useful for developing against the client without the production service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gin.SetMode(gin.ReleaseMode)

		objects, err := store.NewObjectStore(&cfg.Server.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		if minioStore, ok := objects.(*store.MinioObjectStore); ok {
			if err := minioStore.EnsureBucket(cmd.Context()); err != nil {
				return fmt.Errorf("failed to ensure bucket: %w", err)
			}
		}

		st := store.NewStore(cfg.Server.MaxDocuments)
		router := handler.NewRouter(&cfg.Server, st, objects)

		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("reference backend listening",
			"addr", addr,
			"storage", cfg.Server.Storage.Type,
			"auth_enabled", cfg.Server.Auth.Enabled,
		)
		return router.Run(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
