package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hrportal/internal/app/server"
	"hrportal/internal/platform/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx, cfg)
	},
}

func init() { //nolint: gochecknoinits
	serveCmd.Flags().String("addr", "", "Listen address, overrides APP_ADDR")
	rootCmd.AddCommand(serveCmd)
}
