package cli

import (
	"github.com/spf13/cobra"

	"storyreel/internal/config"
	"storyreel/internal/logx"
	"storyreel/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the render HTTP service",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logx.New(cfg.Log.Level)
	log.WithField("addr", cfg.Server.Addr).Info("starting storyreel")

	return server.New(cfg, log).Listen(cfg.Server.Addr)
}
