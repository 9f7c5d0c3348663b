package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abekenov/product-advisor/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		Long: `Starts the HTTP server. POST /recommend with {"id": N} computes a fresh
recommendation for one client; GET /recommendations/:id returns the last
persisted one; /metrics exposes Prometheus instrumentation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.close()

			srv := server.New(a.engine, a.storage, a.cfg.Server.Addr)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
