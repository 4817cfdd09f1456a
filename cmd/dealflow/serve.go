package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pbaille/dealflow/internal/api"
)

func serveCmd() *cobra.Command {
	var (
		addr        string
		seedFile    string
		fromCatalog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyBoardFlags(cmd, seedFile, fromCatalog)
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			session, err := mountSession()
			if err != nil {
				return err
			}
			defer session.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := api.New(s, session, cfg.Server.Addr, logger)
			server.ShutdownTimeout = cfg.ShutdownTimeout()
			return server.Run(ctx)
		},
	}

	boardFlags(cmd, &seedFile, &fromCatalog)
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "server address (overrides config)")
	return cmd
}
