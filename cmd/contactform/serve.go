package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form over HTTP with live validation",
		Long: `Serve the contact form on the configured address. Every page load gets its
own form instance; keystrokes are validated over a websocket and plain form
posts work without JavaScript. Nothing submitted is stored.

Examples:
  contactform serve
  contactform serve --port 9000 --content copy.yaml --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("host", "127.0.0.1", "host to bind to")
	cmd.Flags().IntP("port", "p", 8080, "port to serve on")
	cmd.Flags().Bool("watch", false, "reload the content file when it changes")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	text, err := a.loadContent()
	if err != nil {
		return err
	}

	options := []server.Option{
		server.WithLogger(a.logger),
		server.WithContent(text),
	}
	if a.cfg.Content.Watch {
		options = append(options, server.WithContentFile(a.cfg.Content.Path))
	}

	srv, err := server.New(options...)
	if err != nil {
		return err
	}
	return srv.Run(ctx, a.cfg.Server.Addr())
}
