package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"

	"github.com/reoring/tableschema/internal/server"
)

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	_, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
		}
		defer agent.Close()
	}
	addr := cfg.Addr
	if addr == "" {
		addr = getEnv("TABLESCHEMA_ADDR", ":8080")
	}
	srv, err := server.New(server.Config{
		Addr:         addr,
		MaxBodyBytes: int64(cfg.MaxBody),
		Logger:       theLog,
	})
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(cc.Out, "tableschema listening on %s\n", addr)
	return srv.ListenAndServe(ctx)
}
