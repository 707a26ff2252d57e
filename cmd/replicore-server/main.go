// Command replicore-server runs the wire-protocol front end of
// spec.md §6.3/§6.4 over a control endpoint and a data endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/replicore-go/replicore/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	control := flag.String("s", "", "control endpoint: filesystem path (Unix socket) or host:port (TCP)")
	data := flag.String("d", "", "data endpoint: filesystem path (Unix socket) or host:port (TCP)")
	flag.Parse()

	if *control == "" || *data == "" {
		fmt.Fprintln(os.Stderr, "replicore-server: -s and -d are both required")
		flag.Usage()
		return 2
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		ControlEndpoint: *control,
		DataEndpoint:    *data,
		Logger:          logger,
	})

	if err := srv.Serve(ctx); err != nil {
		logger.Error("replicore-server: serve failed", "error", err)
		return 1
	}
	return 0
}
