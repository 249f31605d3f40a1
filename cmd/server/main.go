package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/Tyrowin/chatrelay/internal/server"
)

func main() {
	log.Println("Starting chat relay...")

	config := server.NewConfigFromEnv()

	relay := server.New(config)
	relay.StartHub()

	httpServer := server.CreateServer(relay.Config().Port, relay.SetupRoutes())

	go func() {
		if err := server.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	timeout := relay.Config().ShutdownTimeout
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		timeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return server.ShutdownServer(ctx, httpServer)
			},
			"hub": func(_ context.Context) error {
				return relay.Shutdown(timeout)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Chat relay exited with code: %d", exitCode)
	os.Exit(exitCode)
}
