package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Izaque674/SmartLOG-sub000/internal/client"
)

var (
	apiBaseURL string
	apiToken   string
)

// addClientFlags registers the flags shared by commands that call a running API.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&apiBaseURL, "api", envDefault("API_BASE_URL", "http://localhost:8081/api"), "API base URL")
	cmd.Flags().StringVar(&apiToken, "token", os.Getenv("SMARTLOG_TOKEN"), "bearer token (default $SMARTLOG_TOKEN)")
}

func newClient() *client.Client {
	return client.New(apiBaseURL, apiToken)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
