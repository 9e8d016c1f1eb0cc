package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spendpilot/spendpilot/internal/apiclient"
	"github.com/spendpilot/spendpilot/internal/server"
	"github.com/spendpilot/spendpilot/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload flow and dashboard over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", server.DefaultAddr, "HTTP listen address")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory session events retained")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	results := store.OpenBridge(cfg.StorePath())
	defer func() { _ = results.Close() }()

	client := apiclient.NewClient(cfg.BaseURL(), cfg.Timeout())
	svc := server.New(server.Config{
		Addr:         flagServeAddr,
		Limits:       cfg.Limits(),
		EventsBuffer: flagServeEventsBuffer,
	}, client, results)

	fmt.Printf("  spendpilot listening on http://%s\n", svc.Addr())
	fmt.Printf("  Analysis API: %s\n", client.BaseURL())
	if !results.Persistent() {
		fmt.Fprintln(os.Stderr, "  Result store unavailable; analyses are kept in memory only.")
	}
	fmt.Println("  Stop with Ctrl+C")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
