package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spendpilot/spendpilot/internal/apiclient"
	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/source"
	"github.com/spendpilot/spendpilot/internal/store"
	"github.com/spendpilot/spendpilot/internal/upload"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Upload a statement for analysis and print the summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	stmt, err := source.FromPath(args[0])
	if err != nil {
		return err
	}

	cfg := loadConfig()
	results := store.OpenBridge(cfg.StorePath())
	defer func() { _ = results.Close() }()
	if !results.Persistent() && !flagQuiet {
		fmt.Fprintln(os.Stderr, "  "+cli.RenderWarning("Result store unavailable; this analysis will not be saved."))
	}

	var opts []upload.Option
	var bar *progressLine
	if !flagQuiet {
		bar = &progressLine{}
		opts = append(opts, upload.WithObserver(bar.observe))
	}

	client := apiclient.NewClient(cfg.BaseURL(), cfg.Timeout())
	machine := upload.New(client, results, cfg.Limits(), opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := machine.Submit(ctx, stmt)
	bar.finish()
	if errors.Is(err, upload.ErrCanceled) {
		return errors.New("upload canceled")
	}
	if err != nil {
		// The session carries the user-facing message.
		if msg := machine.Snapshot().Error; msg != "" {
			return errors.New(msg)
		}
		return err
	}

	info, _ := results.Info()
	printSummary(pipeline.Derive(res), info)
	return nil
}

// progressLine redraws one stderr line as the upload progresses, skipping
// snapshots that would not change what is shown.
type progressLine struct {
	mu      sync.Mutex
	pct     int
	message string
	drawn   bool
}

func (p *progressLine) observe(sess model.UploadSession) {
	if sess.State != model.StateLoading && sess.State != model.StateSuccess {
		return
	}
	pct := int(math.Floor(sess.Progress))

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn && pct == p.pct && sess.Message == p.message {
		return
	}
	p.pct = pct
	p.message = sess.Message
	p.drawn = true
	fmt.Fprintf(os.Stderr, "\r\033[K  %s", cli.RenderProgressBar(sess.Progress, 30, sess.Message))
}

func (p *progressLine) finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Fprintln(os.Stderr)
	}
}
