package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-dashboard/internal/config"
	"github.com/couchcryptid/weather-dashboard/internal/domain"
	"github.com/couchcryptid/weather-dashboard/internal/observability"
	"github.com/couchcryptid/weather-dashboard/internal/presenter"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [city]",
		Short: "Print current weather for a city from a running proxy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
			p := newPresenter(cfg, cmd.ErrOrStderr(), logger)

			if len(args) == 1 {
				err = p.Search(cmd.Context(), args[0])
			} else {
				err = p.Mount(cmd.Context())
			}
			if renderErr := presenter.Render(cmd.OutOrStdout(), p.Snapshot()); renderErr != nil {
				return renderErr
			}
			return err
		},
	}
}

func newDashboardCmd() *cobra.Command {
	var refresh time.Duration

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Search cities interactively against a running proxy",
		Long:  "Loads the default city, then reads one city per line from stdin and renders each result.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("refresh") {
				cfg.RefreshInterval = refresh
			}
			return runDashboard(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().DurationVarP(&refresh, "refresh", "r", 0, "reload the shown city on this interval, e.g. 10m (overrides REFRESH_INTERVAL)")
	return cmd
}

// newPresenter wires a presenter to the proxy, sending notifications to notices.
func newPresenter(cfg *config.ClientConfig, notices io.Writer, logger *slog.Logger) *presenter.Presenter {
	client := presenter.NewProxyClient(cfg.ProxyURL, cfg.RequestTimeout)
	notifier := presenter.NotifierFunc(func(message string) {
		fmt.Fprintf(notices, "! %s\n", message)
	})
	return presenter.New(client, notifier, cfg.DefaultCity, logger)
}

func runDashboard(parent context.Context, cfg *config.ClientConfig, in io.Reader, out, notices io.Writer) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	p := newPresenter(cfg, notices, logger)

	refresher := presenter.NewRefresher(p, cfg.RefreshInterval, cfg.RequestTimeout, logger)
	if err := refresher.Start(); err != nil {
		return fmt.Errorf("start refresher: %w", err)
	}
	defer refresher.Stop()

	_ = p.Mount(ctx)
	if err := presenter.Render(out, p.Snapshot()); err != nil {
		return err
	}

	lines := scanLines(ctx, in)

	for {
		fmt.Fprint(out, "\nSearch city (blank line to skip, Ctrl-D to quit): ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			if isQuit(line) {
				return nil
			}
			if err := p.Search(ctx, line); errors.Is(err, domain.ErrBlankQuery) {
				continue
			}
			if err := presenter.Render(out, p.Snapshot()); err != nil {
				return err
			}
		}
	}
}

// scanLines delivers in line by line until input ends or ctx is done.
func scanLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// quitWords end the dashboard when typed as a search.
var quitWords = map[string]bool{"quit": true, "exit": true, ":q": true}

func isQuit(line string) bool {
	return quitWords[strings.ToLower(strings.TrimSpace(line))]
}
