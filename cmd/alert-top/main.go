package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nixlim/alert-top/internal/apiclient"
	"github.com/nixlim/alert-top/internal/config"
	"github.com/nixlim/alert-top/internal/filters"
	"github.com/nixlim/alert-top/internal/nav"
	"github.com/nixlim/alert-top/internal/notify"
	"github.com/nixlim/alert-top/internal/storage"
	"github.com/nixlim/alert-top/internal/tui"
)

func main() {
	locationFlag := flag.String("location", "", "Open the dashboard at this query string (e.g. \"manager_id=E2&severity=high\")")
	debugFlag := flag.String("debug", "", "Write debug log (JSON) to the specified file path")
	historyFlag := flag.Bool("history", false, "Print recently viewed locations and exit")
	checkFlag := flag.Bool("check", false, "Query the backend health endpoint and exit")
	flag.Parse()

	loadResult, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "alert-top: config error: %v\n", err)
		os.Exit(1)
	}
	cfg := loadResult.Config
	if err := config.ApplyEnv(&cfg, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "alert-top: config error: %v\n", err)
		os.Exit(1)
	}

	for _, w := range loadResult.Warnings {
		fmt.Fprintf(os.Stderr, "alert-top: config warning: %s\n", w)
	}

	closeLog, err := setupLogging(*debugFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alert-top: failed to open debug log %q: %v\n", *debugFlag, err)
		os.Exit(1)
	}
	defer closeLog()

	codec := filters.NewCodec(cfg.Filters.DefaultManagerID)
	client := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
		apiclient.WithCodec(codec),
	)

	if *checkFlag {
		os.Exit(RunCheck(client, os.Stdout))
	}

	history, isPersistent, err := storage.NewHistory(cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alert-top: storage error: %v\n", err)
		os.Exit(1)
	}

	if *historyFlag {
		code := RunHistory(history, os.Stdout)
		_ = history.Close()
		os.Exit(code)
	}

	home := codec.Encode(codec.Default())
	initial := initialLocation(cfg, codec, history, *locationFlag)

	store := nav.NewStore(initial)
	recorder := storage.NewRecorder(history)
	unsubscribe := store.Subscribe(recorder.Record)
	recorder.Record(initial)

	notices := notify.NewLog(cfg.Display.NotificationLogSize)
	notifier := notify.NewPlatformNotifier(cfg.Notifications.SystemNotify)

	shutdownMgr := tui.NewShutdownManager()
	shutdownMgr.StopNavigation = unsubscribe
	shutdownMgr.FlushHistory = recorder.Flush
	shutdownMgr.Cleanup = func() {
		if n := recorder.Dropped(); n > 0 {
			slog.Warn("visit history writes dropped", "count", n)
		}
		if err := history.Close(); err != nil {
			slog.Warn("closing visit history failed", "error", err)
		}
	}

	var shutdownOnce sync.Once
	shutdown := func() {
		shutdownOnce.Do(func() { _ = shutdownMgr.Shutdown() })
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("starting alert-top",
		"api", client.BaseURL(),
		"location", initial,
		"persistent", isPersistent,
	)

	build := func() tea.Model {
		return tui.NewModel(cfg,
			tui.WithAlertsAPI(client),
			tui.WithHistoryProvider(history),
			tui.WithLocationStore(store),
			tui.WithNotifier(notifier),
			tui.WithNotificationLog(notices),
			tui.WithPersistenceFlag(isPersistent),
			tui.WithOnShutdown(shutdown),
		)
	}
	goHome := func() { store.Reset(home) }

	p := tea.NewProgram(tui.NewBoundary(build, goHome),
		tea.WithAltScreen(),
	)

	go func() {
		select {
		case <-sigCh:
			shutdown()
			p.Quit()
		case <-ctx.Done():
			return
		}
	}()

	if _, err := p.Run(); err != nil {
		shutdown()
		fmt.Fprintf(os.Stderr, "alert-top: %v\n", err)
		os.Exit(1)
	}
	shutdown()
}

// setupLogging routes slog to a JSON file when path is set and discards
// it otherwise; the UI owns the terminal.
func setupLogging(path string) (func(), error) {
	log.SetOutput(io.Discard)

	if path == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { _ = f.Close() }, nil
}

// initialLocation picks the starting location: the --location flag, then
// the last recorded visit when restore_last_view is set, then the default
// filters. The result is normalised through the codec.
func initialLocation(cfg config.Config, codec filters.Codec, history storage.History, flagValue string) string {
	if flagValue != "" {
		return codec.Encode(codec.Decode(flagValue))
	}

	if cfg.Display.RestoreLastView {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		last, ok, err := history.Last(ctx)
		if err != nil {
			slog.Warn("reading last visit failed", "error", err)
		}
		if ok {
			return codec.Encode(codec.Decode(last))
		}
	}

	return codec.Encode(codec.Default())
}
