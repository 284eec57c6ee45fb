package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/tw93/diskmap/internal/app"
	"github.com/tw93/diskmap/internal/config"
	"github.com/tw93/diskmap/internal/logging"
	"github.com/tw93/diskmap/internal/scan"
	"github.com/tw93/diskmap/internal/sequencer"
	"github.com/tw93/diskmap/internal/tree"
	"github.com/tw93/diskmap/internal/ui"
)

var errNoTerminal = errors.New("stdout is not a terminal")

// resolveFolder picks the folder to scan: the positional argument, then the
// configured folder, then the working directory. The result is absolute.
func resolveFolder(arg, configured string) (string, error) {
	target := arg
	if target == "" {
		target = configured
	}
	if target == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		target = wd
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %q: %w", target, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("Folder '%s' does not exist", target)
	}
	return abs, nil
}

func run(ctx context.Context, folder string, cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("app", appName))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	seq := sequencer.New(cfg.ChannelCapacity, logger)
	renderer := ui.NewRenderer()
	a := app.New(tree.New(folder), renderer, app.OSRemover{}, logger, app.Options{
		DisableDeleteConfirmation: cfg.DisableDeleteConfirmation,
		MaxMagnification:          cfg.MaxMagnification,
	})
	p := tea.NewProgram(ui.NewModel(ctx, seq.Send, ui.DefaultKeyMap), tea.WithAltScreen())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scanFolder(gctx, folder, cfg, seq, logger)
	})
	g.Go(func() error {
		return forwardSignals(gctx, sigs, seq, logger)
	})
	g.Go(func() error {
		return seq.Tick(gctx, cfg.TickInterval)
	})
	g.Go(func() error {
		err := seq.Run(gctx, a)
		p.Quit()
		cancel()
		return ignoreShutdown(err)
	})
	g.Go(func() error {
		return renderer.Forward(gctx, p)
	})
	g.Go(func() error {
		_, err := p.Run()
		seq.Stop()
		cancel()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("terminal: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("exiting with error", zap.Error(err))
		return err
	}
	return nil
}

// scanFolder walks folder and feeds the sequencer, then signals the end of
// the scan with StartUI.
func scanFolder(ctx context.Context, folder string, cfg *config.Config, seq *sequencer.Sequencer, logger *zap.Logger) error {
	start := time.Now()
	walker := scan.New(folder, scan.Options{
		ApparentSize: cfg.ApparentSize,
		Workers:      cfg.Workers,
		Logger:       logger,
	})
	logger.Info("scan started", zap.String("path", folder), zap.Bool("apparent_size", cfg.ApparentSize))

	err := walker.Walk(ctx, func(r scan.Report) error {
		if r.Err != nil {
			return seq.Send(ctx, sequencer.IncrementFailedToRead{Path: r.Path})
		}
		return seq.Send(ctx, sequencer.AddEntry{
			Path:     r.Path,
			Segments: r.Segments,
			Kind:     r.Kind,
			Size:     r.Size,
		})
	})
	if err != nil {
		return ignoreShutdown(err)
	}

	stats := walker.Stats()
	logger.Info("scan finished",
		zap.String("path", folder),
		zap.Int64("files", stats.Files),
		zap.Int64("dirs", stats.Dirs),
		zap.Int64("bytes", stats.Bytes),
		zap.Int64("failed", stats.Failed),
		zap.Duration("took", time.Since(start)),
	)
	return ignoreShutdown(seq.Send(ctx, sequencer.StartUI{}))
}

// forwardSignals turns a termination signal into a Quit for the consumer,
// so the board is torn down the same way as a confirmed exit.
func forwardSignals(ctx context.Context, sigs <-chan os.Signal, seq *sequencer.Sequencer, logger *zap.Logger) error {
	select {
	case <-ctx.Done():
		return nil
	case sig := <-sigs:
		logger.Info("signal received", zap.String("signal", sig.String()))
		return ignoreShutdown(seq.Send(ctx, sequencer.Quit{}))
	}
}

// ignoreShutdown drops the errors every goroutine sees once the program is
// on its way out.
func ignoreShutdown(err error) error {
	if errors.Is(err, sequencer.ErrClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
