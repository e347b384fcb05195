package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/boardlens/boardlens/internal/analytics"
	"github.com/boardlens/boardlens/internal/config"
	"github.com/boardlens/boardlens/internal/dict"
	"github.com/boardlens/boardlens/internal/engine"
	"github.com/boardlens/boardlens/internal/game"
	"github.com/boardlens/boardlens/internal/journal"
	"github.com/boardlens/boardlens/internal/logger"
	"github.com/boardlens/boardlens/internal/server"
)

const saveInterval = 30 * time.Second

func main() {
	root := &cobra.Command{
		Use:   "boardlensd",
		Short: "boardlens game analysis server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return run(cfg)
		},
	}

	root.Flags().String("config", "boardlens.yaml", "config file path")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := dict.Load(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}
	defs := dict.NewDefinitions(filepath.Join(cfg.Data.Dir, "definitions.json"))

	agg := analytics.New()
	aggPath := filepath.Join(cfg.Logs.Dir, "vocabulary_aggregate.json")
	agg.Load(aggPath)

	sessionID := uuid.New().String()
	j := journal.New(sessionID, d.Zipf)
	log := journal.NewLog(filepath.Join(cfg.Logs.Dir, "player_vocabulary.jsonl"))

	opts := engine.DefaultOptions()
	opts.Strategy = engine.Strategy(cfg.Solver.Strategy)
	opts.FreqFloor = cfg.Solver.FreqFloor

	pipeline := game.NewPipeline(d, j, log, agg, opts)
	worker := server.NewWorker(pipeline)
	hub := server.NewHub()
	srv := server.New(worker, hub, defs, agg, log)

	var archive *journal.Archive
	if cfg.Logs.Archive {
		var err error
		archive, err = journal.OpenArchive(filepath.Join(cfg.Logs.Dir, "moves.db"))
		if err != nil {
			logger.Warn("move archive unavailable", "err", err)
		} else {
			defer archive.Close()
			pipeline.SetArchive(archive)
			srv.SetArchive(archive)
		}
	}

	httpSrv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Addr(), "session", sessionID)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutCtx)
	})

	g.Go(func() error {
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	// Periodic persistence: aggregate snapshot and event-log flush.
	g.Go(func() error {
		ticker := time.NewTicker(saveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				log.Flush()
				if err := agg.Save(aggPath); err != nil {
					logger.Error("aggregate save", "err", err)
				}
			}
		}
	})

	g.Go(func() error {
		defs.Watch(ctx)
		return nil
	})

	err = g.Wait()

	// Orderly shutdown: drain the buffer and write the final aggregate.
	log.Flush()
	if saveErr := agg.Save(aggPath); saveErr != nil {
		logger.Error("final aggregate save", "err", saveErr)
	}
	logger.Info("shutdown complete")
	return err
}
