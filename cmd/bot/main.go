// Package main provides the Atlas resource bot entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pfial/atlas-resource-bot/internal/bot"
	"github.com/pfial/atlas-resource-bot/internal/classifier"
	"github.com/pfial/atlas-resource-bot/internal/config"
	"github.com/pfial/atlas-resource-bot/internal/discord"
	"github.com/pfial/atlas-resource-bot/internal/logger"
	"github.com/pfial/atlas-resource-bot/internal/metrics"
	"github.com/pfial/atlas-resource-bot/internal/query"
	"github.com/pfial/atlas-resource-bot/internal/refresh"
	"github.com/pfial/atlas-resource-bot/internal/resource"
	"github.com/pfial/atlas-resource-bot/internal/sheets"
)

// Trained model artifact names under the model directory.
const (
	sequenceModelFile = "intent_model.tflite"
	sequenceVocabFile = "intent_vocab.json"
	linearModelFile   = "chat_classifier.json"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("Starting Atlas resource bot")

	// Metrics registry with runtime collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Serve cached data immediately; the first refresh replaces it.
	store := resource.NewStore()
	if idx, err := resource.LoadCache(cfg.CacheDir); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			m.CacheLoadsTotal.WithLabelValues("missing").Inc()
			log.Info("No resource cache found, waiting for first refresh")
		default:
			m.CacheLoadsTotal.WithLabelValues("corrupt").Inc()
			log.WithError(err).Warn("Resource cache unreadable, waiting for first refresh")
		}
	} else {
		m.CacheLoadsTotal.WithLabelValues("success").Inc()
		store.Install(idx)
		log.WithField("resources", len(idx.EN)).Info("Resource cache loaded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, err := sheets.NewGoogleSource(ctx, cfg.GoogleCredentials, cfg.SpreadsheetID)
	if err != nil {
		log.WithError(err).Fatal("Failed to create sheets client")
	}

	scheduler := refresh.NewScheduler(
		source, store, cfg.CacheDir,
		cfg.RefreshInterval, cfg.FetchTimeout,
		log, m,
	)
	refreshDone := scheduler.Start(ctx)

	// Classifier models. The sequence model is optional; the linear
	// model is trained in-process from the cached vocabulary when no
	// artifact exists.
	var sequenceModel classifier.Model
	seq, err := classifier.LoadSequenceModel(
		filepath.Join(cfg.ModelDir, sequenceModelFile),
		filepath.Join(cfg.ModelDir, sequenceVocabFile),
	)
	if err != nil {
		log.WithError(err).Warn("Sequence model unavailable, linear model only")
	} else {
		sequenceModel = seq
		defer seq.Close()
		log.Info("Sequence model loaded")
	}

	linearModel := loadOrTrainLinearModel(cfg, store.Current(), log)

	ensemble := classifier.NewEnsemble(sequenceModel, linearModel, cfg.ConfidenceThreshold, log, m)

	splitter, err := bot.NewSentenceSplitter()
	if err != nil {
		log.WithError(err).Fatal("Failed to load sentence tokenizer")
	}

	router := bot.NewRouter(store, query.NewResolver(log), ensemble, splitter, log, m)

	transport, err := discord.New(cfg.DiscordToken, router, log, m)
	if err != nil {
		log.WithError(err).Fatal("Failed to create discord transport")
	}
	if err := transport.Open(); err != nil {
		log.WithError(err).Fatal("Failed to open discord session")
	}

	// Metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.MetricsPort).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start metrics server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	cancel()
	select {
	case <-refreshDone:
	case <-time.After(cfg.ShutdownTimeout):
		log.Warn("Timeout waiting for refresh loop to stop")
	}

	if err := transport.Close(); err != nil {
		log.WithError(err).Error("Failed to close discord session")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Metrics server forced to shutdown")
	}

	log.Info("Bot stopped")
}

// loadOrTrainLinearModel restores the persisted linear model, or trains
// a fresh one from the template dataset and the current snapshot's
// vocabulary. A bot without any classifier still runs; it just never
// answers.
func loadOrTrainLinearModel(cfg *config.Config, idx *resource.Index, log *logger.Logger) classifier.Model {
	path := filepath.Join(cfg.ModelDir, linearModelFile)

	if model, err := classifier.LoadLinearModel(path); err == nil {
		log.Info("Linear model loaded")
		return model
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Warn("Linear model unreadable, retraining")
	}

	samples, err := classifier.GenerateDataset(cfg.DataDir, classifier.DefaultSources(idx.Keys(), idx.Grids))
	if err != nil {
		log.WithError(err).Warn("Cannot generate training data")
		return nil
	}

	model := classifier.NewLinearModel()
	if err := model.Train(samples); err != nil {
		log.WithError(err).Warn("Linear model training failed")
		return nil
	}
	log.WithField("samples", len(samples)).Info("Linear model trained")

	if err := os.MkdirAll(cfg.ModelDir, 0o755); err != nil {
		log.WithError(err).Warn("Linear model not persisted")
	} else if err := model.Save(path); err != nil {
		log.WithError(err).Warn("Linear model not persisted")
	}
	return model
}
