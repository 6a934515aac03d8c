package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/abhisek/hanmadi/internal/api"
	"github.com/abhisek/hanmadi/internal/evaluation"
	"github.com/abhisek/hanmadi/internal/exercises"
	"github.com/abhisek/hanmadi/internal/lessons"
	"github.com/abhisek/hanmadi/internal/llm"
	"github.com/abhisek/hanmadi/internal/logging"
	"github.com/abhisek/hanmadi/internal/mastery"
	"github.com/abhisek/hanmadi/internal/status"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides HANMADI_ADDR)")
}

// runServe opens the store, builds the oracle and orchestrators, and serves
// the API until interrupted.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if cfg.Debug {
		level = log.DEBUG
	}
	logs := logging.NewFactory(logging.Options{Level: level, JSON: cfg.LogJSON})
	logger := logs.Named("server")

	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("oracle not configured: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(),
		llm.LogTo(logs.Named("llm")),
		llm.RecordMetrics(llm.NewMetrics(reg)),
	)
	if err != nil {
		return err
	}

	concepts := st.ConceptStore()
	engine := mastery.NewService(concepts, mastery.WithMetrics(mastery.NewMetrics(reg)))
	exerciseSvc := exercises.NewService(provider, engine, concepts, st.ExerciseRepo(), exercises.DefaultConfig(), logs.Named("exercises"))
	statusSvc := status.NewService(concepts, st.StatusRepo(), logs.Named("status"))

	srv := api.NewServer(&api.Options{
		Address:     cfg.Addr,
		Debug:       cfg.Debug,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
		Registry:    reg,
		Lessons:     lessons.NewService(provider, engine, concepts, st.LessonRepo(), lessons.DefaultConfig(), logs.Named("lessons")),
		Exercises:   exerciseSvc,
		Evaluation:  evaluation.NewService(provider, engine, concepts, exerciseSvc, st.ExerciseRepo(), evaluation.DefaultConfig(), logs.Named("evaluation")),
		Status:      statusSvc,
		Concepts:    concepts,
		History:     st.ExerciseRepo(),
	})

	refresher := status.NewRefresher(statusSvc, cfg.StatusRefresh, nil)
	if err := refresher.Start(); err != nil {
		return fmt.Errorf("start status refresher: %w", err)
	}
	defer refresher.Stop()

	logger.Infoj(log.JSON{
		"msg": "starting", "version": version, "provider": cfg.LLM.Provider,
		"model": provider.ModelID(), "dialect": st.Dialect(),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
