// Package api serves the hanmadi HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/hanmadi/internal/concept"
	"github.com/abhisek/hanmadi/internal/evaluation"
	"github.com/abhisek/hanmadi/internal/exercises"
	"github.com/abhisek/hanmadi/internal/lessons"
	"github.com/abhisek/hanmadi/internal/status"
	"github.com/abhisek/hanmadi/internal/store"
)

type (
	// LessonService generates and fetches lessons.
	LessonService interface {
		NextLesson(ctx context.Context) (*lessons.LessonContent, error)
		Get(ctx context.Context, id int) (*lessons.LessonContent, error)
	}

	// ExerciseService generates exercises.
	ExerciseService interface {
		Generate(ctx context.Context, req exercises.Request) (*exercises.Details, error)
	}

	// Evaluator grades submissions.
	Evaluator interface {
		Evaluate(ctx context.Context, sub evaluation.Submission) (*evaluation.Result, error)
	}

	// StatusService computes the dashboard summary.
	StatusService interface {
		Summary(ctx context.Context) (*status.Summary, error)
	}

	// HistoryRepo lists evaluated exercises.
	HistoryRepo interface {
		History(ctx context.Context, limit int) ([]store.HistoryItem, error)
	}

	// Registry registers collectors and serves them on /metrics.
	Registry interface {
		prometheus.Registerer
		prometheus.Gatherer
	}

	Options struct {
		Address        string
		Debug          bool
		DisableReqLogs bool
		CORSOrigins    []string
		Logger         *log.Logger
		Registry       Registry

		Lessons    LessonService
		Exercises  ExerciseService
		Evaluation Evaluator
		Status     StatusService
		Concepts   concept.Store
		History    HistoryRepo
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts      *Options
		app       *echo.Echo
		validator *requestValidator
		metrics   *httpMetrics
	}
)

var _ Server = (*server)(nil)

// NewServer builds the echo application and registers every route.
func NewServer(opts *Options) Server {
	if opts.Logger == nil {
		opts.Logger = log.New("api")
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	s := &server{
		opts:      opts,
		app:       echo.New(),
		validator: newRequestValidator(),
		metrics:   newHTTPMetrics(opts.Registry),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Debug = s.opts.Debug
	s.app.Logger = s.opts.Logger
	s.app.Validator = s.validator
	s.app.HTTPErrorHandler = s.handleError

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in debug mode
	if !s.opts.Debug {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.opts.CORSOrigins,
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
			http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
	}))
	s.app.Use(s.metrics.middleware)

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{})))

	s.app.GET("/dashboard/status", s.dashboardStatus)

	s.app.GET("/lessons/next", s.nextLesson)
	s.app.GET("/lessons/:id", s.getLesson)

	s.app.POST("/exercises/generate", s.generateExercise)
	s.app.POST("/exercises/submit", s.submitExercise)

	s.app.GET("/review/history", s.reviewHistory)

	s.app.GET("/mastery/grammar", s.listGrammar)
	s.app.GET("/mastery/vocab", s.listVocabulary)
}

func (s *server) Start() error {
	s.opts.Logger.Infoj(log.JSON{"msg": "listening", "addr": s.opts.Address})
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to the hanmadi Korean learning API!"})
}
