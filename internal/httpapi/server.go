package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"horse.fit/newsindex/internal/inverted"
)

const (
	defaultQueryLimit = 10
	maxQueryLimit     = 500
)

// Engine is the subset of the index facade the HTTP layer needs. Both
// *inverted.Index and *inverted.CachingEngine satisfy it.
type Engine interface {
	RegisterArticle(url, title string) (int, error)
	AddToken(articleID int, token string)
	QueryTopN(term string, n int) []inverted.Result
	GetArticleTitle(articleID int) (string, error)
	GetArticleUrl(articleID int) (string, error)
	GetArticleUUID(articleID int) (string, error)
	Stats() inverted.Stats
}

// Options configures the HTTP server's network and timeout behavior.
type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// Server exposes the index facade over a JSON HTTP API.
type Server struct {
	engine    Engine
	logger    zerolog.Logger
	opts      Options
	validator *validator.Validate
}

type registerArticleRequest struct {
	URL   string `json:"url" validate:"required,url"`
	Title string `json:"title" validate:"required"`
}

type addTokensRequest struct {
	Tokens []string `json:"tokens" validate:"required,min=1,dive,required"`
}

// NewServer constructs a Server bound to engine. Timeout fields default the
// same way the teacher's httpapi.NewServer does.
func NewServer(engine Engine, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8080
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	corsOrigins := opts.CORSOrigins
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	return &Server{
		engine: engine,
		logger: logger,
		opts: Options{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			CORSOrigins:     corsOrigins,
		},
		validator: validator.New(),
	}
}

// Start runs the HTTP server until ctx is canceled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.engine == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.opts.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodPost},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       3600,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}
			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/", func(c echo.Context) error {
		return success(c, map[string]any{
			"service": "newsindex",
			"status":  "ok",
		})
	})

	// The engine is not safe for concurrent use, so API requests are
	// served one at a time.
	var engineMu sync.Mutex
	api := e.Group("/api/v1", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			engineMu.Lock()
			defer engineMu.Unlock()
			return next(c)
		}
	})
	api.GET("/stats", s.handleStats)
	api.GET("/query", s.handleQuery)
	api.GET("/articles/:id", s.handleGetArticle)
	api.POST("/articles", s.handleRegisterArticle)
	api.POST("/articles/:id/tokens", s.handleAddTokens)

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("newsindex http server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("newsindex http server stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if text, ok := he.Message.(string); ok && strings.TrimSpace(text) != "" {
			message = text
		}
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message, nil)
}

func (s *Server) handleStats(c echo.Context) error {
	return success(c, s.engine.Stats())
}

func (s *Server) handleQuery(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("term"))
	if term == "" {
		return failValidation(c, map[string]string{"term": "is required"})
	}

	n, err := parsePositiveInt(c.QueryParam("n"), defaultQueryLimit, 1, maxQueryLimit)
	if err != nil {
		return failValidation(c, map[string]string{"n": err.Error()})
	}

	results := s.engine.QueryTopN(term, n)
	return success(c, map[string]any{
		"term":    term,
		"n":       n,
		"results": results,
	})
}

func (s *Server) handleGetArticle(c echo.Context) error {
	id, err := strconv.Atoi(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return failValidation(c, map[string]string{"id": "must be an integer"})
	}

	title, err := s.engine.GetArticleTitle(id)
	if err != nil {
		if errors.Is(err, inverted.ErrNotFound) {
			return failNotFound(c, "article not found")
		}
		s.logger.Error().Err(err).Int("article_id", id).Msg("get article title failed")
		return internalError(c, "failed to load article")
	}
	url, err := s.engine.GetArticleUrl(id)
	if err != nil {
		s.logger.Error().Err(err).Int("article_id", id).Msg("get article url failed")
		return internalError(c, "failed to load article")
	}
	uuid, err := s.engine.GetArticleUUID(id)
	if err != nil {
		s.logger.Error().Err(err).Int("article_id", id).Msg("get article uuid failed")
		return internalError(c, "failed to load article")
	}

	return success(c, map[string]any{
		"article_id":   id,
		"article_uuid": uuid,
		"title":        title,
		"url":          url,
	})
}

func (s *Server) handleRegisterArticle(c echo.Context) error {
	var req registerArticleRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be valid JSON"})
	}
	if err := s.validator.Struct(&req); err != nil {
		return failValidation(c, formatValidationErrors(err))
	}

	id, err := s.engine.RegisterArticle(req.URL, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, inverted.ErrDuplicateURL):
			return fail(c, http.StatusConflict, "duplicate url", nil)
		case errors.Is(err, inverted.ErrDuplicateTitleServer):
			return fail(c, http.StatusConflict, "duplicate title on server", nil)
		case errors.Is(err, inverted.ErrInvalidInput):
			return failValidation(c, map[string]string{"url": "is required"})
		default:
			s.logger.Error().Err(err).Msg("register article failed")
			return internalError(c, "failed to register article")
		}
	}

	return successWithStatus(c, http.StatusCreated, map[string]any{"article_id": id})
}

func (s *Server) handleAddTokens(c echo.Context) error {
	id, err := strconv.Atoi(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return failValidation(c, map[string]string{"id": "must be an integer"})
	}

	var req addTokensRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be valid JSON"})
	}
	if err := s.validator.Struct(&req); err != nil {
		return failValidation(c, formatValidationErrors(err))
	}

	if _, err := s.engine.GetArticleTitle(id); err != nil {
		if errors.Is(err, inverted.ErrNotFound) {
			return failNotFound(c, "article not found")
		}
		s.logger.Error().Err(err).Int("article_id", id).Msg("lookup before add tokens failed")
		return internalError(c, "failed to add tokens")
	}

	for _, token := range req.Tokens {
		s.engine.AddToken(id, token)
	}

	return success(c, map[string]any{"article_id": id, "tokens_submitted": len(req.Tokens)})
}

func formatValidationErrors(err error) map[string]string {
	out := map[string]string{}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				out[field] = "is required"
			case "url":
				out[field] = "must be a valid url"
			case "min":
				out[field] = "must have at least " + fe.Param() + " item(s)"
			default:
				out[field] = "is invalid"
			}
		}
		return out
	}
	out["body"] = err.Error()
	return out
}

func parsePositiveInt(raw string, defaultValue, minValue, maxValue int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if value < minValue || value > maxValue {
		return 0, fmt.Errorf("must be between %d and %d", minValue, maxValue)
	}
	return value, nil
}
