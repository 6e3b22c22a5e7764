// Package server exposes the transcription pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/physio-dash/session-transcriber/clients"
	cfg "github.com/physio-dash/session-transcriber/config"
	"github.com/physio-dash/session-transcriber/logging"
	"github.com/physio-dash/session-transcriber/metrics"
	"github.com/physio-dash/session-transcriber/orchestrator"
)

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	e       *echo.Echo
	pipe    *orchestrator.Pipeline
	metrics *metrics.Metrics
}

func New(c cfg.Server, pipe *orchestrator.Pipeline, m *metrics.Metrics) *Server {
	s := &Server{e: echo.New(), pipe: pipe, metrics: m}
	e := s.e
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	if c.UploadLimitMB > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", c.UploadLimitMB)))
	}
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.logRequests)
	e.Use(middleware.Recover())

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/healthz", ok)
	e.GET("/readyz", ok)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.POST("/api/transcribe", s.transcribe)
	return s
}

func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start(addr string) error {
	logging.Log.WithField("addr", addr).Info("http server listening")
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		req, res := c.Request(), c.Response()
		path := c.Path()
		if path == "" {
			path = req.URL.Path
		}
		elapsed := time.Since(start)
		if path != "/metrics" {
			s.metrics.ObserveAPICall(req.Method, path, res.Status, elapsed)
		}
		logging.WithFields(logrus.Fields{
			"method":     req.Method,
			"path":       req.URL.Path,
			"status":     res.Status,
			"latency":    elapsed.String(),
			"request_id": res.Header().Get(echo.HeaderXRequestID),
		}).Info("HTTP request")
		return nil
	}
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, ErrorResponse{Error: msg})
}

func (s *Server) transcribe(c echo.Context) error {
	if !s.pipe.Configured() {
		s.metrics.ObserveFailure("not_configured")
		return echo.NewHTTPError(http.StatusInternalServerError, clients.ErrMissingAPIKey.Error())
	}
	fh, err := c.FormFile("audio")
	if err != nil {
		s.metrics.ObserveFailure("bad_request")
		return echo.NewHTTPError(http.StatusBadRequest, "No audio file provided")
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("audio open: %w", err)
	}
	defer f.Close()

	mimetype := fh.Header.Get(echo.HeaderContentType)
	if mimetype == "" || mimetype == echo.MIMEOctetStream {
		mimetype = clients.MimeType(fh.Filename)
	}

	res, err := s.pipe.Process(c.Request().Context(), f, mimetype)
	switch {
	case err == nil:
	case errors.Is(err, orchestrator.ErrEmptyAudio):
		s.metrics.ObserveFailure("bad_request")
		return echo.NewHTTPError(http.StatusBadRequest, "No audio file provided")
	case errors.Is(err, clients.ErrMissingAPIKey):
		s.metrics.ObserveFailure("not_configured")
		return echo.NewHTTPError(http.StatusInternalServerError, clients.ErrMissingAPIKey.Error())
	default:
		s.metrics.ObserveFailure("provider_error")
		logging.Log.WithError(err).Error("transcription failed")
		var apiErr *clients.APIError
		if errors.As(err, &apiErr) {
			return echo.NewHTTPError(http.StatusInternalServerError, apiErr.Message)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to transcribe audio")
	}

	s.metrics.ObserveTranscription(res.WordCount, len(res.Utterances))
	return c.JSON(http.StatusOK, res)
}
