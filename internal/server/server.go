// Package server exposes the recommendation engine over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abekenov/product-advisor/internal/common"
	"github.com/abekenov/product-advisor/internal/engine"
	"github.com/abekenov/product-advisor/internal/model"
	"github.com/abekenov/product-advisor/internal/service"
	"github.com/abekenov/product-advisor/internal/storage"
)

// Server wires the engine into an echo HTTP application. POST /recommend
// computes a fresh recommendation for one client; GET /recommendations/:id
// returns the last persisted one.
type Server struct {
	echo    *echo.Echo
	engine  *engine.Engine
	storage service.Storage
	addr    string
}

// New creates the HTTP server.
func New(eng *engine.Engine, store service.Storage, addr string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{echo: e, engine: eng, storage: store, addr: addr}

	e.POST("/recommend", s.handleRecommend)
	e.GET("/recommendations/:id", s.handleGetRecommendation)
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// Start runs the server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	// Warm the profile snapshot and thresholds before accepting traffic.
	if err := s.engine.Prepare(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

type recommendRequest struct {
	ID int64 `json:"id"`
}

type recommendResponse struct {
	Status       string  `json:"status"`
	ClientID     int64   `json:"client_id"`
	Product      string  `json:"product,omitempty"`
	ProductName  string  `json:"product_name,omitempty"`
	Benefit      float64 `json:"benefit,omitempty"`
	Tier         string  `json:"tier,omitempty"`
	Notification string  `json:"notification,omitempty"`
	Reason       string  `json:"reason,omitempty"`
}

func (s *Server) handleRecommend(c echo.Context) error {
	var req recommendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, recommendResponse{
			Status: "fail",
			Reason: "invalid request body",
		})
	}

	rec, err := s.engine.Recommend(c.Request().Context(), req.ID)
	if err != nil {
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			return c.JSON(http.StatusUnprocessableEntity, recommendResponse{
				Status:   "fail",
				ClientID: req.ID,
				Reason:   userErr.UserMessage,
			})
		}
		slog.Error("Recommendation request failed", "client_id", req.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, recommendResponse{
			Status:   "fail",
			ClientID: req.ID,
			Reason:   "internal error",
		})
	}

	return c.JSON(http.StatusOK, toResponse(rec))
}

func (s *Server) handleGetRecommendation(c echo.Context) error {
	var clientID int64
	if err := echo.PathParamsBinder(c).Int64("id", &clientID).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, recommendResponse{
			Status: "fail",
			Reason: "invalid client id",
		})
	}

	rec, err := s.storage.GetRecommendation(c.Request().Context(), clientID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.JSON(http.StatusNotFound, recommendResponse{
				Status:   "fail",
				ClientID: clientID,
				Reason:   "no recommendation for this client",
			})
		}
		slog.Error("Recommendation lookup failed", "client_id", clientID, "error", err)
		return c.JSON(http.StatusInternalServerError, recommendResponse{
			Status:   "fail",
			ClientID: clientID,
			Reason:   "internal error",
		})
	}

	return c.JSON(http.StatusOK, toResponse(rec))
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func toResponse(rec *model.Recommendation) recommendResponse {
	return recommendResponse{
		Status:       "success",
		ClientID:     rec.ClientID,
		Product:      string(rec.Product),
		ProductName:  rec.Product.DisplayName(),
		Benefit:      rec.Benefit,
		Tier:         rec.Tier,
		Notification: rec.Notification,
	}
}
