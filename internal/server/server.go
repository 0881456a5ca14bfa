// Package server exposes the comparison over a websocket: each request
// message is answered with one response message on the same connection.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/san-kum/dragsim/internal/automation"
	"github.com/san-kum/dragsim/internal/compare"
	"github.com/san-kum/dragsim/internal/config"
	"github.com/san-kum/dragsim/internal/experiment"
	"github.com/san-kum/dragsim/internal/sweep"
	"github.com/san-kum/dragsim/internal/trajectory"
)

const (
	TypeCompare    = "compare"
	TypeSweep      = "sweep"
	TypeComparison = "comparison"
	TypeSweepTable = "sweep_result"
	TypeError      = "error"

	// DefaultMaxSteps bounds t_max/dt of a single Newton run.
	DefaultMaxSteps = 1 << 20
	// DefaultMaxSweep bounds the number of coefficients in one sweep.
	DefaultMaxSweep = 64

	shutdownTimeout = 5 * time.Second
)

// ErrLimit is returned for requests that would exceed the server's work
// limits.
var ErrLimit = errors.New("request exceeds server limits")

type Request struct {
	Type       string             `json:"type"`
	ID         string             `json:"id,omitempty"`
	Preset     string             `json:"preset,omitempty"`
	Integrator string             `json:"integrator,omitempty"`
	Dt         float64            `json:"dt,omitempty"`
	Params     map[string]float64 `json:"params,omitempty"`
	// Samples asks for the full trajectories in a compare response.
	Samples bool `json:"samples,omitempty"`
	// C lists the drag coefficients of a sweep request.
	C []float64 `json:"c,omitempty"`
}

type Response struct {
	Type         string                         `json:"type"`
	ID           string                         `json:"id"`
	Session      string                         `json:"session"`
	Error        string                         `json:"error,omitempty"`
	Rows         []compare.Row                  `json:"rows,omitempty"`
	Galileo      *trajectory.Landing            `json:"galileo,omitempty"`
	Newton       *trajectory.Landing            `json:"newton,omitempty"`
	Metrics      map[string]float64             `json:"metrics,omitempty"`
	Trajectories map[string][]trajectory.Sample `json:"trajectories,omitempty"`
	Sweep        []sweep.Point                  `json:"sweep,omitempty"`
}

type Server struct {
	base     *config.Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	MaxSteps int
	MaxSweep int
}

func New(base *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		base:   base,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		MaxSteps: DefaultMaxSteps,
		MaxSweep: DefaultMaxSweep,
	}
}

// AllowOrigins accepts browser connections from the given origins in
// addition to same-origin ones. Clients that send no Origin header are
// always accepted.
func (s *Server) AllowOrigins(origins ...string) {
	if len(origins) == 0 {
		s.upgrader.CheckOrigin = nil
		return
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	s.upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowed[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// ServeWS upgrades the connection and answers requests until the client
// goes away.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	logger := s.logger.With("session", session)
	logger.Debug("client connected", "remote", r.RemoteAddr)

	ctx := r.Context()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("client disconnected")
			} else {
				logger.Debug("read failed", "error", err)
			}
			return
		}

		var req Request
		var resp Response
		if err := json.Unmarshal(msg, &req); err != nil {
			resp = Response{Type: TypeError, Error: "invalid request: " + err.Error()}
		} else {
			resp = s.Handle(ctx, req)
		}
		resp.Session = session

		if err := conn.WriteJSON(resp); err != nil {
			logger.Debug("write failed", "error", err)
			return
		}
	}
}

// Handle computes the response for one request. A request without an ID
// gets a fresh one.
func (s *Server) Handle(ctx context.Context, req Request) Response {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	fail := func(err error) Response {
		return Response{Type: TypeError, ID: id, Error: err.Error()}
	}

	cfg, err := automation.StepConfig(automation.ScenarioStep{
		Preset:     req.Preset,
		Integrator: req.Integrator,
		Dt:         req.Dt,
		Params:     req.Params,
	}, s.base)
	if err != nil {
		return fail(err)
	}
	if err := cfg.Validate(); err != nil {
		return fail(err)
	}
	if steps := cfg.TMax / cfg.Dt; steps > float64(s.MaxSteps) {
		return fail(fmt.Errorf("%w: t_max/dt = %.3g steps, at most %d allowed", ErrLimit, steps, s.MaxSteps))
	}

	switch req.Type {
	case TypeCompare:
		res, err := experiment.New(cfg, s.logger).Run(ctx)
		if err != nil {
			return fail(err)
		}
		resp := Response{
			Type:    TypeComparison,
			ID:      id,
			Rows:    res.Rows,
			Galileo: &res.GalileoLanding,
			Newton:  &res.NewtonLanding,
			Metrics: res.Metrics,
		}
		if req.Samples {
			resp.Trajectories = map[string][]trajectory.Sample{
				trajectory.ModelGalileo: res.Galileo.Samples,
				trajectory.ModelNewton:  res.Newton.Samples,
			}
		}
		return resp

	case TypeSweep:
		cs := req.C
		if len(cs) == 0 {
			cs = sweep.Linspace(cfg.Sweep.CMin, cfg.Sweep.CMax, cfg.Sweep.Steps)
		}
		if len(cs) > s.MaxSweep {
			return fail(fmt.Errorf("%w: %d drag coefficients, at most %d allowed", ErrLimit, len(cs), s.MaxSweep))
		}
		points, err := sweep.DragCoefficients(ctx, cfg.Params, cs, sweep.Options{
			Dt:         cfg.Dt,
			TMax:       cfg.TMax,
			Integrator: cfg.Integrator,
			ExactApex:  cfg.ExactApex,
		})
		if err != nil {
			return fail(err)
		}
		return Response{Type: TypeSweepTable, ID: id, Sweep: points}

	default:
		return fail(errors.New("unknown request type: " + req.Type))
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
