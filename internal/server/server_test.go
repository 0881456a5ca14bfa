package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/san-kum/dragsim/internal/config"
)

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(New(config.DefaultConfig(), nil).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req any) Response {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp
}

func TestCompareOverWebsocket(t *testing.T) {
	conn := dial(t)

	resp := roundTrip(t, conn, Request{Type: TypeCompare, ID: "req-1", Samples: true})
	if resp.Type != TypeComparison || resp.ID != "req-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Session == "" {
		t.Error("expected a session id")
	}
	if len(resp.Rows) != 4 || resp.Newton == nil || resp.Galileo == nil {
		t.Fatalf("incomplete comparison: %+v", resp)
	}
	if resp.Newton.X >= resp.Galileo.X {
		t.Errorf("drag should shorten the range: %f >= %f", resp.Newton.X, resp.Galileo.X)
	}
	if len(resp.Trajectories["newton"]) == 0 || len(resp.Trajectories["galileo"]) != 600 {
		t.Errorf("unexpected trajectories: %d galileo samples", len(resp.Trajectories["galileo"]))
	}

	second := roundTrip(t, conn, Request{Type: TypeCompare, Params: map[string]float64{"c": 0}})
	if second.Session != resp.Session {
		t.Error("session should be stable per connection")
	}
	if second.ID == "" {
		t.Error("missing request id should be generated")
	}
	if second.Trajectories != nil {
		t.Error("samples not requested")
	}
}

func TestSweepOverWebsocket(t *testing.T) {
	conn := dial(t)

	resp := roundTrip(t, conn, Request{Type: TypeSweep, C: []float64{0, 0.15, 0.5}})
	if resp.Type != TypeSweepTable || len(resp.Sweep) != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Sweep[2].XLand >= resp.Sweep[0].XLand {
		t.Error("range should shrink as drag grows")
	}
}

func TestErrorsOverWebsocket(t *testing.T) {
	conn := dial(t)

	tests := []struct {
		name string
		req  any
		want string
	}{
		{"unknown type", Request{Type: "launch"}, "unknown request type"},
		{"bad param", Request{Type: TypeCompare, Params: map[string]float64{"mass": 1}}, "unknown param"},
		{"domain", Request{Type: TypeCompare, Params: map[string]float64{"alpha_deg": 90}}, "domain"},
		{"malformed", "not an object", "invalid request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := roundTrip(t, conn, tt.req)
			if resp.Type != TypeError || !strings.Contains(resp.Error, tt.want) {
				t.Errorf("expected error containing %q, got %+v", tt.want, resp)
			}
		})
	}
}

func TestWorkLimits(t *testing.T) {
	conn := dial(t)

	tests := []struct {
		name string
		req  Request
	}{
		{"tiny dt", Request{Type: TypeCompare, Dt: 1e-12}},
		{"tiny dt sweep", Request{Type: TypeSweep, Dt: 1e-12, C: []float64{0.1}}},
		{"long sweep", Request{Type: TypeSweep, C: make([]float64, DefaultMaxSweep+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := roundTrip(t, conn, tt.req)
			if resp.Type != TypeError || !strings.Contains(resp.Error, ErrLimit.Error()) {
				t.Errorf("expected limit error, got %+v", resp)
			}
		})
	}

	resp := roundTrip(t, conn, Request{Type: TypeSweep, C: make([]float64, DefaultMaxSweep)})
	if resp.Type != TypeSweepTable || len(resp.Sweep) != DefaultMaxSweep {
		t.Errorf("sweep at the limit should run, got type %q with %d points", resp.Type, len(resp.Sweep))
	}
}

func TestHandleLimitError(t *testing.T) {
	s := New(config.DefaultConfig(), nil)
	s.MaxSteps = 100

	resp := s.Handle(context.Background(), Request{Type: TypeCompare})
	if resp.Type != TypeError || !strings.Contains(resp.Error, "at most 100") {
		t.Errorf("expected step limit error, got %+v", resp)
	}
}

func TestOriginCheck(t *testing.T) {
	s := New(config.DefaultConfig(), nil)
	s.AllowOrigins("http://app.example")
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	tests := []struct {
		origin string
		ok     bool
	}{
		{"", true},
		{"http://app.example", true},
		{srv.URL, true},
		{"http://elsewhere.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, _, err := websocket.DefaultDialer.Dial(url, header)
			if conn != nil {
				conn.Close()
			}
			if (err == nil) != tt.ok {
				t.Errorf("origin %q: err=%v, want ok=%v", tt.origin, err, tt.ok)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(New(config.DefaultConfig(), nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestHandleDirect(t *testing.T) {
	s := New(config.DefaultConfig(), nil)
	resp := s.Handle(context.Background(), Request{Type: TypeCompare, Preset: "vacuum"})
	if resp.Type != TypeComparison {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if d := resp.Newton.X - resp.Galileo.X; d > 1e-4 || d < -1e-4 {
		t.Errorf("vacuum newton should match galileo, delta %g", d)
	}
}
