package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/shared"
	"github.com/desertthunder/ncmx/internal/store"
)

const maxActionBody = 1 << 20

// Engine is the part of tasks.Engine the inspector drives.
type Engine interface {
	Put(ctx context.Context, a actions.Action) error
	Select() store.State
	Settle(ctx context.Context) error
}

// ActionRequest is the body of POST /actions.
type ActionRequest struct {
	Type    actions.Type    `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Wait    bool            `json:"wait,omitempty"`
}

// ActionResponse acknowledges an accepted action.
type ActionResponse struct {
	Type  actions.Type `json:"type"`
	State *store.State `json:"state,omitempty"`
}

// Inspector serves the engine state and accepts actions over HTTP.
type Inspector struct {
	engine Engine
	logger *log.Logger
}

// NewInspector creates an [Inspector] for engine.
func NewInspector(engine Engine, logger *log.Logger) *Inspector {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Inspector{engine: engine, logger: logger}
}

// Register adds the inspector routes to r.
func (i *Inspector) Register(r Router) {
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(i.health))
	r.Handle(http.MethodGet, "/state", http.HandlerFunc(i.state))
	r.Handle(http.MethodPost, "/actions", http.HandlerFunc(i.action))
}

// NewRouter returns a [BasicRouter] with recovery, logging and the inspector routes.
func NewRouter(engine Engine, logger *log.Logger) *BasicRouter {
	i := NewInspector(engine, logger)
	r := NewBasicRouter()
	r.Use(Recovery(i.logger), Logging(i.logger))
	i.Register(r)
	return r
}

func (i *Inspector) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (i *Inspector) state(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, i.engine.Select())
}

func (i *Inspector) action(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxActionBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var req ActionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "missing action type")
		return
	}

	a, err := actions.Decode(req.Type, req.Payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := i.engine.Put(r.Context(), a); err != nil {
		i.logger.Warn("action rejected", "type", req.Type, "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, shared.ErrRuntimeStopped) || errors.Is(err, shared.ErrStoreClosed) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return
	}

	if !req.Wait {
		writeJSON(w, http.StatusAccepted, ActionResponse{Type: a.Type()})
		return
	}

	if err := i.engine.Settle(r.Context()); err != nil {
		writeError(w, http.StatusGatewayTimeout, err.Error())
		return
	}
	state := i.engine.Select()
	writeJSON(w, http.StatusOK, ActionResponse{Type: a.Type(), State: &state})
}
