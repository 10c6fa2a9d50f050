// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ak736/GuardianX/internal/auth"
	"github.com/ak736/GuardianX/internal/config"
	"github.com/ak736/GuardianX/internal/data"
	"github.com/ak736/GuardianX/internal/ingest"
	"github.com/ak736/GuardianX/internal/simulation"
	"github.com/ak736/GuardianX/internal/storage"
	"github.com/ak736/GuardianX/internal/websocket"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type APIHandler struct {
	store  storage.Store
	ingest *ingest.Service
	engine *simulation.Engine
	hub    *websocket.Hub
	auth   *auth.Manager
	cfg    *config.Config
	logger *zap.Logger
}

func NewAPIHandler(cfg *config.Config, store storage.Store, svc *ingest.Service, engine *simulation.Engine, hub *websocket.Hub, authManager *auth.Manager, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		store:  store,
		ingest: svc,
		engine: engine,
		hub:    hub,
		auth:   authManager,
		cfg:    cfg,
		logger: logger,
	}
}

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: true, Message: msg})
}

// fail maps domain errors to HTTP statuses. Anything unrecognised is logged
// and reported as a 500 without detail.
func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *data.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: true, Message: verr.Message, Field: verr.Field})
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, simulation.ErrRunNotFound),
		errors.Is(err, simulation.ErrNoMatchingInfrastructure):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, simulation.ErrNoInfrastructure):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, simulation.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &data.ValidationError{Field: "body", Message: "cannot read request body"}
	}
	return body, nil
}

func (h *APIHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "GuardianX API is running"})
}

// HandleReadingIngest stores a reading for a sensor and runs it through
// anomaly detection.
func (h *APIHandler) HandleReadingIngest(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := data.ParseReading(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.ingest.AddReading(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Reading added successfully",
		"reading": out.Reading,
		"anomaly": out.Anomaly,
	})
}

// HandleWebSocket upgrades connections and registers clients with the hub
func (h *APIHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *APIHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req loginRequest
	if err := json.Unmarshal(body, &req); err != nil || req.Username == "" {
		h.fail(w, r, &data.ValidationError{Field: "username", Message: "username and password are required"})
		return
	}

	role, err := h.auth.AuthenticateUser(req.Username, req.Password)
	if err != nil {
		h.logger.Info("login rejected", zap.String("username", req.Username))
		h.fail(w, r, err)
		return
	}
	token, err := h.auth.GenerateJWT(req.Username, role)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "role": role})
}

// HandleWalletMessage returns the message a wallet signs to authenticate.
func (h *APIHandler) HandleWalletMessage(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")
	writeJSON(w, http.StatusOK, map[string]string{"walletAddress": wallet, "message": auth.WalletLoginMessage(wallet)})
}

func authUser(r *http.Request) string {
	return auth.Username(r.Context())
}
