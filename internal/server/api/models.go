package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/store"
)

// ModelsHandler handles HTTP requests for trained model resources.
type ModelsHandler struct {
	store  *store.Store
	engine *engine.Engine
}

// NewModelsHandler creates a new ModelsHandler.
func NewModelsHandler(s *store.Store, e *engine.Engine) *ModelsHandler {
	return &ModelsHandler{store: s, engine: e}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/models, /api/models/{id}, /api/models/{id}/load
func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/models")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.train(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/load"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.load(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type trainRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "static" or "dynamic"
}

type modelResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Dim       int    `json:"dim"`
	CreatedAt string `json:"created_at"`
}

type listModelsResponse struct {
	Models []modelResponse `json:"models"`
}

func toModelResponse(m *store.Model) modelResponse {
	return modelResponse{
		ID:        m.ID,
		Name:      m.Name,
		Type:      m.Type,
		Dim:       m.Dim,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/models
func (h *ModelsHandler) list(w http.ResponseWriter, r *http.Request) {
	models, err := h.store.Models().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list models")
		return
	}

	response := listModelsResponse{
		Models: make([]modelResponse, 0, len(models)),
	}
	for _, m := range models {
		response.Models = append(response.Models, toModelResponse(m))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/models/{id}
func (h *ModelsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	model, err := h.store.Models().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Model not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get model")
		return
	}

	writeJSON(w, http.StatusOK, toModelResponse(model))
}

// train handles POST /api/models: it fits a fresh classifier on the stored
// training data and makes it the active model.
func (h *ModelsHandler) train(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	var model *store.Model
	var err error
	switch req.Kind {
	case "", string(store.GestureKindStatic):
		model, err = h.engine.TrainStatic(req.Name)
	case string(store.GestureKindDynamic):
		model, err = h.engine.TrainDynamic(req.Name)
	default:
		writeError(w, http.StatusBadRequest, "Invalid model kind")
		return
	}

	if err != nil {
		if errors.Is(err, classify.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Training failed")
		return
	}

	writeJSON(w, http.StatusCreated, toModelResponse(model))
}

// load handles POST /api/models/{id}/load and swaps the stored model in as
// the active one.
func (h *ModelsHandler) load(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.engine.LoadModel(id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Model not found")
		case errors.Is(err, classify.ErrTypeMismatch),
			errors.Is(err, classify.ErrIncompatibleModel):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to load model")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "active": id})
}

// delete handles DELETE /api/models/{id}
func (h *ModelsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Models().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Model not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete model")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
