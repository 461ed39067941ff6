package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/MikeSquared-Agency/NutriSort/internal/classifier"
	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
	"github.com/MikeSquared-Agency/NutriSort/internal/report"
	"github.com/MikeSquared-Agency/NutriSort/internal/store"
)

const maxBodyBytes = 8 << 20

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifier.ClassifyRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.svc.Classify(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type productRequest struct {
	Product electre.Product `json:"product"`
}

func (h *Handler) NutriScore(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.NutriScore(req.Product)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": req.Product.ID,
		"nutriscore": res,
	})
}

type superNutriRequest struct {
	Product electre.Product `json:"product"`
	Eco     electre.Grade   `json:"eco_grade,omitempty"`
	Organic *bool           `json:"organic,omitempty"`
}

// SuperNutri accepts the eco grade and organic flag either on the product
// or at the top level; the top level wins.
func (h *Handler) SuperNutri(w http.ResponseWriter, r *http.Request) {
	var req superNutriRequest
	if !h.decode(w, r, &req) {
		return
	}
	p := req.Product
	if req.Eco != "" {
		g, err := electre.ParseGrade(string(req.Eco))
		if err != nil {
			h.writeError(w, err)
			return
		}
		p.Eco = g
	}
	if req.Organic != nil {
		p.Organic = *req.Organic
	}
	resp, err := h.svc.SuperNutri(r.Context(), p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type batchRequest struct {
	Products []electre.Product `json:"products"`
	Lambdas  []float64         `json:"lambdas,omitempty"`
	Locale   string            `json:"locale,omitempty"`
}

func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Products) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "products is required"})
		return
	}
	rep, err := h.svc.Batch(r.Context(), req.Products, report.Options{Lambdas: req.Lambdas, Locale: req.Locale})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) Profiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.Profiles()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

type reloadRequest struct {
	Dataset string `json:"dataset,omitempty"`
}

func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	var req reloadRequest
	if r.ContentLength != 0 && !h.decode(w, r, &req) {
		return
	}
	evt, err := h.svc.Reload(r.Context(), req.Dataset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evt)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// writeError maps domain errors to status codes. Validation problems are the
// caller's fault; configuration problems are ours.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, electre.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrDatasetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, classifier.ErrNoStore):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, electre.ErrConfiguration):
		h.logger.Error("configuration error", "error", err)
	default:
		h.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
