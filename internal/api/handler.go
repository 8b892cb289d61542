package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pluvialabs/rainproc/internal/codec"
	"github.com/pluvialabs/rainproc/internal/policy"
	"github.com/pluvialabs/rainproc/internal/processor"
)

var (
	txTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rainproc_transactions_total",
		Help: "Transactions processed, labeled by verb and outcome",
	}, []string{"verb", "outcome"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rainproc_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

type Handler struct {
	proc *processor.Processor
}

func NewHandler(proc *processor.Processor) *Handler {
	return &Handler{proc: proc}
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SubmitTransactionHandler applies one CBOR-encoded transaction payload.
func (h *Handler) SubmitTransactionHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/transactions"))
	defer timer.ObserveDuration()

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Stream read error")
		return
	}
	if len(payload) == 0 {
		respondWithError(w, http.StatusBadRequest, "Empty payload")
		return
	}

	receipt, err := h.proc.Apply(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, codec.ErrBadPayload):
			txTotal.WithLabelValues("unknown", "undecodable").Inc()
			respondWithError(w, http.StatusBadRequest, "Payload is not valid CBOR")
		case policy.IsRejection(err):
			txTotal.WithLabelValues("unknown", "rejected").Inc()
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			txTotal.WithLabelValues("unknown", "fault").Inc()
			respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	txTotal.WithLabelValues(receipt.Verb, "applied").Inc()
	w.Header().Set("Location", "/api/v1/policies/"+receipt.Purchase)
	respondWithJSON(w, http.StatusCreated, receipt)
}

// GetPolicyHandler returns the stored purchase entry for an id.
func (h *Handler) GetPolicyHandler(w http.ResponseWriter, r *http.Request) {
	purchase := mux.Vars(r)["purchase"]

	entry, err := h.proc.Lookup(r.Context(), purchase)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if entry == nil {
		respondWithError(w, http.StatusNotFound, "Purchase not found")
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
