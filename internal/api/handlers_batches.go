package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/docmerge/internal/store"
	"github.com/go-chi/chi/v5"
)

// handleListBatches lists batch history, newest first.
func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	batches, err := s.orchestrator.History().ListBatches(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list batches: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if batches == nil {
		batches = []store.Batch{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"batches": batches})
}

// handleBatchResult serves a combined document from history.
func (s *Server) handleBatchResult(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	batch, err := s.orchestrator.History().GetBatch(r.Context(), batchID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "batch not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := s.orchestrator.History().GetResult(r.Context(), batchID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "batch has no stored result", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	name := batch.OutputName
	if name == "" {
		name = batchID + ".docx"
	}
	w.Header().Set("Content-Type", docxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

// handleDeleteBatch removes a batch and its stored result.
func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	err := s.orchestrator.History().DeleteBatch(r.Context(), batchID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "batch not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": batchID})
}
