package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"pillpal/internal/auth"
	"pillpal/internal/medication"

	"go.uber.org/zap"
)

type DoseLogHandler struct {
	Svc *medication.Service
	Log *zap.Logger
}

type markOutcomeReq struct {
	Taken    bool `json:"taken"`
	IsSecond bool `json:"isSecond"`
}

// Mark records or clears today's outcome for one dose slot. Repeating the
// same call is a no-op: the store upserts on the occurrence key.
func (h *DoseLogHandler) Mark(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := reminderID(w, r)
	if !ok {
		return
	}

	var req markOutcomeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	err := h.Svc.MarkOutcome(r.Context(), uid, id, req.IsSecond, req.Taken)
	if err != nil {
		if errors.Is(err, medication.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.Log.Error("mark outcome", zap.Uint64("user_id", uid), zap.Uint64("reminder_id", id), zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}
