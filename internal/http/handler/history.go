package handler

import (
	"encoding/json"
	"net/http"

	"pillpal/internal/auth"
	"pillpal/internal/medication"

	"go.uber.org/zap"
)

type HistoryHandler struct {
	Logs *medication.LogStore
	Log  *zap.Logger
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	entries, err := h.Logs.History(r.Context(), uid)
	if err != nil {
		h.Log.Error("list history", zap.Uint64("user_id", uid), zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}
