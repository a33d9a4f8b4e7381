package handler

import (
	"encoding/json"
	"net/http"

	"pillpal/internal/auth"
	"pillpal/internal/medication"

	"go.uber.org/zap"
)

type ExportHandler struct {
	Svc *medication.Service
	Log *zap.Logger
}

// Export serves the user's full reminder set as a downloadable JSON
// document. Read-only.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Svc.Export(r.Context(), uid)
	if err != nil {
		h.Log.Error("export reminders", zap.Uint64("user_id", uid), zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="pillpal-reminders.json"`)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(rows)
}
