package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pillpal/internal/auth"
	"pillpal/internal/medication"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RemindersHandler struct {
	Svc       *medication.Service
	Projector *medication.Projector
	Log       *zap.Logger
}

// List projects the checklist for today, or for ?date=YYYY-MM-DD when the
// calendar view asks for another day.
func (h *RemindersHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			http.Error(w, "invalid date (YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		date = d
	}

	items, err := h.Projector.Project(r.Context(), uid, date)
	if err != nil {
		h.Log.Error("project schedule", zap.Uint64("user_id", uid), zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(items)
}

type createReminderReq struct {
	Medicine    string   `json:"medicine"`
	Dosage      string   `json:"dosage"`
	Frequency   string   `json:"frequency"`
	Time        string   `json:"time"`
	SecondTime  string   `json:"secondTime"`
	CustomDates []string `json:"customDates"`
	Color       string   `json:"color"`
}

func (h *RemindersHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createReminderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	med, rem, err := h.Svc.Create(r.Context(), uid, medication.CreateInput{
		Medicine:    req.Medicine,
		Dosage:      req.Dosage,
		Frequency:   req.Frequency,
		Time:        req.Time,
		SecondTime:  req.SecondTime,
		CustomDates: req.CustomDates,
		Color:       req.Color,
	})
	if err != nil {
		if errors.Is(err, medication.ErrInvalidInput) {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}
		h.Log.Error("create reminder", zap.Uint64("user_id", uid), zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	resp := medication.DueItem{
		ReminderID:   rem.ID,
		MedicationID: med.ID,
		Medicine:     med.Name,
		Dosage:       med.Dosage,
		Frequency:    med.Frequency,
		Color:        medication.DisplayColor(med),
		StartDate:    medication.DateString(med.StartDate),
		DayOfWeek:    med.DayOfWeek,
		CustomDates:  append([]string{}, med.CustomDates...),
		Time:         medication.Format12h(rem.ReminderTime),
		RawTime:      rem.ReminderTime,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}

type updateReminderReq struct {
	Medicine   string `json:"medicine"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	Time       string `json:"time"`
	SecondTime string `json:"secondTime"`
}

func (h *RemindersHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := reminderID(w, r)
	if !ok {
		return
	}

	var req updateReminderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	err := h.Svc.Update(r.Context(), uid, id, medication.UpdateInput{
		Medicine:   req.Medicine,
		Dosage:     req.Dosage,
		Frequency:  req.Frequency,
		Time:       req.Time,
		SecondTime: req.SecondTime,
	})
	if err != nil {
		h.writeServiceErr(w, uid, "update reminder", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

func (h *RemindersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := reminderID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Delete(r.Context(), uid, id); err != nil {
		h.writeServiceErr(w, uid, "delete reminder", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

func (h *RemindersHandler) writeServiceErr(w http.ResponseWriter, uid uint64, op string, err error) {
	switch {
	case errors.Is(err, medication.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, medication.ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	default:
		h.Log.Error(op, zap.Uint64("user_id", uid), zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func reminderID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
