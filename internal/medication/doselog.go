package medication

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LogStore keeps at most one outcome per (reminder, date, slot). Writes are
// upserts under the uq_dose_logs_occurrence index, so a repeated mark is a
// no-op rather than a duplicate row.
type LogStore struct {
	DB *gorm.DB
}

func (s *LogStore) SetOutcome(ctx context.Context, reminderID uint64, key OccurrenceKey, status string) error {
	if status != StatusTaken && status != StatusSkipped {
		return ErrInvalidInput
	}
	rec := DoseLog{
		ReminderID: reminderID,
		Status:     status,
		TakenDate:  key.Date,
		Slot:       key.Slot,
		Timestamp:  time.Now(),
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reminder_id"}, {Name: "taken_date"}, {Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "timestamp"}),
	}).Create(&rec).Error
}

// ClearOutcome removes the log for the occurrence, if any. Clearing an
// unlogged occurrence is not an error; "never marked" and "un-marked" are
// indistinguishable afterwards.
func (s *LogStore) ClearOutcome(ctx context.Context, reminderID uint64, key OccurrenceKey) error {
	return s.DB.WithContext(ctx).
		Where("reminder_id = ? AND taken_date = ? AND slot = ?", reminderID, key.Date, key.Slot).
		Delete(&DoseLog{}).Error
}

func (s *LogStore) GetOutcome(ctx context.Context, reminderID uint64, key OccurrenceKey) (string, bool, error) {
	var rec DoseLog
	err := s.DB.WithContext(ctx).
		Where("reminder_id = ? AND taken_date = ? AND slot = ?", reminderID, key.Date, key.Slot).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Status, true, nil
}

type HistoryEntry struct {
	LogID         uint64    `gorm:"column:log_id" json:"logId"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	TakenDate     string    `json:"takenDate"`
	Slot          int       `json:"slot"`
	Medicine      string    `json:"medicine"`
	Dosage        string    `json:"dosage"`
	Frequency     string    `json:"frequency"`
	ScheduledTime string    `gorm:"column:scheduled_time" json:"scheduledTime"`
}

// History returns every log for the user's medications, newest first, joined
// out to the display fields. Pure read, nothing is recomputed.
func (s *LogStore) History(ctx context.Context, userID uint64) ([]HistoryEntry, error) {
	out := []HistoryEntry{}
	err := s.DB.WithContext(ctx).
		Table("dose_logs").
		Select(`dose_logs.id as log_id,
			dose_logs.status,
			dose_logs.timestamp,
			dose_logs.taken_date,
			dose_logs.slot,
			medications.name as medicine,
			medications.dosage,
			medications.frequency,
			case when dose_logs.slot = 2 and reminders.second_time is not null
				then reminders.second_time
				else reminders.reminder_time
			end as scheduled_time`).
		Joins("join reminders on reminders.id = dose_logs.reminder_id").
		Joins("join medications on medications.id = reminders.medication_id").
		Where("medications.user_id = ?", userID).
		Order("dose_logs.timestamp desc, dose_logs.id desc").
		Scan(&out).Error
	return out, err
}
