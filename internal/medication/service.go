package medication

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrInvalidInput = errors.New("invalid input")

// Service owns the medication+reminder lifecycle. The pair is created,
// edited, and deleted together; dose logs hang off the reminder.
type Service struct {
	DB   *gorm.DB
	Logs *LogStore

	// Now is overridable for tests; zero value means time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreateInput struct {
	Medicine    string
	Dosage      string
	Frequency   string
	Time        string
	SecondTime  string
	CustomDates []string
	Color       string
}

// Create inserts a medication and its reminder in one transaction. Weekly
// medications capture the creation date's weekday; it is never re-derived.
func (s *Service) Create(ctx context.Context, userID uint64, in CreateInput) (*Medication, *Reminder, error) {
	in.Medicine = strings.TrimSpace(in.Medicine)
	in.Dosage = strings.TrimSpace(in.Dosage)
	if userID == 0 || in.Medicine == "" || in.Dosage == "" || in.Time == "" {
		return nil, nil, ErrInvalidInput
	}

	clock, err := ParseClock(in.Time)
	if err != nil {
		return nil, nil, ErrInvalidInput
	}

	freq := in.Frequency
	if freq == "" {
		freq = FreqDaily
	}

	now := s.now()
	med := Medication{
		UserID:    userID,
		Name:      in.Medicine,
		Dosage:    in.Dosage,
		Frequency: freq,
		Color:     in.Color,
		StartDate: dateOnly(now),
	}
	if med.Color == "" {
		med.Color = ColorFor(in.Medicine)
	}
	if freq == FreqWeekly {
		dow := int(now.Weekday())
		med.DayOfWeek = &dow
	}
	if freq == FreqCustom {
		for _, d := range in.CustomDates {
			if d = strings.TrimSpace(d); d != "" {
				med.CustomDates = append(med.CustomDates, d)
			}
		}
	}

	rem := Reminder{ReminderTime: clock}
	if freq == FreqTwiceDaily && in.SecondTime != "" {
		second, err := ParseClock(in.SecondTime)
		if err != nil {
			return nil, nil, ErrInvalidInput
		}
		rem.SecondTime = &second
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&med).Error; err != nil {
			return err
		}
		rem.MedicationID = med.ID
		return tx.Create(&rem).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &med, &rem, nil
}

type UpdateInput struct {
	Medicine   string
	Dosage     string
	Frequency  string
	Time       string
	SecondTime string
}

// Update edits the display fields and the reminder time(s) together. Derived
// schedule fields (day of week, custom dates, start date) are left untouched.
func (s *Service) Update(ctx context.Context, userID, reminderID uint64, in UpdateInput) error {
	in.Medicine = strings.TrimSpace(in.Medicine)
	in.Dosage = strings.TrimSpace(in.Dosage)
	if in.Medicine == "" || in.Dosage == "" || in.Time == "" {
		return ErrInvalidInput
	}
	clock, err := ParseClock(in.Time)
	if err != nil {
		return ErrInvalidInput
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rem, err := s.ownedReminder(tx, userID, reminderID)
		if err != nil {
			return err
		}

		medUpdates := map[string]any{
			"name":   in.Medicine,
			"dosage": in.Dosage,
		}
		if in.Frequency != "" {
			medUpdates["frequency"] = in.Frequency
		}
		if err := tx.Model(&Medication{}).Where("id = ?", rem.MedicationID).
			Updates(medUpdates).Error; err != nil {
			return err
		}

		remUpdates := map[string]any{"reminder_time": clock}
		switch {
		case in.Frequency != "" && in.Frequency != FreqTwiceDaily:
			remUpdates["second_time"] = nil
		case in.SecondTime != "":
			second, err := ParseClock(in.SecondTime)
			if err != nil {
				return ErrInvalidInput
			}
			remUpdates["second_time"] = second
		}
		return tx.Model(&Reminder{}).Where("id = ?", rem.ID).
			Updates(remUpdates).Error
	})
}

// Delete cascades logs, then the reminder, then the medication, inside one
// transaction.
func (s *Service) Delete(ctx context.Context, userID, reminderID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rem, err := s.ownedReminder(tx, userID, reminderID)
		if err != nil {
			return err
		}
		if err := tx.Where("reminder_id = ?", rem.ID).Delete(&DoseLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", rem.ID).Delete(&Reminder{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", rem.MedicationID).Delete(&Medication{}).Error
	})
}

// MarkOutcome records or clears today's outcome for one dose slot, after
// checking the reminder belongs to the user. taken=false clears.
func (s *Service) MarkOutcome(ctx context.Context, userID, reminderID uint64, second, taken bool) error {
	rem, err := s.ownedReminder(s.DB.WithContext(ctx), userID, reminderID)
	if err != nil {
		return err
	}
	key := KeyFor(s.now(), second)
	if !taken {
		return s.Logs.ClearOutcome(ctx, rem.ID, key)
	}
	return s.Logs.SetOutcome(ctx, rem.ID, key, StatusTaken)
}

// ExportRow is one line of the downloadable reminder document.
type ExportRow struct {
	ReminderID   uint64   `json:"id"`
	MedicationID uint64   `json:"medicationId"`
	Medicine     string   `json:"medicine"`
	Dosage       string   `json:"dosage"`
	Frequency    string   `json:"frequency"`
	Color        string   `json:"color"`
	StartDate    string   `json:"startDate"`
	DayOfWeek    *int     `json:"dayOfWeek"`
	CustomDates  []string `json:"customDates"`
	Time         string   `json:"time"`
	SecondTime   string   `json:"secondTime,omitempty"`
}

// Export returns the user's full reminder set in creation order. Read-only.
func (s *Service) Export(ctx context.Context, userID uint64) ([]ExportRow, error) {
	var meds []Medication
	err := s.DB.WithContext(ctx).
		Preload("Reminders", func(db *gorm.DB) *gorm.DB { return db.Order("reminders.id") }).
		Where("user_id = ?", userID).
		Order("id").
		Find(&meds).Error
	if err != nil {
		return nil, err
	}

	rows := []ExportRow{}
	for i := range meds {
		med := &meds[i]
		for _, rem := range med.Reminders {
			row := ExportRow{
				ReminderID:   rem.ID,
				MedicationID: med.ID,
				Medicine:     med.Name,
				Dosage:       med.Dosage,
				Frequency:    med.Frequency,
				Color:        DisplayColor(med),
				StartDate:    DateString(med.StartDate),
				DayOfWeek:    med.DayOfWeek,
				CustomDates:  append([]string{}, med.CustomDates...),
				Time:         rem.ReminderTime,
			}
			if rem.SecondTime != nil {
				row.SecondTime = *rem.SecondTime
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *Service) ownedReminder(tx *gorm.DB, userID, reminderID uint64) (*Reminder, error) {
	var rem Reminder
	err := tx.
		Select("reminders.*").
		Joins("join medications on medications.id = reminders.medication_id").
		Where("reminders.id = ? AND medications.user_id = ?", reminderID, userID).
		First(&rem).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rem, nil
}
