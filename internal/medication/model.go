package medication

import (
	"time"

	"github.com/lib/pq"
)

const (
	FreqDaily      = "daily"
	FreqTwiceDaily = "twice-daily"
	FreqWeekly     = "weekly"
	FreqCustom     = "custom"
)

const (
	StatusTaken   = "taken"
	StatusSkipped = "skipped"
)

// Medication holds the dosing schedule. DayOfWeek is set iff frequency is
// weekly (0 = Sunday, matching time.Weekday); CustomDates is set iff
// frequency is custom and holds ISO YYYY-MM-DD strings.
type Medication struct {
	ID          uint64         `gorm:"primaryKey"`
	UserID      uint64         `gorm:"index;not null"`
	Name        string         `gorm:"not null"`
	Dosage      string         `gorm:"not null"`
	Frequency   string         `gorm:"not null;default:'daily'"`
	Color       string         `gorm:"type:text;not null;default:''"`
	StartDate   time.Time      `gorm:"not null"`
	DayOfWeek   *int
	CustomDates pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	CreatedAt   time.Time      `gorm:"not null"`

	Reminders []Reminder `gorm:"foreignKey:MedicationID"`
}

// Reminder is a medication's dosing-time configuration, not a single
// occurrence. Times are 24h "HH:MM" strings; SecondTime is present iff the
// medication is twice-daily.
type Reminder struct {
	ID           uint64    `gorm:"primaryKey"`
	MedicationID uint64    `gorm:"index;not null"`
	ReminderTime string    `gorm:"type:text;not null"`
	SecondTime   *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`
}

// DoseLog records one outcome per occurrence. The composite unique index is
// what lets SetOutcome upsert instead of delete-then-insert.
type DoseLog struct {
	ID         uint64    `gorm:"primaryKey"`
	ReminderID uint64    `gorm:"not null;index:uq_dose_logs_occurrence,unique"`
	Status     string    `gorm:"not null"`
	TakenDate  string    `gorm:"not null;index:uq_dose_logs_occurrence,unique"`
	Slot       int       `gorm:"not null;default:1;index:uq_dose_logs_occurrence,unique"`
	Timestamp  time.Time `gorm:"not null"`
}

// OccurrenceKey identifies a (calendar date, dose slot) instance of a
// reminder.
type OccurrenceKey struct {
	Date string // YYYY-MM-DD
	Slot int    // 1 or 2
}

func KeyFor(t time.Time, second bool) OccurrenceKey {
	k := OccurrenceKey{Date: DateString(t), Slot: 1}
	if second {
		k.Slot = 2
	}
	return k
}

// String renders the legacy wire form: bare date for slot 1, "_2" suffix for
// slot 2.
func (k OccurrenceKey) String() string {
	if k.Slot == 2 {
		return k.Date + "_2"
	}
	return k.Date
}

func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}
