package medication

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DueItem is the display-ready projection of one due occurrence.
type DueItem struct {
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
	RawTime      string   `json:"rawTime"`
	Taken        bool     `json:"taken"`
	IsSecond     bool     `json:"isSecond"`
}

// Projector recomputes a day's checklist from the frequency rules on every
// call; nothing is cached.
type Projector struct {
	DB   *gorm.DB
	Logs *LogStore
}

// Project returns the user's due items for the given date in storage
// (creation) order, one item per dose slot, each annotated with its own
// taken state. A date filter failure on one medication never fails the whole
// projection.
func (p *Projector) Project(ctx context.Context, userID uint64, date time.Time) ([]DueItem, error) {
	var meds []Medication
	err := p.DB.WithContext(ctx).
		Preload("Reminders", func(db *gorm.DB) *gorm.DB { return db.Order("reminders.id") }).
		Where("user_id = ?", userID).
		Order("id").
		Find(&meds).Error
	if err != nil {
		return nil, err
	}

	items := []DueItem{}
	for i := range meds {
		med := &meds[i]
		if !AppliesOn(med, date) {
			continue
		}
		for _, rem := range med.Reminders {
			item, err := p.dueItem(ctx, med, &rem, date, false)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)

			if med.Frequency == FreqTwiceDaily && rem.SecondTime != nil {
				second, err := p.dueItem(ctx, med, &rem, date, true)
				if err != nil {
					return nil, err
				}
				items = append(items, *second)
			}
		}
	}
	return items, nil
}

func (p *Projector) dueItem(ctx context.Context, med *Medication, rem *Reminder, date time.Time, second bool) (*DueItem, error) {
	clock := rem.ReminderTime
	if second && rem.SecondTime != nil {
		clock = *rem.SecondTime
	}

	status, ok, err := p.Logs.GetOutcome(ctx, rem.ID, KeyFor(date, second))
	if err != nil {
		return nil, err
	}

	return &DueItem{
		ReminderID:   rem.ID,
		MedicationID: med.ID,
		Medicine:     med.Name,
		Dosage:       med.Dosage,
		Frequency:    med.Frequency,
		Color:        DisplayColor(med),
		StartDate:    DateString(med.StartDate),
		DayOfWeek:    med.DayOfWeek,
		CustomDates:  append([]string{}, med.CustomDates...),
		Time:         Format12h(clock),
		RawTime:      clock,
		Taken:        ok && status == StatusTaken,
		IsSecond:     second,
	}, nil
}
