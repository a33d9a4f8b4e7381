package medication

import (
	"context"
	"testing"
	"time"

	"pillpal/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOccurrenceKey(t *testing.T) {
	at := date("2024-06-05")
	assert.Equal(t, OccurrenceKey{Date: "2024-06-05", Slot: 1}, KeyFor(at, false))
	assert.Equal(t, OccurrenceKey{Date: "2024-06-05", Slot: 2}, KeyFor(at, true))
	assert.Equal(t, "2024-06-05", KeyFor(at, false).String())
	assert.Equal(t, "2024-06-05_2", KeyFor(at, true).String())
}

func seedReminder(t *testing.T, gdb *gorm.DB, userID uint64, name, clock string) *Reminder {
	t.Helper()
	med := Medication{
		UserID:    userID,
		Name:      name,
		Dosage:    "100mg",
		Frequency: FreqDaily,
		StartDate: date("2024-06-01"),
	}
	require.NoError(t, gdb.Create(&med).Error)
	rem := Reminder{MedicationID: med.ID, ReminderTime: clock}
	require.NoError(t, gdb.Create(&rem).Error)
	return &rem
}

func TestSetOutcomeThenRead(t *testing.T) {
	gdb := testDB(t)
	store := &LogStore{DB: gdb}
	ctx := context.Background()
	rem := seedReminder(t, gdb, 1, "Aspirin", "08:00")
	key := KeyFor(date("2024-06-05"), false)

	require.NoError(t, store.SetOutcome(ctx, rem.ID, key, StatusTaken))

	status, ok, err := store.GetOutcome(ctx, rem.ID, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StatusTaken, status)
}

func TestSetOutcomeTwiceKeepsOneRow(t *testing.T) {
	gdb := testDB(t)
	store := &LogStore{DB: gdb}
	ctx := context.Background()
	rem := seedReminder(t, gdb, 1, "Aspirin", "08:00")
	key := KeyFor(date("2024-06-05"), false)

	require.NoError(t, store.SetOutcome(ctx, rem.ID, key, StatusTaken))
	require.NoError(t, store.SetOutcome(ctx, rem.ID, key, StatusTaken))

	var count int64
	require.NoError(t, gdb.Model(&DoseLog{}).
		Where("reminder_id = ? AND taken_date = ? AND slot = ?", rem.ID, key.Date, key.Slot).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSetOutcomeReplacesStatus(t *testing.T) {
	gdb := testDB(t)
	store := &LogStore{DB: gdb}
	ctx := context.Background()
	rem := seedReminder(t, gdb, 1, "Aspirin", "08:00")
	key := KeyFor(date("2024-06-05"), false)

	require.NoError(t, store.SetOutcome(ctx, rem.ID, key, StatusTaken))
	require.NoError(t, store.SetOutcome(ctx, rem.ID, key, StatusSkipped))

	status, ok, err := store.GetOutcome(ctx, rem.ID, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StatusSkipped, status)

	var count int64
	require.NoError(t, gdb.Model(&DoseLog{}).Where("reminder_id = ?", rem.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSetOutcomeRejectsUnknownStatus(t *testing.T) {
	store := &LogStore{DB: testDB(t)}
	err := store.SetOutcome(context.Background(), 1, KeyFor(date("2024-06-05"), false), "maybe")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClearOutcome(t *testing.T) {
	gdb := testDB(t)
	store := &LogStore{DB: gdb}
	ctx := context.Background()
	rem := seedReminder(t, gdb, 1, "Aspirin", "08:00")
	key := KeyFor(date("2024-06-05"), false)

	require.NoError(t, store.SetOutcome(ctx, rem.ID, key, StatusTaken))
	require.NoError(t, store.ClearOutcome(ctx, rem.ID, key))

	_, ok, err := store.GetOutcome(ctx, rem.ID, key)
	require.NoError(t, err)
	assert.False(t, ok, "cleared outcome reads absent")

	// clearing an unlogged occurrence is fine
	require.NoError(t, store.ClearOutcome(ctx, rem.ID, key))
}

func TestSlotsAreIndependent(t *testing.T) {
	gdb := testDB(t)
	store := &LogStore{DB: gdb}
	ctx := context.Background()
	rem := seedReminder(t, gdb, 1, "Aspirin", "08:00")
	at := date("2024-06-05")

	require.NoError(t, store.SetOutcome(ctx, rem.ID, KeyFor(at, false), StatusTaken))

	_, ok, err := store.GetOutcome(ctx, rem.ID, KeyFor(at, true))
	require.NoError(t, err)
	assert.False(t, ok, "slot 2 untouched by slot 1 write")

	require.NoError(t, store.SetOutcome(ctx, rem.ID, KeyFor(at, true), StatusTaken))
	var count int64
	require.NoError(t, gdb.Model(&DoseLog{}).Where("reminder_id = ?", rem.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestHistoryNewestFirstWithJoinedFields(t *testing.T) {
	gdb := testDB(t)
	store := &LogStore{DB: gdb}
	ctx := context.Background()

	user := auth.User{Name: "Sam", Email: "sam@example.com", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&user).Error)

	med := Medication{
		UserID:    user.ID,
		Name:      "Aspirin",
		Dosage:    "100mg",
		Frequency: FreqTwiceDaily,
		StartDate: date("2024-06-01"),
	}
	require.NoError(t, gdb.Create(&med).Error)
	second := "20:00"
	rem := Reminder{MedicationID: med.ID, ReminderTime: "08:00", SecondTime: &second}
	require.NoError(t, gdb.Create(&rem).Error)

	older := DoseLog{ReminderID: rem.ID, Status: StatusTaken, TakenDate: "2024-06-04", Slot: 1,
		Timestamp: date("2024-06-04").Add(8 * time.Hour)}
	newer := DoseLog{ReminderID: rem.ID, Status: StatusSkipped, TakenDate: "2024-06-05", Slot: 2,
		Timestamp: date("2024-06-05").Add(20 * time.Hour)}
	require.NoError(t, gdb.Create(&older).Error)
	require.NoError(t, gdb.Create(&newer).Error)

	entries, err := store.History(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, StatusSkipped, entries[0].Status)
	assert.Equal(t, "2024-06-05", entries[0].TakenDate)
	assert.Equal(t, 2, entries[0].Slot)
	assert.Equal(t, "20:00", entries[0].ScheduledTime, "slot 2 reports the second time")
	assert.Equal(t, "Aspirin", entries[0].Medicine)
	assert.Equal(t, "100mg", entries[0].Dosage)
	assert.Equal(t, FreqTwiceDaily, entries[0].Frequency)

	assert.Equal(t, StatusTaken, entries[1].Status)
	assert.Equal(t, "08:00", entries[1].ScheduledTime)
}

func TestHistoryScopedToOwner(t *testing.T) {
	gdb := testDB(t)
	store := &LogStore{DB: gdb}
	ctx := context.Background()

	mine := seedReminder(t, gdb, 1, "Aspirin", "08:00")
	theirs := seedReminder(t, gdb, 2, "Ibuprofen", "09:00")
	require.NoError(t, store.SetOutcome(ctx, mine.ID, KeyFor(date("2024-06-05"), false), StatusTaken))
	require.NoError(t, store.SetOutcome(ctx, theirs.ID, KeyFor(date("2024-06-05"), false), StatusTaken))

	entries, err := store.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Aspirin", entries[0].Medicine)
}
