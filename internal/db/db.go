package db

import (
	"fmt"

	"pillpal/internal/auth"
	"pillpal/internal/medication"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables. The (reminder_id, taken_date, slot) unique index on dose_logs
	// comes from the model tags; it backs the outcome upsert.
	if err := gdb.AutoMigrate(
		&auth.User{},
		&medication.Medication{},
		&medication.Reminder{},
		&medication.DoseLog{},
	); err != nil {
		return err
	}

	// Helpful indexes for the read paths
	stmts := []string{
		`create index if not exists idx_medications_user_created on medications(user_id, id);`,
		`create index if not exists idx_reminders_medication on reminders(medication_id, id);`,
		`create index if not exists idx_dose_logs_timestamp on dose_logs(reminder_id, timestamp desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
