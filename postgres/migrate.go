package postgres

import (
	"fmt"
	"time"

	"github.com/xy-planning-network/outpost"
	"gorm.io/gorm"
)

// Migration is used to hold the database key and function for creating the migration.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

// migrationRecord is a row of the migrations table.
type migrationRecord struct {
	ID    uint   `gorm:"primaryKey"`
	Key   string `gorm:"uniqueIndex"`
	RanAt int64
}

func (migrationRecord) TableName() string { return "migrations" }

// MigrateUp runs every migration whose key is not yet recorded, in order,
// each in its own transaction with its record.
func MigrateUp(db *gorm.DB, migrations []Migration) error {
	if err := db.AutoMigrate(&migrationRecord{}); err != nil {
		return fmt.Errorf("%w: failed creating migrations table: %s", outpost.ErrUnexpected, err)
	}

	var ran []string
	if err := db.Model(&migrationRecord{}).Pluck("key", &ran).Error; err != nil {
		return fmt.Errorf("%w: failed fetching ran migrations: %s", outpost.ErrUnexpected, err)
	}

	done := make(map[string]bool, len(ran))
	for _, key := range ran {
		done[key] = true
	}

	for _, m := range migrations {
		if done[m.Key] {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Executor(tx); err != nil {
				return err
			}

			return tx.Create(&migrationRecord{Key: m.Key, RanAt: time.Now().Unix()}).Error
		})
		if err != nil {
			return fmt.Errorf("%w: migration %s failed: %s", outpost.ErrUnexpected, m.Key, err)
		}
		done[m.Key] = true
	}

	return nil
}
