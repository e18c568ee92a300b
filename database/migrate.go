package database

import (
	"fmt"

	"requestlog-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns)
// - Money column type for payments (NUMERIC(12,2))
// - Composite unique index backing idempotency claims
// - Basic CHECK constraints
//
// The unique index on (key, user_id) is the sole mutual-exclusion point
// for idempotency: NULLs are distinct in Postgres, so keyless and
// anonymous records never collide.
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Payment{},
			&models.RequestRecord{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		alters := []string{
			`ALTER TABLE payments ALTER COLUMN amount TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_requests_key_user ON request_records (key, user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_request_records_user_created ON request_records (user_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_payments_user ON payments (user_id)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		checks := []string{
			// Non-negative payment amount
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'payments'::regclass
					  AND conname  = 'chk_payments_amount_nonneg'
				) THEN
					ALTER TABLE payments
					ADD CONSTRAINT chk_payments_amount_nonneg
					CHECK (amount >= 0);
				END IF;
			END $$;`,
			// Key length guard mirrors the middleware's cap
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'request_records'::regclass
					  AND conname  = 'chk_request_records_key_len'
				) THEN
					ALTER TABLE request_records
					ADD CONSTRAINT chk_request_records_key_len
					CHECK (key IS NULL OR char_length(key) <= 128);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
