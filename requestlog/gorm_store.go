package requestlog

import (
	"errors"
	"fmt"

	"requestlog-backend/models"

	"gorm.io/gorm"
)

// GormStore persists records in Postgres. Duplicate detection relies on
// the connection being opened with gorm.Config{TranslateError: true}
// (database.Connect does), which maps unique violations to
// gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) InsertIfAbsent(rec *models.RequestRecord) error {
	if err := s.db.Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert request record: %w", err)
	}
	return nil
}

func (s *GormStore) GetByKey(key, userID string) (*models.RequestRecord, error) {
	var rec models.RequestRecord
	err := s.db.Where("key = ? AND user_id = ?", key, userID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("load request record: %w", err)
	}
	return &rec, nil
}

func (s *GormStore) Save(rec *models.RequestRecord) error {
	if err := s.db.Save(rec).Error; err != nil {
		return fmt.Errorf("save request record: %w", err)
	}
	return nil
}
