package repository

import (
	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	FindAll() ([]model.Setting, error)
	Upsert(key, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) FindAll() ([]model.Setting, error) {
	var settings []model.Setting
	if err := r.db.Find(&settings).Error; err != nil {
		logger.Error("Failed to find settings in database", err)
		return nil, err
	}

	logger.Debug("Settings found in database", map[string]interface{}{
		"count": len(settings),
	})
	return settings, nil
}

func (r *settingRepository) Upsert(key, value string) error {
	logger.Debug("Upserting setting in database", map[string]interface{}{
		"key": key,
	})

	setting := model.Setting{Key: key, Value: value}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		logger.Error("Failed to upsert setting in database", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
