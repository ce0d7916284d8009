package service

import (
	"errors"

	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/internal/app/repository"
	"github.com/essence-za/essence-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownSettingKey   = errors.New("unknown setting key")
	ErrInvalidSettingValue = errors.New("invalid setting value")
)

type SettingService interface {
	GetSettings() (model.Settings, error)
	UpdateSettings(values map[string]string) (model.Settings, error)
}

type settingService struct {
	settingRepo repository.SettingRepository
}

func NewSettingService(settingRepo repository.SettingRepository) SettingService {
	return &settingService{settingRepo: settingRepo}
}

func (s *settingService) GetSettings() (model.Settings, error) {
	rows, err := s.settingRepo.FindAll()
	if err != nil {
		return nil, err
	}

	settings := make(model.Settings, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}
	return settings, nil
}

// UpdateSettings validates and upserts the given key/value pairs. Writes are
// strict even though reads fall back on malformed stored values.
func (s *settingService) UpdateSettings(values map[string]string) (model.Settings, error) {
	for key, value := range values {
		if err := validateSetting(key, value); err != nil {
			return nil, err
		}
	}

	for key, value := range values {
		if err := s.settingRepo.Upsert(key, value); err != nil {
			return nil, err
		}
		logger.Info("Setting updated", map[string]interface{}{
			"key":   key,
			"value": value,
		})
	}

	return s.GetSettings()
}

func validateSetting(key, value string) error {
	switch key {
	case model.SettingDeliveryCost:
		cost, err := decimal.NewFromString(value)
		if err != nil || cost.IsNegative() {
			return ErrInvalidSettingValue
		}
	case model.SettingBulkDiscountEnabled:
		if value != "true" && value != "false" {
			return ErrInvalidSettingValue
		}
	default:
		return ErrUnknownSettingKey
	}
	return nil
}
