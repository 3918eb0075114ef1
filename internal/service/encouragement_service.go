package service

import (
	"errors"
	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/repository"

	"gorm.io/gorm"
)

type EncouragementService struct {
	EncouragementRepo *repository.EncouragementRepository
}

func NewEncouragementService(encouragementRepo *repository.EncouragementRepository) *EncouragementService {
	return &EncouragementService{EncouragementRepo: encouragementRepo}
}

// GetCurrent 当前展示的鼓励短句，没有配置时返回空串
func (s *EncouragementService) GetCurrent() (string, error) {
	encouragement, err := s.EncouragementRepo.FindCurrent()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return encouragement.Content, nil
}

func (s *EncouragementService) GetAll() ([]model.Encouragement, error) {
	return s.EncouragementRepo.FindAll()
}

func (s *EncouragementService) Create(content string) error {
	return s.EncouragementRepo.Create(&model.Encouragement{
		Content:   content,
		IsEnabled: true,
	})
}

func (s *EncouragementService) Update(id uint, content string, isEnabled bool) error {
	var encouragement model.Encouragement
	if err := s.EncouragementRepo.DB.First(&encouragement, id).Error; err != nil {
		return err
	}

	encouragement.Content = content
	encouragement.IsEnabled = isEnabled
	return s.EncouragementRepo.Update(&encouragement)
}

func (s *EncouragementService) Delete(id uint) error {
	return s.EncouragementRepo.Delete(id)
}

func (s *EncouragementService) SwitchTo(id uint) error {
	return s.EncouragementRepo.SwitchTo(id)
}
