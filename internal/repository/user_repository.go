package repository

import (
	"quit_smoking_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// AddPoints 给用户累加成就积分
func (r *UserRepository) AddPoints(userID uint, points int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", points)).Error
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login", time.Now()).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_seen", time.Now()).Error
}

type SmokingProfileRepository struct {
	DB *gorm.DB
}

func NewSmokingProfileRepository(db *gorm.DB) *SmokingProfileRepository {
	return &SmokingProfileRepository{DB: db}
}

func (r *SmokingProfileRepository) FindByUserID(userID uint) (*model.SmokingProfile, error) {
	var profile model.SmokingProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert 按用户保存吸烟档案，已存在则更新
func (r *SmokingProfileRepository) Upsert(profile *model.SmokingProfile) error {
	var existing model.SmokingProfile
	err := r.DB.Where("user_id = ?", profile.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(profile).Error
	}
	if err != nil {
		return err
	}

	existing.CigarettesPerDay = profile.CigarettesPerDay
	existing.YearsSmoking = profile.YearsSmoking
	existing.PricePerCigarette = profile.PricePerCigarette
	if err := r.DB.Save(&existing).Error; err != nil {
		return err
	}
	*profile = existing
	return nil
}
