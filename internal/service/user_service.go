package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/repository"
	"quit_smoking_backend/internal/util"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo       *repository.UserRepository
	ProfileRepo    *repository.SmokingProfileRepository
	StorageService *StorageService
}

func NewUserService(
	userRepo *repository.UserRepository,
	profileRepo *repository.SmokingProfileRepository,
	storageService *StorageService,
) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		ProfileRepo:    profileRepo,
		StorageService: storageService,
	}
}

func (s *UserService) GetUser(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

type SmokingProfileRequest struct {
	CigarettesPerDay  int      `json:"cigarettesPerDay" binding:"min=0"`
	YearsSmoking      int      `json:"yearsSmoking" binding:"min=0"`
	PricePerCigarette *float64 `json:"pricePerCigarette"`
}

// UpdateSmokingProfile 保存吸烟档案；烟价可以不填，
// 此时节省金额统计会带"数据不完整"标记
func (s *UserService) UpdateSmokingProfile(userID uint, req SmokingProfileRequest) (*model.SmokingProfile, error) {
	if req.PricePerCigarette != nil && *req.PricePerCigarette < 0 {
		return nil, util.ErrInvalidParameters
	}

	profile := &model.SmokingProfile{
		UserID:            userID,
		CigarettesPerDay:  req.CigarettesPerDay,
		YearsSmoking:      req.YearsSmoking,
		PricePerCigarette: req.PricePerCigarette,
	}
	if err := s.ProfileRepo.Upsert(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) GetSmokingProfile(userID uint) (*model.SmokingProfile, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProfileNotFound
	}
	return profile, err
}

// UploadAvatar 上传头像到存储服务并更新用户记录
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return "", err
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, util.MimeImage) {
		return "", util.ErrInvalidParameters
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	filename := fmt.Sprintf("avatars/%d_%s%s", userID, uuid.New().String(), filepath.Ext(file.Filename))
	url, err := s.StorageService.Upload(ctx, filename, src, file.Size, contentType)
	if err != nil {
		return "", err
	}

	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}
