package services

import (
	"context"
	"fmt"
	"leanfeed/internal/models"
	"leanfeed/internal/utils"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// UserService 注册和登录校验。会话签发由 HTTP 层负责。
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register 创建用户。用户名和邮箱都必须唯一。
func (s *UserService) Register(ctx context.Context, username, email, password, leaning string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" || leaning == "" {
		return nil, ErrMissingFields.WithMessage("username, email, password and polLean are required")
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidField.WithMessage("email is malformed")
	}
	if len(password) < minPasswordLength {
		return nil, ErrInvalidField.WithMessage(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	lean, err := models.ParseLeaning(leaning)
	if err != nil {
		return nil, ErrInvalidLeaning.WithMessage(err.Error())
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		PolLean:  lean,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkAvailable(tx, username, email); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			// 并发注册时唯一索引兜底，再查一次确定是哪个字段冲突
			if conflict := s.checkAvailable(s.db.WithContext(ctx), username, email); conflict != nil {
				return nil, conflict
			}
			return nil, ErrUsernameInUse
		}
		if KindOf(err) != KindInternal {
			return nil, err
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	logrus.WithField("user", username).Info("User registered")
	return &user, nil
}

func (s *UserService) checkAvailable(tx *gorm.DB, username, email string) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if n > 0 {
		return ErrUsernameInUse
	}
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return ErrEmailInUse
	}
	return nil
}

// Authenticate 校验用户名和密码
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredential
	}
	return &user, nil
}

// FindByUsername 按用户名取用户
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}
