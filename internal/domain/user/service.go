// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db        *gorm.DB
	config    *config.Config
	passwords *auth.PasswordManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		passwords: auth.NewPasswordManager(cfg),
	}
}

// RegisterRequest represents customer registration input
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UpdateProfileRequest represents profile updates; nil fields are left unchanged
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// Register creates a new customer account
func (s *Service) Register(req *RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("an account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hashed, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := User{
		Email:     email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
	}

	if err := s.db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &account, nil
}

// Authenticate verifies credentials and records the login time
func (s *Service) Authenticate(email, password string) (*User, error) {
	var account User
	err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&account).Error
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := s.passwords.VerifyPassword(password, account.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	now := time.Now().UTC()
	account.LastLoginAt = &now
	s.db.Model(&account).Update("last_login_at", now)

	return &account, nil
}

// GetByID returns a user by id
func (s *Service) GetByID(id string) (*User, error) {
	var account User
	if err := s.db.Where("id = ?", id).First(&account).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}
	return &account, nil
}

// UpdateProfile applies a partial profile update
func (s *Service) UpdateProfile(id string, req *UpdateProfileRequest) (*User, error) {
	account, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}

	if err := s.db.Save(account).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return account, nil
}

// ListCustomers returns all non-admin accounts for the back-office
func (s *Service) ListCustomers() ([]User, error) {
	var customers []User
	err := s.db.Where("is_admin = ?", false).Order("created_at DESC").Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
