package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"paperpaints/models"
)

// Admins is the principal table behind the claims session mode.
type Admins struct {
	db *gorm.DB
}

func NewAdmins(db *gorm.DB) *Admins {
	return &Admins{db: db}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Admins) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&admin).Error
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (s *Admins) Get(ctx context.Context, id string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

// Any reports whether at least one admin exists.
func (s *Admins) Any(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (s *Admins) Create(ctx context.Context, admin *models.Admin) error {
	admin.Email = NormalizeEmail(admin.Email)
	if admin.Role == "" {
		admin.Role = models.RoleAdmin
	}
	return translate(s.db.WithContext(ctx).Create(admin).Error)
}
