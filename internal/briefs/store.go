package briefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/exposure-hq/briefdesk/internal/models"
	"gorm.io/gorm"
)

// Store is the persistence surface the workflow needs. Implementations own
// atomicity of individual writes; the workflow itself keeps no state between
// calls and relies on last-write-wins for racing writers.
type Store interface {
	GetBrief(ctx context.Context, id string) (*models.Brief, error)
	ListBriefs(ctx context.Context) ([]models.Brief, error)
	ListBriefsByCreator(ctx context.Context, email string) ([]models.Brief, error)
	CreateBrief(ctx context.Context, brief *models.Brief) error
	UpdateBrief(ctx context.Context, id string, patch map[string]interface{}) (*models.Brief, error)
	DeleteBrief(ctx context.Context, id string) error

	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}

// GormStore implements Store on a GORM Postgres connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetBrief(ctx context.Context, id string) (*models.Brief, error) {
	var brief models.Brief
	if err := s.db.WithContext(ctx).First(&brief, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch brief: %w", err)
	}
	return &brief, nil
}

func (s *GormStore) ListBriefs(ctx context.Context) ([]models.Brief, error) {
	var briefs []models.Brief
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&briefs).Error; err != nil {
		return nil, fmt.Errorf("failed to list briefs: %w", err)
	}
	return briefs, nil
}

func (s *GormStore) ListBriefsByCreator(ctx context.Context, email string) ([]models.Brief, error) {
	var briefs []models.Brief
	err := s.db.WithContext(ctx).
		Where("LOWER(creator_email) = LOWER(?)", email).
		Order("due_date ASC").
		Find(&briefs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list briefs for creator: %w", err)
	}
	return briefs, nil
}

func (s *GormStore) CreateBrief(ctx context.Context, brief *models.Brief) error {
	if err := s.db.WithContext(ctx).Create(brief).Error; err != nil {
		return fmt.Errorf("failed to create brief: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateBrief(ctx context.Context, id string, patch map[string]interface{}) (*models.Brief, error) {
	result := s.db.WithContext(ctx).Model(&models.Brief{}).Where("id = ?", id).Updates(patch)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update brief: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetBrief(ctx, id)
}

func (s *GormStore) DeleteBrief(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Brief{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete brief: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

func (s *GormStore) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	err := s.db.WithContext(ctx).Save(profile).Error
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
