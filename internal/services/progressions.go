package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Conceptual-Machines/note-gen/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var ErrProgressionNotFound = errors.New("progression not found")

// ProgressionRepository stores generated progressions
type ProgressionRepository interface {
	Create(ctx context.Context, p *models.Progression) error
	Get(ctx context.Context, id string) (*models.Progression, error)
	List(ctx context.Context, limit int) ([]models.Progression, error)
	Delete(ctx context.Context, id string) error
}

// ProgressionStore is the gorm-backed ProgressionRepository
type ProgressionStore struct {
	db *gorm.DB
}

var _ ProgressionRepository = (*ProgressionStore)(nil)

func NewProgressionStore(db *gorm.DB) *ProgressionStore {
	return &ProgressionStore{db: db}
}

func (s *ProgressionStore) Create(ctx context.Context, p *models.Progression) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to save progression: %w", err)
	}
	return nil
}

func (s *ProgressionStore) Get(ctx context.Context, id string) (*models.Progression, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q is not a valid id", ErrProgressionNotFound, id)
	}

	var p models.Progression
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProgressionNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

// List returns the newest progressions first
func (s *ProgressionStore) List(ctx context.Context, limit int) ([]models.Progression, error) {
	var out []models.Progression
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(ClampLimit(limit)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProgressionStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q is not a valid id", ErrProgressionNotFound, id)
	}

	result := s.db.WithContext(ctx).Delete(&models.Progression{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrProgressionNotFound, id)
	}
	return nil
}

// ClampLimit maps a requested page size into [1, MaxListLimit]
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
