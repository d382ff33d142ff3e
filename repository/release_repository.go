package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tuneport/model"
)

// ErrReleaseNotFound is returned for unknown release ids.
var ErrReleaseNotFound = errors.New("release not found")

// ReleaseRepository persists submitted releases and drives moderation.
type ReleaseRepository interface {
	// Create stores a submitted release with its tracks, status pending.
	Create(ctx context.Context, release *model.Release) (int64, error)

	// GetByID loads a release with its tracks.
	GetByID(ctx context.Context, id int64) (*model.Release, error)

	// GetByUserID lists the user's releases, newest first.
	GetByUserID(ctx context.Context, userID int64) ([]*model.Release, error)

	// Update persists edits to an already-submitted release. Edit mode
	// bypasses the draft mechanism entirely.
	Update(ctx context.Context, release *model.Release) error

	// ListByStatus lists releases in the given moderation status, oldest first.
	ListByStatus(ctx context.Context, status string) ([]*model.Release, error)

	// SetStatus moves a release to a new moderation status with a comment.
	SetStatus(ctx context.Context, id int64, status, comment string) error
}

// gormReleaseRepository is the GORM implementation of ReleaseRepository.
type gormReleaseRepository struct {
	db *gorm.DB
}

// NewGormReleaseRepository creates a release repository over the GORM handle.
func NewGormReleaseRepository(db *gorm.DB) ReleaseRepository {
	return &gormReleaseRepository{db: db}
}

func (r *gormReleaseRepository) Create(ctx context.Context, release *model.Release) (int64, error) {
	release.Status = model.ReleaseStatusPending
	if err := r.db.WithContext(ctx).Create(release).Error; err != nil {
		return 0, fmt.Errorf("failed to create release: %w", err)
	}
	return release.ID, nil
}

func (r *gormReleaseRepository) GetByID(ctx context.Context, id int64) (*model.Release, error) {
	var release model.Release
	err := r.db.WithContext(ctx).Preload("Tracks").First(&release, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReleaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load release %d: %w", id, err)
	}
	return &release, nil
}

func (r *gormReleaseRepository) GetByUserID(ctx context.Context, userID int64) ([]*model.Release, error) {
	var releases []*model.Release
	err := r.db.WithContext(ctx).
		Preload("Tracks").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&releases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list releases for user %d: %w", userID, err)
	}
	return releases, nil
}

func (r *gormReleaseRepository) Update(ctx context.Context, release *model.Release) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(release).Error
	if err != nil {
		return fmt.Errorf("failed to update release %d: %w", release.ID, err)
	}
	return nil
}

func (r *gormReleaseRepository) ListByStatus(ctx context.Context, status string) ([]*model.Release, error) {
	var releases []*model.Release
	err := r.db.WithContext(ctx).
		Preload("Tracks").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&releases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list releases with status %s: %w", status, err)
	}
	return releases, nil
}

func (r *gormReleaseRepository) SetStatus(ctx context.Context, id int64, status, comment string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Release{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":             status,
			"moderation_comment": comment,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to set status for release %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrReleaseNotFound
	}
	return nil
}
