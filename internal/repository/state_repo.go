package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStateRepo stores the snapshot in PostgreSQL.
type GormStateRepo struct {
	db   *gorm.DB
	slot string
}

func NewGormStateRepo(db *gorm.DB) *GormStateRepo {
	return &GormStateRepo{db: db, slot: StateSlotKey}
}

func (r *GormStateRepo) Load(ctx context.Context) (*domain.SavedState, error) {
	var model BatchStateModel
	err := r.db.WithContext(ctx).First(&model, "slot = ?", r.slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load batch state: %w", err)
	}
	return DecodeSavedState([]byte(model.Payload))
}

func (r *GormStateRepo) Save(ctx context.Context, state domain.SavedState) error {
	payload, err := EncodeSavedState(state)
	if err != nil {
		return err
	}

	model := BatchStateModel{
		Slot:    r.slot,
		Payload: string(payload),
		SavedAt: state.Timestamp,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "saved_at", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to save batch state: %w", err)
	}
	return nil
}

func (r *GormStateRepo) Clear(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Where("slot = ?", r.slot).
		Delete(&BatchStateModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear batch state: %w", err)
	}
	return nil
}
