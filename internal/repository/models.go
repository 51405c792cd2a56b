package repository

import "time"

// BatchStateModel is the persistence model for the batch_states table.
// One row per slot; the snapshot is stored as its JSON document.
type BatchStateModel struct {
	Slot      string `gorm:"type:varchar(64);primaryKey"`
	Payload   string `gorm:"type:jsonb;not null"`
	SavedAt   time.Time
	UpdatedAt time.Time
}

func (BatchStateModel) TableName() string {
	return "batch_states"
}
