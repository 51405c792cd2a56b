package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/dnc-checker/internal/repository"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		createBatchStatesTable(),
	})
	return m.Migrate()
}

func createBatchStatesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_batch_states",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.BatchStateModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.BatchStateModel{})
		},
	}
}
