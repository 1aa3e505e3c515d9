package db

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"foodgram/internal/model"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Tag{},
		&model.Ingredient{},
		&model.Recipe{},
		&model.IngredientAmount{},
		&model.Favorite{},
		&model.ShoppingCart{},
		&model.Subscribe{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table, children first. Missing tables are skipped.
func Reset(db *gorm.DB) {
	tables := []interface{}{"recipe_tags"}
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		tables = append(tables, models[i])
	}
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			slog.Warn("drop table failed (may not exist)", slog.Any("error", err))
		}
	}
}
