package db

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"foodgram/internal/model"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "")
	assert.Error(t, err)
}

func TestMigrateAndReset(t *testing.T) {
	gormDB, err := Open("sqlite", "file::memory:")
	require.NoError(t, err)
	defer Close(gormDB)

	require.NoError(t, Migrate(gormDB))
	for _, table := range []string{"users", "tags", "ingredients", "recipes", "recipe_tags",
		"ingredient_amounts", "favorites", "shopping_carts", "subscribes"} {
		assert.True(t, gormDB.Migrator().HasTable(table), table)
	}

	Reset(gormDB)
	assert.False(t, gormDB.Migrator().HasTable("recipes"))
	assert.False(t, gormDB.Migrator().HasTable("recipe_tags"))
}

func TestSubscribeCheckConstraint(t *testing.T) {
	gormDB, err := Open("sqlite", "file::memory:")
	require.NoError(t, err)
	defer Close(gormDB)
	require.NoError(t, Migrate(gormDB))

	user := model.User{Email: "a@example.com", Username: "alice", PasswordHash: "x", Role: model.RoleUser}
	require.NoError(t, gormDB.Create(&user).Error)

	err = gormDB.Create(&model.Subscribe{UserID: user.ID, AuthorID: user.ID}).Error
	assert.Error(t, err)
}

func TestCascadeOnRecipeDelete(t *testing.T) {
	gormDB, err := Open("sqlite", "file::memory:")
	require.NoError(t, err)
	defer Close(gormDB)
	require.NoError(t, Migrate(gormDB))

	user := model.User{Email: "a@example.com", Username: "alice", PasswordHash: "x", Role: model.RoleUser}
	require.NoError(t, gormDB.Create(&user).Error)
	flour := model.Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, gormDB.Create(&flour).Error)
	recipe := model.Recipe{AuthorID: user.ID, Name: "bread", Image: "x.png", Text: "bake", CookingTime: 60}
	require.NoError(t, gormDB.Omit("Author", "Tags", "IngredientAmounts").Create(&recipe).Error)
	require.NoError(t, gormDB.Omit("Ingredient").Create(&model.IngredientAmount{RecipeID: recipe.ID, IngredientID: flour.ID, Amount: 200}).Error)
	require.NoError(t, gormDB.Omit("User", "Recipe").Create(&model.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error)

	require.NoError(t, gormDB.Delete(&model.Recipe{}, recipe.ID).Error)

	var amounts, favorites int64
	gormDB.Model(&model.IngredientAmount{}).Count(&amounts)
	gormDB.Model(&model.Favorite{}).Count(&favorites)
	assert.Zero(t, amounts)
	assert.Zero(t, favorites)
}

func TestLogger_SkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: newLogger(log.New(&buf, "", 0)),
	})
	require.NoError(t, err)
	defer Close(gormDB)
	require.NoError(t, gormDB.AutoMigrate(&model.Tag{}))

	var tag model.Tag
	assert.ErrorIs(t, gormDB.First(&tag, 42).Error, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	assert.Error(t, gormDB.Exec("SELECT * FROM no_such_table").Error)
	assert.Contains(t, buf.String(), "no_such_table")
}
