package models_test

import (
	"testing"

	"presence-sync/feature/emulator/models"

	"github.com/stretchr/testify/assert"
)

func TestEmulatorModels(t *testing.T) {
	t.Run("Arcturus", func(t *testing.T) {
		assert.Equal(t, "users", models.ArcturusUser{}.TableName())
	})

	t.Run("Comet", func(t *testing.T) {
		assert.Equal(t, "players", models.CometPlayer{}.TableName())
	})

	t.Run("Plus", func(t *testing.T) {
		assert.Equal(t, "users", models.PlusUser{}.TableName())
	})

	t.Run("Link", func(t *testing.T) {
		assert.Equal(t, "presence_links", models.PresenceLink{}.TableName())
	})
}

func TestUserModel(t *testing.T) {
	assert.IsType(t, models.ArcturusUser{}, models.UserModel("arcturus"))
	assert.IsType(t, models.PlusUser{}, models.UserModel("plus"))
	assert.IsType(t, models.CometPlayer{}, models.UserModel("comet"))
	assert.Nil(t, models.UserModel("nitro"))

	assert.Equal(t, "players", models.UserTable("comet"))
	assert.Equal(t, "", models.UserTable("nitro"))
}
