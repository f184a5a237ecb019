package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"outfit-studio/internal/database"
)

func TestMigrations(t *testing.T) {
	names, err := database.Migrations()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"001_create_users.sql",
		"002_create_outfits.sql",
		"003_create_generated_images.sql",
	}, names)
}
