package db

import (
	"testing"

	"isitjustme/internal/config"
	"isitjustme/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()
	_, err := Open(&config.Config{DBDriver: "mysql"})
	require.Error(t, err)
}

func TestMigrate_BallotKeyIsUnique(t *testing.T) {
	t.Parallel()

	conn, err := Open(&config.Config{DBDriver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))

	post := models.Post{Title: "t"}
	require.NoError(t, conn.Create(&post).Error)

	ballot := func(kind models.VoterKind, key string) *models.Vote {
		return &models.Vote{
			TargetKind: models.TargetPost,
			TargetID:   post.ID,
			PostID:     &post.ID,
			VoterKind:  kind,
			VoterKey:   key,
			Value:      models.VoteUp,
		}
	}

	require.NoError(t, conn.Create(ballot(models.VoterUser, "7")).Error)
	// same key in the anonymous namespace is a different ballot
	require.NoError(t, conn.Create(ballot(models.VoterAnonymous, "7")).Error)

	err = conn.Create(ballot(models.VoterUser, "7")).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
