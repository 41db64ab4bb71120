package activitylog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

func TestBuildViewLiveUser(t *testing.T) {
	uid := uint(3)
	v := BuildView(models.ActivityLog{
		UserID:           &uid,
		User:             &models.User{ID: uid, Username: "budi.santoso"},
		UsernameSnapshot: "budi",
		Activity:         "Login",
	})

	assert.Equal(t, &uid, v.UserID)
	assert.Equal(t, "budi.santoso", v.Username, "live reference resolves current user data")
	assert.False(t, v.UserDeleted)
	assert.False(t, v.System)
}

// After the account is removed the row keeps only the snapshot and is flagged
// accordingly; the row itself survives the deletion.
func TestBuildViewDeletedUser(t *testing.T) {
	v := BuildView(models.ActivityLog{
		UserID:           nil,
		UsernameSnapshot: "Budi",
		Activity:         "Menambahkan aset",
	})

	assert.Nil(t, v.UserID)
	assert.Equal(t, "Budi", v.Username)
	assert.True(t, v.UserDeleted)
	assert.False(t, v.System)
}

func TestBuildViewSystemEntry(t *testing.T) {
	v := BuildView(models.ActivityLog{Activity: "Migrasi basis data"})

	assert.Nil(t, v.UserID)
	assert.Empty(t, v.Username)
	assert.False(t, v.UserDeleted)
	assert.True(t, v.System)
}

func TestBuildViews(t *testing.T) {
	rows := []models.ActivityLog{
		{UsernameSnapshot: "Budi"},
		{},
	}
	views := BuildViews(rows)
	assert.Len(t, views, 2)
	assert.True(t, views[0].UserDeleted)
	assert.True(t, views[1].System)
}
