package services

import (
	"fmt"
	"leanfeed/internal/db"
	"leanfeed/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenMemory(t.Name())
	require.NoError(t, err, "open memory db")
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func newTestFeed(t *testing.T, gdb *gorm.DB) *Feed {
	return NewFeed(gdb, Paging{DefaultLimit: 10, MaxLimit: 50})
}

func seedUser(t *testing.T, gdb *gorm.DB, username string, lean models.Leaning) {
	t.Helper()
	u := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "not-a-real-hash",
		PolLean:  lean,
	}
	require.NoError(t, gdb.Create(&u).Error, "seed user %s", username)
}

func seedPost(t *testing.T, gdb *gorm.DB, author, title string, at time.Time) uint {
	t.Helper()
	p := models.Post{AuthorUsername: author, Title: title, Body: title + " body", CreatedAt: at}
	require.NoError(t, gdb.Create(&p).Error, "seed post %s", title)
	return p.ID
}

func seedComment(t *testing.T, gdb *gorm.DB, author string, parent models.CommentParent, threadPostID uint, at time.Time) uint {
	t.Helper()
	c := models.NewComment(author, "comment by "+author, parent, threadPostID)
	c.CreatedAt = at
	require.NoError(t, gdb.Create(&c).Error, "seed comment")
	return c.ID
}

func seedLike(t *testing.T, gdb *gorm.DB, username string, ref models.EntityRef, lean models.Leaning) {
	t.Helper()
	l := models.Like{Username: username, EntityType: ref.Type, EntityID: ref.ID, PolLean: lean}
	require.NoError(t, gdb.Create(&l).Error, "seed like %s on %s", username, ref)
}

// seedLeaningUsers 为每个倾向建一个用户，用户名即倾向代码的小写
func seedLeaningUsers(t *testing.T, gdb *gorm.DB) map[models.Leaning]string {
	t.Helper()
	names := make(map[models.Leaning]string, len(models.AllLeanings))
	for _, l := range models.AllLeanings {
		name := "user_" + string(l)
		seedUser(t, gdb, name, l)
		names[l] = name
	}
	return names
}
