package services

import (
	"context"
	"fmt"
	"leanfeed/internal/models"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	gdb := newTestDB(t)
	seedUser(t, gdb, "alice", models.LeaningModerate)
	feed := newTestFeed(t, gdb)
	ctx := context.Background()

	id, err := feed.CreatePost(ctx, "alice", "  Title ", "Some **body**", " https://example.com ")
	require.NoError(t, err)
	assert.NotZero(t, id)

	var p models.Post
	require.NoError(t, gdb.First(&p, id).Error)
	assert.Equal(t, "Title", p.Title)
	assert.Equal(t, "https://example.com", p.Sources)
	assert.Equal(t, "alice", p.AuthorUsername)
	assert.False(t, p.CreatedAt.IsZero())

	tests := []struct {
		name, author, title, body string
		want                      error
	}{
		{"empty title", "alice", "", "body", ErrMissingFields},
		{"blank body", "alice", "title", "   ", ErrMissingFields},
		{"unknown author", "ghost", "title", "body", ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := feed.CreatePost(ctx, tt.author, tt.title, tt.body, "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestListPostsUnknownSortIsRecent(t *testing.T) {
	f := newRankingFixture(t)
	feed := newTestFeed(t, f.db)

	recent, err := feed.ListPosts(context.Background(), "", 1, 10, SortRecent)
	require.NoError(t, err)
	unknown, err := feed.ListPosts(context.Background(), "", 1, 10, "xyz")
	require.NoError(t, err)

	assert.Equal(t, postIDs(recent.Posts), postIDs(unknown.Posts))
	assert.Equal(t, SortRecent, unknown.SortBy)
	assert.Equal(t, []uint{f.p4, f.p3, f.p2, f.p1}, postIDs(recent.Posts))
}

func TestListPostsHydration(t *testing.T) {
	f := newRankingFixture(t)
	feed := newTestFeed(t, f.db)
	viewer := "user_" + string(models.LeaningFarLeft)
	seedComment(t, f.db, viewer, models.ReplyToPost(f.p1), f.p1, baseTime)
	c := seedComment(t, f.db, viewer, models.ReplyToPost(f.p1), f.p1, baseTime)
	seedComment(t, f.db, viewer, models.ReplyToComment(c), f.p1, baseTime)

	page, err := feed.ListPosts(context.Background(), viewer, 1, 10, SortControversial)
	require.NoError(t, err)
	require.Len(t, page.Posts, 4)

	byID := make(map[uint]PostView)
	for _, p := range page.Posts {
		byID[p.ID] = p
	}
	assert.True(t, byID[f.p1].LikedByViewer)
	assert.True(t, byID[f.p2].LikedByViewer)
	assert.False(t, byID[f.p3].LikedByViewer)
	assert.Equal(t, int64(3), byID[f.p1].CommentCount)
	assert.Equal(t, int64(0), byID[f.p2].CommentCount)

	p2 := byID[f.p2]
	assert.Equal(t, int64(6), p2.TotalLikes)
	assert.Equal(t, int64(3), p2.LeftLikes)
	assert.Equal(t, int64(3), p2.RightLikes)
	assert.Equal(t, int64(0), p2.PolarizationScore)
	assert.Equal(t, int64(0), p2.Distribution[models.LeaningModerate])

	assert.Zero(t, byID[f.p4].TotalLikes)
	assert.Len(t, byID[f.p4].Distribution, len(models.AllLeanings))
	assert.Contains(t, string(p2.BodyHTML), "p2 body")
}

// 逐页拼接结果等于一次取全部
func TestListPostsPagesConcatenate(t *testing.T) {
	gdb := newTestDB(t)
	users := seedLeaningUsers(t, gdb)
	for i := 0; i < 7; i++ {
		id := seedPost(t, gdb, users[models.LeaningModerate], fmt.Sprintf("post %d", i), baseTime.Add(time.Duration(i)*time.Minute))
		if i%2 == 0 {
			seedLike(t, gdb, users[models.LeaningRight], models.PostRef(id), models.LeaningRight)
		}
	}
	feed := newTestFeed(t, gdb)
	ctx := context.Background()

	all, err := feed.ListPosts(ctx, "", 1, 50, SortRight)
	require.NoError(t, err)
	require.Len(t, all.Posts, 7)

	var stitched []uint
	for page := 1; page <= 4; page++ {
		p, err := feed.ListPosts(ctx, "", page, 2, SortRight)
		require.NoError(t, err)
		assert.Equal(t, int64(7), p.TotalPosts)
		assert.Equal(t, 4, p.TotalPages)
		stitched = append(stitched, postIDs(p.Posts)...)
	}
	assert.Equal(t, postIDs(all.Posts), stitched)

	beyond, err := feed.ListPosts(ctx, "", 9, 2, SortRight)
	require.NoError(t, err)
	assert.Empty(t, beyond.Posts)
	assert.Equal(t, int64(7), beyond.TotalPosts)
}

func TestListPostsHugePage(t *testing.T) {
	gdb := newTestDB(t)
	seedUser(t, gdb, "alice", models.LeaningModerate)
	for i := 0; i < 3; i++ {
		seedPost(t, gdb, "alice", fmt.Sprintf("post %d", i), baseTime.Add(time.Duration(i)*time.Minute))
	}

	page, err := newTestFeed(t, gdb).ListPosts(context.Background(), "", math.MaxInt64/10+2, 10, SortRecent)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, int64(3), page.TotalPosts)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListPostsNormalizesPaging(t *testing.T) {
	gdb := newTestDB(t)
	feed := newTestFeed(t, gdb)

	page, err := feed.ListPosts(context.Background(), "", 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Posts)

	page, err = feed.ListPosts(context.Background(), "", 1, 500, "")
	require.NoError(t, err)
	assert.Equal(t, 50, page.Limit)
}

func TestGetPost(t *testing.T) {
	gdb := newTestDB(t)
	seedUser(t, gdb, "alice", models.LeaningLeft)
	seedUser(t, gdb, "bob", models.LeaningRight)
	postID := seedPost(t, gdb, "alice", "# Hello", baseTime)
	c1 := seedComment(t, gdb, "bob", models.ReplyToPost(postID), postID, baseTime.Add(2*time.Minute))
	r1 := seedComment(t, gdb, "alice", models.ReplyToComment(c1), postID, baseTime.Add(3*time.Minute))
	c0 := seedComment(t, gdb, "alice", models.ReplyToPost(postID), postID, baseTime.Add(1*time.Minute))
	seedLike(t, gdb, "bob", models.PostRef(postID), models.LeaningRight)
	feed := newTestFeed(t, gdb)

	detail, err := feed.GetPost(context.Background(), "bob", postID)
	require.NoError(t, err)

	assert.Equal(t, postID, detail.Post.ID)
	assert.True(t, detail.Post.LikedByViewer)
	assert.Equal(t, int64(1), detail.Post.RightLikes)
	assert.Equal(t, int64(3), detail.Post.CommentCount)
	assert.True(t, strings.Contains(string(detail.Post.BodyHTML), "<h1"))

	require.Len(t, detail.Comments, 3)
	assert.Equal(t, c0, detail.Comments[0].ID)
	assert.Equal(t, c1, detail.Comments[1].ID)
	assert.Equal(t, r1, detail.Comments[2].ID)
	assert.Equal(t, int64(1), detail.Comments[1].ReplyCount)

	_, err = feed.GetPost(context.Background(), "", 404)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func postIDs(posts []PostView) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
