package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeaning(t *testing.T) {
	for _, code := range []string{"FL", "l", " sl ", "M", "sr", "R", "fr"} {
		l, err := ParseLeaning(code)
		require.NoError(t, err, code)
		assert.True(t, l.Valid())
	}
	for _, code := range []string{"", "X", "LEFT", "F L"} {
		_, err := ParseLeaning(code)
		assert.Error(t, err, code)
	}
}

func TestLeaningBuckets(t *testing.T) {
	var left, right, moderate int
	for _, l := range AllLeanings {
		n := 0
		if l.IsLeft() {
			left++
			n++
		}
		if l.IsRight() {
			right++
			n++
		}
		if l.IsModerate() {
			moderate++
			n++
		}
		assert.Equal(t, 1, n, "%s must fall in exactly one bucket", l)
	}
	assert.Equal(t, 3, left)
	assert.Equal(t, 3, right)
	assert.Equal(t, 1, moderate)
}

func TestParseEntityType(t *testing.T) {
	typ, err := ParseEntityType("post")
	require.NoError(t, err)
	assert.Equal(t, EntityPost, typ)

	typ, err = ParseEntityType("COMMENT")
	require.NoError(t, err)
	assert.Equal(t, EntityComment, typ)

	_, err = ParseEntityType("story")
	assert.Error(t, err)
	assert.Equal(t, "POST:7", PostRef(7).String())
}

func TestCommentParent(t *testing.T) {
	assert.False(t, CommentParent{}.Valid())
	assert.False(t, ReplyToPost(0).Valid())
	assert.True(t, ReplyToComment(3).Valid())

	top := NewComment("alice", "hi", ReplyToPost(5), 5)
	require.NotNil(t, top.PostID)
	assert.Nil(t, top.ParentCommentID)
	assert.Equal(t, uint(5), *top.PostID)

	reply := NewComment("bob", "re", ReplyToComment(9), 5)
	assert.Nil(t, reply.PostID)
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, uint(9), *reply.ParentCommentID)
	assert.Equal(t, uint(5), reply.ThreadPostID)
}
