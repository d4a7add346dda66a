package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-blog/internal/validation"
)

func TestPostService_CreateThenGet(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.user(t, "leo")
	g := e.group(t, "cats")

	cases := []validation.PostForm{
		{Text: "plain post"},
		{Text: "grouped post", GroupID: g.ID},
		{Text: "  padded  ", Image: "posts/cat.png"},
	}
	for _, form := range cases {
		created, err := e.postSvc.Create(ctx, author, form)
		require.NoError(t, err)

		got, err := e.postSvc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Text, got.Text)
		assert.Equal(t, author.ID, got.AuthorID)
		assert.Equal(t, "leo", got.Author.Username)
		if form.GroupID == "" {
			assert.Nil(t, got.GroupID)
		} else {
			require.NotNil(t, got.Group)
			assert.Equal(t, "cats", got.Group.Slug)
		}
	}

	got, err := e.postSvc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)
}

func TestPostService_CreateRejects(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.user(t, "leo")

	_, err := e.postSvc.Create(ctx, Anonymous, validation.PostForm{Text: "hi"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = e.postSvc.Create(ctx, author, validation.PostForm{Text: "   "})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Errors.Has("text"))

	_, err = e.postSvc.Create(ctx, author, validation.PostForm{Text: "x", GroupID: "7b0c2a59-3a62-4d53-9a7e-0d0b6e1f5c11"})
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Errors.Has("group"))

	n, err := e.posts.CountAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostService_Edit(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.user(t, "leo")
	other := e.user(t, "max")
	g := e.group(t, "cats")

	post, err := e.postSvc.Create(ctx, author, validation.PostForm{Text: "first"})
	require.NoError(t, err)
	pubDate := post.PubDate

	t.Run("non-author leaves post unchanged", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			_, err := e.postSvc.Edit(ctx, other, post.ID, validation.PostForm{Text: "hijacked"})
			assert.ErrorIs(t, err, ErrForbidden)
		}
		got, err := e.postSvc.Get(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "first", got.Text)
	})

	t.Run("forbidden before validation", func(t *testing.T) {
		_, err := e.postSvc.Edit(ctx, other, post.ID, validation.PostForm{})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := e.postSvc.Edit(ctx, author, "missing", validation.PostForm{Text: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := e.postSvc.Edit(ctx, Anonymous, post.ID, validation.PostForm{Text: "x"})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("author edits", func(t *testing.T) {
		edited, err := e.postSvc.Edit(ctx, author, post.ID, validation.PostForm{Text: "second", GroupID: g.ID})
		require.NoError(t, err)
		assert.Equal(t, "second", edited.Text)
		require.NotNil(t, edited.GroupID)
		assert.Equal(t, g.ID, *edited.GroupID)
		assert.Equal(t, author.ID, edited.AuthorID)
		assert.WithinDuration(t, pubDate, edited.PubDate, time.Second)
	})
}

func TestPostService_Detail(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.user(t, "leo")
	reader := e.user(t, "max")

	post, err := e.postSvc.Create(ctx, author, validation.PostForm{Text: "one"})
	require.NoError(t, err)
	_, err = e.postSvc.Create(ctx, author, validation.PostForm{Text: "two"})
	require.NoError(t, err)
	_, err = e.commentSvc.Add(ctx, reader, post.ID, validation.CommentForm{Text: "nice"})
	require.NoError(t, err)

	d, err := e.postSvc.Detail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "one", d.Post.Text)
	assert.Equal(t, int64(2), d.PostsCount)
	require.Len(t, d.Comments, 1)
	assert.Equal(t, "max", d.Comments[0].Author.Username)

	_, err = e.postSvc.Detail(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
