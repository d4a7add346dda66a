package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/gin-blog/internal/validation"
)

func TestUserService_SignUpAndLogin(t *testing.T) {
	e := newTestEnv(t)
	e.userSvc.(*userService).cost = bcrypt.MinCost
	ctx := context.Background()

	u, err := e.userSvc.SignUp(ctx, validation.SignUpForm{
		Username:  " leo ",
		FirstName: "Leo",
		LastName:  "Tolstoy",
		Email:     "leo@example.com",
		Password:  "war-and-peace",
	})
	require.NoError(t, err)
	assert.Equal(t, "leo", u.Username)
	assert.NotEqual(t, "war-and-peace", u.PasswordHash)

	got, err := e.userSvc.GetByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Leo Tolstoy", got.FullName())

	sess, err := e.userSvc.Login(ctx, validation.LoginForm{Username: "leo", Password: "war-and-peace"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, u.ID, sess.User.ID)
	assert.Equal(t, "leo@example.com", sess.User.Email)

	_, err = e.userSvc.Login(ctx, validation.LoginForm{Username: "leo", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.userSvc.Login(ctx, validation.LoginForm{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	var verr *ValidationError
	_, err = e.userSvc.Login(ctx, validation.LoginForm{})
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Errors.Has("username"))
	assert.True(t, verr.Errors.Has("password"))
}

func TestUserService_SignUpRejects(t *testing.T) {
	e := newTestEnv(t)
	e.userSvc.(*userService).cost = bcrypt.MinCost
	ctx := context.Background()
	e.user(t, "taken")

	var verr *ValidationError
	_, err := e.userSvc.SignUp(ctx, validation.SignUpForm{Username: "taken", Password: "long-enough"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"A user with that username already exists."}, verr.Errors["username"])

	_, err = e.userSvc.SignUp(ctx, validation.SignUpForm{Username: "bad name!", Password: "short"})
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Errors.Has("username"))
	assert.True(t, verr.Errors.Has("password"))

	_, err = e.userSvc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupService_Create(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	member := e.user(t, "member")
	staff := member
	staff.IsStaff = true

	_, err := e.groupSvc.Create(ctx, Anonymous, validation.GroupForm{Title: "Cats", Slug: "cats"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = e.groupSvc.Create(ctx, member, validation.GroupForm{Title: "Cats", Slug: "cats"})
	assert.ErrorIs(t, err, ErrForbidden)

	g, err := e.groupSvc.Create(ctx, staff, validation.GroupForm{Title: "Cats", Slug: "cats", Description: "meow"})
	require.NoError(t, err)
	assert.Equal(t, "Cats", g.String())

	var verr *ValidationError
	_, err = e.groupSvc.Create(ctx, staff, validation.GroupForm{Title: "Cats again", Slug: "cats"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Group with this Slug already exists."}, verr.Errors["slug"])

	_, err = e.groupSvc.Create(ctx, staff, validation.GroupForm{Title: "Bad", Slug: "no spaces"})
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Errors.Has("slug"))

	list, err := e.groupSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "cats", list[0].Slug)
}
