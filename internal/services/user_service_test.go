package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"showcase/internal/apperrors"
	"showcase/internal/models"
	"showcase/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Profiles(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	users := services.NewUserService(env.userRepo)

	owner := env.createUser(t, "Octocat")
	_, _, err := env.projects.Create(ctx, owner.ID, projectInput("https://github.com/octocat/hello"))
	require.NoError(t, err)

	profile, err := users.Profile(ctx, "OCTOCAT")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, profile.ID)
	assert.Len(t, profile.Projects, 1)
	assert.Equal(t, []string{services.BadgeFirstProject}, badgeNames(profile.Badges))

	me, err := users.Me(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "octocat", me.Username)

	_, err = users.Profile(ctx, "nobody")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUserService_UpdateBio(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	users := services.NewUserService(env.userRepo)
	user := env.createUser(t, "writer")

	updated, err := users.UpdateBio(ctx, user.ID, "  I build things.  ")
	require.NoError(t, err)
	assert.Equal(t, "I build things.", updated.Bio)

	_, err = users.UpdateBio(ctx, user.ID, strings.Repeat("a", services.MaxBioLength+1))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

	_, err = users.UpdateBio(ctx, "ghost", "hi")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "I build things.", stored.Bio)
}
