package services_test

import (
	"context"
	"errors"
	"testing"

	"showcase/internal/apperrors"
	"showcase/internal/models"
	"showcase/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultBadgeRules(t *testing.T) {
	rules := services.DefaultBadgeRules()
	byName := make(map[string]services.BadgeRule, len(rules))
	for _, r := range rules {
		byName[r.Name] = r
	}
	require.Len(t, byName, 2+len(services.LikeMilestones))

	early := byName[services.BadgeEarlyAdopter]
	assert.Equal(t, services.PhaseSignup, early.Phase)
	assert.True(t, early.Qualifies(services.UserStats{SignupRank: 1}))
	assert.True(t, early.Qualifies(services.UserStats{SignupRank: services.EarlyAdopterLimit}))
	assert.False(t, early.Qualifies(services.UserStats{SignupRank: services.EarlyAdopterLimit + 1}))
	assert.False(t, early.Qualifies(services.UserStats{}))

	first := byName[services.BadgeFirstProject]
	assert.Equal(t, services.PhaseActivity, first.Phase)
	assert.False(t, first.Qualifies(services.UserStats{}))
	assert.True(t, first.Qualifies(services.UserStats{ProjectCount: 3}))

	hundred := byName[services.LikesBadgeName(100)]
	assert.Equal(t, "100 Likes", hundred.Name)
	assert.False(t, hundred.Qualifies(services.UserStats{TotalLikes: 99}))
	assert.True(t, hundred.Qualifies(services.UserStats{TotalLikes: 100}))
	assert.False(t, byName[services.LikesBadgeName(1000)].Qualifies(services.UserStats{TotalLikes: 999}))
}

func TestEnsureCatalog_IsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	require.NoError(t, env.badges.EnsureCatalog(ctx))
	fresh := services.NewBadgeService(env.badgeRepo, env.userRepo, env.projectRepo, services.DefaultBadgeRules(), zap.NewNop())
	require.NoError(t, fresh.EnsureCatalog(ctx))

	badges, err := env.badges.List(ctx)
	require.NoError(t, err)
	assert.Len(t, badges, len(services.DefaultBadgeRules()))
	assert.Contains(t, badgeNames(badges), services.BadgeEarlyAdopter)
}

func TestEvaluateBadges_LikeMilestoneGrantedOnce(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	first := env.createProject(t, owner, "first")
	second := env.createProject(t, owner, "second")

	require.NoError(t, env.projectRepo.UpdateCounts(ctx, first.ID, 60, 0))
	require.NoError(t, env.projectRepo.UpdateCounts(ctx, second.ID, 40, 2))
	total, err := env.aggregates.RecomputeUserTotalLikes(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 100, total)

	granted, err := env.badges.EvaluateBadges(ctx, owner.ID)
	require.NoError(t, err)
	names := badgeNames(granted)
	assert.Contains(t, names, "100 Likes")
	assert.Contains(t, names, services.BadgeFirstProject)
	assert.NotContains(t, names, "200 Likes")

	again, err := env.badges.EvaluateBadges(ctx, owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, again)
	assert.Empty(t, again)

	held, err := env.badgeRepo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, held, 2)
}

func TestEvaluateBadges_GrantsAreNeverRevoked(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	project := env.createProject(t, owner, "solo")

	require.NoError(t, env.projectRepo.UpdateCounts(ctx, project.ID, 150, 0))
	_, err := env.aggregates.RecomputeUserTotalLikes(ctx, owner.ID)
	require.NoError(t, err)
	_, err = env.badges.EvaluateBadges(ctx, owner.ID)
	require.NoError(t, err)

	require.NoError(t, env.projects.Delete(ctx, project.ID, owner.ID))
	refreshed, err := env.userRepo.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, refreshed.TotalLikes)

	granted, err := env.badges.EvaluateBadges(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, granted)

	held, err := env.badgeRepo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{services.BadgeFirstProject, "100 Likes"}, badgeNames(held))
}

func TestEvaluateSignup(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	early := env.createUser(t, "early")
	late := env.createUser(t, "late")

	granted, err := env.badges.EvaluateSignup(ctx, early.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{services.BadgeEarlyAdopter}, badgeNames(granted))

	granted, err = env.badges.EvaluateSignup(ctx, early.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, granted)

	granted, err = env.badges.EvaluateSignup(ctx, late.ID, services.EarlyAdopterLimit+1)
	require.NoError(t, err)
	assert.Empty(t, granted)

	// activity evaluation never hands out signup badges
	granted, err = env.badges.EvaluateBadges(ctx, late.ID)
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestEvaluateBadges_RuleTableIsPluggable(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.createUser(t, "prolific")
	for _, title := range []string{"a", "b", "c"} {
		env.createProject(t, user, title)
	}

	rules := []services.BadgeRule{{
		Name:        "Prolific",
		Description: "Three projects",
		Phase:       services.PhaseActivity,
		Qualifies:   func(s services.UserStats) bool { return s.ProjectCount >= 3 },
	}}
	custom := services.NewBadgeService(env.badgeRepo, env.userRepo, env.projectRepo, rules, zap.NewNop())

	granted, err := custom.EvaluateBadges(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "Prolific", granted[0].Name)
}

func TestBadgeService_Check(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := &models.User{Username: "mail", GithubID: "gh-mail", Email: "me@example.com"}
	require.NoError(t, env.userRepo.Create(ctx, user))
	env.createProject(t, user, "one")

	_, err := env.badges.Check(ctx, user.ID, "someone@example.com")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	granted, err := env.badges.Check(ctx, user.ID, "ME@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{services.BadgeFirstProject}, badgeNames(granted))

	granted, err = env.badges.Check(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Empty(t, granted)
}
