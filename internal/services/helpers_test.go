package services_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"showcase/internal/database"
	"showcase/internal/models"
	"showcase/internal/repositories"
	"showcase/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// testEnv wires every service over a private sqlite database.
type testEnv struct {
	db  *gorm.DB
	log *zap.Logger

	userRepo         *repositories.GORMUserRepository
	projectRepo      *repositories.GORMProjectRepository
	supportRepo      *repositories.GORMSupportRepository
	badgeRepo        *repositories.GORMBadgeRepository
	commentRepo      *repositories.GORMCommentRepository
	notificationRepo *repositories.GORMNotificationRepository

	aggregates    *services.AggregateService
	badges        *services.BadgeService
	notifications *services.NotificationService
	reactions     *services.ReactionService
	projects      *services.ProjectService
	comments      *services.CommentService
}

// newTestEnv builds a testEnv over a one-connection in-memory database. A
// nil events publisher delivers events straight to the notification service.
func newTestEnv(t *testing.T, events services.EventPublisher) *testEnv {
	t.Helper()
	return newTestEnvOn(t, events, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), 1)
}

// newPooledTestEnv builds a testEnv over a file database that serves
// maxConns connections at once.
func newPooledTestEnv(t *testing.T, maxConns int) *testEnv {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "showcase.db") + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	return newTestEnvOn(t, nil, dsn, maxConns)
}

func newTestEnvOn(t *testing.T, events services.EventPublisher, dsn string, maxConns int) *testEnv {
	t.Helper()

	log := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))

	db, err := database.Open("sqlite", dsn, log)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(maxConns)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:               db,
		log:              log,
		userRepo:         repositories.NewGORMUserRepository(db),
		projectRepo:      repositories.NewGORMProjectRepository(db),
		supportRepo:      repositories.NewGORMSupportRepository(db),
		badgeRepo:        repositories.NewGORMBadgeRepository(db),
		commentRepo:      repositories.NewGORMCommentRepository(db),
		notificationRepo: repositories.NewGORMNotificationRepository(db),
	}
	env.notifications = services.NewNotificationService(env.notificationRepo, log)
	if events == nil {
		events = services.NewDirectPublisher(env.notifications)
	}
	env.aggregates = services.NewAggregateService(env.supportRepo, env.projectRepo, env.userRepo)
	env.badges = services.NewBadgeService(env.badgeRepo, env.userRepo, env.projectRepo, services.DefaultBadgeRules(), log)
	env.reactions = services.NewReactionService(env.supportRepo, env.projectRepo, env.userRepo, env.aggregates, env.badges, events, log)
	env.projects = services.NewProjectService(env.projectRepo, env.userRepo, env.reactions, env.aggregates, env.badges, log)
	env.comments = services.NewCommentService(env.commentRepo, env.projectRepo, env.userRepo, events, log)
	require.NoError(t, env.badges.EnsureCatalog(context.Background()))
	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Name: username, GithubID: uuid.NewString()}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *testEnv) createProject(t *testing.T, owner *models.User, title string) *models.Project {
	t.Helper()
	project := &models.Project{
		UserID:      owner.ID,
		Title:       title,
		GithubURL:   "https://github.com/" + owner.Username + "/" + title,
		Description: title + " description",
	}
	require.NoError(t, e.projectRepo.Create(context.Background(), project))
	return project
}

func (e *testEnv) ledgerRows(t *testing.T, projectID string) []models.Support {
	t.Helper()
	var rows []models.Support
	require.NoError(t, e.db.Where("project_id = ?", projectID).Find(&rows).Error)
	return rows
}

func badgeNames(badges []models.Badge) []string {
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}
	return names
}

func reaction(t models.ReactionType) *models.ReactionType {
	return &t
}
