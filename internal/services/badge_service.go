package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"showcase/internal/apperrors"
	"showcase/internal/models"
	"showcase/internal/repositories"

	"go.uber.org/zap"
)

// Badge names of the built-in catalog.
const (
	BadgeEarlyAdopter = "Early Adopter"
	BadgeFirstProject = "First Project"
)

// EarlyAdopterLimit is how many of the first accounts earn Early Adopter.
const EarlyAdopterLimit = 100

// LikeMilestones are the total-like thresholds that each award a badge.
var LikeMilestones = []int{100, 200, 300, 400, 500, 1000}

// BadgePhase says when a rule is evaluated.
type BadgePhase int

const (
	// PhaseActivity rules run after anything that changes a user's statistics.
	PhaseActivity BadgePhase = iota
	// PhaseSignup rules run once, when the account is created.
	PhaseSignup
)

// UserStats is the snapshot badge rules are evaluated against.
type UserStats struct {
	TotalLikes   int
	ProjectCount int64
	// SignupRank is the 1-based position of the account in creation order.
	// It is only known during signup evaluation.
	SignupRank int64
}

// BadgeRule awards the badge Name to users whose stats satisfy Qualifies.
type BadgeRule struct {
	Name        string
	Description string
	Icon        string
	Phase       BadgePhase
	Qualifies   func(UserStats) bool
}

// LikesBadgeName names the badge for a like milestone.
func LikesBadgeName(milestone int) string {
	return fmt.Sprintf("%d Likes", milestone)
}

// DefaultBadgeRules returns the built-in badge catalog.
func DefaultBadgeRules() []BadgeRule {
	rules := []BadgeRule{
		{
			Name:        BadgeEarlyAdopter,
			Description: fmt.Sprintf("One of the first %d users!", EarlyAdopterLimit),
			Icon:        "/star.svg",
			Phase:       PhaseSignup,
			Qualifies: func(s UserStats) bool {
				return s.SignupRank > 0 && s.SignupRank <= EarlyAdopterLimit
			},
		},
		{
			Name:        BadgeFirstProject,
			Description: "Created your first project!",
			Icon:        "/first-project.svg",
			Phase:       PhaseActivity,
			Qualifies: func(s UserStats) bool {
				return s.ProjectCount >= 1
			},
		},
	}
	for _, milestone := range LikeMilestones {
		milestone := milestone
		rules = append(rules, BadgeRule{
			Name:        LikesBadgeName(milestone),
			Description: fmt.Sprintf("Your projects received %d likes in total!", milestone),
			Icon:        "/like-gold.svg",
			Phase:       PhaseActivity,
			Qualifies: func(s UserStats) bool {
				return s.TotalLikes >= milestone
			},
		})
	}
	return rules
}

// BadgeService evaluates badge rules and grants newly earned badges.
// Grants are idempotent and never revoked.
type BadgeService struct {
	badges   repositories.BadgeRepository
	users    repositories.UserRepository
	projects repositories.ProjectRepository
	rules    []BadgeRule
	log      *zap.Logger

	mu sync.Mutex
	// catalog maps rule names to stored badges once EnsureCatalog succeeded.
	catalog map[string]models.Badge
}

// NewBadgeService creates a new BadgeService over rules.
func NewBadgeService(
	badges repositories.BadgeRepository,
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
	rules []BadgeRule,
	log *zap.Logger,
) *BadgeService {
	return &BadgeService{
		badges:   badges,
		users:    users,
		projects: projects,
		rules:    rules,
		log:      log,
	}
}

// EnsureCatalog stores a badge row for every rule.
func (s *BadgeService) EnsureCatalog(ctx context.Context) error {
	_, err := s.loadCatalog(ctx)
	return err
}

func (s *BadgeService) loadCatalog(ctx context.Context) (map[string]models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog != nil {
		return s.catalog, nil
	}

	catalog := make(map[string]models.Badge, len(s.rules))
	for _, rule := range s.rules {
		badge := models.Badge{Name: rule.Name, Description: rule.Description, Icon: rule.Icon}
		if err := s.badges.Upsert(ctx, &badge); err != nil {
			return nil, err
		}
		catalog[rule.Name] = badge
	}
	s.catalog = catalog
	return catalog, nil
}

// List returns every badge definition, seeding the catalog first.
func (s *BadgeService) List(ctx context.Context) ([]models.Badge, error) {
	if err := s.EnsureCatalog(ctx); err != nil {
		return nil, err
	}
	return s.badges.List(ctx)
}

// EvaluateBadges grants the activity badges userID now qualifies for and
// returns only the badges granted by this call.
func (s *BadgeService) EvaluateBadges(ctx context.Context, userID string) ([]models.Badge, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.projects.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.evaluate(ctx, userID, PhaseActivity, UserStats{
		TotalLikes:   user.TotalLikes,
		ProjectCount: count,
	})
}

// Check evaluates userID on demand. A non-empty email must be the caller's own.
func (s *BadgeService) Check(ctx context.Context, userID, email string) ([]models.Badge, error) {
	if email != "" {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(strings.TrimSpace(email), user.Email) {
			return nil, fmt.Errorf("badges can only be checked for your own account: %w", apperrors.ErrForbidden)
		}
	}
	return s.EvaluateBadges(ctx, userID)
}

// EvaluateSignup grants the signup badges for an account created at rank.
func (s *BadgeService) EvaluateSignup(ctx context.Context, userID string, rank int64) ([]models.Badge, error) {
	return s.evaluate(ctx, userID, PhaseSignup, UserStats{SignupRank: rank})
}

func (s *BadgeService) evaluate(ctx context.Context, userID string, phase BadgePhase, stats UserStats) ([]models.Badge, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	held, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	heldIDs := make(map[string]struct{}, len(held))
	for _, b := range held {
		heldIDs[b.ID] = struct{}{}
	}

	granted := []models.Badge{}
	for _, rule := range s.rules {
		if rule.Phase != phase || !rule.Qualifies(stats) {
			continue
		}
		badge := catalog[rule.Name]
		if _, ok := heldIDs[badge.ID]; ok {
			continue
		}
		isNew, err := s.badges.Grant(ctx, userID, badge.ID)
		if err != nil {
			return granted, err
		}
		if isNew {
			granted = append(granted, badge)
		}
	}

	if len(granted) > 0 {
		names := make([]string, 0, len(granted))
		for _, b := range granted {
			names = append(names, b.Name)
		}
		s.log.Info("badges granted", zap.String("user_id", userID), zap.Strings("badges", names))
	}
	return granted, nil
}
