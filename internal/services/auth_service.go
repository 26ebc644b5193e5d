package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"showcase/internal/apperrors"
	"showcase/internal/models"
	"showcase/internal/repositories"
	"showcase/pkg/github"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Identity is a verified account at the sign-in provider.
type Identity struct {
	ProviderID string
	Login      string
	Name       string
	Email      string
	AvatarURL  string
}

// IdentityProvider runs the provider side of the OAuth code flow.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (*Identity, error)
}

// SignupBadger grants the badges earned by creating an account.
type SignupBadger interface {
	EvaluateSignup(ctx context.Context, userID string, rank int64) ([]models.Badge, error)
}

// GithubIdentityProvider signs users in with GitHub OAuth.
type GithubIdentityProvider struct {
	oauth  *oauth2.Config
	apiURL string
}

// NewGithubIdentityProvider creates a provider for the given OAuth app.
func NewGithubIdentityProvider(oauth *oauth2.Config, apiURL string) *GithubIdentityProvider {
	return &GithubIdentityProvider{oauth: oauth, apiURL: apiURL}
}

// AuthCodeURL returns the GitHub authorize URL carrying state.
func (p *GithubIdentityProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Identify exchanges code for a token and fetches the GitHub user behind it.
func (p *GithubIdentityProvider) Identify(ctx context.Context, code string) (*Identity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %s: %w", err, apperrors.ErrUnauthorized)
	}
	gh, err := github.NewClient(ctx, p.apiURL, token.AccessToken).CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch github user: %w", err)
	}
	return &Identity{
		ProviderID: strconv.FormatInt(gh.ID, 10),
		Login:      gh.Login,
		Name:       gh.Name,
		Email:      gh.Email,
		AvatarURL:  gh.AvatarURL,
	}, nil
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	provider   IdentityProvider
	badges     SignupBadger
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	log        *zap.Logger
}

// NewAuthService creates a new AuthService. provider and badges may be nil
// when only token validation is needed.
func NewAuthService(
	userRepo repositories.UserRepository,
	provider IdentityProvider,
	badges SignupBadger,
	jwtSecret string,
	tokenTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		provider:   provider,
		badges:     badges,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
		log:        log,
	}
}

// TokenTTL reports how long issued tokens stay valid.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenDurat
}

// LoginURL returns the provider URL to send the browser to and the state
// value that must come back on the callback.
func (s *AuthService) LoginURL() (string, string, error) {
	if s.provider == nil {
		return "", "", fmt.Errorf("sign-in provider is not configured")
	}
	state := uuid.New().String()
	return s.provider.AuthCodeURL(state), state, nil
}

// Callback completes the code flow: it resolves the identity, signs the user
// in and issues a session token.
func (s *AuthService) Callback(ctx context.Context, code string) (string, *models.User, error) {
	if s.provider == nil {
		return "", nil, fmt.Errorf("sign-in provider is not configured")
	}
	if code == "" {
		return "", nil, fmt.Errorf("missing oauth code: %w", apperrors.ErrInvalidArgument)
	}
	identity, err := s.provider.Identify(ctx, code)
	if err != nil {
		return "", nil, err
	}
	user, err := s.SignIn(ctx, identity)
	if err != nil {
		return "", nil, err
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// followLogin renames user to a changed provider login when that handle is
// free. Otherwise the stored handle is kept.
func (s *AuthService) followLogin(ctx context.Context, user *models.User, login string) {
	login = strings.ToLower(login)
	if login == user.Username {
		return
	}
	err := s.userRepo.UpdateUsername(ctx, user.ID, login)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrConflict):
		s.log.Debug("provider login is taken, keeping handle",
			zap.String("user_id", user.ID), zap.String("username", user.Username), zap.String("login", login))
	default:
		s.log.Warn("failed to rename user", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// SignIn returns the account linked to identity, creating it on first sign-in.
// Accounts are linked by provider id only.
func (s *AuthService) SignIn(ctx context.Context, identity *Identity) (*models.User, error) {
	if identity == nil || identity.ProviderID == "" || identity.Login == "" {
		return nil, fmt.Errorf("incomplete identity: %w", apperrors.ErrInvalidArgument)
	}

	existing, err := s.userRepo.GetByGithubID(ctx, identity.ProviderID)
	switch {
	case err == nil:
		existing.Name = identity.Name
		existing.Email = identity.Email
		existing.Image = identity.AvatarURL
		if err := s.userRepo.UpdateIdentity(ctx, existing); err != nil {
			s.log.Warn("failed to refresh user identity", zap.String("user_id", existing.ID), zap.Error(err))
		}
		s.followLogin(ctx, existing, identity.Login)
		return s.userRepo.GetByID(ctx, existing.ID)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: identity.Login,
		Name:     identity.Name,
		Email:    identity.Email,
		Image:    identity.AvatarURL,
		GithubID: identity.ProviderID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		// The handle belongs to an older account; disambiguate with the provider id.
		user.ID = ""
		user.Username = identity.Login + "-" + identity.ProviderID
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}
	s.log.Info("user signed up", zap.String("user_id", user.ID), zap.String("username", user.Username))

	if s.badges != nil {
		if _, err := s.badges.EvaluateSignup(ctx, user.ID, count+1); err != nil {
			s.log.Warn("failed to evaluate signup badges", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return user, nil
}

// IssueToken signs a session token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":      time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("invalid token: %s: %w", err, apperrors.ErrUnauthorized)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if id, _ := claims["user_id"].(string); id != "" {
			return claims, nil
		}
	}
	return nil, fmt.Errorf("invalid token: %w", apperrors.ErrUnauthorized)
}
