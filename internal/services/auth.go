package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hrseeker/resume-matcher/internal/apperrors"
	"hrseeker/resume-matcher/internal/models"
	"hrseeker/resume-matcher/internal/repositories"
)

// SessionTTL is the fixed validity window of an issued session token.
const SessionTTL = 24 * time.Hour

// SessionClaims is the identity embedded in a session token and attached to
// authenticated requests.
type SessionClaims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// ParsedUserID returns the subject as a UUID.
func (c *SessionClaims) ParsedUserID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

type TokenManager interface {
	Issue(user *models.User) (string, error)
	Parse(token string) (*SessionClaims, error)
}

type jwtManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string) TokenManager {
	return &jwtManager{
		secret: []byte(secret),
		ttl:    SessionTTL,
		now:    time.Now,
	}
}

// Issue implements TokenManager.
func (m *jwtManager) Issue(user *models.User) (string, error) {
	now := m.now()
	claims := SessionClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse implements TokenManager.
func (m *jwtManager) Parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, &apperrors.Error{
			Kind:    apperrors.KindUnauthorized,
			Message: "invalid or expired token",
			Err:     err,
		}
	}
	return claims, nil
}

type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	userRepo    repositories.UserRepository
	tokens      TokenManager
	talentIndex TalentIndexer
	validate    *validator.Validate
	hashCost    int
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens TokenManager,
	talentIndex TalentIndexer,
) AuthService {
	if talentIndex == nil {
		talentIndex = NewDisabledTalentIndexer()
	}
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		talentIndex: talentIndex,
		validate:    validator.New(),
		hashCost:    bcrypt.DefaultCost,
	}
}

// Login authenticates an existing user or registers a new one on first use
// of an email address, then issues a session token.
func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequest("Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		user, err = s.register(ctx, req)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, apperrors.Internal("Failed to look up user", err)
	default:
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return nil, apperrors.Unauthorized("Invalid credentials")
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue session token", err)
	}

	return &models.LoginResponse{
		Token: token,
		User:  models.NewUserResponse(user),
	}, nil
}

func (s *authService) register(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.BadRequest("Password is too long")
		}
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name, _, _ = strings.Cut(req.Email, "@")
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         models.ParseRole(req.Role),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.Internal("Failed to create user", err)
	}

	log.Printf("👤 Registered new %s user %s\n", user.Role, user.ID)
	return user, nil
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal("Failed to load profile", err)
	}
	return user, nil
}

func (s *authService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("User not found")
		}
		return apperrors.Internal("Failed to delete account", err)
	}

	if err := s.talentIndex.RemoveUser(ctx, userID); err != nil {
		log.Printf("⚠️  Failed to remove user %s from talent index: %v\n", userID, err)
	}

	log.Printf("🗑️  Deleted account %s\n", userID)
	return nil
}
