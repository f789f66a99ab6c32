package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenRevoker tracks logged-out tokens.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type LoginResult struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type AuthService struct {
	users      repositories.IUserRepository
	revoker    TokenRevoker
	secret     []byte
	ttl        time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	log        *zap.Logger
}

func NewAuthService(users repositories.IUserRepository, revoker TokenRevoker, secret string,
	ttl, refreshTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		revoker:    revoker,
		secret:     []byte(secret),
		ttl:        ttl,
		refreshTTL: refreshTTL,
		now:        time.Now,
		log:        log,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Info("login rejected", zap.String("username", user.Username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.sign(user, TokenTypeAccess, s.ttl)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, RefreshToken: refresh, User: user}, nil
}

func (s *AuthService) sign(user *models.User, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"typ":      typ,
		"jti":      uuid.NewString(),
		"iat":      s.now().Unix(),
		"exp":      s.now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Register creates a user. Role defaults to RECEPTIONIST.
func (s *AuthService) Register(ctx context.Context, in UserInput) (*models.User, error) {
	fields := fieldErrors{}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		fields.add("username", "Username is required")
	}
	if len(in.Password) < 6 {
		fields.add("password", "Password must be at least 6 characters")
	}
	if strings.TrimSpace(in.FullName) == "" {
		fields.add("fullName", "Full name is required")
	}
	role := models.RoleReceptionist
	if in.Role != "" {
		parsed, ok := models.ParseRole(in.Role)
		if !ok {
			fields.add("role", "Role must be ADMIN or RECEPTIONIST")
		}
		role = parsed
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username: username,
		Password: string(hashed),
		FullName: strings.TrimSpace(in.FullName),
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("id", user.ID), zap.String("role", string(role)))
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Logout revokes the token with the given id until it expires.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.revoker.Revoke(ctx, jti, expiresAt)
}

func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.revoker.IsRevoked(ctx, jti)
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != TokenTypeRefresh {
		return "", ErrInvalidToken
	}
	if jti, _ := claims["jti"].(string); jti != "" {
		revoked, err := s.revoker.IsRevoked(ctx, jti)
		if err != nil {
			return "", err
		}
		if revoked {
			return "", ErrInvalidToken
		}
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return "", ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return s.sign(user, TokenTypeAccess, s.ttl)
}
