package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/config"
	"github.com/gotodo/core/internal/infrastructure/logger"
	"github.com/gotodo/core/internal/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims represents the JWT claims
type Claims struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the caller identity used by the services.
func (c *Claims) Actor() (entities.Actor, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return entities.Actor{}, entities.ErrInvalidToken
	}

	return entities.Actor{
		ID:       id,
		Username: c.Username,
		Elevated: c.IsStaff || c.IsSuperuser,
	}, nil
}

// AuthService issues and validates access/refresh token pairs. Tokens are
// stateless: the refresh token is itself a signed JWT distinguished by its
// token_type claim.
type AuthService struct {
	userRepo  ports.UserRepository
	jwtConfig config.JWTConfig
	logger    *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo ports.UserRepository, jwtConfig config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Warnw("Login attempt with unknown username", "username", req.Username)
		return nil, entities.ErrUnauthorized
	}

	if !user.IsActive {
		s.logger.Warnw("Login attempt with inactive account", "username", req.Username, "user_id", user.ID)
		return nil, entities.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warnw("Login attempt with invalid password", "username", req.Username, "user_id", user.ID)
		return nil, entities.ErrUnauthorized
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Warnw("Failed to update last login time", "error", err, "user_id", user.ID)
	}

	access, err := s.generateToken(user, tokenTypeAccess, s.jwtConfig.ExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.generateToken(user, tokenTypeRefresh, s.jwtConfig.RefreshExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	s.logger.Infow("User logged in", "user_id", user.ID, "username", user.Username)

	return &ports.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}

	if claims.TokenType != tokenTypeRefresh {
		return nil, entities.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}

	if !user.IsActive {
		return nil, entities.ErrUnauthorized
	}

	access, err := s.generateToken(user, tokenTypeAccess, s.jwtConfig.ExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &ports.TokenPair{Access: access}, nil
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req ports.RegisterRequest) (*entities.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		verr := entities.ValidationError{}
		verr.Add("email", "already in use")
		return nil, verr
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		IsStaff:      req.IsStaff,
		IsSuperuser:  req.IsSuperuser,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("User registered", "user_id", user.ID, "username", user.Username)

	user.PasswordHash = ""
	return user, nil
}

// ValidateAccessToken parses and validates an access token
func (s *AuthService) ValidateAccessToken(token string) (*Claims, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}

	if claims.TokenType != tokenTypeAccess {
		return nil, entities.ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) generateToken(user *entities.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:      user.ID.String(),
		Username:    user.Username,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtConfig.Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}

func (s *AuthService) parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, entities.ErrInvalidToken
	}

	return claims, nil
}
