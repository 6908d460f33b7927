package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vitrina/internal/models"
	"vitrina/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login for an unknown nickname or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned by ValidateToken.
var ErrInvalidToken = errors.New("invalid token")

// RegisterInput is the content of the shop registration form.
type RegisterInput struct {
	Email    string `form:"email" json:"email" validate:"required,email,max=30"`
	Nickname string `form:"nickname" json:"nickname" validate:"required,min=3,max=15"`
	Password string `form:"password" json:"password" validate:"required,min=6,max=72"`
}

// AuthService registers shop users and issues their tokens.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	tokenDuration time.Duration
	validate      *validator.Validate
	logger        *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour,
		validate:      newValidator(),
		logger:        logger,
	}
}

// Register stores a new user with a hashed password. A taken nickname or email is a
// validation error on that field.
func (s *AuthService) Register(ctx context.Context, in *RegisterInput) (*models.User, error) {
	verr := &models.ValidationError{Fields: structErrors(s.validate, in)}
	if !verr.HasErrors() {
		if err := s.checkTaken(ctx, in, verr); err != nil {
			return nil, err
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{Email: in.Email, Nickname: in.Nickname, Password: string(hashed)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("nickname", user.Nickname))
	user.Password = ""
	return user, nil
}

func (s *AuthService) checkTaken(ctx context.Context, in *RegisterInput, verr *models.ValidationError) error {
	_, err := s.userRepo.GetByNickname(ctx, in.Nickname)
	switch {
	case err == nil:
		verr.Add("nickname", "this nickname is already taken")
	case !errors.Is(err, models.ErrNotFound):
		return err
	}
	_, err = s.userRepo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		verr.Add("email", "this email is already registered")
	case !errors.Is(err, models.ErrNotFound):
		return err
	}
	return nil
}

// Login checks the credentials and returns a signed token carrying the user id.
func (s *AuthService) Login(ctx context.Context, nickname, password string) (string, error) {
	user, err := s.userRepo.GetByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"nickname": user.Nickname,
		"exp":      now.Add(s.tokenDuration).Unix(),
		"iat":      now.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a token issued by Login and returns its user id.
func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	// MapClaims decodes numbers as float64.
	id, ok := claims["user_id"].(float64)
	if !ok || id < 1 {
		return 0, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	return uint(id), nil
}

// EnsureDemoUser makes sure the user anonymous visitors shop as exists.
func (s *AuthService) EnsureDemoUser(ctx context.Context, id uint) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:       id,
		Email:    fmt.Sprintf("demo%d@vitrina.local", id),
		Nickname: fmt.Sprintf("demo%d", id),
		Password: string(hashed),
	}
	return s.userRepo.EnsureExists(ctx, user)
}
