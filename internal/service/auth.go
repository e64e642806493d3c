package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/candyline/sweet-shop/internal/apperrors"
	"github.com/candyline/sweet-shop/internal/hash"
	"github.com/candyline/sweet-shop/internal/models"
)

// Claims is the decoded identity a verified token asserts. It is a snapshot
// taken at issuance: a role change after login is not visible until the user
// authenticates again.
type Claims struct {
	UserID uint
	Role   string
}

type AuthService struct {
	DB        *gorm.DB
	JWTSecret []byte
	TokenTTL  time.Duration
}

const defaultTokenTTL = 24 * time.Hour

func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperrors.Validationf("email and password are required")
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	var existing models.User
	err = s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return "", apperrors.ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		// The unique index is the real guard; the pre-check above only
		// makes the common case cheap.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", apperrors.ErrDuplicateEmail
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	return s.signToken(user.ID, user.Role)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error whether the email is unknown or the password is
			// wrong, so login never discloses account existence.
			return "", "", apperrors.ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("lookup user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return "", "", apperrors.ErrInvalidCredentials
	}

	token, err := s.signToken(user.ID, user.Role)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

func (s *AuthService) Verify(raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, apperrors.ErrUnauthenticated
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, apperrors.ErrUnauthenticated
	}
	sub, ok := mapClaims["sub"].(float64)
	if !ok {
		return Claims{}, apperrors.ErrUnauthenticated
	}
	role, ok := mapClaims["role"].(string)
	if !ok {
		return Claims{}, apperrors.ErrUnauthenticated
	}

	return Claims{UserID: uint(sub), Role: role}, nil
}

func (s *AuthService) signToken(userID uint, role string) (string, error) {
	ttl := s.TokenTTL
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
