package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"carstok-backend/internal/model"
	"carstok-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

const (
	adminTokenDuration = 12 * time.Hour
	adminSubject       = "admin"
	minPasswordLength  = 8
)

// AdminService guards the dashboard. The password lives as a bcrypt hash in
// admin_settings; a successful login yields an HS256 token.
type AdminService struct {
	settings  repository.SettingsStore
	jwtSecret []byte
	now       func() time.Time
}

func NewAdminService(settings repository.SettingsStore, jwtSecret string) *AdminService {
	return &AdminService{settings: settings, jwtSecret: []byte(jwtSecret), now: time.Now}
}

// EnsurePassword stores initial as the admin password when none is set. A
// stored value that is not a bcrypt hash is rehashed in place.
func (s *AdminService) EnsurePassword(ctx context.Context, initial string) error {
	stored, err := s.settings.GetSetting(ctx, model.SettingAdminPassword)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Println("[ADMIN] no admin password set, using the configured initial password")
		return s.setPassword(ctx, initial)
	case err != nil:
		return fmt.Errorf("read admin password: %w", err)
	case !isBcrypt(stored):
		log.Println("[ADMIN] rehashing plaintext admin password")
		return s.setPassword(ctx, stored)
	}
	return nil
}

func isBcrypt(v string) bool {
	_, err := bcrypt.Cost([]byte(v))
	return err == nil && strings.HasPrefix(v, "$2")
}

func (s *AdminService) setPassword(ctx context.Context, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.settings.SetSetting(ctx, model.SettingAdminPassword, string(hash))
}

func (s *AdminService) checkPassword(ctx context.Context, password string) error {
	hash, err := s.settings.GetSetting(ctx, model.SettingAdminPassword)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *AdminService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if err := s.checkPassword(ctx, req.Password); err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(adminTokenDuration)
	claims := jwt.MapClaims{
		"sub":  adminSubject,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign admin token: %w", err)
	}
	return &model.LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()}, nil
}

func (s *AdminService) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return ErrInvalidToken
	}
	if sub, _ := claims["sub"].(string); sub != adminSubject {
		return ErrInvalidToken
	}
	return nil
}

func (s *AdminService) ChangePassword(ctx context.Context, req *model.ChangePasswordRequest) error {
	if err := s.checkPassword(ctx, req.CurrentPassword); err != nil {
		return err
	}
	if len(req.NewPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	if err := s.setPassword(ctx, req.NewPassword); err != nil {
		return err
	}
	log.Println("[ADMIN] admin password changed")
	return nil
}
