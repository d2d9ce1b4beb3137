package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"carstok-backend/internal/model"
)

const testSecret = "test-secret"

func newAdminService(t *testing.T, initial string) *AdminService {
	t.Helper()
	svc := NewAdminService(openStore(t), testSecret)
	if err := svc.EnsurePassword(context.Background(), initial); err != nil {
		t.Fatalf("ensure password: %v", err)
	}
	return svc
}

func TestLoginIssuesValidToken(t *testing.T) {
	t.Parallel()
	svc := newAdminService(t, "carstok2024")
	ctx := context.Background()

	resp, err := svc.Login(ctx, &model.LoginRequest{Password: "carstok2024"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" || resp.ExpiresAt <= time.Now().Unix() {
		t.Fatalf("resp = %+v", resp)
	}
	if err := svc.ValidateToken(resp.Token); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if _, err := svc.Login(ctx, &model.LoginRequest{Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}
}

func TestEnsurePasswordKeepsExistingHash(t *testing.T) {
	t.Parallel()
	svc := newAdminService(t, "first-password")
	ctx := context.Background()

	if err := svc.EnsurePassword(ctx, "second-password"); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if _, err := svc.Login(ctx, &model.LoginRequest{Password: "first-password"}); err != nil {
		t.Fatalf("login with first password: %v", err)
	}
}

func TestEnsurePasswordRehashesPlaintext(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()
	if err := store.SetSetting(ctx, model.SettingAdminPassword, "legacy-pass"); err != nil {
		t.Fatalf("seed setting: %v", err)
	}

	svc := NewAdminService(store, testSecret)
	if err := svc.EnsurePassword(ctx, "ignored"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	stored, err := store.GetSetting(ctx, model.SettingAdminPassword)
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if !strings.HasPrefix(stored, "$2") {
		t.Fatalf("stored = %q, want bcrypt hash", stored)
	}
	if _, err := svc.Login(ctx, &model.LoginRequest{Password: "legacy-pass"}); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	t.Parallel()
	svc := newAdminService(t, "carstok2024")
	ctx := context.Background()

	svc.now = func() time.Time { return time.Now().Add(-13 * time.Hour) }
	old, err := svc.Login(ctx, &model.LoginRequest{Password: "carstok2024"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	svc.now = time.Now

	other := NewAdminService(openStore(t), "other-secret")
	if err := other.EnsurePassword(ctx, "carstok2024"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	foreign, err := other.Login(ctx, &model.LoginRequest{Password: "carstok2024"})
	if err != nil {
		t.Fatalf("login other: %v", err)
	}

	tests := map[string]string{
		"expired":        old.Token,
		"foreign secret": foreign.Token,
		"garbage":        "not-a-token",
		"empty":          "",
	}
	for name, token := range tests {
		if err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	svc := newAdminService(t, "carstok2024")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, &model.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "longenough"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current: err = %v", err)
	}
	err = svc.ChangePassword(ctx, &model.ChangePasswordRequest{CurrentPassword: "carstok2024", NewPassword: "short"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short: err = %v", err)
	}
	err = svc.ChangePassword(ctx, &model.ChangePasswordRequest{CurrentPassword: "carstok2024", NewPassword: "garage-libreville"})
	if err != nil {
		t.Fatalf("change: %v", err)
	}

	if _, err := svc.Login(ctx, &model.LoginRequest{Password: "carstok2024"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: err = %v", err)
	}
	if _, err := svc.Login(ctx, &model.LoginRequest{Password: "garage-libreville"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
