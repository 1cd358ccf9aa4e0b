package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"
	"github.com/alphabot-ai/ethionews/internal/store/sqlite"
)

func newTestService(t *testing.T, ttl time.Duration) (*Service, *sqlite.Store) {
	t.Helper()
	st, err := sqlite.Open(fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st, "test-secret", ttl), st
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	tok, err := svc.Register(ctx, RegisterInput{Email: "Hana@Example.com", Username: "hana", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if tok.TokenType != "bearer" || tok.AccessToken == "" {
		t.Fatalf("unexpected token: %+v", tok)
	}
	if tok.User.Role != model.RoleReader || tok.User.Email != "hana@example.com" {
		t.Fatalf("unexpected user: %+v", tok.User)
	}

	user, err := svc.Authenticate(ctx, tok.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != tok.User.ID {
		t.Fatalf("expected user %d, got %d", tok.User.ID, user.ID)
	}

	if _, err := svc.Login(ctx, "hana", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "hana", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Username: "alem", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Username: "other", Password: "secret123"})
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	_, err = svc.Register(ctx, RegisterInput{Email: "b@example.com", Username: "alem", Password: "secret123"})
	if !errors.Is(err, store.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Username: "xyz", Password: "secret123"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad email, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "c@example.com", Username: "xyz", Password: "short"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
}

func TestTokenExpiration(t *testing.T) {
	svc, _ := newTestService(t, time.Minute)
	ctx := context.Background()

	tok, err := svc.Register(ctx, RegisterInput{Email: "e@example.com", Username: "expiring", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := svc.Authenticate(ctx, tok.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticateRejectsForeignSignature(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	tok, err := svc.Register(ctx, RegisterInput{Email: "f@example.com", Username: "forged", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprint(tok.User.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if _, err := svc.Authenticate(ctx, forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestInactiveUser(t *testing.T) {
	svc, st := newTestService(t, time.Hour)
	ctx := context.Background()

	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := model.User{Email: "off@example.com", Username: "off", PasswordHash: hash, Role: model.RoleReader, CreatedAt: time.Now()}
	if _, err := st.CreateUser(ctx, &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := svc.Login(ctx, "off", "secret123"); !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
}

func TestRequire(t *testing.T) {
	editor := model.User{Role: model.RoleEditor}
	if err := Require(editor, model.RoleEditor, model.RoleAdmin); err != nil {
		t.Fatalf("expected editor allowed: %v", err)
	}
	if err := Require(editor, model.RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if !CheckPassword(mustHash(t, "pw-123456"), "pw-123456") {
		t.Fatalf("expected password to match")
	}
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := HashPassword(pw)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}
