package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInactive           = errors.New("account disabled")
	ErrForbidden          = errors.New("not authorized")
	ErrInvalidInput       = errors.New("invalid input")
)

const TokenType = "bearer"

type Service struct {
	store    store.UserStore
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// Token is an issued access token.
type Token struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        model.User `json:"user"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func NewService(store store.UserStore, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		store:    store,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Token, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return Token{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(in.Username) < 3 || len(in.Username) > 50 {
		return Token{}, fmt.Errorf("%w: username must be 3-50 characters", ErrInvalidInput)
	}
	if len(in.Password) < 6 {
		return Token{}, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}

	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return Token{}, store.ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return Token{}, err
	}
	if _, err := s.store.GetUserByUsername(ctx, in.Username); err == nil {
		return Token{}, store.ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrNotFound) {
		return Token{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Token{}, err
	}
	user := model.User{
		Email:        in.Email,
		Username:     in.Username,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		Role:         model.RoleReader,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	id, err := s.store.CreateUser(ctx, &user)
	if err != nil {
		return Token{}, err
	}
	user.ID = id
	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return Token{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return Token{}, ErrInactive
	}
	return s.issue(user)
}

// Authenticate validates a bearer token and loads its user.
func (s *Service) Authenticate(ctx context.Context, bearer string) (model.User, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(bearer, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return model.User{}, ErrInvalidToken
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.User{}, ErrInvalidToken
		}
		return model.User{}, err
	}
	if !user.IsActive {
		return model.User{}, ErrInactive
	}
	return user, nil
}

func (s *Service) issue(user model.User) (Token, error) {
	now := s.now()
	expires := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, TokenType: TokenType, ExpiresAt: expires, User: user}, nil
}

// Require returns ErrForbidden unless user holds one of roles.
func Require(user model.User, roles ...model.Role) error {
	for _, r := range roles {
		if user.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
