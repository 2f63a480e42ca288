package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mediccore/mediccore/internal/platform/auth"
)

type Service struct {
	users    Repository
	secret   []byte
	tokenTTL time.Duration
}

func NewService(users Repository, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{users: users, secret: secret, tokenTTL: tokenTTL}
}

// LoginResult carries the authenticated user and their session token.
type LoginResult struct {
	User  *User  `json:"usuario"`
	Token string `json:"token"`
}

// Login verifies the credentials and issues a session token. The same error
// is returned for an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("credenciales inválidas")
	}
	if !u.Activo {
		return nil, fmt.Errorf("usuario inactivo")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("credenciales inválidas")
	}

	token, err := auth.IssueToken(s.secret, u.ID.String(), u.Rol, u.Nombre, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Token: token}, nil
}

// Create registers a user with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, u *User, password string) error {
	if strings.TrimSpace(u.Nombre) == "" {
		return fmt.Errorf("nombre is required")
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if !validRoles[u.Rol] {
		return fmt.Errorf("invalid rol: %s", u.Rol)
	}
	if existing, err := s.users.GetByEmail(ctx, u.Email); err == nil && existing != nil {
		return fmt.Errorf("email %s is already registered", u.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Activo = true

	return s.users.Create(ctx, u)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

// SetActivo enables or disables a user account.
func (s *Service) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.Activo = activo
	return s.users.Update(ctx, u)
}
