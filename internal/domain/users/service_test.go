package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	users map[uuid.UUID]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return u, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.users[u.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var items []*User
	for _, u := range m.users {
		items = append(items, u)
	}
	return items, len(items), nil
}

var testSecret = []byte("test-secret-0123456789-0123456789")

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, testSecret, time.Hour), repo
}

func TestCreateAndLogin(t *testing.T) {
	svc, _ := newTestService()

	u := &User{Nombre: "Ana Pérez", Email: "Ana@MedicCore.do", Rol: RolCajero}
	if err := svc.Create(context.Background(), u, "secreto123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "ana@mediccore.do" {
		t.Errorf("expected lowercased email, got %s", u.Email)
	}
	if u.PasswordHash == "secreto123" || u.PasswordHash == "" {
		t.Error("expected a hashed password")
	}

	result, err := svc.Login(context.Background(), "ana@mediccore.do", "secreto123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}
	if result.User.ID != u.ID {
		t.Error("expected the created user")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	u := &User{Nombre: "Ana", Email: "ana@mediccore.do", Rol: RolCajero}
	if err := svc.Create(context.Background(), u, "secreto123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Login(context.Background(), "ana@mediccore.do", "wrong"); err == nil {
		t.Error("expected error for wrong password")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Login(context.Background(), "nobody@mediccore.do", "whatever"); err == nil {
		t.Error("expected error for unknown email")
	}
}

func TestLoginInactiveUser(t *testing.T) {
	svc, repo := newTestService()

	u := &User{Nombre: "Ana", Email: "ana@mediccore.do", Rol: RolCajero}
	if err := svc.Create(context.Background(), u, "secreto123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.users[u.ID].Activo = false

	if _, err := svc.Login(context.Background(), "ana@mediccore.do", "secreto123"); err == nil {
		t.Error("expected error for inactive user")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name     string
		user     *User
		password string
	}{
		{"missing nombre", &User{Email: "a@b.c", Rol: RolCajero}, "secreto123"},
		{"missing email", &User{Nombre: "Ana", Rol: RolCajero}, "secreto123"},
		{"short password", &User{Nombre: "Ana", Email: "a@b.c", Rol: RolCajero}, "corta"},
		{"invalid rol", &User{Nombre: "Ana", Email: "a@b.c", Rol: "gerente"}, "secreto123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Create(context.Background(), tt.user, tt.password); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	u := &User{Nombre: "Ana", Email: "ana@mediccore.do", Rol: RolCajero}
	if err := svc.Create(context.Background(), u, "secreto123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dup := &User{Nombre: "Otra Ana", Email: "ana@mediccore.do", Rol: RolRecepcion}
	if err := svc.Create(context.Background(), dup, "secreto123"); err == nil {
		t.Error("expected duplicate email error")
	}
}

func TestSetActivo(t *testing.T) {
	svc, repo := newTestService()

	u := &User{Nombre: "Ana", Email: "ana@mediccore.do", Rol: RolCajero}
	if err := svc.Create(context.Background(), u, "secreto123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetActivo(context.Background(), u.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.users[u.ID].Activo {
		t.Error("expected user to be inactive")
	}
}
