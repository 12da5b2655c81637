package users

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "secret123", RoleUser)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" || user.PasswordHash == "secret123" {
		t.Fatalf("expected hashed password and generated id, got %+v", user)
	}

	authed, err := svc.Authenticate(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob", "bob@example.com", "pw123456", RoleAdmin); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "other@example.com", "pw123456", RoleUser); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestParseRoleIsCaseInsensitive(t *testing.T) {
	cases := map[string]Role{
		"admin": RoleAdmin,
		"ADMIN": RoleAdmin,
		" User": RoleUser,
		"user":  RoleUser,
	}
	for raw, want := range cases {
		got, ok := ParseRole(raw)
		if !ok || got != want {
			t.Fatalf("ParseRole(%q) = %v, %v; want %v", raw, got, ok, want)
		}
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Fatal("expected unknown role to be rejected")
	}
}
