package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docvault-backend/internal/users"
)

func TestProcessUserBulkMixedRows(t *testing.T) {
	svc := &Service{Users: users.NewMemoryRepo()}

	csv := "Username,Email,Password,Role\nalice,a@x.com,pw123,User\nbob,bad,,Admin\n"
	out, err := svc.ProcessUserBulk(context.Background(), []byte(csv))
	if err != nil {
		t.Fatalf("ProcessUserBulk: %v", err)
	}

	if out.SuccessCount != 1 || out.FailureCount != 1 {
		t.Fatalf("expected 1 success / 1 failure, got %d / %d", out.SuccessCount, out.FailureCount)
	}
	if len(out.Errors) != 1 || out.Errors[0] != "Line 3: Missing required fields." {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}

	created, err := svc.Users.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected alice to be created: %v", err)
	}
	if created.Role != users.RoleUser {
		t.Fatalf("expected User role, got %s", created.Role)
	}
	if !users.CheckPassword(created.PasswordHash, "pw123") {
		t.Fatal("stored password hash does not match original password")
	}
}

func TestProcessUserBulkCountsMatchRows(t *testing.T) {
	svc := &Service{Users: users.NewMemoryRepo()}

	csv := strings.Join([]string{
		"Username,Email,Password,Role",
		"u1,u1@x.com,pw,User",
		"",
		"short,row",
		"u2,u2@x.com,pw,Admin",
		"u3,u3@x.com,pw,Wizard",
		"u1,dup@x.com,pw,User",
	}, "\n")

	out, err := svc.ProcessUserBulk(context.Background(), []byte(csv))
	if err != nil {
		t.Fatalf("ProcessUserBulk: %v", err)
	}

	// 5 non-blank data rows.
	if out.SuccessCount+out.FailureCount != 5 {
		t.Fatalf("expected counts to sum to 5, got %d + %d", out.SuccessCount, out.FailureCount)
	}
	if out.FailureCount != len(out.Errors) {
		t.Fatalf("expected one error string per failure, got %d errors for %d failures", len(out.Errors), out.FailureCount)
	}
	if out.SuccessCount != 2 {
		t.Fatalf("expected 2 successes, got %d", out.SuccessCount)
	}

	for _, want := range []string{
		"Line 4: Invalid format. Expected Username,Email,Password,Role",
		"Line 6: Invalid role 'Wizard'.",
		"Line 7: User 'u1' already exists.",
	} {
		if !contains(out.Errors, want) {
			t.Fatalf("expected error %q in %v", want, out.Errors)
		}
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestProcessUserBulkErrorStrings(t *testing.T) {
	svc := &Service{Users: users.NewMemoryRepo()}

	csv := strings.Join([]string{
		"Username,Email,Password,Role",
		"short,row",
		"u2,u2@x.com,pw,Wizard",
	}, "\n")

	out, err := svc.ProcessUserBulk(context.Background(), []byte(csv))
	if err != nil {
		t.Fatalf("ProcessUserBulk: %v", err)
	}
	want := []string{
		"Line 2: Invalid format. Expected Username,Email,Password,Role",
		"Line 3: Invalid role 'Wizard'.",
	}
	if len(out.Errors) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), out.Errors)
	}
	for i := range want {
		if out.Errors[i] != want[i] {
			t.Fatalf("error %d: expected %q, got %q", i, want[i], out.Errors[i])
		}
	}
}

func TestProcessUserBulkEmptyFile(t *testing.T) {
	svc := &Service{Users: users.NewMemoryRepo()}

	out, err := svc.ProcessUserBulk(context.Background(), []byte(""))
	if err != nil {
		t.Fatalf("ProcessUserBulk: %v", err)
	}
	if out.SuccessCount != 0 || out.FailureCount != 0 {
		t.Fatalf("expected zero counts, got %d / %d", out.SuccessCount, out.FailureCount)
	}
	if len(out.Errors) != 1 || out.Errors[0] != "Empty file" {
		t.Fatalf("expected [\"Empty file\"], got %v", out.Errors)
	}
}

func TestProcessUserBulkExistingUser(t *testing.T) {
	repo := users.NewMemoryRepo()
	if err := repo.Create(context.Background(), users.User{ID: "1", Username: "taken", Email: "t@x.com", PasswordHash: "h", Role: users.RoleUser}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	svc := &Service{Users: repo}

	csv := "Username,Email,Password,Role\ntaken,t2@x.com,pw,User\n"
	out, err := svc.ProcessUserBulk(context.Background(), []byte(csv))
	if err != nil {
		t.Fatalf("ProcessUserBulk: %v", err)
	}
	if out.SuccessCount != 0 || out.FailureCount != 1 {
		t.Fatalf("expected 0/1, got %d/%d", out.SuccessCount, out.FailureCount)
	}
	if out.Errors[0] != "Line 2: User 'taken' already exists." {
		t.Fatalf("unexpected error: %q", out.Errors[0])
	}
}

type failingBatchRepo struct {
	*users.MemoryRepo
}

func (r *failingBatchRepo) CreateBatch(ctx context.Context, batch []users.User) error {
	return errors.New("database is down")
}

func TestProcessUserBulkCommitFailureIsFatal(t *testing.T) {
	svc := &Service{Users: &failingBatchRepo{users.NewMemoryRepo()}}

	csv := "Username,Email,Password,Role\nalice,a@x.com,pw,User\n"
	if _, err := svc.ProcessUserBulk(context.Background(), []byte(csv)); err == nil {
		t.Fatal("expected fatal error from failed batch commit")
	}
}
