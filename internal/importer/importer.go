package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"docvault-backend/internal/users"
)

// Outcome summarizes one bulk-import batch. Row-level failures are data, not
// errors: success plus failure always equals the number of non-blank data
// rows, and every failure has exactly one entry in Errors.
type Outcome struct {
	SuccessCount int      `json:"successCount"`
	FailureCount int      `json:"failureCount"`
	Errors       []string `json:"errors"`
}

// Service parses user bulk-upload CSVs and persists valid rows in one batch.
type Service struct {
	Users users.Repo
}

// ProcessUserBulk imports accounts from CSV content with the header
// Username,Email,Password,Role. Malformed rows are tallied and reported but
// never abort the batch; all created accounts are committed together after
// the full scan. A failed batch commit is returned as an error, distinct
// from the row-level failures already collected.
func (s *Service) ProcessUserBulk(ctx context.Context, content []byte) (Outcome, error) {
	var out Outcome

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	if !hasHeader(lines) {
		out.Errors = []string{"Empty file"}
		return out, nil
	}

	var batch []users.User
	pending := make(map[string]struct{})

	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNumber := i + 1

		fields := strings.Split(line, ",")
		if len(fields) < 4 {
			out.FailureCount++
			out.Errors = append(out.Errors, fmt.Sprintf("Line %d: Invalid format. Expected Username,Email,Password,Role", lineNumber))
			continue
		}

		username := strings.TrimSpace(fields[0])
		email := strings.TrimSpace(fields[1])
		password := strings.TrimSpace(fields[2])
		roleToken := strings.TrimSpace(fields[3])

		if username == "" || email == "" || password == "" {
			out.FailureCount++
			out.Errors = append(out.Errors, fmt.Sprintf("Line %d: Missing required fields.", lineNumber))
			continue
		}

		role, ok := users.ParseRole(roleToken)
		if !ok {
			out.FailureCount++
			out.Errors = append(out.Errors, fmt.Sprintf("Line %d: Invalid role '%s'.", lineNumber, roleToken))
			continue
		}

		if s.usernameTaken(ctx, pending, username) {
			out.FailureCount++
			out.Errors = append(out.Errors, fmt.Sprintf("Line %d: User '%s' already exists.", lineNumber, username))
			continue
		}

		hash, err := users.HashPassword(password)
		if err != nil {
			out.FailureCount++
			out.Errors = append(out.Errors, fmt.Sprintf("Line %d: Error creating user. %s", lineNumber, err.Error()))
			continue
		}

		batch = append(batch, users.User{
			ID:           uuid.NewString(),
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
		})
		pending[username] = struct{}{}
		out.SuccessCount++
	}

	if out.SuccessCount > 0 {
		if err := s.Users.CreateBatch(ctx, batch); err != nil {
			return Outcome{}, fmt.Errorf("bulk import commit: %w", err)
		}
	}

	return out, nil
}

func (s *Service) usernameTaken(ctx context.Context, pending map[string]struct{}, username string) bool {
	if _, ok := pending[username]; ok {
		return true
	}
	_, err := s.Users.GetByUsername(ctx, username)
	return err == nil
}

func hasHeader(lines []string) bool {
	return len(lines) > 0 && strings.TrimSpace(lines[0]) != ""
}
