package account_test

import (
	"errors"
	"testing"
	"time"

	"courtside/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr error
	}{
		{
			name:    "valid coach account",
			account: account.Account{ID: "1", Email: "coach@courtside.app", Role: account.RoleCoach},
		},
		{
			name:    "valid assistant account",
			account: account.Account{ID: "2", Email: "assist@courtside.app", Role: account.RoleAssistant},
		},
		{
			name:    "empty email",
			account: account.Account{ID: "3", Role: account.RoleCoach},
			wantErr: account.ErrEmptyEmail,
		},
		{
			name:    "invalid email no at sign",
			account: account.Account{ID: "4", Email: "not-an-email", Role: account.RoleCoach},
			wantErr: account.ErrInvalidEmail,
		},
		{
			name:    "invalid role",
			account: account.Account{ID: "5", Email: "x@courtside.app", Role: "admin"},
			wantErr: account.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_SetPassword tests password hashing and verification.
func TestAccount_SetPassword(t *testing.T) {
	a := account.Account{}
	if err := a.SetPassword(""); !errors.Is(err, account.ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
	if err := a.SetPassword("short"); !errors.Is(err, account.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := a.SetPassword("a-long-enough-secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.PasswordHash == "" || a.PasswordHash == "a-long-enough-secret" {
		t.Fatal("password must be stored hashed")
	}
	if err := a.CheckPassword("a-long-enough-secret"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := a.CheckPassword("wrong-password-here"); !errors.Is(err, account.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

// TestAccount_CheckPassword_NoHash tests that an account without a hash never matches.
func TestAccount_CheckPassword_NoHash(t *testing.T) {
	a := account.Account{}
	if err := a.CheckPassword(""); !errors.Is(err, account.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

// TestAccount_Lockout tests lock after repeated failures and reset.
func TestAccount_Lockout(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	a := account.Account{}

	for i := 0; i < account.MaxFailedLogins-1; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("should not lock before the limit")
	}
	a.RecordFailedLogin(now)
	if !a.IsLocked(now.Add(time.Minute)) {
		t.Fatal("should lock at the limit")
	}
	if a.IsLocked(now.Add(account.LockoutDuration + time.Second)) {
		t.Fatal("lock should expire")
	}

	a.ResetFailedLogins()
	if a.FailedLogins != 0 || a.IsLocked(now) {
		t.Fatal("reset should clear counter and lock")
	}
}

// TestAccount_CanManageRoster tests role permissions.
func TestAccount_CanManageRoster(t *testing.T) {
	coach := account.Account{Role: account.RoleCoach}
	assistant := account.Account{Role: account.RoleAssistant}
	if !coach.CanManageRoster() || assistant.CanManageRoster() {
		t.Fatal("only coaches manage the roster")
	}
}
