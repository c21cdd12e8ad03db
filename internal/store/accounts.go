// ABOUTME: Account persistence and credential checking for the SQLite store
// ABOUTME: Signup validation, bcrypt password verification, and profile updates

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

// dummyHash is compared against when no account matches, so that lookups
// for unknown emails take as long as a real password check.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CreateAccount validates the signup fields, hashes the password, and
// inserts the account with a normalized lower-case email. Returns
// ErrInvalidInput for validation failures and ErrEmailTaken if the email
// is already registered.
func (s *SQLiteStore) CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error) {
	params.FirstName = strings.TrimSpace(params.FirstName)
	params.LastName = strings.TrimSpace(params.LastName)
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))

	if err := validate.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("%w: %s failed %s check", ErrInvalidInput, strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	account := &Account{
		ID:           uuid.New().String(),
		Email:        params.Email,
		PasswordHash: string(hash),
		Role:         params.Role,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		FullName:     strings.TrimSpace(params.FirstName + " " + params.LastName),
		CreatedAt:    time.Now().UTC(),
	}

	query := `
		INSERT INTO accounts (id, email, password, role, first_name, last_name, full_name, phone, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		account.FirstName,
		account.LastName,
		account.FullName,
		nullString(account.Phone),
		nullString(account.Address),
		account.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("inserting account: %w", err)
	}

	s.logger.Info("created account", "id", account.ID, "email", account.Email, "role", account.Role)
	return account, nil
}

// GetAccountByEmail retrieves an account by email (case-insensitive).
// Returns ErrNotFound if no account exists.
func (s *SQLiteStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	query := `
		SELECT id, email, password, role, first_name, last_name, full_name, phone, address, created_at
		FROM accounts
		WHERE email = ?
	`

	row := s.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*Account, error) {
	var account Account
	var role string
	var firstName, lastName, fullName, phone, address sql.NullString
	var createdAtStr string

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&role,
		&firstName,
		&lastName,
		&fullName,
		&phone,
		&address,
		&createdAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}

	account.Role = Role(role)
	account.FirstName = firstName.String
	account.LastName = lastName.String
	account.FullName = fullName.String
	account.Phone = phone.String
	account.Address = address.String

	account.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	// Older rows may have an empty full_name; derive one the way the
	// login screens always have.
	if account.FullName == "" {
		account.FullName = strings.TrimSpace(account.FirstName + " " + account.LastName)
	}
	if account.FullName == "" {
		account.FullName = account.Email
	}

	return &account, nil
}

// Authenticate verifies the password and role for the account registered
// under email. Returns ErrNotFound whether the account is missing, the
// password is wrong, or the role doesn't match; callers that need to
// distinguish those cases use CheckCredentials.
func (s *SQLiteStore) Authenticate(ctx context.Context, email, password string, role Role) (*Account, error) {
	account, err := s.GetAccountByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		// Burn a bcrypt comparison to keep timing constant
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrNotFound
	}
	if account.Role != role {
		return nil, ErrNotFound
	}

	s.logger.Info("login successful", "email", account.Email, "full_name", account.FullName)
	return account, nil
}

// CheckCredentials reports why an authentication attempt would fail,
// so login screens can show "no account" vs "wrong password" vs
// "wrong role" messages. The returned error is non-nil only for
// storage failures.
func (s *SQLiteStore) CheckCredentials(ctx context.Context, email, password string, role Role) (CredentialStatus, error) {
	account, err := s.GetAccountByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return CredentialsNoAccount, nil
	}
	if err != nil {
		return "", err
	}

	if account.Role != role {
		return CredentialsWrongRole, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return CredentialsWrongPassword, nil
	}
	return CredentialsOK, nil
}

// UpdateProfile rewrites the mutable profile fields of the account
// registered under currentEmail. A changed email is normalized to lower
// case; ErrEmailTaken is returned if it collides with another account.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, currentEmail, fullName, newEmail, phone, address string) error {
	current := strings.ToLower(strings.TrimSpace(currentEmail))
	if current == "" {
		return fmt.Errorf("%w: current email required", ErrInvalidInput)
	}

	next := strings.ToLower(strings.TrimSpace(newEmail))
	if next == "" {
		next = current
	}

	query := `
		UPDATE accounts
		SET full_name = ?, email = ?, phone = ?, address = ?
		WHERE email = ?
	`

	result, err := s.db.ExecContext(ctx, query, fullName, next, nullString(phone), nullString(address), current)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("updating profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("updated profile", "email", next, "full_name", fullName)
	return nil
}

// GetProfile retrieves the profile fields for the account registered
// under email. Returns ErrNotFound if no account exists.
func (s *SQLiteStore) GetProfile(ctx context.Context, email string) (*Profile, error) {
	query := `
		SELECT full_name, email, phone, address
		FROM accounts
		WHERE email = ?
	`

	var profile Profile
	var fullName, phone, address sql.NullString

	err := s.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(
		&fullName,
		&profile.Email,
		&phone,
		&address,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}

	profile.FullName = fullName.String
	profile.Phone = phone.String
	profile.Address = address.String
	return &profile, nil
}

// EmailForFullName finds the email of the first account whose display name
// matches fullName (case-insensitive substring). Display names are not
// unique; this lookup exists for legacy screens that only hold a name.
func (s *SQLiteStore) EmailForFullName(ctx context.Context, fullName string) (string, error) {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return "", ErrNotFound
	}

	query := `SELECT email FROM accounts WHERE full_name LIKE ? COLLATE NOCASE LIMIT 1`

	var email string
	err := s.db.QueryRowContext(ctx, query, "%"+name+"%").Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying email for full name: %w", err)
	}
	return email, nil
}
