package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func annParams() CreateAccountParams {
	return CreateAccountParams{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@x.com",
		Password:  "secret1",
		Role:      RoleArtist,
	}
}

func TestStore_CreateAccount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	account, err := store.CreateAccount(ctx, annParams())
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "ann@x.com", account.Email)
	assert.Equal(t, "Ann Lee", account.FullName)
	assert.NotEqual(t, "secret1", account.PasswordHash, "password must not be stored in the clear")
}

func TestStore_CreateAccount_DuplicateEmail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAccount(ctx, annParams())
	require.NoError(t, err)

	_, err = store.CreateAccount(ctx, annParams())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestStore_CreateAccount_EmailCaseInsensitive(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAccount(ctx, annParams())
	require.NoError(t, err)

	params := annParams()
	params.Email = "ANN@X.COM"
	_, err = store.CreateAccount(ctx, params)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestStore_CreateAccount_Validation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateAccountParams)
	}{
		{"blank first name", func(p *CreateAccountParams) { p.FirstName = "  " }},
		{"blank last name", func(p *CreateAccountParams) { p.LastName = "" }},
		{"short password", func(p *CreateAccountParams) { p.Password = "12345" }},
		{"malformed email", func(p *CreateAccountParams) { p.Email = "not-an-email" }},
		{"unknown role", func(p *CreateAccountParams) { p.Role = "admin" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := annParams()
			tt.mutate(&params)
			_, err := store.CreateAccount(ctx, params)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestStore_Authenticate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAccount(ctx, annParams())
	require.NoError(t, err)

	account, err := store.Authenticate(ctx, "ann@x.com", "secret1", RoleArtist)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", account.FullName)

	// Mixed-case email still matches
	account, err = store.Authenticate(ctx, "Ann@X.com", "secret1", RoleArtist)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", account.FullName)

	_, err = store.Authenticate(ctx, "ann@x.com", "wrong", RoleArtist)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Authenticate(ctx, "ann@x.com", "secret1", RoleCustomer)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Authenticate(ctx, "nobody@x.com", "secret1", RoleArtist)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_CheckCredentials(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAccount(ctx, annParams())
	require.NoError(t, err)

	status, err := store.CheckCredentials(ctx, "ann@x.com", "secret1", RoleArtist)
	require.NoError(t, err)
	assert.Equal(t, CredentialsOK, status)

	status, err = store.CheckCredentials(ctx, "ann@x.com", "wrong", RoleArtist)
	require.NoError(t, err)
	assert.Equal(t, CredentialsWrongPassword, status)

	status, err = store.CheckCredentials(ctx, "ann@x.com", "secret1", RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, CredentialsWrongRole, status)

	status, err = store.CheckCredentials(ctx, "nobody@x.com", "secret1", RoleArtist)
	require.NoError(t, err)
	assert.Equal(t, CredentialsNoAccount, status)
}

func TestStore_UpdateProfile(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAccount(ctx, annParams())
	require.NoError(t, err)

	err = store.UpdateProfile(ctx, "ann@x.com", "Ann L. Lee", "ann.lee@x.com", "555-0101", "12 Gallery Row")
	require.NoError(t, err)

	profile, err := store.GetProfile(ctx, "ann.lee@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann L. Lee", profile.FullName)
	assert.Equal(t, "555-0101", profile.Phone)
	assert.Equal(t, "12 Gallery Row", profile.Address)

	// Old email no longer resolves
	_, err = store.GetProfile(ctx, "ann@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateProfile_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.UpdateProfile(ctx, "nobody@x.com", "Nobody", "", "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateProfile_EmailCollision(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAccount(ctx, annParams())
	require.NoError(t, err)

	other := annParams()
	other.FirstName = "Ben"
	other.Email = "ben@x.com"
	other.Role = RoleCustomer
	_, err = store.CreateAccount(ctx, other)
	require.NoError(t, err)

	err = store.UpdateProfile(ctx, "ben@x.com", "Ben Lee", "ann@x.com", "", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestStore_EmailForFullName(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAccount(ctx, annParams())
	require.NoError(t, err)

	email, err := store.EmailForFullName(ctx, "ann lee")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", email)

	_, err = store.EmailForFullName(ctx, "Zed Zorro")
	assert.ErrorIs(t, err, ErrNotFound)
}
