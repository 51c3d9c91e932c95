package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlaintextRepo(t *testing.T) *CredentialRepo {
	t.Helper()
	repo, err := NewCredentialRepo(setupTestDB(t), nil)
	require.NoError(t, err)
	return repo
}

func TestCredentialRepo_SetAndGet(t *testing.T) {
	repo := newPlaintextRepo(t)
	ctx := context.Background()

	err := repo.Set(ctx, "familyapi", "token", "tok123")
	require.NoError(t, err)

	val, err := repo.Get(ctx, "familyapi", "token")
	require.NoError(t, err)
	assert.Equal(t, "tok123", val)
}

func TestCredentialRepo_GetMissing(t *testing.T) {
	repo := newPlaintextRepo(t)

	val, err := repo.Get(context.Background(), "familyapi", "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestCredentialRepo_UpsertOverwrites(t *testing.T) {
	repo := newPlaintextRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "familyapi", "token", "old-token"))
	require.NoError(t, repo.Set(ctx, "familyapi", "token", "new-token"))

	val, err := repo.Get(ctx, "familyapi", "token")
	require.NoError(t, err)
	assert.Equal(t, "new-token", val)
}

func TestCredentialRepo_Delete(t *testing.T) {
	repo := newPlaintextRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "familyapi", "token", "tok123"))
	require.NoError(t, repo.Delete(ctx, "familyapi", "token"))

	val, err := repo.Get(ctx, "familyapi", "token")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestCredentialRepo_List(t *testing.T) {
	repo := newPlaintextRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "familyapi", "token", "tok123"))
	require.NoError(t, repo.Set(ctx, "familyapi", "base_url", "https://api.example.com"))

	creds, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, "base_url", creds[0].Key)
	assert.Equal(t, "token", creds[1].Key)
	assert.False(t, creds[0].UpdatedAt.IsZero())
}

func TestCredentialRepo_EncryptedRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	key := make([]byte, 32)
	copy(key, "0123456789abcdef0123456789abcdef")

	repo, err := NewCredentialRepo(db, key)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "familyapi", "token", "tok123"))

	// The stored value must not be the plaintext token.
	var stored string
	err = db.Reader.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE service = ? AND key = ?`, "familyapi", "token").Scan(&stored)
	require.NoError(t, err)
	assert.NotEqual(t, "tok123", stored)

	val, err := repo.Get(ctx, "familyapi", "token")
	require.NoError(t, err)
	assert.Equal(t, "tok123", val)
}

func TestNewCredentialRepo_RejectsShortKey(t *testing.T) {
	_, err := NewCredentialRepo(setupTestDB(t), []byte("too-short"))
	require.Error(t, err)
}
