package driven

import (
	"context"

	"github.com/adrianwozniak/hearth/internal/domain/model"
)

// CredentialStore defines the driven port for durable credential persistence.
// The adapter layer is responsible for encryption at rest when configured;
// this interface operates on plaintext values at the domain boundary.
type CredentialStore interface {
	// Set stores or replaces the credential identified by service and key.
	Set(ctx context.Context, service, key, plaintext string) error

	// Get retrieves the plaintext credential for the given service and key.
	// Returns ("", nil) if no credential exists.
	Get(ctx context.Context, service, key string) (string, error)

	// List returns all stored credentials with plaintext values.
	List(ctx context.Context) ([]model.Credential, error)

	// Delete removes the credential for the given service and key.
	Delete(ctx context.Context, service, key string) error
}
