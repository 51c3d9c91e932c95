package model

import "time"

// Credential holds a stored credential key-value pair. Service identifies
// the external system ("familyapi"), and Key identifies the credential
// type within that service ("token").
type Credential struct {
	ID        int64
	Service   string
	Key       string
	Value     string
	UpdatedAt time.Time
}
