package model

// User is the authenticated profile as served by the family API.
// FamilyID is nil while the user has not created or joined a family yet;
// every protected page branches on that distinction.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	FamilyID *int64 `json:"family_id"`
}

// HasFamily reports whether the user belongs to a family.
func (u User) HasFamily() bool {
	return u.FamilyID != nil
}

// FamilyMember is the reduced member representation returned by the
// family members listing, used for task assignment choices.
type FamilyMember struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}
