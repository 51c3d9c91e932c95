package model

// Family is a household group on the family API. The invite code grants
// membership on redemption; OwnerID identifies the family administrator,
// who is the only member allowed to delete tasks (server-enforced).
type Family struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	InviteCode          string  `json:"invite_code"`
	OwnerID             int64   `json:"owner_id"`
	MonthlyContribution float64 `json:"monthly_contribution"`
}
