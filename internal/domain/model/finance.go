package model

// SavingsStatus describes the current month's mandatory contribution state
// for the authenticated user plus the family-wide running total.
type SavingsStatus struct {
	PaidThisMonth      bool    `json:"paid_this_month"`
	TotalFamilySavings float64 `json:"total_family_savings"`
	PaymentAmount      float64 `json:"payment_amount"`
}

// Goal is a shared savings target. IsCompleted flips server-side once
// CurrentAmount reaches TargetAmount; the panel never computes it locally.
type Goal struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	IsCompleted   bool    `json:"is_completed"`
	FamilyID      int64   `json:"family_id"`
}

// Progress returns the goal's completion ratio clamped to [0, 1].
func (g Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount
	if p > 1 {
		return 1
	}
	return p
}
