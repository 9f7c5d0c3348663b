// Package model defines the core domain types shared across the application.
package model

// ClientStatus is the bank's segment label for a client.
type ClientStatus string

// Client statuses as found in the profile table.
const (
	StatusRegular ClientStatus = "regular"
	StatusStudent ClientStatus = "student"
	StatusPremium ClientStatus = "premium"
)

// ParseClientStatus maps a raw profile-table status label to a ClientStatus.
// Unknown labels fall back to StatusRegular.
func ParseClientStatus(raw string) ClientStatus {
	switch raw {
	case "Студент", "student":
		return StatusStudent
	case "Премиальный клиент", "premium":
		return StatusPremium
	default:
		return StatusRegular
	}
}

// ClientProfile is one row of the population profile table. Profiles are
// loaded once per batch and never mutated during scoring.
type ClientProfile struct {
	ClientID          int64
	Name              string
	Status            ClientStatus
	AvgMonthlyBalance float64
}
