package models

import "time"

// Faction is the in-game faction a user declares at registration.
// The set is fixed; there is no profile-edit path that changes it.
type Faction string

const (
	FactionStalker     Faction = "STALKER"
	FactionBandit      Faction = "BANDIT"
	FactionDuty        Faction = "DUTY"
	FactionFreedom     Faction = "FREEDOM"
	FactionMercenaries Faction = "MERCENARIES"
	FactionCovenant    Faction = "COVENANT"
)

// ValidFaction reports whether f is a member of the fixed faction set.
func ValidFaction(f Faction) bool {
	switch f {
	case FactionStalker, FactionBandit, FactionDuty, FactionFreedom,
		FactionMercenaries, FactionCovenant:
		return true
	}
	return false
}

// Role is the system-level privilege of a user. New registrations always get
// RoleUser; RoleAdmin is only assignable by editing the store directly.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           int64
	Login        string
	PasswordHash string
	MainFaction  Faction
	SystemRole   Role
	CreatedAt    time.Time
}
