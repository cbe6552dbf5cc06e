package night

import (
	"fmt"
	"time"
)

// DrawMode selects how rounds are drawn for a night.
type DrawMode string

const (
	DrawModeIndividual DrawMode = "INDIVIDUAL"
	DrawModeTeam       DrawMode = "TEAM"
)

var AllDrawModes = map[DrawMode]struct{}{
	DrawModeIndividual: {},
	DrawModeTeam:       {},
}

// Night is one scheduled club gathering of up to three rounds.
type Night struct {
	ID          string
	ScheduledAt time.Time
	DrawMode    DrawMode
	MaxPlayers  *int
}

func (n Night) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("night id is required")
	}
	if n.ScheduledAt.IsZero() {
		return fmt.Errorf("night scheduled time is required")
	}
	if _, ok := AllDrawModes[n.DrawMode]; !ok {
		return fmt.Errorf("invalid night draw mode: %s", n.DrawMode)
	}
	if n.MaxPlayers != nil && *n.MaxPlayers <= 0 {
		return fmt.Errorf("night max players must be greater than zero")
	}

	return nil
}

// Attendance marks a player present or absent for a night.
// One row per (night, player); toggles are rejected once round 1 exists.
type Attendance struct {
	NightID  string
	PlayerID string
	Present  bool
}

func (a Attendance) Validate() error {
	if a.NightID == "" {
		return fmt.Errorf("attendance night id is required")
	}
	if a.PlayerID == "" {
		return fmt.Errorf("attendance player id is required")
	}

	return nil
}
