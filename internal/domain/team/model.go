package team

import "fmt"

// Team is a persistent club team used by TEAM-mode nights. PlayerIDs
// holds the roster copied verbatim into match player rows on draw.
type Team struct {
	ID        string
	Name      string
	PlayerIDs []string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
