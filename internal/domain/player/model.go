package player

import "fmt"

// Player is a club member who can attend nights and play matches.
type Player struct {
	ID          string
	DisplayName string
	IsAdmin     bool
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.DisplayName == "" {
		return fmt.Errorf("player display name is required")
	}

	return nil
}
