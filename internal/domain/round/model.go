package round

import "fmt"

// Round is one numbered stage of a night. At most one round may exist
// per (night, number); the storage layer enforces this with a unique
// index so concurrent draws race on the insert itself.
type Round struct {
	ID      string
	NightID string
	Number  int
}

func (r Round) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("round id is required")
	}
	if r.NightID == "" {
		return fmt.Errorf("round night id is required")
	}
	if r.Number < 1 {
		return fmt.Errorf("round number must be 1 or greater")
	}

	return nil
}

// Bye marks a player sitting out a round because the ranked pool did
// not divide evenly into groups of four.
type Bye struct {
	RoundID  string
	PlayerID string
}
