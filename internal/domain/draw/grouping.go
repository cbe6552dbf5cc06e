package draw

// GroupSize is the number of players per doubles match.
const GroupSize = 4

// GroupByFour splits a ranked player list into consecutive groups of
// four, preserving order. The trailing remainder of size 1 to 3 becomes
// the byes for the round.
func GroupByFour(playerIDs []string) (groups [][]string, byes []string) {
	full := len(playerIDs) / GroupSize * GroupSize
	for i := 0; i < full; i += GroupSize {
		group := append([]string(nil), playerIDs[i:i+GroupSize]...)
		groups = append(groups, group)
	}
	byes = append([]string(nil), playerIDs[full:]...)
	return groups, byes
}
