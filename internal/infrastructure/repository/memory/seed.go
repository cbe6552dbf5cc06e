package memory

import (
	"time"

	"github.com/boulodrome/petanque-nights/internal/domain/night"
	"github.com/boulodrome/petanque-nights/internal/domain/player"
	"github.com/boulodrome/petanque-nights/internal/domain/team"
)

const (
	NightIDFriday   = "night-friday"
	NightIDTeamCup  = "night-team-cup"
	seedMaxAttendee = 16
)

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "p-marcel", DisplayName: "Marcel Duval", IsAdmin: true},
		{ID: "p-odile", DisplayName: "Odile Garnier"},
		{ID: "p-henri", DisplayName: "Henri Blanc"},
		{ID: "p-claire", DisplayName: "Claire Fontaine"},
		{ID: "p-jules", DisplayName: "Jules Moreau"},
		{ID: "p-agnes", DisplayName: "Agnès Roche"},
		{ID: "p-leon", DisplayName: "Léon Carret"},
		{ID: "p-sofia", DisplayName: "Sofia Marchetti"},
		{ID: "p-bernard", DisplayName: "Bernard Té"},
		{ID: "p-mira", DisplayName: "Mira Kova"},
		{ID: "p-paul", DisplayName: "Paul Esteve"},
		{ID: "p-ines", DisplayName: "Inès Laval"},
	}
}

func SeedNights() []night.Night {
	maxPlayers := seedMaxAttendee
	return []night.Night{
		{
			ID:          NightIDFriday,
			ScheduledAt: time.Date(2026, 9, 4, 19, 30, 0, 0, time.UTC),
			DrawMode:    night.DrawModeIndividual,
			MaxPlayers:  &maxPlayers,
		},
		{
			ID:          NightIDTeamCup,
			ScheduledAt: time.Date(2026, 9, 11, 19, 30, 0, 0, time.UTC),
			DrawMode:    night.DrawModeTeam,
		},
	}
}

func SeedAttendance() []night.Attendance {
	present := []string{
		"p-marcel", "p-odile", "p-henri", "p-claire",
		"p-jules", "p-agnes", "p-leon", "p-sofia",
	}
	out := make([]night.Attendance, 0, len(present))
	for _, playerID := range present {
		out = append(out, night.Attendance{NightID: NightIDFriday, PlayerID: playerID, Present: true})
	}
	return out
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "t-boule-dor", Name: "Boule d'Or", PlayerIDs: []string{"p-marcel", "p-odile"}},
		{ID: "t-carreau", Name: "Carreau Club", PlayerIDs: []string{"p-henri", "p-claire"}},
		{ID: "t-cochonnet", Name: "Cochonnet FC", PlayerIDs: []string{"p-jules", "p-agnes"}},
		{ID: "t-demi-portee", Name: "Demi-Portée", PlayerIDs: []string{"p-leon", "p-sofia"}},
	}
}

// Seed loads the fixture data above into the store. Used by the dev
// storage mode and by tests that want a populated store.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range SeedPlayers() {
		s.players[p.ID] = p
		s.playerOrder = append(s.playerOrder, p.ID)
	}
	for _, n := range SeedNights() {
		s.nights[n.ID] = n
		s.nightOrder = append(s.nightOrder, n.ID)
	}
	for _, a := range SeedAttendance() {
		rows, ok := s.attendance[a.NightID]
		if !ok {
			rows = make(map[string]night.Attendance)
			s.attendance[a.NightID] = rows
		}
		rows[a.PlayerID] = a
	}
	for _, t := range SeedTeams() {
		s.teams[t.ID] = t
	}
}

// AddPlayers inserts extra players, for tests that need a specific pool.
func (s *Store) AddPlayers(players []player.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range players {
		if _, ok := s.players[p.ID]; !ok {
			s.playerOrder = append(s.playerOrder, p.ID)
		}
		s.players[p.ID] = p
	}
}

// AddNights inserts extra nights.
func (s *Store) AddNights(nights []night.Night) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range nights {
		if _, ok := s.nights[n.ID]; !ok {
			s.nightOrder = append(s.nightOrder, n.ID)
		}
		s.nights[n.ID] = n
	}
}

// AddTeams inserts extra teams.
func (s *Store) AddTeams(teams []team.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range teams {
		s.teams[t.ID] = cloneTeam(t)
	}
}
