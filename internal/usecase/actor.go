package usecase

// Actor is the authenticated caller on write paths, resolved from a
// bearer token at the HTTP boundary.
type Actor struct {
	PlayerID string
	IsAdmin  bool
}
