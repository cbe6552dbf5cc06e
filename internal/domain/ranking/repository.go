package ranking

import "context"

// Repository describes ranking persistence needs from use cases.
// Per-match increments happen inside the result repository's resolution
// transaction; ReplaceAll supports the full rebuild job.
type Repository interface {
	List(ctx context.Context, kind SubjectKind) ([]Ranking, error)
	GetBySubject(ctx context.Context, kind SubjectKind, subjectID string) (Ranking, bool, error)
	ReplaceAll(ctx context.Context, kind SubjectKind, rankings []Ranking) error
}
