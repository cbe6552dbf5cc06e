package night

import "context"

// Repository describes night and attendance persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Night, error)
	GetByID(ctx context.Context, nightID string) (Night, bool, error)
	SetAttendance(ctx context.Context, attendance Attendance) error
	ListAttendance(ctx context.Context, nightID string) ([]Attendance, error)
	ListPresentPlayerIDs(ctx context.Context, nightID string) ([]string, error)
}
