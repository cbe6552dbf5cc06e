package memory

import (
	"context"
	"sort"

	"github.com/boulodrome/petanque-nights/internal/domain/night"
)

type NightRepository struct {
	store *Store
}

func NewNightRepository(store *Store) *NightRepository {
	return &NightRepository{store: store}
}

func (r *NightRepository) List(_ context.Context) ([]night.Night, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]night.Night, 0, len(r.store.nightOrder))
	for _, id := range r.store.nightOrder {
		out = append(out, cloneNight(r.store.nights[id]))
	}
	return out, nil
}

func (r *NightRepository) GetByID(_ context.Context, nightID string) (night.Night, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	n, ok := r.store.nights[nightID]
	if !ok {
		return night.Night{}, false, nil
	}
	return cloneNight(n), true, nil
}

func (r *NightRepository) SetAttendance(_ context.Context, attendance night.Attendance) error {
	if err := attendance.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rows, ok := r.store.attendance[attendance.NightID]
	if !ok {
		rows = make(map[string]night.Attendance)
		r.store.attendance[attendance.NightID] = rows
	}
	rows[attendance.PlayerID] = attendance
	return nil
}

func (r *NightRepository) ListAttendance(_ context.Context, nightID string) ([]night.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := r.store.attendance[nightID]
	out := make([]night.Attendance, 0, len(rows))
	for _, a := range rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *NightRepository) ListPresentPlayerIDs(_ context.Context, nightID string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]string, 0, len(r.store.attendance[nightID]))
	for playerID, a := range r.store.attendance[nightID] {
		if a.Present {
			out = append(out, playerID)
		}
	}
	sort.Strings(out)
	return out, nil
}
