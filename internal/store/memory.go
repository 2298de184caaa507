package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps all reservation state in process memory. It backs
// the dev mode of the server (no DB configured) and the test suite.
// A single mutex serializes every mutation, which directly gives the
// check-and-set atomicity the Store contract requires.
type MemoryStore struct {
	mu    sync.Mutex
	seats []string                          // catalog, fixed at construction
	byDay map[string]map[string]string      // date -> seat name -> owner email
}

// NewMemoryStore builds a MemoryStore over the given seat catalog.
// The catalog is copied; duplicates are dropped.
func NewMemoryStore(seats []string) *MemoryStore {
	catalog := make([]string, 0, len(seats))
	seen := make(map[string]struct{}, len(seats))
	for _, s := range seats {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		catalog = append(catalog, s)
	}
	sort.Strings(catalog)
	return &MemoryStore{
		seats: catalog,
		byDay: make(map[string]map[string]string),
	}
}

// ListAvailable returns catalog seats with no reservation on the date.
func (m *MemoryStore) ListAvailable(ctx context.Context, date string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if date == "" {
		return []string{}, nil
	}
	day := m.byDay[date]
	out := make([]string, 0, len(m.seats))
	for _, s := range m.seats {
		if _, taken := day[s]; !taken {
			out = append(out, s)
		}
	}
	return out, nil
}

// ListReserved returns the date's reservations ordered by seat name.
func (m *MemoryStore) ListReserved(ctx context.Context, date string) ([]Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	day := m.byDay[date]
	out := make([]Reservation, 0, len(day))
	for seat, email := range day {
		out = append(out, Reservation{SeatName: seat, UserEmail: email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatName < out[j].SeatName })
	return out, nil
}

// Reserve claims a seat for the user. All checks and the insert happen
// under one lock acquisition, so concurrent claims for the same seat
// resolve to exactly one winner.
func (m *MemoryStore) Reserve(ctx context.Context, date, seatName, userEmail string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inCatalog(seatName) {
		return ErrUnknownSeat
	}
	day := m.byDay[date]
	if day == nil {
		day = make(map[string]string)
		m.byDay[date] = day
	}
	if _, taken := day[seatName]; taken {
		return ErrSeatTaken
	}
	for _, email := range day {
		if email == userEmail {
			return ErrUserBooked
		}
	}
	day[seatName] = userEmail
	return nil
}

// Cancel deletes the user's reservation for the seat. The ownership
// check and the delete share the same lock acquisition.
func (m *MemoryStore) Cancel(ctx context.Context, date, seatName, userEmail string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	day := m.byDay[date]
	owner, ok := day[seatName]
	if !ok {
		return ErrNotFound
	}
	if owner != userEmail {
		return ErrNotOwner
	}
	delete(day, seatName)
	if len(day) == 0 {
		delete(m.byDay, date)
	}
	return nil
}

// inCatalog reports whether the seat exists. Caller holds m.mu.
func (m *MemoryStore) inCatalog(seatName string) bool {
	i := sort.SearchStrings(m.seats, seatName)
	return i < len(m.seats) && m.seats[i] == seatName
}
