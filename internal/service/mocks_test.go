package service_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/trailmark/experiences-api/internal/domain"
	"github.com/trailmark/experiences-api/internal/repository"
)

// ---------- Mocks ----------

type mockUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User

	// hideFromFind makes FindByEmail miss, simulating a concurrent
	// signup racing past the existence check.
	hideFromFind bool
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, email, passwordHash string, role domain.Role) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	u := &domain.User{
		ID:           m.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	m.users[u.ID] = u
	m.nextID++
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideFromFind {
		return nil, nil
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type mockExperienceRepo struct {
	mu     sync.Mutex
	nextID int64
	exps   map[int64]*domain.Experience

	lastListQuery *domain.ListQuery
}

func newMockExperienceRepo() *mockExperienceRepo {
	return &mockExperienceRepo{nextID: 1, exps: make(map[int64]*domain.Experience)}
}

func (m *mockExperienceRepo) Create(_ context.Context, exp *domain.Experience) (*domain.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *exp
	cp.ID = m.nextID
	cp.Status = domain.ExperienceDraft
	cp.CreatedAt = time.Now()
	m.exps[cp.ID] = &cp
	m.nextID++
	out := cp
	return &out, nil
}

func (m *mockExperienceRepo) FindByID(_ context.Context, id int64) (*domain.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exps[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *mockExperienceRepo) UpdateStatus(_ context.Context, id int64, status domain.ExperienceStatus) (*domain.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exps[id]
	if !ok {
		return nil, nil
	}
	e.Status = status
	cp := *e
	return &cp, nil
}

func (m *mockExperienceRepo) ListPublished(_ context.Context, q domain.ListQuery) ([]domain.Experience, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	qCopy := q
	m.lastListQuery = &qCopy

	var matched []domain.Experience
	for _, e := range m.exps {
		if e.Status != domain.ExperiencePublished {
			continue
		}
		if q.Location != "" {
			if e.Location == nil || !strings.Contains(strings.ToLower(*e.Location), strings.ToLower(q.Location)) {
				continue
			}
		}
		if q.From != nil && (e.StartTime == nil || e.StartTime.Before(*q.From)) {
			continue
		}
		if q.To != nil && (e.StartTime == nil || e.StartTime.After(*q.To)) {
			continue
		}
		matched = append(matched, *e)
	}

	sort.Slice(matched, func(i, j int) bool {
		ti, tj := matched[i].StartTime, matched[j].StartTime
		if ti == nil || tj == nil {
			return ti != nil
		}
		if q.Sort == domain.SortDesc {
			return ti.After(*tj)
		}
		return ti.Before(*tj)
	})

	total := int64(len(matched))
	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type mockBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[string]*domain.Booking

	// skipFind simulates the pre-check losing a race: FindConfirmed
	// misses even though a confirmed booking exists, leaving the
	// uniqueness check in CreateConfirmed as the only guard.
	skipFind bool
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{nextID: 1, bookings: make(map[string]*domain.Booking)}
}

func bookingKey(experienceID, userID int64) string {
	return fmt.Sprintf("%d:%d", experienceID, userID)
}

func (m *mockBookingRepo) CreateConfirmed(_ context.Context, experienceID, userID int64, seats int) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := bookingKey(experienceID, userID)
	if _, exists := m.bookings[key]; exists {
		return nil, repository.ErrDuplicate
	}
	b := &domain.Booking{
		ID:           m.nextID,
		ExperienceID: experienceID,
		UserID:       userID,
		Seats:        seats,
		Status:       domain.BookingConfirmed,
		CreatedAt:    time.Now(),
	}
	m.bookings[key] = b
	m.nextID++
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepo) FindConfirmed(_ context.Context, experienceID, userID int64) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skipFind {
		return nil, nil
	}
	b, ok := m.bookings[bookingKey(experienceID, userID)]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepo) ListByUser(_ context.Context, userID int64, limit, offset int) ([]domain.Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []domain.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			matched = append(matched, *b)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}
