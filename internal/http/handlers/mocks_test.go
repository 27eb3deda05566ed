package handlers_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/trailmark/experiences-api/internal/domain"
	"github.com/trailmark/experiences-api/internal/repository"
)

// In-memory repositories backing a full handler stack.

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (m *memUserRepo) Create(_ context.Context, email, passwordHash string, role domain.Role) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	u := &domain.User{ID: m.nextID, Email: email, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now()}
	m.users[u.ID] = u
	m.nextID++
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type memExperienceRepo struct {
	mu     sync.Mutex
	nextID int64
	exps   map[int64]*domain.Experience
}

func newMemExperienceRepo() *memExperienceRepo {
	return &memExperienceRepo{nextID: 1, exps: make(map[int64]*domain.Experience)}
}

func (m *memExperienceRepo) Create(_ context.Context, exp *domain.Experience) (*domain.Experience, error) {
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

func (m *memExperienceRepo) FindByID(_ context.Context, id int64) (*domain.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exps[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memExperienceRepo) UpdateStatus(_ context.Context, id int64, status domain.ExperienceStatus) (*domain.Experience, error) {
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

func (m *memExperienceRepo) ListPublished(_ context.Context, q domain.ListQuery) ([]domain.Experience, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []domain.Experience
	for _, e := range m.exps {
		if e.Status == domain.ExperiencePublished {
			matched = append(matched, *e)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

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

type memBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[string]*domain.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{nextID: 1, bookings: make(map[string]*domain.Booking)}
}

func (m *memBookingRepo) CreateConfirmed(_ context.Context, experienceID, userID int64, seatCount int) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%d:%d", experienceID, userID)
	if _, exists := m.bookings[key]; exists {
		return nil, repository.ErrDuplicate
	}
	b := &domain.Booking{
		ID:           m.nextID,
		ExperienceID: experienceID,
		UserID:       userID,
		Seats:        seatCount,
		Status:       domain.BookingConfirmed,
		CreatedAt:    time.Now(),
	}
	m.bookings[key] = b
	m.nextID++
	cp := *b
	return &cp, nil
}

func (m *memBookingRepo) FindConfirmed(_ context.Context, experienceID, userID int64) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[fmt.Sprintf("%d:%d", experienceID, userID)]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingRepo) ListByUser(_ context.Context, userID int64, limit, offset int) ([]domain.Booking, int64, error) {
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
