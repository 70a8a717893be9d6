package transport

import (
	"context"
	"sort"
	"sync"

	"sweet-shop/internal/domain"
	"sweet-shop/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing
type mockUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	user.Role = role
	return user, nil
}

type mockSweetRepository struct {
	mu     sync.Mutex
	sweets map[uuid.UUID]*domain.Sweet
}

func newMockSweetRepository() *mockSweetRepository {
	return &mockSweetRepository{
		sweets: make(map[uuid.UUID]*domain.Sweet),
	}
}

func (m *mockSweetRepository) Create(ctx context.Context, sweet *domain.Sweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *sweet
	m.sweets[sweet.ID] = &copied
	return nil
}

func (m *mockSweetRepository) Update(ctx context.Context, sweet *domain.Sweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sweets[sweet.ID]; !ok {
		return repository.ErrSweetNotFound
	}
	copied := *sweet
	m.sweets[sweet.ID] = &copied
	return nil
}

func (m *mockSweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sweets[id]; !ok {
		return repository.ErrSweetNotFound
	}
	delete(m.sweets, id)
	return nil
}

func (m *mockSweetRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.sweets[id]
	if !ok {
		return nil, repository.ErrSweetNotFound
	}
	copied := *sweet
	return &copied, nil
}

func (m *mockSweetRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := make(map[uuid.UUID]*domain.Sweet)
	for _, id := range ids {
		if sweet, ok := m.sweets[id]; ok {
			copied := *sweet
			found[id] = &copied
		}
	}
	return found, nil
}

func (m *mockSweetRepository) List(ctx context.Context) ([]*domain.Sweet, error) {
	return m.Search(ctx, domain.SweetFilter{})
}

func (m *mockSweetRepository) Search(ctx context.Context, filter domain.SweetFilter) ([]*domain.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*domain.Sweet{}
	for _, sweet := range m.sweets {
		if filter.Matches(sweet) {
			copied := *sweet
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockSweetRepository) Categories(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[string]struct{})
	for _, sweet := range m.sweets {
		set[sweet.Category] = struct{}{}
	}
	categories := make([]string, 0, len(set))
	for c := range set {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

func (m *mockSweetRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*domain.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.sweets[id]
	if !ok {
		return nil, repository.ErrSweetNotFound
	}
	if sweet.Quantity+delta < 0 {
		return nil, repository.ErrInsufficientStock
	}
	if sweet.Quantity+delta > domain.MaxQuantity {
		return nil, repository.ErrStockOutOfRange
	}
	sweet.Quantity += delta
	copied := *sweet
	return &copied, nil
}

type mockPurchaseRepository struct {
	mu        sync.Mutex
	purchases []*domain.Purchase
}

func newMockPurchaseRepository() *mockPurchaseRepository {
	return &mockPurchaseRepository{}
}

func (m *mockPurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purchases = append(m.purchases, purchase)
	return nil
}

func (m *mockPurchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*domain.Purchase{}
	for i := len(m.purchases) - 1; i >= 0; i-- {
		if m.purchases[i].UserID == userID {
			result = append(result, m.purchases[i])
		}
	}
	return result, nil
}

