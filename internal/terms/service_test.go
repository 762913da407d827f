package terms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	terms  map[int64]*PaymentTerm
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{terms: make(map[int64]*PaymentTerm), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, req ListRequest) ([]PaymentTerm, int, error) {
	var result []PaymentTerm
	for _, t := range m.terms {
		if req.IsActive != nil && t.IsActive != *req.IsActive {
			continue
		}
		result = append(result, *t)
	}
	return result, len(result), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*PaymentTerm, error) {
	t, ok := m.terms[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockRepository) Create(ctx context.Context, term PaymentTerm) (*PaymentTerm, error) {
	term.ID = m.nextID
	m.nextID++
	m.terms[term.ID] = &term
	copied := term
	return &copied, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	t, ok := m.terms[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		t.Name = v.(string)
	}
	if v, ok := updates["days"]; ok {
		t.Days = v.(int)
	}
	if v, ok := updates["is_active"]; ok {
		t.IsActive = v.(bool)
	}
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.terms[id]; !ok {
		return ErrNotFound
	}
	delete(m.terms, id)
	return nil
}

func TestCreatePaymentTerm(t *testing.T) {
	svc := NewService(newMockRepository())

	term, err := svc.Create(context.Background(), CreateRequest{Name: "NET 30", Days: 30})
	require.NoError(t, err)
	assert.Equal(t, "NET 30", term.Name)
	assert.Equal(t, 30, term.Days)
	assert.True(t, term.IsActive)
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), CreateRequest{Name: "   ", Days: 14})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestCreateRejectsNegativeDays(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), CreateRequest{Name: "NET -1", Days: -1})
	assert.ErrorIs(t, err, ErrInvalidDays)
}

func TestCreateAllowsCashOnDelivery(t *testing.T) {
	svc := NewService(newMockRepository())

	term, err := svc.Create(context.Background(), CreateRequest{Name: "COD", Days: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, term.Days)
}

func TestUpdatePaymentTerm(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), CreateRequest{Name: "NET 30", Days: 30})
	require.NoError(t, err)

	days := 45
	inactive := false
	updated, err := svc.Update(context.Background(), created.ID, UpdateRequest{Days: &days, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.Days)
	assert.False(t, updated.IsActive)
}

func TestUpdateMissingTerm(t *testing.T) {
	svc := NewService(newMockRepository())

	days := 45
	_, err := svc.Update(context.Background(), 99, UpdateRequest{Days: &days})
	assert.ErrorIs(t, err, ErrNotFound)
}
