package company

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	profile *Profile
}

func (m *mockRepository) Get(ctx context.Context) (*Profile, error) {
	if m.profile == nil {
		return nil, ErrNotFound
	}
	copied := *m.profile
	return &copied, nil
}

func (m *mockRepository) Upsert(ctx context.Context, p Profile) (*Profile, error) {
	p.ID = 1
	p.UpdatedAt = time.Now()
	m.profile = &p
	return m.Get(ctx)
}

func TestGetBeforeSeed(t *testing.T) {
	svc := NewService(&mockRepository{})

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCreatesAndNormalises(t *testing.T) {
	svc := NewService(&mockRepository{})

	profile, err := svc.Update(context.Background(), UpdateRequest{
		Name:  "  PT Samudra Niaga  ",
		City:  "Surabaya",
		Email: "Info@Samudra.ID ",
		TaxID: "01.234.567.8-901.000",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ID)
	assert.Equal(t, "PT Samudra Niaga", profile.Name)
	assert.Equal(t, "info@samudra.id", profile.Email)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Surabaya", got.City)
}

func TestUpdateReplacesExisting(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), UpdateRequest{Name: "PT Samudra Niaga", Phone: "031-555001"})
	require.NoError(t, err)

	profile, err := svc.Update(context.Background(), UpdateRequest{Name: "PT Samudra Niaga Tbk"})
	require.NoError(t, err)
	assert.Equal(t, "PT Samudra Niaga Tbk", profile.Name)
	assert.Empty(t, profile.Phone)
}
