package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	users  map[int64]*User
	tokens map[string]*Token
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:  make(map[int64]*User),
		tokens: make(map[string]*Token),
		nextID: 1,
	}
}

func (m *mockRepository) List(ctx context.Context) ([]User, error) {
	var result []User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepository) Create(ctx context.Context, user User) (int64, error) {
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.ID] = &user
	return user.ID, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		u.Name = v.(string)
	}
	if v, ok := updates["password_hash"]; ok {
		u.PasswordHash = v.(string)
	}
	if v, ok := updates["is_active"]; ok {
		u.IsActive = v.(bool)
	}
	return nil
}

func (m *mockRepository) CreateToken(ctx context.Context, token Token) error {
	m.tokens[token.Value] = &token
	return nil
}

func (m *mockRepository) FindToken(ctx context.Context, value string) (*Token, error) {
	t, ok := m.tokens[value]
	if !ok {
		return nil, ErrTokenExpired
	}
	return t, nil
}

func (m *mockRepository) DeleteToken(ctx context.Context, value string) error {
	delete(m.tokens, value)
	return nil
}

// ============================================================================
// TESTS
// ============================================================================

func seedUser(t *testing.T, repo *mockRepository, email, password string, active bool) int64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	id, err := repo.Create(context.Background(), User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		IsActive:     active,
	})
	require.NoError(t, err)
	return id
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "ops@samudra.id", "rahasia-sekali", true)
	svc := NewService(repo)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ops@samudra.id", Password: "rahasia-sekali"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	user, err := svc.ResolveToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ops@samudra.id", user.Email)
}

func TestLoginNormalisesEmail(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "ops@samudra.id", "rahasia-sekali", true)
	svc := NewService(repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "  OPS@samudra.id ", Password: "rahasia-sekali"})
	require.NoError(t, err)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "ops@samudra.id", "rahasia-sekali", true)
	svc := NewService(repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ops@samudra.id", Password: "salah"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "ops@samudra.id", "rahasia-sekali", false)
	svc := NewService(repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ops@samudra.id", Password: "rahasia-sekali"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveTokenRejectsExpired(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "ops@samudra.id", "rahasia-sekali", true)
	svc := NewService(repo)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ops@samudra.id", Password: "rahasia-sekali"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(TokenTTL + time.Minute) }
	_, err = svc.ResolveToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestLogoutRevokesToken(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "ops@samudra.id", "rahasia-sekali", true)
	svc := NewService(repo)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ops@samudra.id", Password: "rahasia-sekali"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.Token))
	_, err = svc.ResolveToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestCreateHashesPassword(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	user, err := svc.Create(context.Background(), CreateRequest{
		Email:    "Admin@Samudra.ID",
		Name:     "  Admin  ",
		Password: "rahasia-sekali",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@samudra.id", user.Email)
	assert.Equal(t, "Admin", user.Name)
	assert.NotEqual(t, "rahasia-sekali", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("rahasia-sekali")))
}

func TestUpdateRehashesPassword(t *testing.T) {
	repo := newMockRepository()
	id := seedUser(t, repo, "ops@samudra.id", "rahasia-sekali", true)
	svc := NewService(repo)

	newPass := "rahasia-baru"
	user, err := svc.Update(context.Background(), id, UpdateRequest{Password: &newPass})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPass)))
}
