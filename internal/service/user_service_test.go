package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users  map[uuid.UUID]*model.User
	tokens map[string]*model.RefreshToken
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:  make(map[uuid.UUID]*model.User),
		tokens: make(map[string]*model.RefreshToken),
	}
}

func (r *stubUserRepo) add(name, username, password, role string) *model.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{ID: uuid.New(), Name: name, Username: username, Password: string(hashed), Role: role}
	r.users[u.ID] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cloned := *u
	r.users[u.ID] = &cloned
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	cloned := *u
	r.users[u.ID] = &cloned
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *u
	return &cloned, nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) ReplaceAll(_ context.Context, users []model.User) error {
	r.users = make(map[uuid.UUID]*model.User)
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return nil
}

func (r *stubUserRepo) SaveRefreshToken(_ context.Context, token *model.RefreshToken) error {
	cloned := *token
	r.tokens[token.Token] = &cloned
	return nil
}

func (r *stubUserRepo) GetRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	rt, ok := r.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *rt
	return &cloned, nil
}

func (r *stubUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *stubUserRepo) DeleteExpiredRefreshTokens(_ context.Context) error {
	for k, rt := range r.tokens {
		if time.Now().After(rt.ExpiresAt) {
			delete(r.tokens, k)
		}
	}
	return nil
}

const testSecret = "test_secret"

func TestLoginIssuesSignedToken(t *testing.T) {
	repo := newStubUserRepo()
	repo.add("Ana Admin", "ana", "s3cret123", model.RoleAdmin)
	svc := NewUserService(repo, testSecret)

	pair, err := svc.Login(context.Background(), LoginRequest{Username: "ana", Password: "s3cret123"})
	require.NoError(t, err)
	assert.Equal(t, "ana", pair.User.Username)
	assert.NotEmpty(t, pair.RefreshToken)

	parsed, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, pair.User.ID.String(), claims["sub"])
	assert.Equal(t, model.RoleAdmin, claims["role"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newStubUserRepo()
	repo.add("Ana Admin", "ana", "s3cret123", model.RoleAdmin)
	svc := NewUserService(repo, testSecret)
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginRequest{Username: "ana", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "s3cret123"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newStubUserRepo()
	repo.add("Ana Admin", "ana", "s3cret123", model.RoleAdmin)
	svc := NewUserService(repo, testSecret)
	ctx := context.Background()

	pair, err := svc.Login(ctx, LoginRequest{Username: "ana", Password: "s3cret123"})
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The presented token was consumed.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add("Ana Admin", "ana", "s3cret123", model.RoleAdmin)
	svc := NewUserService(repo, testSecret)

	repo.tokens["stale"] = &model.RefreshToken{
		UserID:    user.ID,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err := svc.Refresh(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Empty(t, repo.tokens)
}

func TestUserManagementRequiresAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, testSecret)
	sales := Actor{ID: uuid.New(), Name: "Sam Seller", Role: model.RoleSales}
	ctx := context.Background()

	_, err := svc.ListUsers(ctx, sales)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.CreateUser(ctx, sales, CreateUserRequest{Name: "N", Username: "n", Password: "longenough", Role: model.RoleSales})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	repo.add("Ana Admin", "ana", "s3cret123", model.RoleAdmin)
	svc := NewUserService(repo, testSecret)
	admin := Actor{ID: uuid.New(), Name: "Ana Admin", Role: model.RoleAdmin}

	_, err := svc.CreateUser(context.Background(), admin, CreateUserRequest{
		Name: "Other", Username: "ANA", Password: "longenough", Role: model.RoleSales,
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestDeleteUserCannotRemoveSelf(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add("Ana Admin", "ana", "s3cret123", model.RoleAdmin)
	svc := NewUserService(repo, testSecret)
	admin := Actor{ID: user.ID, Name: user.Name, Role: model.RoleAdmin}

	err := svc.DeleteUser(context.Background(), admin, user.ID.String())
	assert.ErrorIs(t, err, ErrInvalidInput)
}
