package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billcraft/invoice-api/internal/domain/entity"
	"github.com/billcraft/invoice-api/pkg/apperror"
	"github.com/billcraft/invoice-api/pkg/utils"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetWithRoles(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) SetRoles(_ context.Context, user *entity.User, roles []entity.Role) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return nil
	}
	stored.Roles = roles
	user.Roles = roles
	return nil
}

type fakeRoleRepo struct {
	roles map[string]*entity.Role
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	return r.roles[name], nil
}

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	userRepo := newFakeUserRepo()
	roleRepo := &fakeRoleRepo{roles: map[string]*entity.Role{
		"invoice-reader": {
			ID:   1,
			Name: "invoice-reader",
			Permissions: []entity.Permission{
				{ID: 1, Name: "view-invoices"},
			},
		},
	}}
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(userRepo, roleRepo, jwtManager), userRepo
}

func TestRegisterAssignsReaderRole(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), &RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     " Ada@Example.com ",
		Password:  "correct-horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, []string{"invoice-reader"}, user.RoleNames())
	assert.Equal(t, []string{"view-invoices"}, user.GetPermissions())
	assert.NotEqual(t, "correct-horse", user.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	input := &RegisterInput{FirstName: "Ada", Email: "ada@example.com", Password: "correct-horse"}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{
		FirstName: "Ada", Email: "ada@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	out, err := svc.Login(ctx, &LoginInput{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, "ada@example.com", out.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{
		FirstName: "Ada", Email: "ada@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginInput{Email: "ada@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.GetAppError(err).Code)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Login(context.Background(), &LoginInput{Email: "nobody@example.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.GetAppError(err).Code)
}

func TestRefresh(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{
		FirstName: "Ada", Email: "ada@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	out, err := svc.Login(ctx, &LoginInput{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshInvalidToken(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Refresh(context.Background(), "garbage")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.GetAppError(err).Code)
}
