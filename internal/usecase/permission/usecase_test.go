package permission_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hhqqrrzz1/Fitness-app-backend/internal/config"
	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/user"
	repo "github.com/hhqqrrzz1/Fitness-app-backend/internal/repository/interfaces"
	permuc "github.com/hhqqrrzz1/Fitness-app-backend/internal/usecase/permission"
)

// ==== Fake репозитория пользователей ====

type fakeUserRepo struct {
	users   map[uuid.UUID]*domain.User
	deleted []uuid.UUID
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role domain.Role) error {
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.users, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// ==== Helpers ====

func operator() *domain.User {
	u := domain.NewUser("op@example.com", "operator", "hash")
	u.Role = domain.RoleAdmin
	return u
}

func asCaller(u *domain.User) domain.Caller {
	return domain.Caller{ID: u.ID, Username: u.Username, Role: u.Role}
}

func newService(users *fakeUserRepo) permuc.Service {
	auth := &config.AuthConfig{ProtectedUsers: []string{"operator"}}
	return permuc.NewService(users, auth)
}

// ==== ToggleAdmin ====

func TestToggleAdmin_PromotesAndDemotes(t *testing.T) {
	op := operator()
	guest := domain.NewUser("g@example.com", "guest", "hash")
	users := newFakeUserRepo(op, guest)
	svc := newService(users)
	ctx := context.Background()

	// guest → admin
	updated, err := svc.ToggleAdmin(ctx, asCaller(op), guest.ID)
	require.NoError(t, err)
	require.True(t, updated.IsAdmin())

	stored, err := users.GetByID(ctx, guest.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, stored.Role)

	// admin → guest
	updated, err = svc.ToggleAdmin(ctx, asCaller(op), guest.ID)
	require.NoError(t, err)
	require.False(t, updated.IsAdmin())
}

func TestToggleAdmin_RequiresProtectedOperator(t *testing.T) {
	op := operator()
	guest := domain.NewUser("g@example.com", "guest", "hash")

	// Администратор вне списка защищённых операторов
	plainAdmin := domain.NewUser("a@example.com", "plain_admin", "hash")
	plainAdmin.Role = domain.RoleAdmin

	users := newFakeUserRepo(op, guest, plainAdmin)
	svc := newService(users)
	ctx := context.Background()

	_, err := svc.ToggleAdmin(ctx, asCaller(plainAdmin), guest.ID)
	require.ErrorIs(t, err, permuc.ErrForbidden)

	_, err = svc.ToggleAdmin(ctx, asCaller(guest), op.ID)
	require.ErrorIs(t, err, permuc.ErrForbidden)
}

func TestToggleAdmin_ProtectedTarget(t *testing.T) {
	op := operator()
	users := newFakeUserRepo(op)
	svc := newService(users)

	// Защищённого оператора нельзя переключить даже самому себе
	_, err := svc.ToggleAdmin(context.Background(), asCaller(op), op.ID)
	require.ErrorIs(t, err, permuc.ErrProtectedUser)
}

func TestToggleAdmin_TargetNotFound(t *testing.T) {
	op := operator()
	svc := newService(newFakeUserRepo(op))

	_, err := svc.ToggleAdmin(context.Background(), asCaller(op), uuid.New())
	require.ErrorIs(t, err, repo.ErrNotFound)
}

// ==== DeleteUser ====

func TestDeleteUser(t *testing.T) {
	op := operator()
	guest := domain.NewUser("g@example.com", "guest", "hash")
	users := newFakeUserRepo(op, guest)
	svc := newService(users)
	ctx := context.Background()

	require.NoError(t, svc.DeleteUser(ctx, asCaller(op), guest.ID))
	require.Contains(t, users.deleted, guest.ID)

	_, err := users.GetByID(ctx, guest.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestDeleteUser_CannotDeleteAdmin(t *testing.T) {
	op := operator()
	admin := domain.NewUser("a@example.com", "other_admin", "hash")
	admin.Role = domain.RoleAdmin
	users := newFakeUserRepo(op, admin)
	svc := newService(users)

	err := svc.DeleteUser(context.Background(), asCaller(op), admin.ID)
	require.ErrorIs(t, err, permuc.ErrTargetIsAdmin)
}

func TestDeleteUser_RequiresAdmin(t *testing.T) {
	guest := domain.NewUser("g@example.com", "guest", "hash")
	other := domain.NewUser("o@example.com", "other", "hash")
	users := newFakeUserRepo(guest, other)
	svc := newService(users)

	err := svc.DeleteUser(context.Background(), asCaller(guest), other.ID)
	require.ErrorIs(t, err, permuc.ErrForbidden)
}

// ==== GetUserIDByUsername ====

func TestGetUserIDByUsername(t *testing.T) {
	op := operator()
	guest := domain.NewUser("g@example.com", "guest", "hash")
	users := newFakeUserRepo(op, guest)
	svc := newService(users)
	ctx := context.Background()

	id, err := svc.GetUserIDByUsername(ctx, asCaller(op), "guest")
	require.NoError(t, err)
	require.Equal(t, guest.ID, id)

	_, err = svc.GetUserIDByUsername(ctx, asCaller(guest), "operator")
	require.ErrorIs(t, err, permuc.ErrForbidden)

	_, err = svc.GetUserIDByUsername(ctx, asCaller(op), "missing")
	require.ErrorIs(t, err, repo.ErrNotFound)
}
