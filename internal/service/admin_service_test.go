package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rehabdelivery/rehab_api/internal/models"
	"github.com/rehabdelivery/rehab_api/internal/utils"
)

type fakeAdminStore struct {
	byEmail map[string]*models.AdminUser
	nextID  int64
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{byEmail: make(map[string]*models.AdminUser), nextID: 1}
}

func (s *fakeAdminStore) seed(email, password, role string, active bool) *models.AdminUser {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &models.AdminUser{
		ID: s.nextID, Email: email, PasswordHash: string(hashed), Role: role, IsActive: active,
	}
	s.nextID++
	s.byEmail[email] = user
	return user
}

func (s *fakeAdminStore) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeAdminStore) GetByID(_ context.Context, id int64) (*models.AdminUser, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeAdminStore) GetAll(_ context.Context) ([]models.AdminUser, error) {
	var users []models.AdminUser
	for _, user := range s.byEmail {
		users = append(users, *user)
	}
	return users, nil
}

func (s *fakeAdminStore) Create(_ context.Context, user *models.AdminUser) error {
	user.ID = s.nextID
	s.nextID++
	s.byEmail[user.Email] = user
	return nil
}

func (s *fakeAdminStore) UpdateRole(_ context.Context, id int64, role string) error {
	for _, user := range s.byEmail {
		if user.ID == id {
			user.Role = role
		}
	}
	return nil
}

func (s *fakeAdminStore) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	for _, user := range s.byEmail {
		if user.ID == id {
			user.LastLoginAt = &at
		}
	}
	return nil
}

func (s *fakeAdminStore) Delete(_ context.Context, id int64) error {
	for email, user := range s.byEmail {
		if user.ID == id {
			delete(s.byEmail, email)
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	setup := func() (*AdminService, *fakeAdminStore) {
		store := newFakeAdminStore()
		store.seed("admin@rehab.local", "s3cretpass", "superadmin", true)
		return NewAdminService(store), store
	}

	t.Run("email identifier", func(t *testing.T) {
		svc, store := setup()
		token, user, err := svc.Login(context.Background(), "admin@rehab.local", "s3cretpass")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "superadmin", user.Role)
		assert.NotNil(t, store.byEmail["admin@rehab.local"].LastLoginAt)
	})

	t.Run("bare username maps to local domain", func(t *testing.T) {
		svc, _ := setup()
		_, user, err := svc.Login(context.Background(), "Admin", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, "admin@rehab.local", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := setup()
		_, _, err := svc.Login(context.Background(), "admin", "wrong")
		assert.ErrorIs(t, err, utils.ErrBadCredentials)
	})

	t.Run("unknown account", func(t *testing.T) {
		svc, _ := setup()
		_, _, err := svc.Login(context.Background(), "ghost", "s3cretpass")
		assert.ErrorIs(t, err, utils.ErrBadCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		store := newFakeAdminStore()
		store.seed("off@rehab.local", "s3cretpass", "admin", false)
		svc := NewAdminService(store)
		_, _, err := svc.Login(context.Background(), "off", "s3cretpass")
		assert.ErrorIs(t, err, utils.ErrBadCredentials)
	})
}

func TestCreateAdmin(t *testing.T) {
	t.Run("normalizes identifier and role", func(t *testing.T) {
		svc := NewAdminService(newFakeAdminStore())
		user, err := svc.CreateAdmin(context.Background(), CreateAdminInput{
			Email: "Karim", Password: "longenough", Role: "Super_Admin",
		})
		require.NoError(t, err)
		assert.Equal(t, "karim@rehab.local", user.Email)
		assert.Equal(t, "superadmin", user.Role)
		assert.True(t, user.IsActive)
	})

	t.Run("short password", func(t *testing.T) {
		svc := NewAdminService(newFakeAdminStore())
		_, err := svc.CreateAdmin(context.Background(), CreateAdminInput{Email: "k", Password: "short"})
		assert.ErrorIs(t, err, utils.ErrValidation)
	})
}

func TestRemoveAdmin(t *testing.T) {
	store := newFakeAdminStore()
	a := store.seed("a@rehab.local", "s3cretpass", "superadmin", true)
	b := store.seed("b@rehab.local", "s3cretpass", "admin", true)
	svc := NewAdminService(store)

	t.Run("self removal forbidden", func(t *testing.T) {
		err := svc.RemoveAdmin(context.Background(), a.ID, a.ID)
		assert.ErrorIs(t, err, utils.ErrSelfRemoval)
	})

	t.Run("removes other account", func(t *testing.T) {
		require.NoError(t, svc.RemoveAdmin(context.Background(), b.ID, a.ID))
		err := svc.RemoveAdmin(context.Background(), b.ID, a.ID)
		assert.ErrorIs(t, err, utils.ErrAdminNotFound)
	})
}
