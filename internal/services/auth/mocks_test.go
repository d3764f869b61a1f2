package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/identity-service/internal/models"
	"github.com/magabrotheeeer/identity-service/internal/storage"
)

// fakeDB подменяет единицу работы: выполняет fn над заранее
// собранным scope без реальной транзакции.
type fakeDB struct {
	scope    *storage.Scope
	beginErr error
}

func (f *fakeDB) Do(_ context.Context, _ bool, fn func(s *storage.Scope) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(f.scope)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Insert(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) RetrieveByID(ctx context.Context, uid uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, uid)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) RetrieveByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) RetrieveByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) RetrieveByEmailOrLogin(ctx context.Context, email, login string) (*models.User, error) {
	args := m.Called(ctx, email, login)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) ChangeEmail(ctx context.Context, uid uuid.UUID, email string) (*models.User, error) {
	args := m.Called(ctx, uid, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) ChangeLogin(ctx context.Context, uid uuid.UUID, login string) (*models.User, error) {
	args := m.Called(ctx, uid, login)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) ChangePassword(ctx context.Context, uid uuid.UUID, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, uid, passwordHash)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) UpdateAdditionalInfo(ctx context.Context, uid uuid.UUID, fields models.UserAdditionalFields) (*models.User, error) {
	args := m.Called(ctx, uid, fields)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type RoleRepositoryMock struct {
	mock.Mock
}

func (m *RoleRepositoryMock) Insert(ctx context.Context, role models.Role) (*models.Role, error) {
	args := m.Called(ctx, role)
	r, _ := args.Get(0).(*models.Role)
	return r, args.Error(1)
}

func (m *RoleRepositoryMock) RetrieveByID(ctx context.Context, roleID uuid.UUID) (*models.Role, error) {
	args := m.Called(ctx, roleID)
	r, _ := args.Get(0).(*models.Role)
	return r, args.Error(1)
}

func (m *RoleRepositoryMock) RetrieveByName(ctx context.Context, name string) (*models.Role, error) {
	args := m.Called(ctx, name)
	r, _ := args.Get(0).(*models.Role)
	return r, args.Error(1)
}

func (m *RoleRepositoryMock) RetrieveBaseRole(ctx context.Context) (*models.Role, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*models.Role)
	return r, args.Error(1)
}

func (m *RoleRepositoryMock) UpdateAccessLevel(ctx context.Context, roleID uuid.UUID, level models.AccessLevel) (*models.Role, error) {
	args := m.Called(ctx, roleID, level)
	r, _ := args.Get(0).(*models.Role)
	return r, args.Error(1)
}

func (m *RoleRepositoryMock) UpdateDescription(ctx context.Context, roleID uuid.UUID, description string) (*models.Role, error) {
	args := m.Called(ctx, roleID, description)
	r, _ := args.Get(0).(*models.Role)
	return r, args.Error(1)
}

func (m *RoleRepositoryMock) Delete(ctx context.Context, roleID uuid.UUID) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

type UserServiceRepositoryMock struct {
	mock.Mock
}

func (m *UserServiceRepositoryMock) Insert(ctx context.Context, roleID uuid.UUID) (*models.UserService, error) {
	args := m.Called(ctx, roleID)
	s, _ := args.Get(0).(*models.UserService)
	return s, args.Error(1)
}

func (m *UserServiceRepositoryMock) RetrieveByID(ctx context.Context, uid uuid.UUID) (*models.UserService, error) {
	args := m.Called(ctx, uid)
	s, _ := args.Get(0).(*models.UserService)
	return s, args.Error(1)
}

func (m *UserServiceRepositoryMock) UpdateActiveStatus(ctx context.Context, uid uuid.UUID, active bool) (*models.UserService, error) {
	args := m.Called(ctx, uid, active)
	s, _ := args.Get(0).(*models.UserService)
	return s, args.Error(1)
}

func (m *UserServiceRepositoryMock) UpdateVerificationStatus(ctx context.Context, uid uuid.UUID, verified bool) (*models.UserService, error) {
	args := m.Called(ctx, uid, verified)
	s, _ := args.Get(0).(*models.UserService)
	return s, args.Error(1)
}

func (m *UserServiceRepositoryMock) UpdateRole(ctx context.Context, uid, roleID uuid.UUID) (*models.UserService, error) {
	args := m.Called(ctx, uid, roleID)
	s, _ := args.Get(0).(*models.UserService)
	return s, args.Error(1)
}

type LoginHistoryRepositoryMock struct {
	mock.Mock
}

func (m *LoginHistoryRepositoryMock) Insert(ctx context.Context, entry models.LoginHistory) (*models.LoginHistory, error) {
	args := m.Called(ctx, entry)
	e, _ := args.Get(0).(*models.LoginHistory)
	return e, args.Error(1)
}

func (m *LoginHistoryRepositoryMock) RetrieveByID(ctx context.Context, entryID uuid.UUID) (*models.LoginHistory, error) {
	args := m.Called(ctx, entryID)
	e, _ := args.Get(0).(*models.LoginHistory)
	return e, args.Error(1)
}

func (m *LoginHistoryRepositoryMock) RetrieveByUserID(ctx context.Context, uid uuid.UUID) ([]*models.LoginHistory, error) {
	args := m.Called(ctx, uid)
	e, _ := args.Get(0).([]*models.LoginHistory)
	return e, args.Error(1)
}

type EventPublisherMock struct {
	mock.Mock
}

func (m *EventPublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}
