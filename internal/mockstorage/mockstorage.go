// Package mockstorage provides a testify-based mock implementation
// of the storage interfaces used by the service and router packages.
// It is used for unit testing error paths that the in-memory store
// never produces.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

// StorageMock is a testify mock that implements every storage method
// the application calls.
type StorageMock struct {
	mock.Mock

	// OnListUsers is an optional function field that can be assigned
	// to define custom mock behavior for ListUsers in tests.
	//
	// If set, ListUsers will delegate to this function instead of
	// using testify's generic mock handler.
	OnListUsers func(ctx context.Context) ([]models.User, error)
}

// Ping mocks the pinger interface to simulate a health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks releasing the storage.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

// SaveUser mocks storing a new user.
func (m *StorageMock) SaveUser(ctx context.Context, usr *models.User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

// IsUserExists mocks the id collision check.
func (m *StorageMock) IsUserExists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// ListUsers mocks listing all users, or delegates to OnListUsers if set.
func (m *StorageMock) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.OnListUsers != nil {
		return m.OnListUsers(ctx)
	}
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

// GetUserByID mocks fetching a single user.
func (m *StorageMock) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	usr, _ := args.Get(0).(*models.User)
	return usr, args.Error(1)
}

// AppendExercise mocks adding an exercise to a user.
func (m *StorageMock) AppendExercise(
	ctx context.Context,
	userID string,
	exercise models.Exercise,
) (*models.User, error) {
	args := m.Called(ctx, userID, exercise)
	usr, _ := args.Get(0).(*models.User)
	return usr, args.Error(1)
}
