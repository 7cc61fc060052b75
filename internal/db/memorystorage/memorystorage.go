// Package memorystorage keeps users and their exercises in process memory.
// Nothing is ever removed and nothing survives a restart.
package memorystorage

import (
	"context"
	"fmt"
	"sync"

	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

// MemoryStorage is safe for concurrent use. Reads return copies, so a
// caller can never observe or cause a partial write.
type MemoryStorage struct {
	mu       sync.RWMutex
	users    []*models.User
	idToUser map[string]*models.User
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		users:    []*models.User{},
		idToUser: map[string]*models.User{},
	}, nil
}

// SaveUser appends usr to the store. The id must not be taken yet.
func (theStorage *MemoryStorage) SaveUser(ctx context.Context, usr *models.User) error {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	if _, exists := theStorage.idToUser[usr.ID]; exists {
		return fmt.Errorf("in internal/db/memorystorage/memorystorage.go/SaveUser(): user id %q is already taken", usr.ID)
	}

	stored := usr.Clone()
	theStorage.users = append(theStorage.users, stored)
	theStorage.idToUser[stored.ID] = stored

	return nil
}

// IsUserExists reports whether id is already taken.
func (theStorage *MemoryStorage) IsUserExists(ctx context.Context, userID string) (bool, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	_, exists := theStorage.idToUser[userID]

	return exists, nil
}

func (theStorage *MemoryStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	result := make([]models.User, 0, len(theStorage.users))
	for _, usr := range theStorage.users {
		result = append(result, *usr.Clone())
	}

	return result, nil
}

// GetUserByID returns models.ErrUserNotFound for an unknown id.
func (theStorage *MemoryStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	usr, found := theStorage.idToUser[userID]
	if !found {
		return nil, models.ErrUserNotFound
	}

	return usr.Clone(), nil
}

// AppendExercise adds exercise as the last entry of the user's sequence
// and returns the updated user.
func (theStorage *MemoryStorage) AppendExercise(
	ctx context.Context,
	userID string,
	exercise models.Exercise,
) (*models.User, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	usr, found := theStorage.idToUser[userID]
	if !found {
		return nil, models.ErrUserNotFound
	}
	usr.Exercises = append(usr.Exercises, exercise)

	return usr.Clone(), nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}
