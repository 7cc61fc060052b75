package storage

import (
	"context"

	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

// Storage is the full contract a user store has to satisfy to back the
// application.
type Storage interface {
	SaveUser(ctx context.Context, usr *models.User) error

	IsUserExists(ctx context.Context, userID string) (bool, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	AppendExercise(
		ctx context.Context,
		userID string,
		exercise models.Exercise,
	) (*models.User, error)

	Ping(ctx context.Context) error

	Close() error
}
