package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/exercisetracker/internal/dateparser"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

const TriesToGenerateUniqueID = 10

type userKeeper interface {
	SaveUser(ctx context.Context, usr *models.User) error

	IsUserExists(ctx context.Context, userID string) (bool, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

type exerciseKeeper interface {
	AppendExercise(
		ctx context.Context,
		userID string,
		exercise models.Exercise,
	) (*models.User, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	userKeeper
	exerciseKeeper
	pinger
}

var ErrUniqueIDAttemptsExceeded = errors.New("the number of attempts to generate a unique user id has been exceeded")

type Service struct {
	db         storage
	now        func() time.Time
	generateID func() string
}

type Option func(*Service)

// WithClock replaces time.Now, which decides the default exercise date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(generate func() string) Option {
	return func(s *Service) {
		s.generateID = generate
	}
}

func New(db storage, optionsProto ...Option) *Service {
	s := &Service{
		db:         db,
		now:        time.Now,
		generateID: uuid.NewString,
	}
	for _, protoOption := range optionsProto {
		protoOption(s)
	}

	return s
}

// CreateUser stores a new user with an empty exercise log.
func (s *Service) CreateUser(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", models.ErrValidation)
	}

	userID, err := s.generateUniqueID(ctx)
	if err != nil {
		return nil, err
	}

	usr := &models.User{
		ID:        userID,
		Username:  username,
		Exercises: []models.Exercise{},
	}
	if err := s.db.SaveUser(ctx, usr); err != nil {
		return nil, fmt.Errorf("in internal/service/service.go/CreateUser(): error while `s.db.SaveUser()` calling: %w", err)
	}

	return usr, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.db.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	return funk.Map(users, func(usr models.User) models.UserSummary {
		return usr.Summary()
	}).([]models.UserSummary), nil
}

// AddExercise appends an exercise to the user's log and returns the
// updated user along with the stored entry.
func (s *Service) AddExercise(
	ctx context.Context,
	userID string,
	newExercise models.NewExercise,
) (*models.User, models.Exercise, error) {
	exercise := models.Exercise{
		Description: strings.TrimSpace(newExercise.Description),
		Duration:    newExercise.Duration,
		Date:        newExercise.Date,
	}
	if exercise.Date == "" {
		exercise.Date = dateparser.Format(s.now())
	}

	usr, err := s.db.AppendExercise(ctx, userID, exercise)
	if err != nil {
		return nil, models.Exercise{}, err
	}

	return usr, exercise, nil
}

// GetLog returns the user's exercises narrowed by filter. Range bounds are
// applied first, the limit last, and insertion order is kept throughout.
func (s *Service) GetLog(ctx context.Context, userID string, filter models.LogFilter) (*models.LogResponse, error) {
	usr, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	log := FilterExercises(usr.Exercises, filter)

	return &models.LogResponse{
		Username: usr.Username,
		Count:    len(log),
		ID:       usr.ID,
		Log:      log,
	}, nil
}

// FilterExercises never returns nil. An entry whose date cannot be parsed
// is dropped as soon as any bound is set.
func FilterExercises(exercises []models.Exercise, filter models.LogFilter) []models.Exercise {
	result := make([]models.Exercise, len(exercises))
	copy(result, exercises)

	if filter.From != nil || filter.To != nil {
		result = funk.Filter(result, func(exercise models.Exercise) bool {
			date, err := dateparser.Parse(exercise.Date)
			if err != nil {
				return false
			}
			if filter.From != nil && date.Before(*filter.From) {
				return false
			}
			if filter.To != nil && date.After(*filter.To) {
				return false
			}
			return true
		}).([]models.Exercise)
	}

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Service) generateUniqueID(ctx context.Context) (string, error) {
	for i := 0; i < TriesToGenerateUniqueID; i++ {
		userID := s.generateID()
		exists, err := s.db.IsUserExists(ctx, userID)
		if err != nil {
			return "", err
		}
		if !exists {
			return userID, nil
		}
	}

	return "", ErrUniqueIDAttemptsExceeded
}
