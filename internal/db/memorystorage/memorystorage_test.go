package memorystorage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

func Test(t *testing.T) {
	t.Run("The base memorystorage package test", func(t *testing.T) {
		ctx := context.Background()

		theStorage, err := New()
		require.NoError(t, err, "The memorystorage.New() should not return error")

		users, err := theStorage.ListUsers(ctx)
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)

		err = theStorage.SaveUser(ctx, &models.User{ID: "1", Username: "alice"})
		assert.NoError(t, err, "The `theStorage.SaveUser()` should not return error")
		err = theStorage.SaveUser(ctx, &models.User{ID: "2", Username: "bob"})
		assert.NoError(t, err)

		err = theStorage.SaveUser(ctx, &models.User{ID: "1", Username: "mallory"})
		assert.Error(t, err, "The duplicated id should be rejected")

		exists, err := theStorage.IsUserExists(ctx, "2")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = theStorage.IsUserExists(ctx, "3")
		require.NoError(t, err)
		assert.False(t, exists)

		users, err = theStorage.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Username)
		assert.Equal(t, "bob", users[1].Username)

		usr, err := theStorage.AppendExercise(ctx, "1", models.Exercise{Description: "run", Duration: 30, Date: "2023-01-01"})
		require.NoError(t, err)
		usr, err = theStorage.AppendExercise(ctx, "1", models.Exercise{Description: "swim", Duration: 45, Date: "2023-01-02"})
		require.NoError(t, err)
		require.Len(t, usr.Exercises, 2)
		assert.Equal(t, "swim", usr.Exercises[1].Description)

		_, err = theStorage.AppendExercise(ctx, "404", models.Exercise{Description: "run", Duration: 1})
		assert.ErrorIs(t, err, models.ErrUserNotFound)

		_, err = theStorage.GetUserByID(ctx, "404")
		assert.ErrorIs(t, err, models.ErrUserNotFound)

		err = theStorage.Ping(ctx)
		assert.NoError(t, err, "The memorystorage.Ping() should not return error")

		err = theStorage.Close()
		assert.NoError(t, err, "The memorystorage.Close() should not return error")
	})
}

func TestReturnedUsersAreCopies(t *testing.T) {
	ctx := context.Background()
	theStorage, err := New()
	require.NoError(t, err)

	original := &models.User{ID: "1", Username: "alice", Exercises: []models.Exercise{}}
	require.NoError(t, theStorage.SaveUser(ctx, original))
	original.Username = "changed after save"

	usr, err := theStorage.GetUserByID(ctx, "1")
	require.NoError(t, err)
	usr.Exercises = append(usr.Exercises, models.Exercise{Description: "sneaky"})
	usr.Username = "changed after read"

	stored, err := theStorage.GetUserByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
	assert.Empty(t, stored.Exercises)
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	theStorage, err := New()
	require.NoError(t, err)
	require.NoError(t, theStorage.SaveUser(ctx, &models.User{ID: "1", Username: "alice"}))

	const writers = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := theStorage.AppendExercise(ctx, "1", models.Exercise{Description: fmt.Sprintf("ex-%d", i), Duration: 1})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	usr, err := theStorage.GetUserByID(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, usr.Exercises, writers)
}
