// Package models holds the data types shared by the storage, service
// and router layers: users, their exercises and the request/response
// payloads of the HTTP API.
package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// Exercise is a single logged activity. It has no identity of its own
// and always belongs to exactly one User.
type Exercise struct {
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

// User is a named account together with its exercises in insertion order.
type User struct {
	ID        string     `json:"_id"`
	Username  string     `json:"username"`
	Exercises []Exercise `json:"exercises"`
}

// Clone returns a deep copy so callers never share the exercises slice
// with the store.
func (u *User) Clone() *User {
	exercises := make([]Exercise, len(u.Exercises))
	copy(exercises, u.Exercises)

	return &User{
		ID:        u.ID,
		Username:  u.Username,
		Exercises: exercises,
	}
}

// Summary projects the user to the fields returned by the listing.
func (u *User) Summary() UserSummary {
	return UserSummary{
		Username: u.Username,
		ID:       u.ID,
	}
}

type UserSummary struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

// FlexString accepts both JSON strings and JSON numbers, so a duration may
// arrive as `30` or `"30"` the same way it does from an HTML form.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	// A numeric zero counts as absent, the same as an empty string.
	if value, err := num.Float64(); err == nil && value == 0 {
		*s = ""
		return nil
	}
	*s = FlexString(num.String())

	return nil
}

type CreateUserRequest struct {
	Username FlexString `json:"username" validate:"required"`
}

type AddExerciseRequest struct {
	Description FlexString `json:"description" validate:"required"`
	Duration    FlexString `json:"duration" validate:"required,numeric"`
	Date        FlexString `json:"date" validate:"omitempty,exercisedate"`
}

// DurationValue returns the numeric duration. The request must have
// been validated beforehand.
func (r *AddExerciseRequest) DurationValue() (float64, error) {
	return strconv.ParseFloat(string(r.Duration), 64)
}

type LogQuery struct {
	From  string `json:"from" validate:"omitempty,exercisedate"`
	To    string `json:"to" validate:"omitempty,exercisedate"`
	Limit string `json:"limit" validate:"omitempty,positiveint"`
}

// LogFilter is the parsed form of LogQuery. Nil bounds and a zero limit
// mean "not set".
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

type NewExercise struct {
	Description string
	Duration    float64
	Date        string
}

type AddExerciseResponse struct {
	Username    string  `json:"username"`
	ID          string  `json:"_id"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

type LogResponse struct {
	Username string     `json:"username"`
	Count    int        `json:"count"`
	ID       string     `json:"_id"`
	Log      []Exercise `json:"log"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	ExerciseResponseEntry = "entry"
	ExerciseResponseUser  = "user"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrValidation   = errors.New("validation failed")
)
