// Package router maps the HTTP API onto the service layer: it decodes and
// validates request input, calls the service and renders JSON responses.
// It also serves the landing page and the static assets.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/exercisetracker/internal/dateparser"
	"github.com/patric-chuzhbe/exercisetracker/internal/gzippedhttp"
	"github.com/patric-chuzhbe/exercisetracker/internal/logger"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
	"github.com/patric-chuzhbe/exercisetracker/internal/service"
)

const maxMultipartMemory = 1 << 20

type storage interface {
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
}

var errMalformedBody = errors.New("malformed request body")

// Router holds the HTTP handlers of the service.
type Router struct {
	service          *service.Service
	validate         *validator.Validate
	exerciseResponse string
	viewsDir         string
	staticDir        string
}

type Option func(*options)

type options struct {
	exerciseResponse string
	viewsDir         string
	staticDir        string
	serviceOptions   []service.Option
}

// WithExerciseResponse chooses what POST /api/users/{id}/exercises
// returns: models.ExerciseResponseEntry (the new entry next to the user's
// identity) or models.ExerciseResponseUser (the whole user record).
func WithExerciseResponse(mode string) Option {
	return func(o *options) {
		o.exerciseResponse = mode
	}
}

func WithViewsDir(dir string) Option {
	return func(o *options) {
		o.viewsDir = dir
	}
}

func WithStaticDir(dir string) Option {
	return func(o *options) {
		o.staticDir = dir
	}
}

func WithServiceOptions(serviceOptions ...service.Option) Option {
	return func(o *options) {
		o.serviceOptions = append(o.serviceOptions, serviceOptions...)
	}
}

// New builds the chi router with all middleware and routes.
func New(db storage, optionsProto ...Option) *chi.Mux {
	opts := &options{
		exerciseResponse: models.ExerciseResponseEntry,
		viewsDir:         "views",
		staticDir:        "public",
	}
	for _, protoOption := range optionsProto {
		protoOption(opts)
	}

	myRouter := &Router{
		service:          service.New(db, opts.serviceOptions...),
		validate:         newValidator(),
		exerciseResponse: opts.exerciseResponse,
		viewsDir:         opts.viewsDir,
		staticDir:        opts.staticDir,
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"*"},
			MaxAge:         300,
		}),
		gzippedhttp.UngzipRequest,
		gzippedhttp.GzipResponse,
	)

	router.Get(`/`, myRouter.GetIndex)
	router.Get(`/ping`, myRouter.GetPing)
	router.Handle(`/public/*`, http.StripPrefix("/public/", http.FileServer(http.Dir(myRouter.staticDir))))

	router.Route(`/api/users`, func(r chi.Router) {
		r.Post(`/`, myRouter.PostApiusers)
		r.Get(`/`, myRouter.GetApiusers)
		r.Post(`/{userID}/exercises`, myRouter.PostApiusersExercises)
		r.Get(`/{userID}/logs`, myRouter.GetApiusersLogs)
	})

	return router
}

// GetIndex serves the landing page.
func (r *Router) GetIndex(response http.ResponseWriter, request *http.Request) {
	http.ServeFile(response, request, filepath.Join(r.viewsDir, "index.html"))
}

// GetPing answers 200 while the storage is healthy.
func (r *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := r.service.Ping(request.Context()); err != nil {
		logger.Log.Errorw("storage ping failed", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}
	response.WriteHeader(http.StatusOK)
}

// PostApiusers creates a user from the `username` form or JSON field.
func (r *Router) PostApiusers(response http.ResponseWriter, request *http.Request) {
	var input models.CreateUserRequest
	err := decodeRequestBody(request, &input, func(values url.Values) {
		input.Username = models.FlexString(values.Get("username"))
	})
	if err != nil {
		writeError(response, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.validate.Struct(input); err != nil {
		writeError(response, http.StatusBadRequest, describeValidationErrors(err))
		return
	}

	usr, err := r.service.CreateUser(request.Context(), string(input.Username))
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, usr)
}

// GetApiusers lists every user as {username, _id}.
func (r *Router) GetApiusers(response http.ResponseWriter, request *http.Request) {
	users, err := r.service.ListUsers(request.Context())
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, users)
}

// PostApiusersExercises appends an exercise to the user named in the path.
func (r *Router) PostApiusersExercises(response http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "userID")

	var input models.AddExerciseRequest
	err := decodeRequestBody(request, &input, func(values url.Values) {
		input.Description = models.FlexString(values.Get("description"))
		input.Duration = models.FlexString(values.Get("duration"))
		input.Date = models.FlexString(values.Get("date"))
	})
	if err != nil {
		writeError(response, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.validate.Struct(input); err != nil {
		writeError(response, http.StatusBadRequest, describeValidationErrors(err))
		return
	}

	duration, err := input.DurationValue()
	if err != nil {
		writeError(response, http.StatusBadRequest, "duration must be a number")
		return
	}

	usr, exercise, err := r.service.AddExercise(request.Context(), userID, models.NewExercise{
		Description: string(input.Description),
		Duration:    duration,
		Date:        string(input.Date),
	})
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	if r.exerciseResponse == models.ExerciseResponseUser {
		writeJSON(response, http.StatusOK, usr)
		return
	}

	writeJSON(response, http.StatusOK, models.AddExerciseResponse{
		Username:    usr.Username,
		ID:          usr.ID,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date,
	})
}

// GetApiusersLogs returns the user's exercise log narrowed by the optional
// from, to and limit query parameters.
func (r *Router) GetApiusersLogs(response http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "userID")

	query := request.URL.Query()
	input := models.LogQuery{
		From:  query.Get("from"),
		To:    query.Get("to"),
		Limit: query.Get("limit"),
	}
	if err := r.validate.Struct(input); err != nil {
		writeError(response, http.StatusBadRequest, describeValidationErrors(err))
		return
	}

	filter, err := toLogFilter(input)
	if err != nil {
		writeError(response, http.StatusBadRequest, err.Error())
		return
	}

	logResponse, err := r.service.GetLog(request.Context(), userID, filter)
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, logResponse)
}

func toLogFilter(input models.LogQuery) (models.LogFilter, error) {
	var filter models.LogFilter

	if input.From != "" {
		from, err := dateparser.Parse(input.From)
		if err != nil {
			return models.LogFilter{}, errors.New("from must be a valid date")
		}
		filter.From = &from
	}

	if input.To != "" {
		to, err := dateparser.Parse(input.To)
		if err != nil {
			return models.LogFilter{}, errors.New("to must be a valid date")
		}
		filter.To = &to
	}

	if input.Limit != "" {
		limit, err := parsePositiveInt(input.Limit)
		if err != nil {
			return models.LogFilter{}, errors.New("limit must be a positive integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}

func (r *Router) writeServiceError(response http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		writeError(response, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUserNotFound):
		writeError(response, http.StatusNotFound, models.ErrUserNotFound.Error())
	default:
		logger.Log.Errorw("request failed", zap.Error(err))
		writeError(response, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// decodeRequestBody fills target from a JSON body, or calls fromForm with
// the parsed url-encoded or multipart form for any other content type.
// An empty JSON body leaves target untouched, so validation reports the
// missing fields.
func decodeRequestBody(request *http.Request, target interface{}, fromForm func(url.Values)) error {
	mediaType, _, _ := mime.ParseMediaType(request.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		err := json.NewDecoder(request.Body).Decode(target)
		if err != nil && !errors.Is(err, io.EOF) {
			return errMalformedBody
		}
		return nil

	case "multipart/form-data":
		if err := request.ParseMultipartForm(maxMultipartMemory); err != nil {
			return errMalformedBody
		}

	default:
		if err := request.ParseForm(); err != nil {
			return errMalformedBody
		}
	}

	fromForm(request.PostForm)

	return nil
}

func writeJSON(response http.ResponseWriter, status int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)

	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugw("error while writing the response", zap.Error(err))
	}
}

func writeError(response http.ResponseWriter, status int, message string) {
	writeJSON(response, status, models.ErrorResponse{Error: message})
}
