// Package mockapi serves the admin REST surface from memory. It backs
// `homeadmin mock-server` and the end-to-end tests.
package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"go.safehomi.dev/homeadmin/internal/entity"
)

const maxBodyBytes = 1 << 20

// Options configures a Server. Zero values fall back to development
// defaults.
type Options struct {
	Secret        string
	AdminEmail    string
	AdminPassword string
	TokenTTL      time.Duration
	Logger        *zap.Logger
	Now           func() time.Time
}

const (
	DefaultAdminEmail    = "admin@safehomi.test"
	DefaultAdminPassword = "admin"
	defaultSecret        = "homeadmin-mock-secret"
	defaultTokenTTL      = 24 * time.Hour
)

type Server struct {
	opts     Options
	store    store
	validate *validator.Validate
	logger   *zap.Logger
}

func New(opts Options) *Server {
	if opts.Secret == "" {
		opts.Secret = defaultSecret
	}
	if opts.AdminEmail == "" {
		opts.AdminEmail = DefaultAdminEmail
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = DefaultAdminPassword
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		opts:     opts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   opts.Logger.Named("mockapi"),
	}
}

// Seed replaces every record.
func (s *Server) Seed(listings []entity.Listing, inquiries []entity.Inquiry) {
	s.store.seed(listings, inquiries)
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/auth/admin/login", s.login)

	r.Route("/real-estate", func(r chi.Router) {
		r.Use(s.requireAdmin)

		r.Get("/all", s.listListings)

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", s.listInquiries)
			r.Get("/{id}", s.getInquiry)
			r.Post("/{id}", s.setInquiryStatus)
			r.Delete("/{id}", s.deleteInquiry)
		})

		r.Get("/{id}", s.getListing)
		r.Post("/{id}", s.setListingStatus)
		r.Delete("/{id}", s.deleteListing)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	return r
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// errorBody is what the backend sends with non-2xx statuses.
type errorBody struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Success: false, Msg: msg})
}

// parseJSON decodes and validates a request body.
func (s *Server) parseJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			parts := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(parts, "; "))
		}
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}
