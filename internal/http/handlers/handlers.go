package handlers

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/villa-claudia/docs-portal/internal/auth"
	"github.com/villa-claudia/docs-portal/internal/booking"
	"github.com/villa-claudia/docs-portal/internal/http/response"
	"github.com/villa-claudia/docs-portal/internal/repository"
	"github.com/villa-claudia/docs-portal/internal/scheduler"
	"github.com/villa-claudia/docs-portal/internal/upload"
	"github.com/villa-claudia/docs-portal/pkg/config"
	"github.com/villa-claudia/docs-portal/pkg/logger"
	mw "github.com/villa-claudia/docs-portal/pkg/middleware"
)

type Handlers struct {
	uploads     upload.Service
	scheduler   scheduler.Service
	magicLinks  auth.MagicLinkService
	bookings    booking.Client
	reminderLog repository.ReminderLogRepository
	rateLimits  repository.RateLimitRepository
	config      *config.Config
}

func New(
	uploads upload.Service,
	sched scheduler.Service,
	magicLinks auth.MagicLinkService,
	bookings booking.Client,
	reminderLog repository.ReminderLogRepository,
	rateLimits repository.RateLimitRepository,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		uploads:     uploads,
		scheduler:   sched,
		magicLinks:  magicLinks,
		bookings:    bookings,
		reminderLog: reminderLog,
		rateLimits:  rateLimits,
		config:      cfg,
	}
}

func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/booking", h.GetBooking)
	r.Post("/upload", h.Upload)

	r.With(h.requireSchedulerKey).Post("/scheduler/document-reminders", h.TriggerReminders)

	r.Route("/auth", func(r chi.Router) {
		r.With(h.requestLinkRateLimit).Post("/request-link", h.RequestLink)
		r.Post("/verify", h.VerifyLink)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.AdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSchedulerKey)
			r.Get("/bookings/upcoming", h.ListUpcomingBookings)
			r.Get("/reminders", h.ListReminders)
			r.Get("/reminders/export", h.ExportReminders)
			r.Post("/send-reminders", h.TriggerReminders)
		})
	})

	return r
}

// requireSchedulerKey gates scheduler and admin API routes behind the
// static bearer secret. A shared-secret capability check, not real auth.
func (h *Handlers) requireSchedulerKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(w, "Unauthorized - Invalid API key")
			return
		}

		provided := strings.TrimPrefix(authHeader, "Bearer ")
		expected := h.config.Scheduler.APIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			response.Unauthorized(w, "Unauthorized - Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestLinkRateLimit caps magic-link requests per client IP. Fail open on
// store errors.
func (h *Handlers) requestLinkRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.rateLimits == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := "request_link:" + mw.ClientIP(r)
		allowed, err := h.rateLimits.CheckRateLimit(r.Context(), key, 5, time.Minute)
		if err != nil {
			logger.ErrorContext(r.Context(), "Rate limit check failed", "error", err)
		} else if !allowed {
			response.RateLimit(w, "Too many requests. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
