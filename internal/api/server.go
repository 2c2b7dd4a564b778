// Package api serves the habit tracker over HTTP. Every route except the
// banner, health check and call webhook is scoped to the sync key sent in
// the Authorization header.
package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/dailypunch/internal/ai"
	"github.com/julianstephens/dailypunch/internal/constants"
	"github.com/julianstephens/dailypunch/internal/habits"
	"github.com/julianstephens/dailypunch/internal/logger"
	"github.com/julianstephens/dailypunch/internal/notifier"
	"github.com/julianstephens/dailypunch/internal/reminder"
	"github.com/julianstephens/dailypunch/internal/voice"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 64 * 1024
)

// Deps are the services the handlers call. Parser, Sender and Calls may be
// nil; their routes then answer 503.
type Deps struct {
	Habits         *habits.Service
	Parser         *ai.DateParser
	Sender         notifier.Sender
	VAPIDPublicKey string
	Calls          *voice.Service
	CronSecret     string
	AllowedOrigins []string
}

type Server struct {
	habits     *habits.Service
	parser     *ai.DateParser
	sender     notifier.Sender
	reminders  *reminder.Job
	vapidKey   string
	calls      *voice.Service
	cronSecret string
	origins    []string
	validate   *validator.Validate
}

func New(d Deps) *Server {
	s := &Server{
		habits:     d.Habits,
		parser:     d.Parser,
		sender:     d.Sender,
		vapidKey:   d.VAPIDPublicKey,
		calls:      d.Calls,
		cronSecret: d.CronSecret,
		origins:    d.AllowedOrigins,
		validate:   newValidator(),
	}
	if d.Sender != nil {
		s.reminders = reminder.NewJob(d.Habits, d.Sender)
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	return s
}

// Router returns the handler with middleware and all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Cron-Secret"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Habits Tracker API is running!"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": constants.AppName,
			"version": constants.Version,
		})
	})

	r.Post("/calls/webhook", s.callWebhook)
	r.With(s.requireCronSecret).Post("/cron/due-habits", s.cronDueHabits)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.listHabits)
			r.Post("/create", s.createHabit)
			r.Post("/delete", s.deleteHabit)
			r.Post("/rename", s.renameHabit)
			r.Post("/update-theme", s.updateTheme)
			r.Post("/update-details", s.updateDetails)
			r.Post("/log", s.logHabit)
			r.Post("/unlog", s.unlogHabit)
			r.Post("/add-notes", s.addNotes)
			r.Post("/log-natural", s.logNatural)
			r.Post("/process-voice", s.processVoice)
			r.Get("/{id}/streak", s.habitStreak)
			r.Get("/{id}/calendar", s.habitCalendar)
		})

		r.Get("/user/settings", s.getSettings)
		r.Post("/user/settings", s.updateSettings)

		r.Route("/push", func(r chi.Router) {
			r.Get("/vapid-public-key", s.vapidPublicKey)
			r.Post("/subscribe", s.subscribe)
			r.Post("/unsubscribe", s.unsubscribe)
			r.Post("/notify-due-habits", s.notifyDueHabits)
			r.Post("/test", s.testPush)
		})

		r.Post("/calls/initiate", s.initiateCall)
		r.Get("/calls/history", s.callHistory)
		r.Post("/tts/preview", s.ttsPreview)
	})

	return r
}

// requestLogger writes one line per request through the application logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"requestId", middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}

// Run serves until ctx is cancelled or the process is interrupted, then
// shuts down gracefully.
func Run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
	case sig := <-sigCh:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
