package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chemist-edu/apiserver/config"
	"github.com/chemist-edu/apiserver/internal/db"
	"github.com/chemist-edu/apiserver/internal/events"
	"github.com/chemist-edu/apiserver/internal/handlers"
	"github.com/chemist-edu/apiserver/internal/logging"
	"github.com/chemist-edu/apiserver/internal/roles"
	"github.com/chemist-edu/apiserver/internal/services"
	"github.com/chemist-edu/apiserver/internal/storage"
	"github.com/chemist-edu/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     events.Backend
	logger     logging.Logger
}

// New constructs a Server with all dependencies wired from config.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := logging.Default()

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	eventsBackend, err := newEventsBackend(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	publisher := events.NewPublisher(eventsBackend, logger)

	receipts, err := newReceipts(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		if eventsBackend != nil {
			_ = eventsBackend.Close()
		}
		return nil, err
	}

	accountRepo := store.NewAccountRepository(dbConn)
	refreshRepo := store.NewRefreshTokenRepository(dbConn)
	studentRepo := store.NewStudentRepository(dbConn)
	teacherRepo := store.NewTeacherRepository(dbConn)
	groupRepo := store.NewGroupRepository(dbConn)
	schoolRepo := store.NewSchoolRepository(dbConn)
	roomRepo := store.NewRoomRepository(dbConn)
	feeRepo := store.NewFeeRepository(dbConn)
	paymentRepo := store.NewPaymentRepository(dbConn)
	scheduleRepo := store.NewScheduleRepository(dbConn)
	gradeRepo := store.NewGradeRepository(dbConn)

	authService := services.NewAuthService(accountRepo, refreshRepo, cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	accountService := services.NewAccountService(accountRepo, publisher)
	studentService := services.NewStudentService(studentRepo)
	teacherService := services.NewTeacherService(teacherRepo)
	groupService := services.NewGroupService(groupRepo)
	schoolService := services.NewSchoolService(schoolRepo)
	roomService := services.NewRoomService(roomRepo)
	feeService := services.NewFeeService(feeRepo)
	paymentService := services.NewPaymentService(paymentRepo, receipts, publisher)
	scheduleService := services.NewScheduleService(scheduleRepo)
	gradeService := services.NewGradeService(gradeRepo)

	authHandler := handlers.NewAuthHandler(authService)
	authMiddleware := authHandler.RequireAuth
	adminMiddleware := handlers.RequireRole(authService, roles.Admin)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authService)
	})
	router.Route("/accounts", func(r chi.Router) {
		handlers.AccountRouter(r, accountService, authMiddleware, adminMiddleware)
	})
	router.Route("/students", func(r chi.Router) {
		handlers.StudentRouter(r, studentService, authMiddleware)
	})
	router.Route("/teachers", func(r chi.Router) {
		handlers.TeacherRouter(r, teacherService, authMiddleware)
	})
	router.Route("/groups", func(r chi.Router) {
		handlers.GroupRouter(r, groupService, feeService, authMiddleware)
	})
	router.Route("/schools", func(r chi.Router) {
		handlers.SchoolRouter(r, schoolService, authMiddleware)
	})
	router.Route("/rooms", func(r chi.Router) {
		handlers.RoomRouter(r, roomService, authMiddleware)
	})
	router.Route("/fees", func(r chi.Router) {
		handlers.FeeRouter(r, feeService, authMiddleware, adminMiddleware)
	})
	router.Route("/payments", func(r chi.Router) {
		handlers.PaymentRouter(r, paymentService, authMiddleware)
	})
	router.Route("/schedules", func(r chi.Router) {
		handlers.ScheduleRouter(r, scheduleService, authMiddleware)
	})
	router.Route("/grades", func(r chi.Router) {
		handlers.GradeRouter(r, gradeService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     eventsBackend,
		logger:     logger,
	}, nil
}

// newEventsBackend constructs the configured broker backend; a blank
// backend disables event publishing.
func newEventsBackend(ctx context.Context, cfg config.Config) (events.Backend, error) {
	switch cfg.MQ.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		return events.NewRabbitMQBackend(cfg.MQ.RabbitMQ)
	case "pubsub":
		return events.NewPubSubBackend(ctx, cfg.MQ.PubSub)
	default:
		return nil, fmt.Errorf("unknown mq backend: %q", cfg.MQ.Backend)
	}
}

// newReceipts constructs the configured object storage; a blank backend
// disables receipt handling.
func newReceipts(ctx context.Context, cfg config.Config) (*storage.Receipts, error) {
	switch cfg.Storage.Backend {
	case "":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Storage.Minio)
		if err != nil {
			return nil, err
		}
		receipts := storage.NewReceipts(client)
		if err := receipts.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return receipts, nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.Storage.GCS)
		if err != nil {
			return nil, err
		}
		receipts := storage.NewReceipts(client)
		if err := receipts.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return receipts, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.events != nil {
		_ = s.events.Close()
	}
	return s.httpServer.Close()
}
