package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hr-training-api/internal/config"
	"github.com/iliyamo/hr-training-api/internal/database"
	"github.com/iliyamo/hr-training-api/internal/handler"
	"github.com/iliyamo/hr-training-api/internal/logging"
	"github.com/iliyamo/hr-training-api/internal/middleware"
	"github.com/iliyamo/hr-training-api/internal/queue"
	"github.com/iliyamo/hr-training-api/internal/repository"
	"github.com/iliyamo/hr-training-api/internal/repository/memory"
	"github.com/iliyamo/hr-training-api/internal/router"
	"github.com/iliyamo/hr-training-api/internal/seed"
	"github.com/iliyamo/hr-training-api/internal/service"
	"github.com/iliyamo/hr-training-api/internal/utils"
)

// stores is the persistence backend selected by STORE_DRIVER.
type stores struct {
	users       service.UserStore
	tokens      service.TokenStore
	courseTypes service.CourseTypeStore
	courses     service.CourseStore
	employees   service.EmployeeStore
	enrollments service.EnrollmentStore
	db          *sql.DB // nil for the memory driver
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("using in-memory store; data is lost on restart")
		m := memory.New()
		return stores{
			users:       m.Users(),
			tokens:      m.Tokens(),
			courseTypes: m.CourseTypes(),
			courses:     m.Courses(),
			employees:   m.Employees(),
			enrollments: m.Enrollments(),
		}, nil
	}

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return stores{}, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return stores{}, err
	}
	return stores{
		users:       repository.NewUserRepo(db),
		tokens:      repository.NewTokenRepo(db),
		courseTypes: repository.NewCourseTypeRepo(db),
		courses:     repository.NewCourseRepo(db),
		employees:   repository.NewEmployeeRepo(db),
		enrollments: repository.NewEmployeeCourseRepo(db),
		db:          db,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("production", "info").Fatal("config", zap.Error(err))
	}
	log := logging.New(cfg.Env, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	if st.db != nil {
		defer st.db.Close()
	}

	issuer, err := utils.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.AccessTTL)
	if err != nil {
		log.Fatal("token issuer", zap.Error(err))
	}

	var pub queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled {
		pub = queue.NewAMQPPublisher(cfg.RabbitURL, log)
	}

	auth, err := service.NewAuthService(st.users, st.tokens, issuer, service.AuthConfig{
		RefreshTTL: cfg.Auth.RefreshTTL,
		BcryptCost: cfg.Auth.BcryptCost,
		Password: utils.PasswordPolicy{
			MinLength:    cfg.Auth.PasswordMinLength,
			RequireDigit: cfg.Auth.PasswordRequireDigit,
		},
		ReuseDetection: cfg.Auth.ReuseDetection,
	}, log)
	if err != nil {
		log.Fatal("auth service", zap.Error(err))
	}
	courseTypes := service.NewCourseTypeService(st.courseTypes, pub, log)
	courses := service.NewCourseService(st.courses, st.courseTypes, pub, log)
	employees := service.NewEmployeeService(st.employees, pub, log)
	enrollments := service.NewEmployeeCourseService(st.enrollments, st.employees, st.courses, pub, log)

	if cfg.SeedDemoData {
		if err := seed.Demo(ctx, seed.Stores{
			CourseTypes: st.courseTypes,
			Courses:     st.courses,
			Employees:   st.employees,
			Enrollments: st.enrollments,
		}, log); err != nil {
			log.Fatal("seed demo data", zap.Error(err))
		}
	}

	rdb := config.NewRedisClient(ctx, cfg.Redis)
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting and response cache disabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		defer rdb.Close()
	}

	e := router.New(router.Options{
		Log:         log,
		Development: cfg.IsDevelopment(),
		RateLimit:   middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
	})
	var pinger handler.Pinger
	if st.db != nil {
		pinger = st.db
	}
	router.RegisterRoutes(e, pinger)
	router.RegisterAuth(e, handler.NewAuthHandler(auth), issuer)
	router.RegisterAPI(e, router.API{
		CourseTypes:     handler.NewCourseTypeHandler(courseTypes),
		Courses:         handler.NewCourseHandler(courses),
		Employees:       handler.NewEmployeeHandler(employees),
		EmployeeCourses: handler.NewEmployeeCourseHandler(enrollments),
	}, issuer, middleware.NewResponseCache(cfg.Cache, rdb, log))

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("stopped")
}
