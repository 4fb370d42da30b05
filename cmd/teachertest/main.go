package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/HalatsynZakhar/TeacherTest/internal/answerkey"
	api "github.com/HalatsynZakhar/TeacherTest/internal/api/http"
	"github.com/HalatsynZakhar/TeacherTest/internal/auth"
	"github.com/HalatsynZakhar/TeacherTest/internal/config"
	"github.com/HalatsynZakhar/TeacherTest/internal/db"
	"github.com/HalatsynZakhar/TeacherTest/internal/runlog"
	"github.com/HalatsynZakhar/TeacherTest/internal/scoring"
	"github.com/HalatsynZakhar/TeacherTest/internal/storage"
	"github.com/HalatsynZakhar/TeacherTest/internal/testgen"
	"github.com/HalatsynZakhar/TeacherTest/internal/variant"
	"github.com/HalatsynZakhar/TeacherTest/pkg/logger"
	"github.com/HalatsynZakhar/TeacherTest/pkg/monitoring"
)

func main() {
	cfg, err := config.Load(os.Getenv("TEACHERTEST_CONFIG_DIR"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	monitoring.Init()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbh, err := db.Open(ctx, db.Driver(cfg.DB.Driver), cfg.DB.DSN)
	if err != nil {
		zl.Fatal("db open failed", zap.Error(err))
	}
	defer dbh.Close()

	// --- Engine ---
	alpha := cfg.Alphabet()
	opts := []testgen.Option{
		testgen.WithRunLog(runlog.NewRepo(dbh)),
		testgen.WithLogger(zl),
	}
	if cfg.Export.Dir != "" {
		bs, err := storage.NewFSStore(cfg.Export.Dir)
		if err != nil {
			zl.Fatal("export store", zap.Error(err))
		}
		opts = append(opts, testgen.WithExports(bs))
	}
	svc := testgen.New(
		answerkey.NewSQLStore(dbh, cfg.DB.Driver),
		variant.New(variant.WithAlphabet(alpha)),
		scoring.NewEngine(scoring.WithAlphabet(alpha)),
		opts...,
	)

	authSvc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, auth.Account{
		Username: cfg.Auth.TeacherUser,
		PassHash: cfg.Auth.TeacherPassHash,
	})

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(api.RequestLogger(zl))
	r.Use(monitoring.Middleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		Service:         svc,
		Auth:            authSvc,
		Alphabet:        alpha,
		DefaultVariants: cfg.Test.DefaultVariants,
	})
	r.Handle("/metrics", monitoring.Handler())

	zl.Info("listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("mode", string(cfg.Server.Mode)),
		zap.String("db", cfg.DB.Driver))
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		zl.Fatal("server", zap.Error(err))
	}
}
