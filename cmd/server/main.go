package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/skku-swe/someplace/internal/activity"
	"github.com/skku-swe/someplace/internal/config"
	"github.com/skku-swe/someplace/internal/db"
	"github.com/skku-swe/someplace/internal/directions"
	"github.com/skku-swe/someplace/internal/events"
	"github.com/skku-swe/someplace/internal/httpapi"
	"github.com/skku-swe/someplace/internal/httpapi/handlers"
	"github.com/skku-swe/someplace/internal/kv"
	"github.com/skku-swe/someplace/internal/recommend"
	"github.com/skku-swe/someplace/internal/store/rabbitmq"
	"github.com/skku-swe/someplace/internal/workspace"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.Load()

	var gdb *gorm.DB
	if cfg.StorageDriver == "sqlite" || cfg.StorageDriver == "mysql" {
		var err error
		gdb, err = db.Open(cfg.StorageDriver, cfg.DBDSN)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
	}

	store, err := openStore(cfg, gdb)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	var actRepo *activity.Repo
	if gdb != nil {
		actRepo, err = activity.NewRepo(gdb)
		if err != nil {
			log.Fatalf("activity: %v", err)
		}
	}

	var pub events.Publisher = events.Nop{}
	switch {
	case cfg.RabbitURL != "":
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Fatalf("rabbit publisher: %v", err)
		}
		defer p.Close()
		pub = p
	case actRepo != nil:
		pub = actRepo
	}

	reg := recommend.NewRegistry()
	reg.Register("http", func() (recommend.Recommender, error) {
		return recommend.NewHTTPClient(cfg.RecommendBaseURL, cfg.RecommendTimeout), nil
	})
	reg.Register("mock", func() (recommend.Recommender, error) {
		return recommend.Mock{Delay: 500 * time.Millisecond}, nil
	})
	rec, err := reg.Get(cfg.RecommendProvider)
	if err != nil {
		log.Fatalf("recommend: %v", err)
	}

	if cfg.KakaoRESTKey == "" {
		log.Printf("KAKAO_REST_KEY is not set; route requests will fail")
	}
	router := directions.NewClient(cfg.KakaoRESTKey, cfg.DirectionsURL, cfg.DirectionsTimeout)

	workspaces := workspace.NewRegistry(workspace.Deps{
		Store:         store,
		StorageKey:    cfg.StorageKey,
		Recommender:   rec,
		Router:        router,
		Publisher:     pub,
		HistoryWindow: cfg.HistoryWindow,
	})

	h := handlers.NewHandler(cfg, workspaces, actRepo)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(cfg, h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("server listening addr=%s storage=%s recommend=%s", cfg.HTTPAddr, cfg.StorageDriver, cfg.RecommendProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func openStore(cfg config.Config, gdb *gorm.DB) (kv.Store, error) {
	switch cfg.StorageDriver {
	case "sqlite", "mysql":
		s, err := kv.NewGormStore(gdb)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return kv.NewRedisStore(rdb), nil
	case "memory":
		return kv.NewMemoryStore(), nil
	default:
		return nil, errors.New("unsupported STORAGE_DRIVER: " + cfg.StorageDriver)
	}
}
