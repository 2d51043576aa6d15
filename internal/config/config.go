package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr    string
	CORSOrigins []string
	JWTSecret   string

	// storage
	StorageDriver string
	StorageKey    string
	DBDSN         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// recommendation backend
	RecommendProvider string
	RecommendBaseURL  string
	RecommendTimeout  time.Duration
	HistoryWindow     int

	// directions / map
	KakaoRESTKey      string
	DirectionsURL     string
	DirectionsTimeout time.Duration
	MapLinkHost       string

	// rabbitMQ
	RabbitURL   string
	RabbitQueue string
}

func Load() Config {
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	driver := strings.ToLower(os.Getenv("STORAGE_DRIVER"))
	if driver == "" {
		driver = "sqlite"
	}

	storageKey := os.Getenv("STORAGE_KEY")
	if storageKey == "" {
		storageKey = "someplace_chat_sessions"
	}

	// sqlite: file:someplace.db?cache=shared
	// mysql:  app:apppass@tcp(127.0.0.1:3306)/someplace?charset=utf8mb4&parseTime=true&loc=Local
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "file:someplace.db?cache=shared"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	provider := strings.ToLower(os.Getenv("RECOMMEND_PROVIDER"))
	if provider == "" {
		provider = "http"
	}

	recommendURL := os.Getenv("RECOMMEND_BASE_URL")
	if recommendURL == "" {
		recommendURL = "https://some-place.onrender.com/"
	}

	window := 10
	if v := os.Getenv("CHAT_HISTORY_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			window = n
		}
	}

	directionsURL := os.Getenv("DIRECTIONS_URL")
	if directionsURL == "" {
		directionsURL = "https://apis-navi.kakaomobility.com/v1/directions"
	}

	mapLinkHost := os.Getenv("MAP_LINK_HOST")
	if mapLinkHost == "" {
		mapLinkHost = "map.kakao.com"
	}

	rabbitQueue := os.Getenv("RABBIT_QUEUE")
	if rabbitQueue == "" {
		rabbitQueue = "someplace_events"
	}

	return Config{
		HTTPAddr:    httpAddr,
		CORSOrigins: origins,
		JWTSecret:   os.Getenv("JWT_SECRET"),

		StorageDriver: driver,
		StorageKey:    storageKey,
		DBDSN:         dsn,
		RedisAddr:     redisAddr,
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		RecommendProvider: provider,
		RecommendBaseURL:  recommendURL,
		RecommendTimeout:  durationEnv("RECOMMEND_TIMEOUT", 30*time.Second),
		HistoryWindow:     window,

		KakaoRESTKey:      os.Getenv("KAKAO_REST_KEY"),
		DirectionsURL:     directionsURL,
		DirectionsTimeout: durationEnv("DIRECTIONS_TIMEOUT", 10*time.Second),
		MapLinkHost:       mapLinkHost,

		RabbitURL:   os.Getenv("RABBIT_URL"),
		RabbitQueue: rabbitQueue,
	}
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
