package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"magnolia-api"`
	Port                          int      `env:"PORT" env-default:"8080"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	CORSOrigins                   []string `env:"CORS_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL
	DatabaseURL                 string        `env:"DATABASE_URL" env-default:""`
	DatabaseMaxOpenConns        int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns        int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime     time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion    int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce      int           `env:"DB_MIGRATION_FORCE" env-default:"0"`

	// Ingestion
	UploadDir       string `env:"UPLOAD_DIR" env-default:"./uploads"`
	MaxUploadSizeMB int    `env:"MAX_UPLOAD_SIZE_MB" env-default:"25"`

	// Kafka (best-effort event emission on merge/promotion)
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaEventsTopic  string   `env:"KAFKA_EVENTS_TOPIC" env-default:"golden-record-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"1"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`

	// Redis (merge lock, optional fast-path)
	RedisAddr             string `env:"REDIS_ADDR" env-default:""`
	RedisMergeLockTTLMS   int    `env:"REDIS_MERGE_LOCK_TTL_MS" env-default:"5000"`

	// Matching and merging
	MatchThresholdDefault float64 `env:"MATCH_THRESHOLD_DEFAULT" env-default:"0.75"`
	AutoMergeThreshold    float64 `env:"AUTO_MERGE_THRESHOLD" env-default:"0.95"`
	MatchWorkerCount      int     `env:"MATCH_WORKER_COUNT" env-default:"4"`
}
