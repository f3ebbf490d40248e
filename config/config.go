package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName            string `env:"APP_NAME" env-default:"foodgraph"`
	Port               int    `env:"PORT" env-default:"3004"`
	LogLevel           string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs         bool   `env:"PRETTY_LOGS" env-default:"false"`
	StartupMaxAttempts int    `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`
	OTLPEndpoint       string `env:"OTLP_ENDPOINT" env-default:""`

	// MongoDB (product catalog source)
	MongoURI        string        `env:"MONGO_URI" env-default:""`
	MongoDatabase   string        `env:"MONGO_DB_NAME" env-default:"openfoods"`
	MongoCollection string        `env:"MONGO_COLLECTION_NAME" env-default:"openfoodfacts_products"`
	MongoTimeout    time.Duration `env:"MONGO_TIMEOUT" env-default:"10s"`

	// Record source selection
	SourceKind string `env:"SOURCE_KIND" env-default:"mongo" validate:"oneof=mongo kafka"`

	// Kafka (alternative record source)
	KafkaBrokers       []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaInputTopic    string   `env:"KAFKA_INPUT_TOPIC" env-default:"product-records"`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" env-default:"foodgraph-consumer"`

	// Kafka Producer (run lifecycle events)
	KafkaEventsEnabled bool   `env:"KAFKA_EVENTS_ENABLED" env-default:"false"`
	KafkaEventsTopic   string `env:"KAFKA_EVENTS_TOPIC" env-default:"foodgraph-events"`
	KafkaBatchSize     int    `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout  int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks  int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression   string `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Graph sink
	SinkKind       string `env:"SINK_KIND" env-default:"tsv" validate:"oneof=tsv bolt"`
	OutputTSVFile  string `env:"OUTPUT_TSV_FILE" env-default:"neo4j_bulk_data.tsv"`
	GraphBatchSize int    `env:"GRAPH_BATCH_SIZE" env-default:"500"`

	// Graph Database (Memgraph/Neo4j, bolt sink only)
	GraphDBHost     string `env:"GRAPH_DB_HOST" env-default:"localhost"`
	GraphDBPort     int    `env:"GRAPH_DB_PORT" env-default:"7687"`
	GraphDBUser     string `env:"GRAPH_DB_USER" env-default:""`
	GraphDBPassword string `env:"GRAPH_DB_PASSWORD" env-default:""`

	// Vectorizer
	QdrantHost       string `env:"QDRANT_HOST" env-default:"localhost"`
	QdrantPort       int    `env:"QDRANT_PORT" env-default:"6334"`
	QdrantAPIKey     string `env:"QDRANT_API_KEY" env-default:""`
	QdrantUseTLS     bool   `env:"QDRANT_USE_TLS" env-default:"false"`
	QdrantCollection string `env:"QDRANT_COLLECTION_NAME" env-default:"product_vectors"`
	VectorDimension  uint64 `env:"VECTOR_DIMENSION" env-default:"768"`
	VectorBatchSize  int    `env:"VECTOR_BATCH_SIZE" env-default:"100"`
	EmbeddingModel   string `env:"EMBEDDING_MODEL_NAME" env-default:"gemini-embedding-001"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY" env-default:""`
}

// Load reads the configuration from the environment (a .env file is applied
// first when present) and validates it.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to read config from environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
