package source

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yoloeats/foodgraph/pkg/tracing"
)

// MongoConfig holds the connection settings for the product collection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// MongoProvider streams product documents from a MongoDB collection.
type MongoProvider struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     ectologger.Logger
	filter     bson.M
	projection bson.M
}

// graphFeedFilter selects documents worth relationalizing: a usable code and
// at least one field the pipeline can derive facts from.
func graphFeedFilter() bson.M {
	return bson.M{
		"code": bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
		"$or": bson.A{
			bson.M{"ingredients_text": bson.M{"$exists": true, "$nin": bson.A{nil, ""}}},
			bson.M{"ingredients_text_en": bson.M{"$exists": true, "$nin": bson.A{nil, ""}}},
			bson.M{"allergens_tags": bson.M{"$exists": true, "$ne": bson.A{}}},
			bson.M{"traces_tags": bson.M{"$exists": true, "$ne": bson.A{}}},
			bson.M{"labels_tags": bson.M{"$exists": true, "$ne": bson.A{}}},
		},
	}
}

// NewMongoGraphFeed connects and prepares the document stream for the graph
// pipeline. Only the fields the pipeline reads are projected.
func NewMongoGraphFeed(ctx context.Context, cfg MongoConfig, logger ectologger.Logger) (*MongoProvider, error) {
	projection := bson.M{
		"code":                1,
		"product_name":        1,
		"product_name_en":     1,
		"generic_name":        1,
		"generic_name_en":     1,
		"ingredients_text":    1,
		"ingredients_text_en": 1,
		"allergens_tags":      1,
		"traces_tags":         1,
		"labels_tags":         1,
	}
	return newMongoProvider(ctx, cfg, logger, graphFeedFilter(), projection)
}

// NewMongoVectorFeed connects and prepares the document stream for the
// vectorizer, which additionally needs category and brand tags.
func NewMongoVectorFeed(ctx context.Context, cfg MongoConfig, logger ectologger.Logger) (*MongoProvider, error) {
	projection := bson.M{
		"code":                1,
		"product_name":        1,
		"product_name_en":     1,
		"generic_name":        1,
		"generic_name_en":     1,
		"ingredients_text":    1,
		"ingredients_text_en": 1,
		"categories_tags":     1,
		"brands_tags":         1,
		"traces_tags":         1,
		"labels_tags":         1,
	}
	return newMongoProvider(ctx, cfg, logger, graphFeedFilter(), projection)
}

func newMongoProvider(ctx context.Context, cfg MongoConfig, logger ectologger.Logger, filter, projection bson.M) (*MongoProvider, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	return &MongoProvider{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		logger:     logger,
		filter:     filter,
		projection: projection,
	}, nil
}

// Ping verifies the server is reachable.
func (p *MongoProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, nil)
}

// Count returns the number of documents the stream will yield.
func (p *MongoProvider) Count(ctx context.Context) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "source.MongoProvider.Count")
	defer span.End()

	count, err := p.collection.CountDocuments(ctx, p.filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// Each walks the cursor and hands every decoded document to fn. The first fn
// error aborts the walk.
func (p *MongoProvider) Each(ctx context.Context, fn func(ctx context.Context, rec Record) error) error {
	ctx, span := tracing.StartSpan(ctx, "source.MongoProvider.Each")
	defer span.End()

	cursor, err := p.collection.Find(ctx, p.filter, options.Find().SetProjection(p.projection))
	if err != nil {
		return fmt.Errorf("failed to open cursor: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var rec Record
		if err := cursor.Decode(&rec); err != nil {
			return fmt.Errorf("failed to decode document: %w", err)
		}
		if err := fn(ctx, rec); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("cursor failed: %w", err)
	}
	return nil
}

// Close disconnects from the server.
func (p *MongoProvider) Close(ctx context.Context) error {
	if err := p.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
