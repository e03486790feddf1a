package resolver

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoConfig configures ConnectMongo.
type MongoConfig struct {
	ConnectionURL  string        `env:"MONGODB_URL"`                              // ConnectionURL is the URL of the deployment.
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"` // ConnectTimeout is the driver connect timeout.
	MaxPoolSize    uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"20"`    // MaxPoolSize is the maximum number of pooled connections.
	RetryAttempts  int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`    // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`   // RetryInterval is the pause between attempts.
}

// ConnectMongo connects and pings, retrying up to cfg.RetryAttempts times.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	for range cfg.RetryAttempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetMaxPoolSize(cfg.MaxPoolSize),
		)
		if err == nil {
			if err := client.Ping(ctx, nil); err == nil {
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnectToMongo, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrFailedToConnectToMongo
}

// Counter counts documents matching filter.
type Counter func(ctx context.Context, filter any) (int64, error)

// CollectionCounter counts in coll, stopping at the first match.
func CollectionCounter(coll *mongo.Collection) Counter {
	return func(ctx context.Context, filter any) (int64, error) {
		return coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	}
}

// MongoField checks whether a document with the value exists in one field.
type MongoField struct {
	count Counter
	field string
}

// NewMongoField returns a checker over field using count.
func NewMongoField(count Counter, field string) *MongoField {
	return &MongoField{count: count, field: field}
}

func (m *MongoField) Exists(ctx context.Context, value string) (bool, error) {
	n, err := m.count(ctx, bson.D{{Key: m.field, Value: value}})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MongoHealthcheck returns a probe for client.
func MongoHealthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
