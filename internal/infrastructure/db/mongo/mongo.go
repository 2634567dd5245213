package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "library-records"
)

// Config holds the audit database settings. An empty URI disables Mongo.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Enabled reports whether an audit database was configured.
func (c Config) Enabled() bool {
	return c.URI != ""
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// clientOptions bounds server selection and dialing by the configured timeout,
// so an unreachable audit store fails startup instead of hanging it.
func clientOptions(cfg Config) *options.ClientOptions {
	t := cfg.timeout()
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(t).
		SetConnectTimeout(t)
}

// Connect dials MongoDB, pings it and returns the client together with the
// audit database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}
