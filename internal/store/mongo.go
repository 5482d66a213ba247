// Package store persists invoices and extraction records in MongoDB.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/invoice-agent/backend/internal/logger"
)

// ErrNotFound reports a lookup for a record that does not exist.
var ErrNotFound = errors.New("record not found")

// Connect opens a client and verifies the connection, retrying the
// ping a few times to ride out container start ordering.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 5; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if err == nil {
			logger.Sugar.Info("connected to mongodb")
			return client, nil
		}
		logger.Sugar.Infow("mongodb ping failed, retrying in 2s", "attempt", attempt+1, "error", err)
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, err
}
