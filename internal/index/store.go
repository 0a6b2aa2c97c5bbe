package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtnitsch/line-index/models"
	"github.com/dtnitsch/line-index/pkg/db"
	"github.com/dtnitsch/line-index/pkg/mapreduce"
	"github.com/dtnitsch/line-index/pkg/redisstore"
)

// openStore creates the intermediate store for one run. The returned func
// drops the run's records and releases the connection.
func openStore(ctx context.Context, cfg *models.IndexConfig, runID string) (mapreduce.Store, func() error, error) {
	switch cfg.Store {
	case models.StoreSQLite:
		database, err := db.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store, err := database.NewStore(ctx, runID)
		if err != nil {
			database.Close()
			return nil, nil, err
		}
		return store, func() error {
			return errors.Join(store.Close(), database.Close())
		}, nil

	case models.StoreRedis:
		client, err := redisstore.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		store := redisstore.New(client, runID, 0)
		return store, func() error {
			return errors.Join(store.Close(), client.Close())
		}, nil

	case models.StoreMemory, "":
		store := mapreduce.NewMemoryStore()
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown store %q", models.ErrInvalidConfig, cfg.Store)
}
