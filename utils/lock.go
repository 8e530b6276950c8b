package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/buildsite/sitestock_backend/config"
)

// WarehouseLock serializes stock postings for one warehouse across
// instances. The database row locks inside the posting transaction are the
// correctness mechanism; this lock only keeps concurrent postings from
// piling up on the same rows. When redis is not configured it is a no-op.
func WarehouseLock(ctx context.Context, warehouseId int, moduleName string, functionName string) (func(), error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return func() {}, nil
	}

	logger := config.GetLogger()
	lockKey := fmt.Sprintf("warehouseStockLock:%d", warehouseId)
	backoff := redislock.LinearBackoff(100 * time.Millisecond)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, &redislock.Options{RetryStrategy: backoff})
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain warehouse lock", warehouseId, err)
		return nil, fmt.Errorf("could not obtain lock for warehouse %d", warehouseId)
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining warehouse lock", warehouseId, err)
		return nil, err
	}

	release := func() {
		_ = lock.Release(ctx)
	}
	return release, nil
}
