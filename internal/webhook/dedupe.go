package webhook

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const dedupeTTL = 72 * time.Hour

// Deduper claims event ids in redis so replayed deliveries become no-ops.
// SETNX makes the claim atomic across instances.
type Deduper struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewDeduper(rdb *redis.Client, log *zap.Logger) *Deduper {
	return &Deduper{rdb: rdb, log: log}
}

// Claim returns true when this delivery is the first one seen for the event.
// A redis outage lets the event through: processing twice is recoverable,
// dropping a payment event is not.
func (d *Deduper) Claim(ctx context.Context, eventID string) bool {
	ok, err := d.rdb.SetNX(ctx, "webhook:event:"+eventID, 1, dedupeTTL).Result()
	if err != nil {
		d.log.Warn("webhook dedupe unavailable, processing anyway",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		return true
	}
	return ok
}

// Release drops a claim so the processor's retry of a failed delivery is
// not swallowed as a duplicate.
func (d *Deduper) Release(ctx context.Context, eventID string) {
	if err := d.rdb.Del(ctx, "webhook:event:"+eventID).Err(); err != nil {
		d.log.Warn("webhook dedupe release failed",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
	}
}
