package filter

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/locofilter/logger"
)

// progressInterval is the minimum gap between two progress lines
const progressInterval = 2 * time.Second

// progress counts finished buckets and logs the count, throttled so a large
// backup does not flood the log
type progress struct {
	total int
	done  atomic.Int64
	every *rate.Sometimes
	log   *zap.SugaredLogger
}

func newProgress(log *zap.SugaredLogger, total int) *progress {
	return &progress{
		total: total,
		every: &rate.Sometimes{First: 1, Interval: progressInterval},
		log:   log,
	}
}

func (p *progress) step() {
	n := p.done.Add(1)
	p.every.Do(func() {
		p.log.Infow("Progress", logger.FieldCount, n, logger.FieldTotalCount, p.total)
	})
}

// tracked wraps task so every finished bucket advances p, failed ones included
func tracked[T any](p *progress, task Task[T]) Task[T] {
	return func(ctx context.Context, key string) (T, error) {
		defer p.step()
		return task(ctx, key)
	}
}
