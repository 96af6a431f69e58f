// Package writequeue runs background writes on a fixed set of shard workers.
// Jobs submitted under the same key run one at a time in submission order;
// different keys may run in parallel.
//
// Callers must not invoke Submit concurrently for the same key. Per-key FIFO
// relies on that external serialisation.
package writequeue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/DataScyther/Neeva-AI-sub000/internal/retry"
)

type queuedJob struct {
	ctx context.Context
	key string
	job Job
}

// Executor executes Jobs on workers partitioned by a stable hash of the key.
type Executor struct {
	cfg    Config
	policy retry.Policy
	log    zerolog.Logger
	queues []chan queuedJob

	done   chan struct{}
	stop   context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	wg sync.WaitGroup
}

// New constructs the executor and starts its shard workers.
func New(cfg Config, log zerolog.Logger) *Executor {
	cfg = cfg.withDefaults()
	stop, cancel := context.WithCancel(context.Background())
	policy := retry.Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseBackoff,
		MaxDelay:    cfg.MaxInterval,
	}
	e := &Executor{
		cfg:    cfg,
		policy: policy,
		log:    log.With().Str("component", "writequeue").Logger(),
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
		stop:   stop,
		cancel: cancel,
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		e.queues[i] = ch
		e.wg.Add(1)
		go e.runWorker(i, ch)
	}
	return e
}

// Submit enqueues job on the shard derived from key.
//
//   - Returns ErrClosed if the executor is stopped.
//   - Returns *QueueFullError if the shard stays full for EnqueueTimeout.
//   - Returns ctx.Err() if ctx ends first.
func (e *Executor) Submit(ctx context.Context, key string, job Job) error {
	shard := e.shardFor(key)
	return e.enqueue(ctx, shard, queuedJob{ctx: ctx, key: key, job: job})
}

// Barrier waits until every job submitted under key before the call has run.
func (e *Executor) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	if err := e.Submit(ctx, key, barrier(done)); err != nil {
		return err
	}
	return wait(ctx, done)
}

// Flush waits until every job accepted before the call has run, on all shards.
func (e *Executor) Flush(ctx context.Context) error {
	marks := make([]chan struct{}, len(e.queues))
	for i := range e.queues {
		marks[i] = make(chan struct{})
		if err := e.enqueue(ctx, i, queuedJob{ctx: ctx, job: barrier(marks[i])}); err != nil {
			return err
		}
	}
	for _, m := range marks {
		if err := wait(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Stop rejects new work, lets every worker drain its queue and waits for
// them to exit. Pending retry waits are abandoned. Stop is idempotent.
func (e *Executor) Stop() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.log.Debug().Int("shards", e.cfg.Shards).Msg("stopping, draining shards")
	close(e.done)
	e.cancel()
	e.wg.Wait()
	e.log.Debug().Msg("stopped")
}

// Close lets Executor satisfy io.Closer.
func (e *Executor) Close() error {
	e.Stop()
	return nil
}

func (e *Executor) enqueue(ctx context.Context, shard int, qj queuedJob) error {
	if e.closed.Load() {
		return ErrClosed
	}
	select {
	case <-e.done:
		return ErrClosed
	default:
	}

	ch := e.queues[shard]
	timer := time.NewTimer(e.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qj:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-e.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

func (e *Executor) runWorker(idx int, ch <-chan queuedJob) {
	defer e.wg.Done()
	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			e.execute(label, qj, true)
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-e.done:
			drained := 0
			for {
				select {
				case qj := <-ch:
					e.execute(label, qj, false)
					drained++
				default:
					if drained > 0 {
						e.log.Debug().Int("shard", idx).Int("jobs", drained).Msg("drained")
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// execute runs one job. A job whose context already ended is skipped and
// reported. Retries are only attempted while the executor is running.
func (e *Executor) execute(label string, qj queuedJob, retries bool) {
	if qj.job == nil {
		return
	}
	if err := qj.ctx.Err(); err != nil {
		e.report(label, qj.key, err)
		return
	}

	start := time.Now()
	var err error
	if retries {
		ctx, cancel := context.WithCancel(qj.ctx)
		stopRetry := context.AfterFunc(e.stop, cancel)
		err = e.policy.Do(ctx, func(ctx context.Context, attempt int) error {
			return e.runSafely(ctx, qj.job)
		})
		stopRetry()
		cancel()
	} else {
		err = e.runSafely(qj.ctx, qj.job)
	}
	runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	e.report(label, qj.key, err)
}

func (e *Executor) runSafely(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return job.Run(ctx)
}

func (e *Executor) report(label, key string, err error) {
	if err == nil {
		return
	}
	failuresTotal.WithLabelValues(label).Inc()
	if e.cfg.OnError == nil {
		e.log.Warn().Err(err).Str("key", key).Msg("write job failed")
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("error handler panicked")
		}
	}()
	e.cfg.OnError(key, err)
}

func (e *Executor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(e.cfg.Shards))
}

func barrier(done chan struct{}) Job {
	return JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
}

func wait(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
