package mailer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultMaxRetries  = 3
	defaultRetryDelay  = time.Second
	defaultSendTimeout = 10 * time.Second
	defaultBuffer      = 1024
	defaultWorkers     = 1
)

// QueueConfig tunes the delivery queue. Zero values fall back to defaults.
type QueueConfig struct {
	MaxRetries  int
	RetryDelay  time.Duration
	SendTimeout time.Duration
	Buffer      int
	Workers     int
}

// Queue is the in-process asynchronous delivery queue. Jobs are drained in
// FIFO order by a fixed worker pool; failed sends are retried with a fixed
// delay and dead-lettered once the retry budget is spent. Jobs are not
// persisted: a process restart loses whatever was still queued.
type Queue struct {
	provider Provider
	metrics  *Metrics
	log      *zap.Logger

	maxRetries  int
	retryDelay  time.Duration
	sendTimeout time.Duration
	workers     int

	jobs     chan Job
	inflight sync.WaitGroup
}

func NewQueue(provider Provider, metrics *Metrics, log *zap.Logger, cfg QueueConfig) *Queue {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}

	return &Queue{
		provider:    provider,
		metrics:     metrics,
		log:         log,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		sendTimeout: cfg.SendTimeout,
		workers:     cfg.Workers,
		jobs:        make(chan Job, cfg.Buffer),
	}
}

// Start launches the drain workers. They run until ctx is cancelled.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		go q.drain(ctx)
	}
}

// EnqueueBulk appends jobs and returns immediately; delivery is asynchronous
// and its outcome never reaches the caller. The queued counter reflects all
// N jobs before any of them is dispatched.
func (q *Queue) EnqueueBulk(jobs []Job) {
	if len(jobs) == 0 {
		return
	}

	q.metrics.queued.Add(int64(len(jobs)))
	q.inflight.Add(len(jobs))

	for _, job := range jobs {
		select {
		case q.jobs <- job:
		default:
			// Buffer full; hand off so the caller never blocks.
			go func(j Job) { q.jobs <- j }(job)
		}
	}
}

// Shutdown waits until every accepted job reached a terminal outcome or ctx
// expires.
func (q *Queue) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.process(ctx, job)
		}
	}
}

func (q *Queue) process(ctx context.Context, job Job) {
	subject, body := BuildInvitationEmail(job)

	sendCtx, cancel := context.WithTimeout(ctx, q.sendTimeout)
	err := q.provider.Send(sendCtx, job.InviteeEmail, subject, body)
	cancel()

	if err == nil {
		q.metrics.sent.Add(1)
		q.inflight.Done()
		return
	}

	q.metrics.failed.Add(1)

	if job.Attempts < q.maxRetries {
		job.Attempts++
		q.metrics.retries.Add(1)
		q.log.Warn("invitation email failed, retrying",
			zap.String("invitationId", job.InvitationID),
			zap.Int("attempts", job.Attempts),
			zap.Error(err),
		)
		// Reschedule instead of retrying inline so one flaky recipient
		// never stalls the rest of the queue.
		time.AfterFunc(q.retryDelay, func() {
			select {
			case q.jobs <- job:
			case <-ctx.Done():
				q.inflight.Done()
			}
		})
		return
	}

	q.metrics.deadLetter.Add(1)
	q.inflight.Done()
	q.log.Error("invitation email dead-lettered",
		zap.String("invitationId", job.InvitationID),
		zap.Int("attempts", job.Attempts),
		zap.Error(err),
	)
}
