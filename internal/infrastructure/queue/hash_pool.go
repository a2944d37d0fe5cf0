package queue

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/buildtrack/procurement-api/internal/api/metrics"
	"github.com/buildtrack/procurement-api/internal/core/domain"
)

const jobBuffer = 256

// ErrPoolStopped is returned for jobs submitted after the pool's context
// was cancelled.
var ErrPoolStopped = errors.New("hash pool stopped")

type jobKind int

const (
	jobHash jobKind = iota
	jobCompare
)

func (k jobKind) String() string {
	if k == jobCompare {
		return "compare"
	}
	return "hash"
}

type hashJob struct {
	kind     jobKind
	password string
	hash     string
	result   chan hashResult
}

type hashResult struct {
	hash  string
	match bool
	err   error
}

// HashPool runs bcrypt on a fixed set of workers so CPU-heavy hashing is
// capped at N concurrent operations regardless of request volume.
type HashPool struct {
	jobs    chan hashJob
	workers int
	cost    int
	done    chan struct{}
	log     zerolog.Logger
}

// NewHashPool creates a HashPool with numWorkers workers hashing at the given
// bcrypt cost. If numWorkers <= 0, GOMAXPROCS is used.
func NewHashPool(numWorkers, cost int, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &HashPool{
		jobs:    make(chan hashJob, jobBuffer),
		workers: numWorkers,
		cost:    cost,
		done:    make(chan struct{}),
		log:     log,
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (p *HashPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		close(p.done)
	}()
	p.log.Info().Int("workers", p.workers).Int("cost", p.cost).Msg("hash pool started")
}

// Hash returns the bcrypt hash of password.
func (p *HashPool) Hash(ctx context.Context, password string) (string, error) {
	res, err := p.submit(ctx, hashJob{kind: jobHash, password: password})
	if err != nil {
		return "", err
	}
	return res.hash, res.err
}

// Compare reports whether password matches hash. A mismatch is not an error.
func (p *HashPool) Compare(ctx context.Context, hash, password string) (bool, error) {
	res, err := p.submit(ctx, hashJob{kind: jobCompare, hash: hash, password: password})
	if err != nil {
		return false, err
	}
	return res.match, res.err
}

// submit enqueues job and waits for its result. The caller abandons the wait
// when ctx ends or the pool stops; a worker that still finishes the job drops
// the result into the buffered channel.
func (p *HashPool) submit(ctx context.Context, job hashJob) (hashResult, error) {
	job.result = make(chan hashResult, 1)

	// Counted before the send so a worker's Dec never precedes it.
	metrics.HashQueueDepth.Inc()
	select {
	case <-p.done:
		metrics.HashQueueDepth.Dec()
		return hashResult{}, ErrPoolStopped
	case <-ctx.Done():
		metrics.HashQueueDepth.Dec()
		return hashResult{}, ctx.Err()
	case p.jobs <- job:
	}

	select {
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	case <-p.done:
		return hashResult{}, ErrPoolStopped
	case res := <-job.result:
		return res, nil
	}
}

func (p *HashPool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			metrics.HashQueueDepth.Dec()
			job.result <- p.execute(job, id)
		}
	}
}

func (p *HashPool) execute(job hashJob, id int) hashResult {
	start := time.Now()
	defer func() {
		metrics.PasswordHashDuration.WithLabelValues(job.kind.String()).Observe(time.Since(start).Seconds())
	}()

	switch job.kind {
	case jobCompare:
		err := bcrypt.CompareHashAndPassword([]byte(job.hash), []byte(job.password))
		switch {
		case err == nil:
			return hashResult{match: true}
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return hashResult{}
		default:
			p.log.Error().Err(err).Int("worker_id", id).Msg("password compare failed")
			return hashResult{err: fmt.Errorf("compare password: %w", err)}
		}
	default:
		h, err := bcrypt.GenerateFromPassword([]byte(job.password), p.cost)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return hashResult{err: &domain.ValidationError{Message: "password must be at most 72 bytes", Err: err}}
		}
		if err != nil {
			p.log.Error().Err(err).Int("worker_id", id).Msg("password hash failed")
			return hashResult{err: fmt.Errorf("hash password: %w", err)}
		}
		return hashResult{hash: string(h)}
	}
}
