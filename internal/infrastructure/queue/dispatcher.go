package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/madavola/tracegate/internal/api/metrics"
	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// Dispatcher routes audit records to a fixed set of workers using
// consistent hashing on the session ID, guaranteeing per-session record
// ordering. It implements ports.AuditRecorder: Record never blocks a
// request handler.
type Dispatcher struct {
	workers []chan domain.AuditRecord
	repo    ports.AuditRepository
	log     zerolog.Logger
}

var _ ports.AuditRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditRecord, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditRecord, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record sends a record to the worker responsible for its session. A full
// worker channel drops the record instead of stalling the request path;
// the audit trail is best effort.
func (d *Dispatcher) Record(rec domain.AuditRecord) {
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	idx := d.shardIndex(rec.SessionID)
	select {
	case d.workers[idx] <- rec:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditRecordsTotal.WithLabelValues("failed").Inc()
		d.log.Warn().
			Str("session_id", rec.SessionID).
			Str("action", rec.Action).
			Msg("audit queue full, record dropped")
	}
}

// shardIndex maps a session ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditRecord) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))

			insertCtx, cancel := context.WithTimeout(context.Background(), insertTimeout)
			err := d.repo.Insert(insertCtx, &rec)
			cancel()
			if err != nil {
				metrics.AuditRecordsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("session_id", rec.SessionID).
					Str("action", rec.Action).
					Int("worker_id", id).
					Msg("audit record insert failed")
				continue
			}
			metrics.AuditRecordsTotal.WithLabelValues("ok").Inc()
		}
	}
}
