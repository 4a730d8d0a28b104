package application

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/internal/domain/repository"
	"github.com/oksasatya/teambuilder/pkg/metrics"
)

const (
	methodPut   = "put"
	methodPatch = "patch"

	writeTimeout = 10 * time.Second
)

// writeJob is one mirrored mutation. Op is the user-facing action name
// and ActorID the user who triggered it.
type writeJob struct {
	Method  string
	Kind    repository.Kind
	Doc     repository.Document
	Op      string
	ActorID string
}

// PersistFailure describes a backend write that did not succeed.
type PersistFailure struct {
	Op      string
	Kind    repository.Kind
	ID      string
	ActorID string
	Err     error
}

// writer drains write jobs in FIFO order on a single goroutine so that
// whole-collection backends never see writes out of order. The queue is
// unbounded: enqueue runs under the store lock and must never block on a
// slow backend.
type writer struct {
	backend repository.RecordStore
	logger  *logrus.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []writeJob
	closed bool
	wg     sync.WaitGroup
	done   chan struct{}

	fnMu      sync.RWMutex
	onFailure func(PersistFailure)
}

func newWriter(backend repository.RecordStore, logger *logrus.Logger, m *metrics.Metrics) *writer {
	w := &writer{
		backend: backend,
		logger:  logger,
		metrics: m,
		done:    make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

func (w *writer) enqueue(job writeJob) {
	if w == nil || w.backend == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		if w.logger != nil {
			w.logger.WithFields(logrus.Fields{"kind": job.Kind, "id": job.Doc.ID(), "op": job.Op}).Warn("write dropped after close")
		}
		return
	}
	w.wg.Add(1)
	w.queue = append(w.queue, job)
	w.cond.Signal()
}

// next blocks for the oldest queued job. ok is false once the writer is
// closed and drained.
func (w *writer) next() (writeJob, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.queue) == 0 && !w.closed {
		w.cond.Wait()
	}
	if len(w.queue) == 0 {
		return writeJob{}, false
	}
	job := w.queue[0]
	w.queue[0] = writeJob{}
	w.queue = w.queue[1:]
	return job, true
}

// pending is the number of queued jobs not yet picked up.
func (w *writer) pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

func (w *writer) run() {
	defer close(w.done)
	for {
		job, ok := w.next()
		if !ok {
			return
		}
		w.apply(job)
		w.wg.Done()
	}
}

func (w *writer) apply(job writeJob) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	var err error
	switch job.Method {
	case methodPut:
		err = w.backend.PutOne(ctx, job.Kind, job.Doc)
	default:
		err = w.backend.PatchOne(ctx, job.Kind, job.Doc)
	}
	if err == nil {
		w.metrics.PersistWrite(string(job.Kind), job.Method)
		return
	}

	w.metrics.PersistFailure(string(job.Kind))
	if w.logger != nil {
		w.logger.WithError(err).WithFields(logrus.Fields{
			"kind":   job.Kind,
			"id":     job.Doc.ID(),
			"op":     job.Op,
			"method": job.Method,
		}).Error("persist failed")
	}
	w.fnMu.RLock()
	fn := w.onFailure
	w.fnMu.RUnlock()
	if fn != nil {
		fn(PersistFailure{Op: job.Op, Kind: job.Kind, ID: job.Doc.ID(), ActorID: job.ActorID, Err: err})
	}
}

func (w *writer) setOnFailure(fn func(PersistFailure)) {
	w.fnMu.Lock()
	w.onFailure = fn
	w.fnMu.Unlock()
}

// wait blocks until every queued write has been attempted.
func (w *writer) wait() {
	w.wg.Wait()
}

func (w *writer) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}
