package scripts

import (
	"context"
	stderrors "errors"
	"fmt"
	goruntime "runtime"
	"sync"
	"sync/atomic"
	"time"

	"basic/pkg/driver"
	"basic/pkg/source"
)

// Job is one script queued for checking.
type Job struct {
	Index  int // submission order, echoed in the Result
	Source *source.SourceFile
}

// Result is the outcome of checking one script.
type Result struct {
	Index    int
	Path     string
	Passed   bool
	Skipped  bool   // no expectation directive
	Output   string // printed value or rendered error
	Err      error  // why the script failed or was skipped
	WorkerID int
	Duration time.Duration
}

// PoolStats contains statistics about worker pool performance
type PoolStats struct {
	TotalJobs   int           // Total jobs submitted
	ActiveJobs  int           // Currently active jobs
	PassedJobs  int           // Scripts that met their expectation
	FailedJobs  int           // Scripts that did not
	SkippedJobs int           // Scripts without an expectation
	AverageTime time.Duration // Average processing time per job
	TotalTime   time.Duration // Total time spent processing
	WorkerCount int           // Number of workers
}

// Pool checks scripts on a fixed number of goroutines. Every job runs in
// its own fresh driver.Session.
type Pool struct {
	// Configuration
	numWorkers int
	config     *driver.Config

	// Channels
	jobQueue   chan *Job
	resultChan chan *Result

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// State
	started    int32 // atomic
	stopped    int32 // atomic
	activeJobs int32 // atomic

	// Statistics
	stats      PoolStats
	statsMutex sync.RWMutex
}

// NewPool creates a pool sized by cfg.Workers (all CPUs when zero).
func NewPool(cfg *driver.Config) *Pool {
	if cfg == nil {
		cfg = driver.DefaultConfig()
	}
	numWorkers := cfg.Workers
	if numWorkers <= 0 {
		numWorkers = goruntime.NumCPU()
	}
	return &Pool{
		numWorkers: numWorkers,
		config:     cfg,
	}
}

// Start launches the workers.
func (p *Pool) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.started, 0, 1) {
		return fmt.Errorf("worker pool already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.jobQueue = make(chan *Job, p.numWorkers)
	p.resultChan = make(chan *Result, p.numWorkers)
	p.stats = PoolStats{WorkerCount: p.numWorkers}

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
	return nil
}

// Submit queues a job, blocking while the queue is full.
func (p *Pool) Submit(job *Job) error {
	if atomic.LoadInt32(&p.started) == 0 {
		return fmt.Errorf("worker pool not started")
	}
	if atomic.LoadInt32(&p.stopped) == 1 {
		return fmt.Errorf("worker pool stopped")
	}

	select {
	case p.jobQueue <- job:
		atomic.AddInt32(&p.activeJobs, 1)
		p.statsMutex.Lock()
		p.stats.TotalJobs++
		p.statsMutex.Unlock()
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Results returns the channel results are delivered on. It is closed by
// Shutdown once every worker has exited.
func (p *Pool) Results() <-chan *Result {
	return p.resultChan
}

// Shutdown stops accepting jobs and waits for the workers to drain the
// queue. Results must be consumed concurrently or the workers block.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.stopped, 0, 1) {
		return fmt.Errorf("worker pool already stopped")
	}
	close(p.jobQueue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		close(p.resultChan)
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

// Stats returns current pool statistics.
func (p *Pool) Stats() PoolStats {
	p.statsMutex.RLock()
	defer p.statsMutex.RUnlock()

	stats := p.stats
	stats.ActiveJobs = int(atomic.LoadInt32(&p.activeJobs))
	return stats
}

// work is the main worker loop.
func (p *Pool) work(id int) {
	defer p.wg.Done()

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := p.check(id, job)
			p.record(result)
			atomic.AddInt32(&p.activeJobs, -1)

			select {
			case p.resultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) record(result *Result) {
	p.statsMutex.Lock()
	defer p.statsMutex.Unlock()

	switch {
	case result.Skipped:
		p.stats.SkippedJobs++
	case result.Passed:
		p.stats.PassedJobs++
	default:
		p.stats.FailedJobs++
	}
	p.stats.TotalTime += result.Duration
	if done := p.stats.PassedJobs + p.stats.FailedJobs + p.stats.SkippedJobs; done > 0 {
		p.stats.AverageTime = p.stats.TotalTime / time.Duration(done)
	}
}

// check runs one script in a fresh session and compares the outcome with
// its expectation.
func (p *Pool) check(id int, job *Job) *Result {
	startTime := time.Now()
	result := &Result{
		Index:    job.Index,
		Path:     job.Source.DisplayPath(),
		WorkerID: id,
	}
	defer func() { result.Duration = time.Since(startTime) }()

	expectation, err := ParseExpectation(job.Source.Content)
	if err != nil {
		result.Err = err
		result.Skipped = stderrors.Is(err, ErrNoExpectation)
		return result
	}

	session := driver.NewSessionWithConfig(p.config)
	v, runErr := session.RunLines(job.Source)
	switch {
	case runErr != nil:
		result.Output = runErr.Render()
	case v != nil:
		result.Output = v.String()
	}

	if err := expectation.Check(v, runErr); err != nil {
		result.Err = err
		return result
	}
	result.Passed = true
	return result
}
