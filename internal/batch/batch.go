package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/signalwatch/signalwatch/internal/model"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency bounds simultaneous scans. Registry quota is shared
// across all scans through the rate gate, so this limits memory and
// connection pressure rather than request rate.
const defaultConcurrency = 4

// checkpointInterval is how many completed seeds trigger a checkpoint save.
const checkpointInterval = 10

// ScanFunc runs one network scan from a single seed company.
type ScanFunc func(ctx context.Context, seed string) (*model.Network, error)

// Result is the outcome of one seed's scan. Err is set when the scan
// failed; Network may still hold a partial snapshot in that case.
type Result struct {
	Seed    string
	Network *model.Network
	Err     error
}

// Processor runs scans for a list of seeds with bounded concurrency and
// periodic checkpointing.
type Processor struct {
	scan        ScanFunc
	concurrency int
	logger      *slog.Logger
	checkpoint  *Checkpoint

	mu        sync.Mutex
	completed int
}

// Option configures a Processor.
type Option func(*Processor)

// WithConcurrency sets the maximum number of simultaneous scans.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLogger sets the logger for batch-level progress.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithCheckpoint enables checkpoint/resume through the given checkpoint.
func WithCheckpoint(cp *Checkpoint) Option {
	return func(p *Processor) {
		p.checkpoint = cp
	}
}

// NewProcessor creates a batch processor around a scan function.
//
// A ScanFunc is taken rather than a scanner instance so each seed can
// get fresh crawl state while sharing the rate gate and HTTP client
// owned by the caller.
func NewProcessor(scan ScanFunc, opts ...Option) *Processor {
	p := &Processor{
		scan:        scan,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Run scans every seed and returns results in seed order.
//
// Seeds already recorded in the checkpoint are skipped with a nil
// result entry. Per-seed failures are stored in the result, not
// returned; the error return reports cancellation only.
func (p *Processor) Run(ctx context.Context, seeds []string) ([]Result, error) {
	p.logger.Info("starting batch scan",
		"total_seeds", len(seeds),
		"concurrency", p.concurrency,
	)
	startTime := time.Now()

	results := make([]Result, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, seed := range seeds {
		i, seed := i, seed
		if p.checkpoint != nil && p.checkpoint.Done(seed) {
			p.logger.Info("seed already completed, skipping", "seed", seed)
			results[i] = Result{Seed: seed}
			continue
		}

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			p.logger.Info("scanning seed",
				"seed", seed,
				"index", i+1,
				"total", len(seeds),
			)

			network, err := p.scan(ctx, seed)
			results[i] = Result{Seed: seed, Network: network, Err: err}

			if err != nil {
				p.logger.Warn("seed scan failed", "seed", seed, "error", err)
				return nil
			}

			p.recordCompletion(seed)
			return nil
		})
	}

	err := g.Wait()

	if p.checkpoint != nil {
		if saveErr := p.checkpoint.Save(); saveErr != nil {
			p.logger.Warn("final checkpoint save failed", "error", saveErr)
		}
	}

	p.logger.Info("batch scan complete",
		"total_seeds", len(seeds),
		"elapsed", time.Since(startTime),
	)
	return results, err
}

// recordCompletion marks a seed done and saves the checkpoint every
// checkpointInterval completions.
func (p *Processor) recordCompletion(seed string) {
	if p.checkpoint == nil {
		return
	}

	p.mu.Lock()
	p.checkpoint.MarkDone(seed)
	p.completed++
	save := p.completed%checkpointInterval == 0
	p.mu.Unlock()

	if save {
		if err := p.checkpoint.Save(); err != nil {
			p.logger.Warn("checkpoint save failed", "error", err)
		}
	}
}
