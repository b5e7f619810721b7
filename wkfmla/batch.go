package wkfmla

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is one formula to decode in a batch.
type Job struct {
	Blob      []byte
	EndOffset int
	Position  Position
}

// BatchResult pairs a Job with its outcome. Exactly one of Result and Err is set.
type BatchResult struct {
	Result *Result
	Err    error
}

// DecodeBatch decodes jobs concurrently, at most limit at a time (limit <= 0
// means no limit). Variant, Names and Logger come from opts; Position from
// each job. Results are in job order. A formula that fails to decode only
// sets its own Err; the returned error is non-nil only when ctx was done
// before every job had started, and the unstarted jobs carry it as Err.
func DecodeBatch(ctx context.Context, jobs []Job, opts Options, limit int) ([]BatchResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]BatchResult, len(jobs))
	eg, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	started := 0
	for i := range jobs {
		if gctx.Err() != nil {
			break
		}
		started++
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			o := opts
			o.Position = jobs[i].Position
			o.Logger = logger.With(zap.Int("job", i))
			res, err := Decode(jobs[i].Blob, jobs[i].EndOffset, o)
			results[i] = BatchResult{Result: res, Err: err}
			return nil
		})
	}
	err := eg.Wait()
	if err == nil && started < len(jobs) {
		err = ctx.Err()
	}
	if err != nil {
		for i := started; i < len(jobs); i++ {
			results[i].Err = err
		}
	}
	return results, err
}
