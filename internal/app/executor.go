package app

import (
	"context"
	"errors"

	"exifsidecar/internal/domain"
	appErrors "exifsidecar/internal/errors"
	"exifsidecar/internal/logging"
)

// Executor writes a sidecar for every successful entry of a batch.
type Executor struct {
	Writer     SidecarWriter
	Logger     logging.Logger
	OnProgress ProgressFunc
}

// Execute returns the batch with failed writes moved from Successful to
// Failed. Sidecars written before ctx is done are left in place.
func (e *Executor) Execute(ctx context.Context, result domain.BatchResult) (domain.BatchResult, error) {
	if e.Writer == nil {
		return result, errors.New("executor requires Writer")
	}

	stop := e.Logger.Measure("Writing sidecars")
	defer stop()

	failures := map[int]domain.Failure{}
	for i, item := range result.Successful {
		select {
		case <-ctx.Done():
			return result.Demote(failures), ctx.Err()
		default:
		}

		target, err := e.Writer.Write(item.Path, item.Metadata)
		if err != nil {
			failures[item.Index] = domain.Failure{
				Index:   item.Index,
				Path:    item.Path,
				Kind:    string(appErrors.KindOf(err)),
				Message: appErrors.Message(err),
			}
			e.Logger.Verbosef("Writing %s failed: %v", target, err)
		} else {
			e.Logger.Verbosef("Wrote %s", target)
		}

		if e.OnProgress != nil {
			e.OnProgress(i+1, len(result.Successful), item.Path)
		}
	}
	return result.Demote(failures), nil
}
