package app

import (
	"context"
	"errors"

	"exifsidecar/internal/domain"
	appErrors "exifsidecar/internal/errors"
	"exifsidecar/internal/logging"
)

// ProgressFunc is called after each item to report progress
type ProgressFunc func(current, total int, path string)

// Processor runs the metadata pipeline over a batch, one path at a time.
type Processor struct {
	Validator  Validator
	Stat       StatReader
	Exif       ExifReader
	Logger     logging.Logger
	OnProgress ProgressFunc
}

// Process never fails for a single bad path; those are recorded in the
// result. It returns an error only when the processor is misconfigured or
// ctx is done, along with whatever was processed so far.
func (p *Processor) Process(ctx context.Context, paths []string) (domain.BatchResult, error) {
	result := domain.BatchResult{Total: len(paths)}

	if p.Validator.FS == nil || p.Stat == nil || p.Exif == nil {
		return result, appErrors.New(appErrors.Internal, "process", "", "processor requires Validator, Stat and Exif")
	}
	if len(p.Validator.Formats) == 0 {
		return result, appErrors.New(appErrors.InvalidConfig, "process", "", "no supported formats configured")
	}

	stop := p.Logger.Measure("Extracting metadata")
	defer stop()

	for i, path := range paths {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		p.Logger.Verbosef("Processing image: %s", path)
		md, err := p.Extract(ctx, path)
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return result, err
		case err != nil:
			result.AddFailure(domain.Failure{
				Index:   i,
				Path:    path,
				Kind:    string(appErrors.KindOf(err)),
				Message: appErrors.Message(err),
			})
			p.Logger.Verbosef("Failed %s: %v", path, err)
		default:
			result.AddSuccess(domain.Success{Index: i, Path: path, Metadata: md})
		}

		if p.OnProgress != nil {
			p.OnProgress(i+1, len(paths), path)
		}
	}

	p.Logger.Verbosef("Processed %d images (%d succeeded, %d failed)", result.Total, result.SuccessCount, result.FailedCount)
	return result, nil
}

// Extract runs validation, stat and EXIF reading for a single path.
func (p *Processor) Extract(ctx context.Context, path string) (domain.ImageMetadata, error) {
	if err := p.Validator.Validate(path); err != nil {
		return nil, err
	}

	stat, err := p.Stat.Stat(ctx, path)
	if err != nil {
		return nil, err
	}

	return domain.Assemble(stat.Fields(), p.Exif.Fields(ctx, path)), nil
}
