// Package convert runs a batch of conversions sequentially and hands the first
// successful output to a viewer.
package convert

import (
	"context"
	"errors"

	"HeicConvert/internal/domain"
	"HeicConvert/internal/logger"
	"HeicConvert/internal/paths"
)

// Codec writes src to dst in format.
type Codec interface {
	Convert(src, dst, format string) error
}

// Opener shows a converted file to the user.
type Opener interface {
	Open(path string) error
}

// Converter processes batches. A nil opener disables the open step.
type Converter struct {
	codec    Codec
	opener   Opener
	resolver paths.Resolver
}

// Option configures a Converter.
type Option func(*Converter)

// WithOpener sets the viewer invoked with the first successful output.
func WithOpener(o Opener) Option {
	return func(c *Converter) { c.opener = o }
}

// WithResolver sets the path resolver (its BaseDir roots the default output directory).
func WithResolver(r paths.Resolver) Option {
	return func(c *Converter) { c.resolver = r }
}

// New returns a Converter using codec.
func New(codec Codec, opts ...Option) *Converter {
	c := &Converter{codec: codec}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConvertBatch converts sourcePaths in order into outputDir (empty: the default directory).
func (c *Converter) ConvertBatch(ctx context.Context, sourcePaths []string, targetFormat, outputDir string) (domain.Outcome, error) {
	return c.Run(ctx, domain.Batch{SourcePaths: sourcePaths, TargetFormat: targetFormat, OutputDir: outputDir}, nil)
}

// Run converts every file of b in order, recording one Result per file and carrying on
// past individual failures. observe, if not nil, is called after each file.
//
// The returned error is non-nil only when the output directory cannot be created, or
// when ctx is cancelled; in the latter case the Outcome holds the files attempted so far.
func (c *Converter) Run(ctx context.Context, b domain.Batch, observe func(domain.Progress)) (domain.Outcome, error) {
	var out domain.Outcome

	dir, err := c.resolver.OutputDir(b.OutputDir)
	if err != nil {
		return out, err
	}
	if err := paths.EnsureDir(dir); err != nil {
		logger.Error("output directory", "dir", dir, "err", err)
		return out, err
	}

	out.Results = make([]domain.Result, 0, len(b.SourcePaths))
	for i, src := range b.SourcePaths {
		if err := ctx.Err(); err != nil {
			logger.Info("batch cancelled", "done", i, "total", len(b.SourcePaths))
			return out, err
		}
		res := c.convertOne(domain.Request{SourcePath: src, TargetFormat: b.TargetFormat, OutputDir: dir})
		out.Results = append(out.Results, res)
		if observe != nil {
			observe(domain.Progress{Index: i, Total: len(b.SourcePaths), Result: res})
		}
	}

	c.openFirst(&out)
	return out, nil
}

func (c *Converter) convertOne(req domain.Request) domain.Result {
	dst, err := c.resolver.Resolve(req.SourcePath, req.TargetFormat, req.OutputDir)
	if err != nil {
		logger.Warn("resolve output", "src", req.SourcePath, "err", err)
		return domain.Failed(req.SourcePath, asDomainError(domain.KindIOError, req.SourcePath, err))
	}
	if err := c.codec.Convert(req.SourcePath, dst, req.TargetFormat); err != nil {
		logger.Warn("conversion failed", "src", req.SourcePath, "err", err)
		return domain.Failed(req.SourcePath, asDomainError(domain.KindEncodeError, req.SourcePath, err))
	}
	logger.Info("converted", "src", req.SourcePath, "dst", dst)
	return domain.Succeeded(req.SourcePath, dst)
}

func (c *Converter) openFirst(out *domain.Outcome) {
	if c.opener == nil {
		return
	}
	path, ok := out.FirstSuccess()
	if !ok {
		return
	}
	out.Opened = path
	if err := c.opener.Open(path); err != nil {
		logger.Warn("open viewer", "path", path, "err", err)
		out.OpenErr = err
	}
}

// asDomainError keeps a tagged error as-is and tags anything else with fallback.
func asDomainError(fallback domain.ErrorKind, path string, err error) *domain.Error {
	var e *domain.Error
	if errors.As(err, &e) {
		return e
	}
	return domain.NewError(fallback, path, err)
}
