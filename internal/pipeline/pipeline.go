// Package pipeline turns one photograph into a bundle of PBR texture maps.
//
// A Pipeline center-crops and scales the source to a square base image,
// runs the six map generators over it, optionally makes every map tile
// seamlessly, then encodes the results. Only one generation may run per
// Pipeline at a time; overlapping calls fail with ErrBusy.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kiesman99/pbrtex/internal/codec"
	"github.com/kiesman99/pbrtex/internal/generator"
	"github.com/kiesman99/pbrtex/internal/seamless"
	"github.com/kiesman99/pbrtex/pkg/texture"
)

const (
	// DefaultResolution is the side length used when none is requested
	DefaultResolution = 512

	// MaxResolution caps the side length of generated maps
	MaxResolution = 8192
)

// Encoder turns a finished map into bytes
type Encoder interface {
	Encode(buf *texture.Buffer) ([]byte, error)
}

// Options configures one generation
type Options struct {
	Resolution    int
	EdgeDetection texture.EdgeDetection
	Tiling        bool

	// Encoder encodes the final maps. Nil means PNG.
	Encoder Encoder
}

// DefaultOptions returns 512px maps using Sobel gradients with tiling on
func DefaultOptions() Options {
	return Options{
		Resolution:    DefaultResolution,
		EdgeDetection: texture.DefaultEdgeDetection,
		Tiling:        true,
	}
}

// Diagnostics carries quality measurements taken after generation
type Diagnostics struct {
	Normal generator.NormalStats
	// SeamDeviation holds the worst wrap-seam difference per tiled map
	SeamDeviation map[texture.Kind]int
	Elapsed       time.Duration
}

// Result is the output of one generation
type Result struct {
	Settings texture.Settings
	Maps     map[texture.Kind]*texture.Buffer
	Textures texture.Bundle
	// Tiling is nil when tiling was not requested
	Tiling      texture.TilingReport
	Diagnostics Diagnostics
	// Warnings holds non-fatal *TilingError values
	Warnings []error
}

// Pipeline generates texture bundles. The zero value is ready to use.
type Pipeline struct {
	busy atomic.Bool
}

// New creates a Pipeline
func New() *Pipeline {
	return &Pipeline{}
}

// Busy reports whether a generation is in flight
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// Generate produces the six maps for src. It returns ErrInvalidInput for
// unusable requests, ErrBusy when another generation is running and a
// *GenerationError when a map cannot be produced. Tiling failures are not
// fatal; they are recorded in Result.Tiling and Result.Warnings.
func (p *Pipeline) Generate(ctx context.Context, src image.Image, opts Options) (*Result, error) {
	if err := validate(src, opts); err != nil {
		return nil, err
	}
	if !p.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer p.busy.Store(false)

	start := time.Now()
	log := Logger()

	enc := opts.Encoder
	if enc == nil {
		enc = codec.PNGEncoder{}
	}

	base := prepare(src, opts.Resolution)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	maps, err := generateMaps(base, opts.EdgeDetection)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	result := &Result{
		Settings: texture.Settings{
			Resolution:    opts.Resolution,
			EdgeDetection: opts.EdgeDetection,
			TilingEnabled: opts.Tiling,
		},
		Maps: maps,
	}

	if opts.Tiling {
		tileMaps(result)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}

	result.Diagnostics.Normal = generator.MeasureNormal(result.Maps[texture.Normal])
	if !result.Diagnostics.Normal.Flat {
		log.Warn("normal map looks inverted or noisy",
			"mean_blue", result.Diagnostics.Normal.MeanBlue)
	}
	log.Debug("normal map statistics",
		"mean_blue", result.Diagnostics.Normal.MeanBlue,
		"mean_length", result.Diagnostics.Normal.MeanLength)

	result.Textures, err = encodeMaps(result.Maps, enc)
	if err != nil {
		return nil, err
	}

	result.Diagnostics.Elapsed = time.Since(start)
	log.Info("generated texture bundle",
		"resolution", opts.Resolution,
		"edge_detection", opts.EdgeDetection.String(),
		"tiling", opts.Tiling,
		"warnings", len(result.Warnings),
		"elapsed", result.Diagnostics.Elapsed)

	return result, nil
}

func validate(src image.Image, opts Options) error {
	if src == nil {
		return invalidInput("no source image")
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return invalidInput("source image is %dx%d", b.Dx(), b.Dy())
	}
	if opts.Resolution <= 0 {
		return invalidInput("resolution must be positive, got %d", opts.Resolution)
	}
	if opts.Resolution > MaxResolution {
		return invalidInput("resolution %d exceeds maximum %d", opts.Resolution, MaxResolution)
	}
	if !opts.EdgeDetection.Valid() {
		return invalidInput("unknown edge detection %d", int(opts.EdgeDetection))
	}
	return nil
}

// generateMaps runs every generator concurrently over the shared base.
// Generators only read base, so no locking is needed.
func generateMaps(base *texture.Buffer, edgeKind texture.EdgeDetection) (map[texture.Kind]*texture.Buffer, error) {
	bufs := make([]*texture.Buffer, len(texture.Kinds))
	errs := make([]error, len(texture.Kinds))

	var wg sync.WaitGroup
	for i, kind := range texture.Kinds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bufs[i], errs[i] = runGenerator(kind, base, edgeKind)
		}()
	}
	wg.Wait()

	maps := make(map[texture.Kind]*texture.Buffer, len(texture.Kinds))
	for i, kind := range texture.Kinds {
		if errs[i] != nil {
			return nil, errs[i]
		}
		maps[kind] = bufs[i]
	}
	return maps, nil
}

func runGenerator(kind texture.Kind, base *texture.Buffer, edgeKind texture.EdgeDetection) (buf *texture.Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, &GenerationError{Kind: kind, Stage: "generate", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	fn, err := generator.For(kind, edgeKind)
	if err != nil {
		return nil, &GenerationError{Kind: kind, Stage: "generate", Err: err}
	}

	start := time.Now()
	buf, err = fn(base)
	if err != nil {
		return nil, &GenerationError{Kind: kind, Stage: "generate", Err: err}
	}
	Logger().Debug("generated map", "kind", kind, "elapsed", time.Since(start))
	return buf, nil
}

type tileOutcome struct {
	buf    *texture.Buffer
	report seamless.Report
	err    *TilingError
}

// tileMaps replaces each map in r with its seamless version. A map that
// cannot be tiled is kept as generated.
func tileMaps(r *Result) {
	outcomes := make([]tileOutcome, len(texture.Kinds))

	var wg sync.WaitGroup
	for i, kind := range texture.Kinds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = tileMap(kind, r.Maps[kind])
		}()
	}
	wg.Wait()

	r.Tiling = make(texture.TilingReport, len(texture.Kinds))
	r.Diagnostics.SeamDeviation = make(map[texture.Kind]int, len(texture.Kinds))
	for i, kind := range texture.Kinds {
		o := outcomes[i]
		if o.err != nil {
			Logger().Warn("tiling failed, keeping untiled map", "kind", kind, "error", o.err.Err)
			r.Tiling[kind] = texture.TilingEntry{Error: o.err.Err.Error()}
			r.Warnings = append(r.Warnings, o.err)
			continue
		}
		r.Maps[kind] = o.buf
		r.Tiling[kind] = texture.TilingEntry{BlendWidth: o.report.BlendWidth, Method: o.report.Method}
		r.Diagnostics.SeamDeviation[kind] = o.report.SeamDeviation
	}
}

func tileMap(kind texture.Kind, buf *texture.Buffer) (out tileOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = tileOutcome{err: &TilingError{Kind: kind, Err: fmt.Errorf("panic: %v", r)}}
		}
	}()

	tiled, report, err := seamless.Tile(buf, seamless.Options{Renormalize: kind == texture.Normal})
	if err != nil {
		return tileOutcome{err: &TilingError{Kind: kind, Err: err}}
	}
	return tileOutcome{buf: tiled, report: report}
}

func encodeMaps(maps map[texture.Kind]*texture.Buffer, enc Encoder) (texture.Bundle, error) {
	data := make([][]byte, len(texture.Kinds))
	errs := make([]error, len(texture.Kinds))

	var wg sync.WaitGroup
	for i, kind := range texture.Kinds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data[i], errs[i] = enc.Encode(maps[kind])
		}()
	}
	wg.Wait()

	bundle := make(texture.Bundle, len(texture.Kinds))
	for i, kind := range texture.Kinds {
		if errs[i] != nil {
			return nil, &GenerationError{Kind: kind, Stage: "encode", Err: errs[i]}
		}
		bundle[kind] = data[i]
	}
	return bundle, nil
}
