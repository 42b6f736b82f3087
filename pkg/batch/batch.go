// Package batch runs many structures through the engine in parallel.
// Every structure is on its own: a broken file or a failed search is
// written into that structure's outcome and the rest carry on.
package batch

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/logger"
	"github.com/andrew-torda/fragmatch/pkg/match"
	"github.com/andrew-torda/fragmatch/pkg/sstype"
)

// Outcome is what happened to one target.
type Outcome struct {
	Path    string
	Result  match.Result
	Err     error
	SizeOut bool // refused on size straight after its CVs
}

// Report of a whole run
type Report struct {
	RunID    string
	Outcomes []Outcome // in the order the targets were given
	Stats    match.Stats
	Failed   int
	SizeOut  int
}

// Annotation is the classification of one structure.
type Annotation struct {
	Path  string
	Graph *sstype.Graph
	Err   error
}

// Runner holds what is shared between runs.
type Runner struct {
	Cfg   config.Config
	Load  Loader
	Cache *RefCache
	lg    *log.Logger
}

// NewRunner makes a runner. A nil load reads files.
func NewRunner(cfg config.Config, load Loader, lg *log.Logger) *Runner {
	if load == nil {
		load = FileLoader
	}
	lg = logger.OrDiscard(lg)
	r := &Runner{Cfg: cfg, Load: load, lg: lg}
	r.Cache = NewRefCache(&r.Cfg, load, lg)
	return r
}

// forEach calls fn for 0..n-1 on at most workers goroutines. fn must
// only write to its own slot of whatever it fills in. A panic in fn is
// turned into an error for that index.
func forEach(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error, fail func(i int, err error)) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					fail(i, fmt.Errorf("panic: %v", p))
				}
			}()
			select {
			case <-gCtx.Done():
				fail(i, gCtx.Err())
			default:
				if err := fn(gCtx, i); err != nil {
					fail(i, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func runID() string {
	id, err := gonanoid.New()
	if err != nil {
		return "unknown"
	}
	return id
}

// Match searches every target for the reference at refPath. Only a
// reference that cannot be built or a cancelled ctx give an error.
func (r *Runner) Match(ctx context.Context, refPath string, targets []string) (*Report, error) {
	rep := &Report{RunID: runID(), Outcomes: make([]Outcome, len(targets))}
	lg := r.lg.With("run", rep.RunID)
	ref, err := r.Cache.Get(refPath)
	if err != nil {
		return nil, err
	}
	lg.Info("matching", "reference", refPath, "targets", len(targets), "workers", r.Cfg.Batch.Workers)

	search := func(ctx context.Context, i int) error {
		out := &rep.Outcomes[i]
		out.Path = targets[i]
		id, res, err := r.Load(targets[i])
		if err != nil {
			return err
		}
		tgt, err := prepareTarget(id, res, ref, &r.Cfg, lg)
		if err != nil {
			return err
		}
		if tgt == nil {
			out.Result = match.Result{Status: match.IncompatibleSizes}
			out.SizeOut = true
			return nil
		}
		out.Result = match.Search(ref, tgt, r.Cfg.Match, lg)
		return nil
	}
	fail := func(i int, err error) {
		rep.Outcomes[i].Path = targets[i]
		rep.Outcomes[i].Err = err
	}
	err = forEach(ctx, len(targets), r.Cfg.Batch.Workers, search, fail)

	for i := range rep.Outcomes {
		o := &rep.Outcomes[i]
		if o.Err != nil {
			rep.Failed++
			lg.Warn("target failed", "target", o.Path, "err", o.Err)
			continue
		}
		if o.SizeOut {
			rep.SizeOut++
		}
		rep.Stats.Merge(o.Result.Stats)
	}
	lg.Info("done", "failed", rep.Failed, "too small", rep.SizeOut, "solutions", rep.Stats.Solutions)
	return rep, err
}

// Annotate classifies every structure in paths.
func (r *Runner) Annotate(ctx context.Context, paths []string) ([]Annotation, error) {
	out := make([]Annotation, len(paths))
	lg := r.lg.With("run", runID())
	annotate := func(ctx context.Context, i int) error {
		out[i].Path = paths[i]
		id, res, err := r.Load(paths[i])
		if err != nil {
			return err
		}
		p, err := Prepare(id, res, &r.Cfg, true, lg)
		if err != nil {
			return err
		}
		out[i].Graph = p.Graph
		return nil
	}
	fail := func(i int, err error) {
		out[i].Path = paths[i]
		out[i].Err = err
		lg.Warn("structure failed", "path", paths[i], "err", err)
	}
	return out, forEach(ctx, len(paths), r.Cfg.Batch.Workers, annotate, fail)
}
