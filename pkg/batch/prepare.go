package batch

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/andrew-torda/fragmatch/pdb"
	"github.com/andrew-torda/fragmatch/pdb/cmmn"
	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/cv"
	"github.com/andrew-torda/fragmatch/pkg/logger"
	"github.com/andrew-torda/fragmatch/pkg/match"
	"github.com/andrew-torda/fragmatch/pkg/relation"
	"github.com/andrew-torda/fragmatch/pkg/sstype"
)

// Loader reads the residues of one structure.
type Loader func(path string) (structID string, res []cmmn.Residue, err error)

// FileLoader reads coordinate files, plain or gzipped, PDB or mmCIF.
func FileLoader(path string) (string, []cmmn.Residue, error) {
	id := pdb.StructID(path)
	res, err := pdb.ReadResidues(path, id)
	return id, res, err
}

// Prepared is everything computed for one structure before matching.
type Prepared struct {
	Set   *cv.Set
	Mat   *relation.Matrix
	Graph *sstype.Graph // nil for targets
}

// cvSet is the first step of preparing any structure.
func cvSet(id string, res []cmmn.Residue, cfg *config.Config, lg *log.Logger) (*cv.Set, error) {
	set, err := cv.Compute(id, res, cfg.CV)
	if err != nil {
		return nil, err
	}
	if len(set.Dropped) > 0 {
		logger.OrDiscard(lg).Debug("dropped copies", "structure", id, "chains", set.Dropped)
	}
	return set, nil
}

// Prepare runs CVs and the relation matrix and, with classify set, the
// classifier.
func Prepare(id string, res []cmmn.Residue, cfg *config.Config, classify bool, lg *log.Logger) (*Prepared, error) {
	set, err := cvSet(id, res, cfg, lg)
	if err != nil {
		return nil, err
	}
	p := &Prepared{Set: set, Mat: relation.Build(set, cfg.Relation)}
	if !classify {
		return p, nil
	}
	if p.Graph, err = sstype.Classify(set, p.Mat, cfg.SSType, lg); err != nil {
		return nil, err
	}
	return p, nil
}

// prepareTarget makes a target for ref. A target too small for ref
// comes back nil before any relations are computed. The matcher only
// walks along runs of neighbouring CVs, so that is all that is built.
func prepareTarget(id string, res []cmmn.Residue, ref *match.Reference, cfg *config.Config, lg *log.Logger) (*match.Target, error) {
	set, err := cvSet(id, res, cfg, lg)
	if err != nil {
		return nil, err
	}
	if !match.SizesFit(ref, set.NResidue(), &cfg.Match) {
		return nil, nil
	}
	rc := cfg.Relation
	rc.AdjacentOnly = true
	return match.NewTarget(set, relation.Build(set, rc)), nil
}

// RefCache builds each reference once, however many workers ask for
// it at the same time. References are never changed after they are
// built, so they are handed out to everyone.
type RefCache struct {
	cfg    *config.Config
	load   Loader
	lg     *log.Logger
	group  singleflight.Group
	mu     sync.RWMutex
	refs   map[string]*match.Reference
	builds atomic.Int64
}

// NewRefCache makes an empty cache. A nil load means FileLoader.
func NewRefCache(cfg *config.Config, load Loader, lg *log.Logger) *RefCache {
	if load == nil {
		load = FileLoader
	}
	return &RefCache{cfg: cfg, load: load, lg: logger.OrDiscard(lg), refs: make(map[string]*match.Reference)}
}

// Builds says how many references were actually built.
func (c *RefCache) Builds() int { return int(c.builds.Load()) }

// Get returns the reference read from path, building it if needed.
// Failures are not cached.
func (c *RefCache) Get(path string) (*match.Reference, error) {
	c.mu.RLock()
	ref, ok := c.refs[path]
	c.mu.RUnlock()
	if ok {
		return ref, nil
	}
	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		c.mu.RLock()
		ref, ok := c.refs[path]
		c.mu.RUnlock()
		if ok {
			return ref, nil
		}
		ref, err := c.build(path)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.refs[path] = ref
		c.mu.Unlock()
		return ref, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*match.Reference), nil
}

func (c *RefCache) build(path string) (*match.Reference, error) {
	c.builds.Add(1)
	id, res, err := c.load(path)
	if err != nil {
		return nil, err
	}
	p, err := Prepare(id, res, c.cfg, true, c.lg)
	if err != nil {
		return nil, err
	}
	ref, err := match.NewReference(p.Set, p.Mat, p.Graph, c.cfg.Match)
	if err != nil {
		return nil, fmt.Errorf("reference %s: %w", path, err)
	}
	c.lg.Debug("reference ready", "structure", id, "fragments", ref.NFragment())
	return ref, nil
}
