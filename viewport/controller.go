// Package viewport lays out the part of a document that intersects the
// viewport and keeps one render surface per visible fragment.
//
// A layout pass has three phases. BeginPass starts the pass, Configure is
// called once for every fragment the shaping oracle reports inside the
// viewport, and EndPass detaches what was not configured, releases the
// surfaces of fragments the oracle forgot, and hands the measured extent and
// position changes to the scroll coordinator. LayoutViewport runs all three.
package viewport

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/gogpu/vtext/fragcache"
	"github.com/gogpu/vtext/fragment"
	"github.com/gogpu/vtext/geom"
	"github.com/gogpu/vtext/internal/logging"
	"github.com/gogpu/vtext/surface"
)

// DefaultRetain is the default number of detached records kept for reuse.
const DefaultRetain = 64

// Coordinator receives the outcome of a pass. *scroll.Coordinator
// implements it.
type Coordinator interface {
	UpdateExtent(lastBottom float64, activeBottoms []float64) bool
	ApplyOffsetCorrection(deltas map[float64]struct{}) bool
}

// ScaleFunc returns the device pixel density. It is read once for every
// new record.
type ScaleFunc func() float64

// Options configures a Controller.
type Options struct {
	// Scale supplies the device scale for new records. Nil means 1.
	Scale ScaleFunc

	// Retain bounds the number of detached records kept in the cache.
	// Zero keeps detached records until the oracle drops their fragment.
	Retain int
}

// DefaultOptions returns the default controller options.
func DefaultOptions() Options {
	return Options{Retain: DefaultRetain}
}

// Result describes what a layout pass did.
type Result struct {
	// Attached is the number of records attached after the pass.
	Attached int
	// Created is the number of records created for unseen fragments.
	Created int
	// Reused is the number of cached records configured again.
	Reused int
	// Reattached is the number of reused records that had been detached.
	Reattached int
	// Detached is the number of records that left the viewport.
	Detached int
	// Evicted is the number of records released by the cache.
	Evicted int
	// Redraws is the number of records that became dirty: new records and
	// clean records whose bounds changed.
	Redraws int
	// Deltas holds the distinct position changes (previous minus new Y) of
	// reused records, in ascending order.
	Deltas []float64
	// ExtentChanged reports whether the content extent changed.
	ExtentChanged bool
	// OffsetCorrected reports whether the content offset was corrected.
	OffsetCorrected bool
	// Deferred reports that layout was requested while the pass ran.
	Deferred bool
}

// Controller runs layout passes over a shaping oracle.
//
// Controller is not safe for concurrent use.
type Controller struct {
	oracle   fragment.Oracle
	liveness fragment.Liveness
	coord    Coordinator
	scale    ScaleFunc

	tree  *surface.Tree
	cache *fragcache.Cache[*surface.Record]

	updating bool
	deferred bool
	active   map[fragment.ID]struct{}
	deltas   map[float64]struct{}
	res      Result
}

// New creates a controller. If oracle also implements fragment.Liveness the
// cache is pruned against it at the end of every pass. coord may be nil.
func New(oracle fragment.Oracle, coord Coordinator, opts Options) *Controller {
	c := &Controller{
		oracle: oracle,
		coord:  coord,
		scale:  opts.Scale,
		tree:   surface.NewTree(),
		cache:  fragcache.New[*surface.Record](opts.Retain),
		active: make(map[fragment.ID]struct{}),
		deltas: make(map[float64]struct{}),
	}
	if l, ok := oracle.(fragment.Liveness); ok {
		c.liveness = l
	}
	c.cache.OnEvict(c.evicted)
	return c
}

// Tree returns the render tree.
func (c *Controller) Tree() *surface.Tree {
	return c.tree
}

// CacheStats returns statistics of the record cache.
func (c *Controller) CacheStats() fragcache.Stats {
	return c.cache.Stats()
}

// Record returns the cached record for id, attached or not.
func (c *Controller) Record(id fragment.ID) (*surface.Record, bool) {
	return c.cache.Peek(id)
}

// Updating reports whether a pass is in progress.
func (c *Controller) Updating() bool {
	return c.updating
}

// RequestLayout records a layout request. During a pass the request is
// deferred and reported by the pass result; it returns true in that case.
// Outside a pass it does nothing and returns false.
func (c *Controller) RequestLayout() bool {
	if c.updating {
		c.deferred = true
	}
	return c.updating
}

// LayoutViewport runs a complete pass over the fragments intersecting vp.
// Called during a pass, it only records a deferred request.
func (c *Controller) LayoutViewport(vp geom.Rect) Result {
	if c.RequestLayout() {
		return Result{Deferred: true}
	}
	c.BeginPass()
	for f := range c.oracle.FragmentsIntersecting(vp) {
		c.Configure(f)
	}
	return c.EndPass()
}

// BeginPass starts a layout pass.
func (c *Controller) BeginPass() {
	if c.updating {
		panic("viewport: BeginPass called during a pass")
	}
	c.updating = true
	c.deferred = false
	clear(c.active)
	clear(c.deltas)
	c.res = Result{}
}

// Configure attaches a record for f, reusing the cached one when f's
// identity was seen before.
func (c *Controller) Configure(f fragment.Fragment) {
	if !c.updating {
		panic("viewport: Configure called outside a pass")
	}

	r, ok := c.cache.Get(f.ID)
	if ok {
		if c.cache.IsDetached(f.ID) {
			c.res.Reattached++
		}
		c.cache.Attach(f.ID)
		wasDirty := r.Dirty()
		g := r.UpdateGeometry(f)
		if g.BoundsChanged && !wasDirty {
			c.res.Redraws++
		}
		if g.Moved {
			c.deltas[g.DeltaY] = struct{}{}
		}
		c.res.Reused++
	} else {
		r = surface.NewRecord(f, c.readScale())
		c.cache.Put(f.ID, r)
		c.res.Created++
		c.res.Redraws++
	}

	c.active[f.ID] = struct{}{}
	c.tree.Attach(r)
}

// EndPass finishes the pass and returns its result.
func (c *Controller) EndPass() Result {
	if !c.updating {
		panic("viewport: EndPass called outside a pass")
	}

	var stale []*surface.Record
	for _, r := range c.tree.Records() {
		if _, ok := c.active[r.Fragment().ID]; !ok {
			stale = append(stale, r)
		}
	}
	for _, r := range stale {
		c.tree.Detach(r)
		c.cache.Detach(r.Fragment().ID)
		c.res.Detached++
	}
	if c.liveness != nil {
		c.cache.Prune(c.liveness.Alive)
	}

	if c.coord != nil {
		bottoms := make([]float64, 0, c.tree.Len())
		for _, r := range c.tree.Records() {
			bottoms = append(bottoms, r.Frame().MaxY())
		}
		c.res.ExtentChanged = c.coord.UpdateExtent(c.oracle.DocumentExtentHint(), bottoms)
	}

	if len(c.deltas) > 0 {
		c.res.Deltas = make([]float64, 0, len(c.deltas))
		for d := range c.deltas {
			c.res.Deltas = append(c.res.Deltas, d)
		}
		slices.SortFunc(c.res.Deltas, cmp.Compare[float64])
	}
	if c.coord != nil {
		// The correction may request layout; the request is deferred.
		c.res.OffsetCorrected = c.coord.ApplyOffsetCorrection(c.deltas)
	}

	c.res.Attached = c.tree.Len()
	c.res.Deferred = c.deferred
	c.updating = false
	c.deferred = false

	logging.Logger().Debug("viewport: pass",
		slog.Int("attached", c.res.Attached),
		slog.Int("created", c.res.Created),
		slog.Int("reused", c.res.Reused),
		slog.Int("detached", c.res.Detached),
		slog.Int("evicted", c.res.Evicted),
		slog.Int("redraws", c.res.Redraws),
		slog.Bool("deferred", c.res.Deferred))
	return c.res
}

// Reset detaches and releases every record, for example after the device
// scale changed.
func (c *Controller) Reset() {
	for _, r := range slices.Clone(c.tree.Records()) {
		c.tree.Detach(r)
	}
	c.cache.Clear()
}

func (c *Controller) readScale() float64 {
	if c.scale == nil {
		return 1
	}
	return c.scale()
}

func (c *Controller) evicted(id fragment.ID, r *surface.Record) {
	if r.Attached() {
		c.tree.Detach(r)
	}
	r.Release()
	c.res.Evicted++
	logging.Logger().Debug("viewport: record evicted", slog.Uint64("fragment", uint64(id)))
}
