package viewport

import (
	"image"
	"iter"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/vtext/fragment"
	"github.com/gogpu/vtext/geom"
	"github.com/gogpu/vtext/scroll"
)

// staticOracle reports a fixed set of fragments and no liveness.
type staticOracle struct {
	frags []fragment.Fragment
}

func (o *staticOracle) FragmentsIntersecting(rect geom.Rect) iter.Seq[fragment.Fragment] {
	return func(yield func(fragment.Fragment) bool) {
		for _, f := range o.frags {
			if f.Intersects(rect) && !yield(f) {
				return
			}
		}
	}
}

func (o *staticOracle) DocumentExtentHint() float64 {
	var b float64
	for _, f := range o.frags {
		b = max(b, f.Frame.MaxY())
	}
	return b
}

type nopPainter struct{}

func (nopPainter) Paint(*image.RGBA, fragment.Fragment, float64) error { return nil }

type fixture struct {
	list  *fragment.List
	coord *scroll.Coordinator
	ctrl  *Controller
}

// newFixture builds n stacked 50-unit fragments viewed through a 100x200
// window with the default 100-unit prefetch margin.
func newFixture(t *testing.T, n int, opts Options) *fixture {
	t.Helper()
	list := fragment.NewList(100)
	for range n {
		list.Append(50)
	}
	coord := scroll.New(geom.Sz(100, 200))
	return &fixture{list: list, coord: coord, ctrl: New(list, coord, opts)}
}

func (fx *fixture) layout() Result {
	return fx.ctrl.LayoutViewport(fx.coord.Viewport())
}

func (fx *fixture) attachedIDs() []fragment.ID {
	var ids []fragment.ID
	for r := range fx.ctrl.Tree().All() {
		ids = append(ids, r.Fragment().ID)
	}
	return ids
}

func (fx *fixture) expectedIDs() []fragment.ID {
	vp := fx.coord.Viewport()
	var ids []fragment.ID
	for i := range fx.list.Len() {
		if f := fx.list.At(i); f.Intersects(vp) {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

func TestLayoutIdempotent(t *testing.T) {
	fx := newFixture(t, 20, DefaultOptions())

	first := fx.layout()
	if first.Created != 6 || first.Attached != 6 {
		t.Fatalf("first pass created=%d attached=%d, want 6 and 6", first.Created, first.Attached)
	}

	second := fx.layout()
	want := Result{Attached: 6, Reused: 6}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Errorf("second pass mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutCoverage(t *testing.T) {
	fx := newFixture(t, 40, DefaultOptions())
	fx.layout()

	for _, off := range []float64{0, 75, 400, 1000, 1800, 320, 0} {
		fx.coord.ScrollTo(off)
		fx.layout()
		if diff := cmp.Diff(fx.expectedIDs(), fx.attachedIDs()); diff != "" {
			t.Errorf("offset %v: attached records mismatch (-want +got):\n%s", off, diff)
		}
		for r := range fx.ctrl.Tree().All() {
			if !r.Frame().OverlapsY(fx.coord.Viewport()) {
				t.Errorf("offset %v: record %d outside viewport", off, r.Fragment().ID)
			}
		}
	}
}

func TestLayoutReattachReusesRecord(t *testing.T) {
	fx := newFixture(t, 40, DefaultOptions())
	fx.layout()
	if _, err := fx.ctrl.Tree().Display(nopPainter{}); err != nil {
		t.Fatal(err)
	}
	first := fx.list.At(0).ID
	before, _ := fx.ctrl.Record(first)

	fx.coord.ScrollTo(1000)
	away := fx.layout()
	if away.Detached != 6 {
		t.Errorf("Detached = %d, want 6", away.Detached)
	}
	if before.Attached() {
		t.Error("record still attached after scrolling away")
	}

	fx.coord.ScrollTo(0)
	back := fx.layout()
	if back.Created != 0 || back.Redraws != 0 || back.Reattached != 6 {
		t.Errorf("back pass created=%d redraws=%d reattached=%d, want 0, 0, 6",
			back.Created, back.Redraws, back.Reattached)
	}
	after, _ := fx.ctrl.Record(first)
	if after != before {
		t.Error("reattached fragment got a new record")
	}
	if after.Dirty() {
		t.Error("reattached record needs a redraw")
	}
}

func TestLayoutRetainBound(t *testing.T) {
	fx := newFixture(t, 40, Options{Retain: 2})
	fx.layout()

	fx.coord.ScrollTo(1000)
	res := fx.layout()
	if res.Evicted != 4 {
		t.Errorf("Evicted = %d, want 4", res.Evicted)
	}
	if s := fx.ctrl.CacheStats(); s.Detached != 2 || s.Len != res.Attached+2 {
		t.Errorf("stats = %+v, want 2 detached", s)
	}
}

func TestLayoutExtentMonotonicUnderAppend(t *testing.T) {
	fx := newFixture(t, 2, DefaultOptions())
	prev := -1.0
	for i := range 30 {
		fx.list.Append(25)
		res := fx.layout()
		ext := fx.coord.Extent()
		if ext < prev {
			t.Fatalf("append %d: extent shrank from %v to %v", i, prev, ext)
		}
		if !res.ExtentChanged {
			t.Errorf("append %d: ExtentChanged = false", i)
		}
		prev = ext
	}
	if prev != fx.list.DocumentExtentHint() {
		t.Errorf("extent = %v, want %v", prev, fx.list.DocumentExtentHint())
	}
}

func TestLayoutOffsetCorrectionAverage(t *testing.T) {
	oracle := &staticOracle{frags: []fragment.Fragment{
		{ID: 1, Frame: geom.R(0, 100, 100, 20), SurfaceBounds: geom.R(0, 0, 100, 20)},
		{ID: 2, Frame: geom.R(0, 120, 100, 20), SurfaceBounds: geom.R(0, 0, 100, 20)},
	}}
	coord := scroll.New(geom.Sz(100, 200))
	coord.UpdateExtent(1000, nil)
	coord.ScrollTo(50)
	ctrl := New(oracle, coord, DefaultOptions())
	ctrl.LayoutViewport(coord.Viewport())

	// Move up by 3 and 5.
	oracle.frags[0].Frame.Origin.Y = 97
	oracle.frags[1].Frame.Origin.Y = 115
	res := ctrl.LayoutViewport(coord.Viewport())

	if diff := cmp.Diff([]float64{3, 5}, res.Deltas); diff != "" {
		t.Errorf("Deltas mismatch (-want +got):\n%s", diff)
	}
	if !res.OffsetCorrected || coord.Offset() != 46 {
		t.Errorf("offset = %v corrected=%v, want 46 and true", coord.Offset(), res.OffsetCorrected)
	}
}

func TestLayoutRedrawsCountsCleanRecordsOnly(t *testing.T) {
	oracle := &staticOracle{frags: []fragment.Fragment{
		{ID: 1, Frame: geom.R(0, 0, 100, 20), SurfaceBounds: geom.R(0, 0, 100, 20)},
	}}
	coord := scroll.New(geom.Sz(100, 200))
	ctrl := New(oracle, coord, DefaultOptions())
	ctrl.LayoutViewport(coord.Viewport())

	// Still dirty from creation: a bounds change is not a new redraw.
	oracle.frags[0].SurfaceBounds = geom.R(0, 0, 100, 30)
	if res := ctrl.LayoutViewport(coord.Viewport()); res.Redraws != 0 {
		t.Errorf("Redraws = %d for a record never displayed, want 0", res.Redraws)
	}

	if _, err := ctrl.Tree().Display(nopPainter{}); err != nil {
		t.Fatal(err)
	}
	oracle.frags[0].SurfaceBounds = geom.R(0, 0, 100, 40)
	if res := ctrl.LayoutViewport(coord.Viewport()); res.Redraws != 1 {
		t.Errorf("Redraws = %d after a displayed record changed bounds, want 1", res.Redraws)
	}
}

func TestLayoutEqualDeltasCollapse(t *testing.T) {
	fx := newFixture(t, 20, DefaultOptions())
	fx.layout()
	fx.coord.ScrollTo(200)
	fx.layout()

	// Every fragment below the insertion point moves down by 30.
	fx.list.Insert(0, 30)
	res := fx.layout()
	if diff := cmp.Diff([]float64{-30}, res.Deltas); diff != "" {
		t.Errorf("Deltas mismatch (-want +got):\n%s", diff)
	}
	if fx.coord.Offset() != 230 {
		t.Errorf("Offset() = %v, want 230", fx.coord.Offset())
	}
}

func TestLayoutEmptyDocument(t *testing.T) {
	fx := newFixture(t, 0, DefaultOptions())
	res := fx.layout()
	if res.Attached != 0 || res.Created != 0 || res.ExtentChanged {
		t.Errorf("empty pass = %+v", res)
	}
	if fx.coord.Extent() != 0 || fx.ctrl.Tree().Len() != 0 {
		t.Errorf("extent=%v records=%d, want 0 and 0", fx.coord.Extent(), fx.ctrl.Tree().Len())
	}
}

func TestLayoutClearedDocumentResetsExtent(t *testing.T) {
	fx := newFixture(t, 20, DefaultOptions())
	fx.layout()
	fx.coord.ScrollTo(500)
	fx.layout()

	fx.list.Clear()
	res := fx.layout()
	if !res.ExtentChanged || fx.coord.Extent() != 0 {
		t.Errorf("extent = %v changed=%v, want 0 and true", fx.coord.Extent(), res.ExtentChanged)
	}
	if fx.coord.Offset() != 0 || fx.ctrl.Tree().Len() != 0 {
		t.Errorf("offset=%v records=%d, want 0 and 0", fx.coord.Offset(), fx.ctrl.Tree().Len())
	}
}

func TestLayoutPrunesSuperseded(t *testing.T) {
	fx := newFixture(t, 10, DefaultOptions())
	fx.layout()
	old := fx.list.At(1).ID

	fx.list.Resize(1, 80)
	res := fx.layout()
	if res.Created != 1 || res.Evicted != 1 {
		t.Errorf("created=%d evicted=%d, want 1 and 1", res.Created, res.Evicted)
	}
	if _, ok := fx.ctrl.Record(old); ok {
		t.Error("superseded fragment still has a record")
	}
	if slices.Contains(fx.attachedIDs(), old) {
		t.Error("superseded record still attached")
	}
}

func TestLayoutDefersNestedRequests(t *testing.T) {
	fx := newFixture(t, 20, DefaultOptions())
	fx.layout()
	fx.coord.ScrollTo(200)
	fx.layout()

	var nested Result
	fx.coord.OnNeedsLayout(func() {
		nested = fx.layout()
	})
	fx.list.Insert(0, 10)
	res := fx.layout()

	if !nested.Deferred || nested.Created != 0 {
		t.Errorf("nested result = %+v, want only Deferred", nested)
	}
	if !res.Deferred {
		t.Error("outer pass did not report the deferred request")
	}
	if fx.ctrl.Updating() {
		t.Error("controller still updating after EndPass")
	}
}

func TestConfigureOutsidePassPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Configure outside a pass should panic")
		}
	}()
	New(&staticOracle{}, nil, DefaultOptions()).Configure(fragment.Fragment{ID: 1})
}

func TestScaleReadOncePerRecord(t *testing.T) {
	calls := 0
	fx := newFixture(t, 20, Options{Scale: func() float64 { calls++; return 2 }})
	fx.layout()
	fx.layout()
	if calls != 6 {
		t.Errorf("scale read %d times, want 6", calls)
	}
	for r := range fx.ctrl.Tree().All() {
		if r.Scale() != 2 {
			t.Errorf("record %d scale = %v, want 2", r.Fragment().ID, r.Scale())
		}
	}
}
