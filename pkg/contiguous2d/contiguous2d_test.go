package contiguous2d

import (
	"testing"

	"github.com/quadratic-labs/gridcore/pkg/pos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefault(t *testing.T) {
	c := New[string]()
	assert.Equal(t, "", c.Get(pos.New(5, 5)))
	assert.Equal(t, "", c.Get(pos.New(-1, -1)))
}

func TestSetRectAndGet(t *testing.T) {
	c := New[string]()
	c.SetRect(2, 2, ptr(4), ptr(4), "bold")
	assert.Equal(t, "bold", c.Get(pos.New(3, 3)))
	assert.Equal(t, "", c.Get(pos.New(1, 1)))
	assert.Equal(t, "", c.Get(pos.New(5, 5)))
}

func TestSetRectUnboundedColumn(t *testing.T) {
	c := New[string]()
	c.SetRect(2, 1, nil, ptr(1), "header")
	assert.Equal(t, "header", c.Get(pos.New(1000000, 1)))
	assert.Equal(t, "", c.Get(pos.New(1000000, 2)))
	assert.Equal(t, "", c.Get(pos.New(1, 1)))
}

// TestUndoRoundTrip verifies spec §8 property 1: SetRect followed by
// SetFrom(undo) restores the prior state exactly.
func TestUndoRoundTrip(t *testing.T) {
	c := New[string]()
	c.SetRect(1, 1, ptr(10), ptr(10), "red")
	snapshot := c.snapshotString()

	undo := c.SetRect(3, 3, ptr(6), ptr(6), "blue")
	require.NotEqual(t, snapshot, c.snapshotString())

	c.SetFrom(undo)
	assert.Equal(t, snapshot, c.snapshotString())
}

func TestUndoRoundTripFromDefault(t *testing.T) {
	c := New[string]()
	snapshot := c.snapshotString()

	undo := c.SetRect(5, 5, ptr(5), ptr(5), "green")
	assert.Equal(t, "green", c.Get(pos.New(5, 5)))

	c.SetFrom(undo)
	assert.Equal(t, snapshot, c.snapshotString())
	assert.Equal(t, "", c.Get(pos.New(5, 5)))
}

func TestAdjacencyInvariant(t *testing.T) {
	c := New[string]()
	c.SetRect(1, 1, ptr(5), ptr(5), "x")
	c.SetRect(6, 1, ptr(10), ptr(5), "x") // adjacent column block, same value: must merge
	require.Len(t, c.cols, 1)
	assert.Equal(t, int64(1), c.cols[0].Start)
	assert.Equal(t, int64(11), c.cols[0].End)
}

func TestInsertRemoveColumnRoundTrip(t *testing.T) {
	c := New[string]()
	c.SetRect(1, 1, ptr(1), ptr(1), "A")
	c.SetRect(2, 1, ptr(2), ptr(1), "B")
	c.SetRect(3, 1, ptr(3), ptr(1), "C")

	c.InsertColumn(2, CopyFormatsNone)
	assert.Equal(t, "A", c.Get(pos.New(1, 1)))
	assert.Equal(t, "", c.Get(pos.New(2, 1)))
	assert.Equal(t, "B", c.Get(pos.New(3, 1)))
	assert.Equal(t, "C", c.Get(pos.New(4, 1)))

	c.RemoveColumn(2)
	assert.Equal(t, "A", c.Get(pos.New(1, 1)))
	assert.Equal(t, "B", c.Get(pos.New(2, 1)))
	assert.Equal(t, "C", c.Get(pos.New(3, 1)))
}

func TestRemoveColumnUndo(t *testing.T) {
	c := New[string]()
	c.SetRect(1, 1, ptr(1), ptr(1), "A")
	c.SetRect(2, 1, ptr(2), ptr(1), "B")
	c.SetRect(3, 1, ptr(3), ptr(1), "C")
	before := c.snapshotString()

	undo := c.RemoveColumn(2)
	assert.Equal(t, "C", c.Get(pos.New(2, 1)))

	c.InsertColumn(2, CopyFormatsNone)
	c.SetFrom(undo)
	assert.Equal(t, before, c.snapshotString())
}

func TestNondefaultRectsInRect(t *testing.T) {
	c := New[string]()
	c.SetRect(1, 1, ptr(3), ptr(3), "v")
	rects := c.NondefaultRectsInRect(pos.Rect{Min: pos.New(1, 1), Max: pos.New(10, 10)})
	require.Len(t, rects, 1)
	assert.Equal(t, "v", rects[0].Value)
	assert.Equal(t, pos.New(1, 1), rects[0].Rect.Min)
	assert.Equal(t, pos.New(3, 3), rects[0].Rect.Max)
}

func TestIsAllDefaultInRange(t *testing.T) {
	c := New[string]()
	assert.True(t, c.IsAllDefaultInRange(Rect{X1: 1, Y1: 1, X2: ptr(100), Y2: ptr(100)}))
	c.SetRect(50, 50, ptr(50), ptr(50), "x")
	assert.False(t, c.IsAllDefaultInRange(Rect{X1: 1, Y1: 1, X2: ptr(100), Y2: ptr(100)}))
	assert.True(t, c.IsAllDefaultInRange(Rect{X1: 1, Y1: 1, X2: ptr(10), Y2: ptr(10)}))
}

func TestColRowMinMax(t *testing.T) {
	c := New[string]()
	c.SetRect(1, 5, ptr(1), ptr(10), "x")
	assert.Equal(t, int64(5), c.ColMin(1))
	assert.Equal(t, int64(10), c.ColMax(1))
	assert.Equal(t, int64(0), c.ColMin(2))
}

func TestHasInfiniteNonDefault(t *testing.T) {
	c := New[string]()
	assert.False(t, c.HasInfiniteNonDefault())
	c.SetRect(1, 1, ptr(1), nil, "x")
	assert.True(t, c.HasInfiniteNonDefault())
}

func TestTranslateInPlaceTruncates(t *testing.T) {
	c := New[string]()
	c.SetRect(1, 1, ptr(3), ptr(3), "x")
	c.TranslateInPlace(-2, -2)
	// Columns 1,2 would go negative and are clamped/truncated to start at 1.
	assert.Equal(t, "x", c.Get(pos.New(1, 1)))
}

// snapshotString renders the blocks deterministically for equality checks
// in tests (Contiguous2D intentionally has no exported equality method
// since comparing generic run slices isn't meaningful outside the package).
func (c *Contiguous2D[T]) snapshotString() string {
	s := ""
	for _, col := range c.cols {
		s += colKey(col.Start, col.End)
		for _, r := range col.Rows {
			s += "|" + colKey(r.Start, r.End) + "=" + any(r.Value).(string)
		}
		s += ";"
	}
	return s
}

func colKey(start, end int64) string {
	if end == pos.Unbounded {
		return itoa(start) + ":inf"
	}
	return itoa(start) + ":" + itoa(end)
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var b []byte
	for v > 0 {
		b = append(b, byte('0'+v%10))
		v /= 10
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	if neg {
		return "-" + string(b)
	}
	return string(b)
}
