package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quadratic-labs/gridcore/internal/runtime"
)

func newTestStore(t *testing.T, maxOpenWorkbooks int) *Store {
	t.Helper()
	ctrl := runtime.NewController(runtime.NewLimits(10, maxOpenWorkbooks))
	return NewStore(ctrl)
}

func TestStoreCreateGetClose(t *testing.T) {
	st := newTestStore(t, 4)
	require.Equal(t, 0, st.Count())

	wb, err := st.Create(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, wb.ID)
	require.Equal(t, 1, st.Count())

	got, ok := st.Get(wb.ID)
	require.True(t, ok)
	require.Same(t, wb, got)

	st.Close(wb.ID)
	require.Equal(t, 0, st.Count())
	_, ok = st.Get(wb.ID)
	require.False(t, ok)
}

func TestStoreGetUnknownHandle(t *testing.T) {
	st := newTestStore(t, 4)
	_, ok := st.Get("does-not-exist")
	require.False(t, ok)
}

func TestStoreCreateBlocksPastMaxOpenWorkbooks(t *testing.T) {
	st := newTestStore(t, 1)
	wb, err := st.Create(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	_, err = st.Create(ctx)
	require.Error(t, err, "a second workbook must not be grantable past the configured slot limit")

	st.Close(wb.ID)
	_, err = st.Create(context.Background())
	require.NoError(t, err, "closing the first workbook must free its slot")
}

func TestStoreCloseIsIdempotent(t *testing.T) {
	st := newTestStore(t, 1)
	wb, err := st.Create(context.Background())
	require.NoError(t, err)

	st.Close(wb.ID)
	st.Close(wb.ID) // closing twice must not release the slot twice

	_, err = st.Create(context.Background())
	require.NoError(t, err, "double-close must not over-release the workbook slot")
}

func TestWorkbookRenderStateLazyAndCached(t *testing.T) {
	st := newTestStore(t, 4)
	wb, err := st.Create(context.Background())
	require.NoError(t, err)
	sheet := wb.Grid.AddSheet("Sheet1")

	s1 := wb.RenderState(sheet.ID)
	s2 := wb.RenderState(sheet.ID)
	require.Same(t, s1, s2, "RenderState must cache per sheet")
	require.True(t, s1.IsDirty(), "a freshly allocated render state starts fully dirty")
}
