// Package mcpserver exposes internal/grid's Operations API and
// internal/render's viewport contract as MCP tools (SPEC_FULL.md [OPS]),
// in place of holding mcp.Tool schemas against on-disk
// workbooks opened through internal/workbooks.Manager, Store here holds
// in-memory grid.Grid instances (this module has no file persistence;
// internal/importer seeds a sheet from a file once, at creation time).
package mcpserver

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/quadratic-labs/gridcore/internal/render"
	"github.com/quadratic-labs/gridcore/internal/runtime"
)

// Workbook pairs one grid.Grid with the render.State of each sheet a
// client has opened a viewport onto. Sheets not yet viewed have no
// render.State: it is allocated lazily by RenderState.
type Workbook struct {
	ID   string
	Grid *grid.Grid

	mu     sync.Mutex
	states map[string]*render.State
}

// RenderState returns sheetID's render.State, allocating a fresh one
// (empty viewport, everything dirty) on first use.
func (w *Workbook) RenderState(sheetID string) *render.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.states[sheetID]; ok {
		return s
	}
	s := render.NewState(sheetID)
	w.states[sheetID] = s
	return s
}

// Store is the process-wide registry of open workbooks, keyed by a
// google/uuid handle the same way a file-handle manager would key
// excelize handles (internal/workbooks/workbooks.go), minus that
// manager's TTL eviction and on-disk reopen path: workbooks here live
// only as long as the process does. The number concurrently open is
// bounded by a runtime.Controller's workbook semaphore (runtime.Limits'
// MaxOpenWorkbooks), acquired in Create and released in Close.
type Store struct {
	ctrl *runtime.Controller

	mu        sync.RWMutex
	workbooks map[string]*Workbook
}

// NewStore constructs an empty Store gated by ctrl's workbook limit.
func NewStore(ctrl *runtime.Controller) *Store {
	return &Store{ctrl: ctrl, workbooks: map[string]*Workbook{}}
}

// Create allocates a new, empty workbook and returns its handle, blocking
// until a workbook slot is available or ctx is done.
func (s *Store) Create(ctx context.Context) (*Workbook, error) {
	if err := s.ctrl.AcquireWorkbook(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wb := &Workbook{
		ID:     uuid.NewString(),
		Grid:   grid.NewGrid(),
		states: map[string]*render.State{},
	}
	s.workbooks[wb.ID] = wb
	return wb, nil
}

// Get resolves a workbook handle. ok is false when the handle is unknown
// (never issued, or already Closed); callers surface this as mcperr's
// InvalidHandle for an unknown handle.
func (s *Store) Get(id string) (*Workbook, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wb, ok := s.workbooks[id]
	return wb, ok
}

// Close discards a workbook handle and frees its slot. Idempotent: closing
// an unknown or already-closed handle releases nothing.
func (s *Store) Close(id string) {
	s.mu.Lock()
	_, ok := s.workbooks[id]
	delete(s.workbooks, id)
	s.mu.Unlock()
	if ok {
		s.ctrl.ReleaseWorkbook()
	}
}

// Count returns the number of open workbooks.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workbooks)
}
