package grid

import "github.com/quadratic-labs/gridcore/pkg/pos"

// CellMove describes one source-rectangle-to-destination-corner move
// within a MoveCellsBatch.
type CellMove struct {
	SourceSheetID string
	Source        pos.Rect
	DestSheetID   string
	DestAnchor    pos.Pos
}

// cellSnapshot captures one source cell's full state before any cut in
// the batch runs, so a later paste in the same batch sees the original
// contents rather than another move's already-applied result.
type cellSnapshot struct {
	value CellValue
	table *DataTable
}

// MoveCellsBatchUndo reverses a MoveCellsBatch: one CellMove per original
// move, with source and dest swapped.
type MoveCellsBatchUndo struct {
	Moves []CellMove
}

// MoveCellsBatch applies every move in moves against sheets (keyed by
// sheet id), honoring spec §5's ordering guarantee: "sources are
// snapshotted first, cuts are emitted before pastes, and each paste sees
// the full batch's move set so that tables moved into another move's
// source cell are not mistaken for static obstacles." Grounded on
// original_source/controller/user_actions/clipboard/move_clipboard.rs.
func MoveCellsBatch(sheets map[string]*Sheet, moves []CellMove) MoveCellsBatchUndo {
	// Phase 1: snapshot every source cell across every move before any
	// mutation, so later cuts/pastes can't observe an earlier move's
	// effects.
	snapshots := make([]map[pos.Pos]cellSnapshot, len(moves))
	for i, mv := range moves {
		src, ok := sheets[mv.SourceSheetID]
		if !ok {
			continue
		}
		snap := make(map[pos.Pos]cellSnapshot)
		for y := mv.Source.Min.Y; y <= mv.Source.Max.Y; y++ {
			for x := mv.Source.Min.X; x <= mv.Source.Max.X; x++ {
				p := pos.Pos{X: x, Y: y}
				s := cellSnapshot{value: src.GetCellValue(p)}
				if t, ok := src.Table(p); ok {
					s.table = t
				}
				snap[p] = s
			}
		}
		snapshots[i] = snap
	}

	// Phase 2: cuts — clear every source rectangle, for every move, before
	// any paste runs.
	for i, mv := range moves {
		src, ok := sheets[mv.SourceSheetID]
		if !ok {
			continue
		}
		for p := range snapshots[i] {
			src.SetCellValue(p, CellValue{Kind: Blank})
			if _, ok := src.Table(p); ok {
				delete(src.tables, p)
			}
		}
	}

	// Phase 3: pastes — write each move's snapshot at its destination. A
	// table moved into another move's source cell was already cut in
	// phase 2, so it is never mistaken for a static obstacle here.
	undo := MoveCellsBatchUndo{Moves: make([]CellMove, 0, len(moves))}
	for i, mv := range moves {
		dstSheetID := mv.DestSheetID
		if dstSheetID == "" {
			dstSheetID = mv.SourceSheetID
		}
		dst, ok := sheets[dstSheetID]
		if !ok {
			continue
		}
		dx := mv.DestAnchor.X - mv.Source.Min.X
		dy := mv.DestAnchor.Y - mv.Source.Min.Y
		for p, snap := range snapshots[i] {
			target := pos.Pos{X: p.X + dx, Y: p.Y + dy}
			dst.SetCellValue(target, snap.value)
			if snap.table != nil {
				t := *snap.table
				t.Anchor = target
				ReserveTable(dst, &t)
			}
		}
		width := mv.Source.Width()
		height := mv.Source.Height()
		destRect := pos.Rect{Min: mv.DestAnchor, Max: pos.Pos{X: mv.DestAnchor.X + width - 1, Y: mv.DestAnchor.Y + height - 1}}
		undo.Moves = append(undo.Moves, CellMove{
			SourceSheetID: dstSheetID,
			Source:        destRect,
			DestSheetID:   mv.SourceSheetID,
			DestAnchor:    mv.Source.Min,
		})
	}
	return undo
}
