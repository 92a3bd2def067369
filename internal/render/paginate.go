package render

import (
	"github.com/quadratic-labs/gridcore/config"
	"github.com/quadratic-labs/gridcore/pkg/griderr"
	"github.com/quadratic-labs/gridcore/pkg/pagination"
)

// HashPage is one page of a needed-hashes listing plus the cursor to
// fetch the next one (nil when exhausted).
type HashPage struct {
	Hashes []HashCoord
	Next   *pagination.HashCursor
}

// NeededHashesPage lists the hashes in s's current viewport not yet
// delivered for layer, one page at a time (spec §4.5 "the set of hashes
// currently visible but not yet delivered"), using the same
// cursor-encoding pattern (pkg/pagination, generalized to hash
// coordinates) so a very large visible set doesn't have to be returned
// in one response. A nil cursor starts from the first page. Hashes
// returned in a page are marked delivered only once the caller has
// actually consumed them (via State.MarkDelivered), mirroring how a
// renderer only counts a hash as loaded after receiving its payload.
func NeededHashesPage(s *State, layer Layer, cursor *pagination.HashCursor, pageSize int) (HashPage, error) {
	if pageSize <= 0 {
		pageSize = config.DefaultNeededHashPageSize
	}
	all := s.NeededPreview(layer)
	SortHashes(all)

	offset := 0
	if cursor != nil {
		if cursor.Sid != s.SheetID || cursor.Lyr != string(layer) {
			return HashPage{}, griderr.New(griderr.CursorInvalid, "cursor sheet/layer does not match this viewport")
		}
		if cursor.Epo != s.epoch {
			return HashPage{}, griderr.New(griderr.CursorInvalid, "viewport changed since cursor was issued")
		}
		offset = cursor.Off
		pageSize = cursor.Ps
	}
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	page := all[offset:end]

	var next *pagination.HashCursor
	if end < len(all) {
		next = &pagination.HashCursor{
			V: 1, Sid: s.SheetID, Lyr: string(layer), Epo: s.epoch,
			Off: end, Ps: pageSize,
		}
	}
	return HashPage{Hashes: page, Next: next}, nil
}
