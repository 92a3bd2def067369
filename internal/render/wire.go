package render

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/quadratic-labs/gridcore/internal/grid"
	"github.com/quadratic-labs/gridcore/pkg/pos"
)

// RenderCell is one cell's label-layer payload: its rendered text plus
// the presentation attributes a renderer needs without re-deriving them
// from the formats layers (spec §4.5 "byte-serialized... payloads of
// RenderCell... for labels").
type RenderCell struct {
	Pos           pos.Pos
	Label         string
	Bold          bool
	Italic        bool
	Underline     bool
	StrikeThrough bool
	TextColor     string
	Align         string
	VerticalAlign string
}

// RenderFill is one cell's background-layer payload.
type RenderFill struct {
	Pos   pos.Pos
	Color string
}

// SheetFill is the sheet-wide default background, used when a hash
// carries no per-cell RenderFill entries (spec §4.5 "RenderFill/
// SheetFill... for backgrounds").
type SheetFill struct {
	Color string
}

// HashLabels bundles one hash bucket's RenderCell payload, the unit the
// labels layer is delivered in.
type HashLabels struct {
	Hash  HashCoord
	Cells []RenderCell
}

// HashFills bundles one hash bucket's RenderFill payload, the unit the
// fills layer is delivered in.
type HashFills struct {
	Hash  HashCoord
	Fills []RenderFill
}

// BuildHashLabels reads sheet through format for every non-blank cell in
// the hash bucket bounds and assembles its RenderCell payload.
func BuildHashLabels(sheet *grid.Sheet, b Bucketing, h HashCoord) HashLabels {
	rect := b.Bounds(h)
	out := HashLabels{Hash: h}
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			p := pos.Pos{X: x, Y: y}
			v := sheet.GetCellValue(p)
			if v.IsBlank() {
				continue
			}
			f := sheet.Formats.At(p)
			out.Cells = append(out.Cells, RenderCell{
				Pos:           p,
				Label:         FormatCellValue(v, f),
				Bold:          f.Bold,
				Italic:        f.Italic,
				Underline:     f.Underline,
				StrikeThrough: f.StrikeThrough,
				TextColor:     f.TextColor,
				Align:         f.Align,
				VerticalAlign: f.VerticalAlign,
			})
		}
	}
	return out
}

// BuildHashFills reads sheet's fill-color layer for every cell in the
// hash bucket bounds carrying a non-default fill.
func BuildHashFills(sheet *grid.Sheet, b Bucketing, h HashCoord) HashFills {
	rect := b.Bounds(h)
	out := HashFills{Hash: h}
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			p := pos.Pos{X: x, Y: y}
			f := sheet.Formats.At(p)
			if f.FillColor == "" {
				continue
			}
			out.Fills = append(out.Fills, RenderFill{Pos: p, Color: f.FillColor})
		}
	}
	return out
}

// EncodeFrame serializes payload as length-prefixed binary: a 4-byte
// big-endian byte count followed by its JSON encoding (spec §4.5
// "byte-serialized (e.g., length-prefixed binary) payloads"). JSON
// keeps the wire format simple to evolve while the length prefix lets a
// stream of frames be read back without a delimiter scan.
func EncodeFrame(payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(body)))
	copy(buf[4:], body)
	return buf, nil
}

// DecodeFrame reads one length-prefixed frame from data into out (a
// pointer to a HashLabels, HashFills, or SheetFill) and returns the
// number of bytes consumed.
func DecodeFrame(data []byte, out any) (int, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("render: frame too short for length prefix")
	}
	n := int(binary.BigEndian.Uint32(data[:4]))
	if len(data) < 4+n {
		return 0, fmt.Errorf("render: frame declares %d bytes, have %d", n, len(data)-4)
	}
	if err := json.Unmarshal(data[4:4+n], out); err != nil {
		return 0, err
	}
	return 4 + n, nil
}

// DecodeAllFrames reads a concatenated stream of length-prefixed frames,
// each unmarshaled via decode, until the buffer is exhausted.
func DecodeAllFrames(data []byte, decode func(body []byte) error) error {
	r := bytes.NewReader(data)
	for r.Len() > 0 {
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return err
		}
		n := binary.BigEndian.Uint32(lenBuf[:])
		body := make([]byte, n)
		if _, err := io.ReadFull(r, body); err != nil {
			return err
		}
		if err := decode(body); err != nil {
			return err
		}
	}
	return nil
}
