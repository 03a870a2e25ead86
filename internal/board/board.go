// Package board implements the geometry of the triangular 8-a-side board:
// coordinate/index conversions, field names, and the neighbour table.
package board

import "fmt"

// Size is the number of fields along each edge of the triangular board.
const Size = 8

// NumFields is the total number of fields on the board: Size*(Size+1)/2.
const NumFields = Size * (Size + 1) / 2

// Field identifies one of the NumFields cells by its 0-based canonical
// index. NoField is returned by lookups that find nothing.
type Field int

// NoField is not a valid field index.
const NoField Field = -1

// neighbourTable[f] holds the (up to 6) fields adjacent to f, built once
// at init from the hexagonal offsets rather than hard-coded, matching the
// neighbour sets used by original_source/player.cc.
var neighbourTable [NumFields][]Field

// hex offsets for the six directions of a triangular/hex grid in (du, dv).
var hexOffsets = [6][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {-1, 1}, {1, -1},
}

func init() {
	for u := 0; u < Size; u++ {
		for v := 0; v < Size-u; v++ {
			f := CoordsToIndex(u, v)
			var ns []Field
			for _, off := range hexOffsets {
				u2, v2 := u+off[0], v+off[1]
				if AreCoordsValid(u2, v2) {
					ns = append(ns, CoordsToIndex(u2, v2))
				}
			}
			neighbourTable[f] = ns
		}
	}
}

// CoordsToIndex converts triangular coordinates (u,v), with 0<=u, 0<=v,
// u+v<Size, to the canonical 0-based field index.
func CoordsToIndex(u, v int) Field {
	return Field(Size*u - u*(u-1)/2 + v)
}

// IndexToCoords is the inverse of CoordsToIndex: it recovers (u,v) from a
// field index by walking rows of decreasing length.
func IndexToCoords(f Field) (u, v int) {
	n := Size
	i := int(f)
	for i >= n {
		i -= n
		u++
		n--
	}
	return u, i
}

// AreCoordsValid reports whether (u,v) names a field on the board.
func AreCoordsValid(u, v int) bool {
	return u >= 0 && v >= 0 && u+v < Size
}

// Neighbours returns the (up to 6) fields adjacent to f. The returned
// slice is shared and must not be modified by the caller.
func Neighbours(f Field) []Field {
	return neighbourTable[f]
}

// FieldName renders f in the human-readable "row letter + column digit"
// form used by the wire protocol, e.g. field (7,0) is "H1".
func FieldName(f Field) string {
	u, v := IndexToCoords(f)
	return fmt.Sprintf("%c%d", 'A'+u, v+1)
}

// ParseFieldName parses exactly the grammar [A-H][1-8], returning NoField
// and an error for anything else, including coordinates that are
// syntactically well-formed but off the triangular board (e.g. "A9" or a
// row/column combination with u+v>=Size).
func ParseFieldName(s string) (Field, error) {
	if len(s) != 2 {
		return NoField, fmt.Errorf("board: invalid field name %q", s)
	}
	u := int(s[0]) - int('A')
	v := int(s[1]) - int('1')
	if u < 0 || u >= Size || v < 0 || v >= Size || !AreCoordsValid(u, v) {
		return NoField, fmt.Errorf("board: invalid field name %q", s)
	}
	return CoordsToIndex(u, v), nil
}

// Valid reports whether f is a field index on the board.
func (f Field) Valid() bool {
	return f >= 0 && int(f) < NumFields
}

// String implements fmt.Stringer by delegating to FieldName.
func (f Field) String() string {
	if !f.Valid() {
		return "-"
	}
	return FieldName(f)
}
