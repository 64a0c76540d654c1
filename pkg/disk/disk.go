// Package disk defines the in-memory model of an analyzed disk surface.
//
// The model is the boundary between sectorviz and the disk-image analysis
// tooling that produces it: a disk has up to two sides, each side an ordered
// stack of tracks, each track an ordered list of element spans (markers,
// sector headers, sector data) plus mask spans flagging weak or unreadable
// regions. Angular positions are fractions of one revolution in [0, 1];
// converting them to screen angles (rotation direction, index offset) is the
// layout engine's job.
//
// Listings are interchanged as JSON; see [ReadListing] and [WriteListing].
package disk

import "fmt"

// ElementKind identifies what a track element span represents.
// The set is closed: the style model, the compositing pipeline, and the
// output sinks all switch over it exhaustively.
type ElementKind int

const (
	// ElementMarker is an index or address marker.
	ElementMarker ElementKind = iota
	// ElementSectorHeader is a sector ID header that decoded cleanly.
	ElementSectorHeader
	// ElementSectorBadHeader is a sector ID header with a CRC error.
	ElementSectorBadHeader
	// ElementSectorData is sector payload data that decoded cleanly.
	ElementSectorData
	// ElementSectorBadData is sector payload data with a CRC error.
	ElementSectorBadData
	// ElementSectorDeletedData is a deleted-data sector that decoded cleanly.
	ElementSectorDeletedData
	// ElementSectorBadDeletedData is a deleted-data sector with a CRC error.
	ElementSectorBadDeletedData

	elementKindCount
)

// String returns the canonical name used in style files and listings.
func (k ElementKind) String() string {
	switch k {
	case ElementMarker:
		return "marker"
	case ElementSectorHeader:
		return "sector_header"
	case ElementSectorBadHeader:
		return "sector_bad_header"
	case ElementSectorData:
		return "sector_data"
	case ElementSectorBadData:
		return "sector_bad_data"
	case ElementSectorDeletedData:
		return "sector_deleted_data"
	case ElementSectorBadDeletedData:
		return "sector_bad_deleted_data"
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// Valid reports whether k is a member of the closed element set.
func (k ElementKind) Valid() bool {
	return k >= 0 && k < elementKindCount
}

// ElementKinds returns all members of the closed element set in order.
func ElementKinds() []ElementKind {
	kinds := make([]ElementKind, elementKindCount)
	for i := range kinds {
		kinds[i] = ElementKind(i)
	}
	return kinds
}

// ParseElementKind maps a canonical name back to its ElementKind.
func ParseElementKind(s string) (ElementKind, bool) {
	for _, k := range ElementKinds() {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// MarkKind combines a generic element class with a good/bad flag, the form
// the analysis side reports elements in. Markers have no bad variant.
func MarkKind(base ElementKind, bad bool) ElementKind {
	if !bad {
		return base
	}
	switch base {
	case ElementSectorHeader:
		return ElementSectorBadHeader
	case ElementSectorData:
		return ElementSectorBadData
	case ElementSectorDeletedData:
		return ElementSectorBadDeletedData
	}
	return base
}

// MaskKind identifies an overlay mask category. Closed set.
type MaskKind int

const (
	// MaskWeak flags regions whose bits read inconsistently between passes.
	MaskWeak MaskKind = iota
	// MaskError flags regions that could not be decoded at all.
	MaskError

	maskKindCount
)

// String returns the canonical name used in style files and listings.
func (k MaskKind) String() string {
	switch k {
	case MaskWeak:
		return "weak"
	case MaskError:
		return "error"
	}
	return fmt.Sprintf("MaskKind(%d)", int(k))
}

// Valid reports whether k is a member of the closed mask set.
func (k MaskKind) Valid() bool {
	return k >= 0 && k < maskKindCount
}

// MaskKinds returns all members of the closed mask set in order.
func MaskKinds() []MaskKind {
	return []MaskKind{MaskWeak, MaskError}
}

// ParseMaskKind maps a canonical name back to its MaskKind.
func ParseMaskKind(s string) (MaskKind, bool) {
	for _, k := range MaskKinds() {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Element is one drawable span within a track. Start and End are fractions
// of a revolution, 0 ≤ Start < End ≤ 1.
type Element struct {
	Kind  ElementKind
	Start float64
	End   float64
}

// MaskSpan is an overlay region within a track, same angular units as Element.
type MaskSpan struct {
	Kind  MaskKind
	Start float64
	End   float64
}

// Track is one concentric ring of the medium.
type Track struct {
	Elements []Element
	Masks    []MaskSpan
}

// Side is one physical face of the medium.
type Side struct {
	Tracks []Track
}

// Disk is a fully analyzed disk surface ready for rendering.
type Disk struct {
	Name  string
	Sides []Side
}

// SideCount returns the number of sides present.
func (d *Disk) SideCount() int {
	return len(d.Sides)
}

// TrackCount returns the largest track count across all sides. Sides of a
// physical disk normally match, but damaged images may not.
func (d *Disk) TrackCount() int {
	n := 0
	for _, s := range d.Sides {
		if len(s.Tracks) > n {
			n = len(s.Tracks)
		}
	}
	return n
}
