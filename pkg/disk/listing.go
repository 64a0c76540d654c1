package disk

import (
	"encoding/json"
	"io"
	"os"

	"github.com/sectorviz/sectorviz/pkg/errors"
)

// Listing is the JSON interchange format for analyzed disks. The analysis
// tool writes one of these; sectorviz reads it. The format intentionally
// mirrors the in-memory model so round-trips are lossless.
type listing struct {
	Name  string        `json:"name,omitempty"`
	Sides []listingSide `json:"sides"`
}

type listingSide struct {
	Tracks []listingTrack `json:"tracks"`
}

type listingTrack struct {
	Elements []listingElement `json:"elements,omitempty"`
	Masks    []listingMask    `json:"masks,omitempty"`
}

type listingElement struct {
	Kind  string  `json:"kind"`
	Bad   bool    `json:"bad,omitempty"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type listingMask struct {
	Kind  string  `json:"kind"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ReadListing decodes a disk listing from r and validates it.
// Element kinds may be written either as a generic class with a bad flag
// ("sector_data" + bad:true) or directly as the bad variant name.
func ReadListing(r io.Reader) (*Disk, error) {
	var l listing
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidListing, err, "decoding disk listing")
	}

	if len(l.Sides) == 0 || len(l.Sides) > 2 {
		return nil, errors.New(errors.ErrCodeInvalidListing, "listing must have 1 or 2 sides, got %d", len(l.Sides))
	}

	d := &Disk{Name: l.Name, Sides: make([]Side, len(l.Sides))}
	for si, ls := range l.Sides {
		if len(ls.Tracks) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidListing, "side %d has no tracks", si)
		}
		tracks := make([]Track, len(ls.Tracks))
		for ti, lt := range ls.Tracks {
			t, err := decodeTrack(si, ti, lt)
			if err != nil {
				return nil, err
			}
			tracks[ti] = t
		}
		d.Sides[si] = Side{Tracks: tracks}
	}
	return d, nil
}

func decodeTrack(side, track int, lt listingTrack) (Track, error) {
	t := Track{}
	for _, le := range lt.Elements {
		kind, ok := ParseElementKind(le.Kind)
		if !ok {
			return Track{}, errors.New(errors.ErrCodeUnknownElement,
				"side %d track %d: unknown element kind %q", side, track, le.Kind)
		}
		if err := checkSpan(side, track, le.Start, le.End); err != nil {
			return Track{}, err
		}
		t.Elements = append(t.Elements, Element{
			Kind:  MarkKind(kind, le.Bad),
			Start: le.Start,
			End:   le.End,
		})
	}
	for _, lm := range lt.Masks {
		kind, ok := ParseMaskKind(lm.Kind)
		if !ok {
			return Track{}, errors.New(errors.ErrCodeUnknownMask,
				"side %d track %d: unknown mask kind %q", side, track, lm.Kind)
		}
		if err := checkSpan(side, track, lm.Start, lm.End); err != nil {
			return Track{}, err
		}
		t.Masks = append(t.Masks, MaskSpan{Kind: kind, Start: lm.Start, End: lm.End})
	}
	return t, nil
}

func checkSpan(side, track int, start, end float64) error {
	if start < 0 || end > 1 || start >= end {
		return errors.New(errors.ErrCodeInvalidListing,
			"side %d track %d: span [%g, %g] outside [0, 1] or empty", side, track, start, end)
	}
	return nil
}

// ReadListingFile is a convenience wrapper over [ReadListing] for
// filesystem paths.
func ReadListingFile(path string) (*Disk, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "listing file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "opening listing file %s", path)
	}
	defer f.Close()
	return ReadListing(f)
}

// WriteListing encodes a disk as an indented JSON listing.
// The output can be re-read with [ReadListing] for round-trip processing.
func WriteListing(d *Disk, w io.Writer) error {
	l := listing{Name: d.Name, Sides: make([]listingSide, len(d.Sides))}
	for si, s := range d.Sides {
		tracks := make([]listingTrack, len(s.Tracks))
		for ti, t := range s.Tracks {
			lt := listingTrack{}
			for _, e := range t.Elements {
				lt.Elements = append(lt.Elements, listingElement{
					Kind:  e.Kind.String(),
					Start: e.Start,
					End:   e.End,
				})
			}
			for _, m := range t.Masks {
				lt.Masks = append(lt.Masks, listingMask{
					Kind:  m.Kind.String(),
					Start: m.Start,
					End:   m.End,
				})
			}
			tracks[ti] = lt
		}
		l.Sides[si] = listingSide{Tracks: tracks}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}
