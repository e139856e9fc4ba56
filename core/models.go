package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"encoding/json"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored entities.
// It is derived from content so identical inputs map to identical keys.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Status is the listing tier of an institution.
type Status int

const (
	// StatusRegular is the default tier.
	StatusRegular Status = iota + 1
	// StatusVerified marks institutions confirmed by the directory owner.
	StatusVerified
	// StatusFeatured marks promoted institutions.
	StatusFeatured
)

// Rank returns the sort weight of the status. Higher ranks sort first.
func (s Status) Rank() int {
	switch s {
	case StatusFeatured:
		return 3
	case StatusVerified:
		return 2
	default:
		return 1
	}
}

func (s Status) String() string {
	switch s {
	case StatusFeatured:
		return "featured"
	case StatusVerified:
		return "verified"
	default:
		return "regular"
	}
}

// FlexibleID accepts both JSON strings and numbers.
// Directory files are hand-maintained and use either form.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

// Institution is a single directory entry.
type Institution struct {
	ID       FlexibleID  `json:"id"`
	Name     string      `json:"name"`
	Address  string      `json:"address"`
	Coords   *Coordinate `json:"coords"`
	Website  *string     `json:"website"`
	Phone    *string     `json:"phone"`
	Status   Status      `json:"-"`
	Programs []string    `json:"programs,omitempty"`
	Schedule string      `json:"schedule,omitempty"`
	// HoursRequired is the licensing hour requirement, 0 when unknown.
	HoursRequired int     `json:"hours_required,omitempty"`
	Tuition       string  `json:"tuition,omitempty"`
	Description   string  `json:"description,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	ReviewCount   int     `json:"review_count,omitempty"`
	GooglePlaceID string  `json:"google_place_id,omitempty"`

	// Distance from the current search center in miles.
	// Only set on copies returned by a resolution; never stored.
	Distance *float64 `json:"-"`
}

// Key returns the storage key of the institution within a data source.
func (i *Institution) Key(sourceID string) ID {
	return IDFromContent(sourceID + "/" + string(i.ID))
}

// WithDistance returns a copy of the institution annotated with a distance.
func (i Institution) WithDistance(miles float64) Institution {
	d := miles
	i.Distance = &d
	return i
}

// WithoutDistance returns a copy of the institution with no distance annotation.
func (i Institution) WithoutDistance() Institution {
	i.Distance = nil
	return i
}

// HasCoords reports whether the institution can be placed on a map.
func (i *Institution) HasCoords() bool {
	return i.Coords != nil
}

// GeocodeResult is a place resolved by the external geocoder.
type GeocodeResult struct {
	Lat         float64
	Lng         float64
	DisplayName string
}

// Coordinate returns the location of the result.
func (g *GeocodeResult) Coordinate() Coordinate {
	return Coordinate{Lat: g.Lat, Lng: g.Lng}
}

// SuggestionKind identifies where a suggestion came from.
type SuggestionKind int

const (
	// SuggestionInstitution is a directory entry whose name matched.
	SuggestionInstitution SuggestionKind = iota + 1
	// SuggestionLocality is a city extracted from directory addresses.
	SuggestionLocality
	// SuggestionPlace is a remote geocoder candidate.
	SuggestionPlace
)

func (k SuggestionKind) String() string {
	switch k {
	case SuggestionInstitution:
		return "school"
	case SuggestionLocality:
		return "city"
	case SuggestionPlace:
		return "location"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Suggestion is one autocomplete entry.
type Suggestion struct {
	ID          string
	Kind        SuggestionKind
	Label       string
	SubLabel    string
	Institution *Institution // set for SuggestionInstitution
	Coords      *Coordinate  // set for SuggestionPlace
}

// DataSource is a selectable directory file.
type DataSource struct {
	ID    string
	Label string
	URL   string
}

// DefaultSources lists the built-in directory files.
var DefaultSources = []DataSource{
	{
		ID:    "texas",
		Label: "All Texas",
		URL:   "https://raw.githubusercontent.com/barefoottico/fadejunkie/430211070b8512c117a07136e34b087971666571/texas_barber_schools.json",
	},
}

// RadiusOption is one entry of the radius selector.
// A zero value means exact text matching with no distance filter.
type RadiusOption struct {
	Miles int
	Label string
}

// RadiusOptions lists the selectable search radii.
var RadiusOptions = []RadiusOption{
	{Miles: 0, Label: "Exact match"},
	{Miles: 10, Label: "10 miles"},
	{Miles: 25, Label: "25 miles"},
	{Miles: 50, Label: "50 miles"},
	{Miles: 100, Label: "100 miles"},
}
