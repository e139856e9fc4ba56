package directory

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/schoolfinder/core"
)

var errNotAnObject = errors.New("record is not a JSON object")

// record holds the raw fields of one directory entry. Optional fields
// that fail to decode are recorded in bad and left at their zero value.
type record struct {
	fields map[string]json.RawMessage
	bad    []string
}

func parseRecord(data json.RawMessage) (*record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNotAnObject
	}
	return &record{fields: fields}, nil
}

func (r *record) raw(name string) (json.RawMessage, bool) {
	v, ok := r.fields[name]
	if !ok || string(v) == "null" {
		return nil, false
	}
	return v, true
}

func (r *record) fail(name string) {
	r.bad = append(r.bad, name)
}

// requiredString decodes a field that must be a string when present.
func (r *record) requiredString(name string) (string, error) {
	v, ok := r.raw(name)
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", err
	}
	return s, nil
}

// id returns the record id. A missing or malformed id yields "".
func (r *record) id() core.FlexibleID {
	v, ok := r.raw("id")
	if !ok {
		return ""
	}
	var id core.FlexibleID
	if err := json.Unmarshal(v, &id); err != nil {
		r.fail("id")
		return ""
	}
	return id
}

func (r *record) text(name string) *string {
	v, ok := r.raw(name)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		r.fail(name)
		return nil
	}
	return &s
}

// textOrNumber accepts a string or a bare JSON number, for phone numbers
// typed without punctuation.
func (r *record) textOrNumber(name string) *string {
	v, ok := r.raw(name)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return &s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		r.fail(name)
		return nil
	}
	s = n.String()
	return &s
}

func (r *record) textValue(name string) string {
	if s := r.text(name); s != nil {
		return *s
	}
	return ""
}

// number accepts a JSON number or a numeric string.
func (r *record) number(name string) float64 {
	v, ok := r.raw(name)
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}
	}
	r.fail(name)
	return 0
}

func (r *record) integer(name string) int {
	f := r.number(name)
	if f < 0 || f > math.MaxInt32 {
		r.fail(name)
		return 0
	}
	return int(math.Round(f))
}

// list accepts an array of strings or a single string.
func (r *record) list(name string) []string {
	v, ok := r.raw(name)
	if !ok {
		return nil
	}
	var items []string
	if err := json.Unmarshal(v, &items); err == nil {
		if len(items) == 0 {
			return nil
		}
		return items
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return []string{s}
		}
		return nil
	}
	r.fail(name)
	return nil
}

func (r *record) coordinate(name string) *core.Coordinate {
	v, ok := r.raw(name)
	if !ok {
		return nil
	}
	var c struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal(v, &c); err != nil || c.Lat == nil || c.Lng == nil {
		r.fail(name)
		return nil
	}
	return &core.Coordinate{Lat: *c.Lat, Lng: *c.Lng}
}

// institution builds an Institution from the record. Name and address
// must be strings; every other field falls back to its zero value.
func (r *record) institution() (core.Institution, error) {
	name, err := r.requiredString("name")
	if err != nil {
		return core.Institution{}, err
	}
	address, err := r.requiredString("address")
	if err != nil {
		return core.Institution{}, err
	}

	return core.Institution{
		ID:            r.id(),
		Name:          name,
		Address:       address,
		Coords:        r.coordinate("coords"),
		Website:       r.text("website"),
		Phone:         r.textOrNumber("phone"),
		Programs:      r.list("programs"),
		Schedule:      r.textValue("schedule"),
		HoursRequired: r.integer("hours_required"),
		Tuition:       r.textValue("tuition"),
		Description:   r.textValue("description"),
		Rating:        r.number("rating"),
		ReviewCount:   r.integer("review_count"),
		GooglePlaceID: r.textValue("google_place_id"),
	}, nil
}
