package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// HotelID accepts either a JSON string or a JSON number.
type HotelID string

func (id *HotelID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = HotelID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = HotelID(n.String())
	return nil
}

func (id HotelID) String() string { return string(id) }

// Number is a lenient numeric field. Strings holding numbers are accepted;
// anything else decodes as not Valid instead of failing the whole record.
type Number struct {
	Value float64
	Valid bool
}

func Num(v float64) Number { return Number{Value: v, Valid: true} }

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*n = Num(f)
		}
	case 't', 'f', '{', '[':
		// not a number
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err == nil {
			*n = Num(f)
		}
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Positive reports whether n holds a price greater than zero.
func (n Number) Positive() bool { return n.Valid && n.Value > 0 }

func (n Number) Int() int {
	if !n.Valid {
		return 0
	}
	return int(n.Value)
}

// Amenity is one entry of an amenity checklist.
type Amenity struct {
	Name    string
	Enabled bool
}

// Amenities keeps the backend's key order. Only a literal true enables an entry.
type Amenities []Amenity

func (a *Amenities) UnmarshalJSON(b []byte) error {
	*a = nil
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}
	out := Amenities{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = append(out, Amenity{Name: key, Enabled: bytes.Equal(bytes.TrimSpace(raw), []byte("true"))})
	}
	*a = out
	return nil
}

func (a Amenities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, it := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(it.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatBool(it.Enabled))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes anything other than an object as no images.
func (m *Images) UnmarshalJSON(b []byte) error {
	*m = nil
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		return nil
	}
	out := make(Images, len(raw))
	for k, v := range raw {
		var l ImageList
		_ = l.UnmarshalJSON(v)
		out[k] = l
	}
	*m = out
	return nil
}

// StringList is a list of labels. Besides an array it accepts a
// comma-separated string or a checklist object (keys set to true).
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	*l = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '[':
		var raw []any
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil
		}
		out := make(StringList, 0, len(raw))
		for _, it := range raw {
			if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		*l = out
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		out := StringList{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*l = out
	case '{':
		var a Amenities
		_ = a.UnmarshalJSON(b)
		out := StringList{}
		for _, it := range a {
			if it.Enabled {
				out = append(out, it.Name)
			}
		}
		*l = out
	}
	return nil
}

// RateMap holds prices keyed by duration. Non-object values decode as empty.
type RateMap map[string]Number

func (m *RateMap) UnmarshalJSON(b []byte) error {
	*m = nil
	var raw map[string]Number
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	*m = raw
	return nil
}

// ImageList is a category's URL list. Non-array values decode as empty.
type ImageList []string

func (l *ImageList) UnmarshalJSON(b []byte) error {
	*l = nil
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	out := make(ImageList, 0, len(raw))
	for _, it := range raw {
		if s, ok := it.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

// RoomTypes tolerates entries that were stored as JSON strings holding the
// room object. Entries that cannot be decoded become an empty RoomType so the
// position (and therefore the "Room Type n" fallback name) is kept.
type RoomTypes []RoomType

func (r *RoomTypes) UnmarshalJSON(b []byte) error {
	*r = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	out := make(RoomTypes, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				item = []byte(s)
			}
		}
		var rt RoomType
		if err := json.Unmarshal(item, &rt); err != nil {
			rt = RoomType{}
		}
		out = append(out, rt)
	}
	*r = out
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp accepts the date formats the backend has emitted over time.
// Unparseable values decode as the zero time.
type Timestamp struct{ time.Time }

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var ms int64
		if err := json.Unmarshal(b, &ms); err == nil && ms > 0 {
			t.Time = time.UnixMilli(ms).UTC()
		}
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
