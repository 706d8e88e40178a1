package marketplace

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Record is one JSON document returned by the API. Fields are read with
// gjson paths such as "id", "items.0.price" or "seller.name".
type Record struct {
	raw []byte
}

// NewRecord wraps raw JSON.
func NewRecord(raw []byte) Record {
	return Record{raw: raw}
}

// Get returns the value at path.
func (r Record) Get(path string) gjson.Result {
	return gjson.GetBytes(r.raw, path)
}

// String returns the value at path as a string, "" if absent.
func (r Record) String(path string) string {
	return r.Get(path).String()
}

// Float returns the value at path as a number, 0 if absent.
func (r Record) Float(path string) float64 {
	return r.Get(path).Float()
}

// Has reports whether path exists.
func (r Record) Has(path string) bool {
	return r.Get(path).Exists()
}

// ID returns the record id, accepting "id", "_id" or a "data"-wrapped id.
func (r Record) ID() string {
	for _, path := range []string{"id", "_id", "data.id", "data._id"} {
		if v := r.Get(path); v.Exists() {
			return v.String()
		}
	}
	return ""
}

// Raw returns the underlying JSON.
func (r Record) Raw() []byte {
	return r.raw
}

// MarshalJSON embeds the raw document so step data exports as the API
// returned it.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 || !gjson.ValidBytes(r.raw) {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// UnmarshalJSON keeps a copy of the raw document.
func (r *Record) UnmarshalJSON(data []byte) error {
	r.raw = append([]byte(nil), data...)
	return nil
}

// parseList accepts a bare JSON array or an object wrapping one in "data",
// "items" or "results".
func parseList(body []byte) ([]Record, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		for _, key := range []string{"data", "items", "results"} {
			if v := root.Get(key); v.IsArray() {
				root = v
				break
			}
		}
	}
	if !root.IsArray() {
		return nil, false
	}

	records := []Record{}
	root.ForEach(func(_, value gjson.Result) bool {
		records = append(records, NewRecord([]byte(value.Raw)))
		return true
	})
	return records, true
}

var _ json.Marshaler = Record{}
