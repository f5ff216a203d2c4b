package docxfill

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"sort"
)

// Values - substitution map
// "[Company Name]": "Acme"
type Values map[string]string

// Get value for placeholder, bare names are bracketed first
func (values Values) Get(key string) (string, bool) {
	v, ok := values[Bracket(key)]
	return v, ok
}

// Set value for placeholder, bare names are bracketed first
func (values Values) Set(key, value string) {
	values[Bracket(key)] = value
}

// Len ..
func (values Values) Len() int {
	return len(values)
}

// Keys - sorted placeholder keys
func (values Values) Keys() []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize - copy with every key bracketed
// {"Company": "Acme"} --> {"[Company]": "Acme"}
func (values Values) Normalize() Values {
	out := make(Values, len(values))
	for k, v := range values {
		out[Bracket(k)] = v
	}
	return out
}

// Merge - new map of all given values, later ones win
func Merge(all ...Values) Values {
	out := Values{}
	for _, values := range all {
		for k, v := range values {
			out[Bracket(k)] = v
		}
	}
	return out
}

// AnyToValues - load values from given struct or map
// 1) Convert to JSON
// 2) Now convert JSON to map[string]any
// 3) Keep only scalar fields
func AnyToValues(v any) Values {
	if buf, ok := v.([]byte); ok {
		return JSONToValues(buf)
	}

	buf, err := json.Marshal(v)
	if err != nil {
		log.Printf("AnyToValues: %s", err)
		return nil
	}
	return JSONToValues(buf)
}

// JSONToValues - load values from JSON object
func JSONToValues(buf []byte) Values {
	m := map[string]any{}

	d := json.NewDecoder(bytes.NewReader(buf))
	d.UseNumber()
	if err := d.Decode(&m); err != nil {
		log.Printf("JSONToValues: %s", err)
		return nil
	}

	values := Values{}
	for key, val := range m {
		switch v := val.(type) {
		case nil:
			continue
		case string:
			values.Set(key, v)
		case json.Number, bool:
			values.Set(key, fmt.Sprintf("%v", v))
		default:
			log.Printf("JSONToValues: skip [ %s ], only scalar values can be placed", key)
		}
	}

	return values
}
