package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Dimension is one option axis of a product, e.g. 顏色 → [黑, 紅].
// Value order is the declared order from the sheet and is semantically
// meaningful: it drives variant row order.
type Dimension struct {
	Name   string
	Values []string
}

// Options is the ordered list of option dimensions. A plain map would lose
// declaration order through Go map iteration, so the JSON codec walks the
// object tokens by hand.
type Options []Dimension

// UnmarshalJSON decodes a JSON object while preserving key order.
func (o *Options) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog: options must be a JSON object")
	}

	var dims Options
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("catalog: options key is not a string")
		}
		var values []string
		if err := dec.Decode(&values); err != nil {
			return err
		}
		dims = append(dims, Dimension{Name: key, Values: values})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = dims
	return nil
}

// MarshalJSON encodes the dimensions back into a JSON object in declared order.
func (o Options) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, dim := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(dim.Name)
		if err != nil {
			return nil, err
		}
		values, err := json.Marshal(dim.Values)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(values)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseOptions reads the serialized options column from the sheet. The column
// historically held either a JSON object or the legacy "名稱:值,值;名稱:值"
// form; anything unparseable degrades to zero dimensions, never an error.
func ParseOptions(raw string) Options {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "{") {
		var opts Options
		if err := json.Unmarshal([]byte(raw), &opts); err == nil {
			return opts.compact()
		}
		return nil
	}

	var opts Options
	for _, chunk := range strings.Split(raw, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		parts := strings.SplitN(chunk, ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}
		var values []string
		for _, v := range strings.Split(parts[1], ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			opts = append(opts, Dimension{Name: name, Values: values})
		}
	}
	return opts.compact()
}

func (o Options) compact() Options {
	out := o[:0]
	for _, dim := range o {
		if dim.Name == "" || len(dim.Values) == 0 {
			continue
		}
		out = append(out, dim)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
