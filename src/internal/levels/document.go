package levels

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/blockdude2/level-maker/src/internal/errors"
)

// DefaultID is the id used when a saved document has no "id" field.
const DefaultID = 1

var (
	defaultName   = json.RawMessage(`"Unnamed"`)
	defaultWidth  = json.RawMessage(`16`)
	defaultHeight = json.RawMessage(`16`)
	nullValue     = json.RawMessage(`null`)
)

// Summary is the projection of a level document returned by the listing.
// Recognized fields are passed through as stored; absent ones get defaults.
type Summary struct {
	ID       json.RawMessage `json:"id"`
	Name     json.RawMessage `json:"name"`
	Width    json.RawMessage `json:"width"`
	Height   json.RawMessage `json:"height"`
	Filename string          `json:"filename"`
}

// Document is a parsed level document.
type Document struct {
	ID     int
	fields map[string]json.RawMessage
	raw    []byte
}

// ParseDocument parses body as a level document. It must be a JSON object;
// its "id" may be a JSON integer, an integral number or a numeric string and
// defaults to DefaultID when absent.
func ParseDocument(body []byte) (*Document, error) {
	trimmed, fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	id := DefaultID
	if raw, ok := fields["id"]; ok {
		parsed, err := parseDocumentID(raw)
		if err != nil {
			return nil, errors.NewBadRequestError("invalid level id", err)
		}
		id = parsed
	}

	// a repeated key keeps its last value, like any JSON object decoder
	raw, err := dedupeKeys(trimmed)
	if err != nil {
		return nil, errors.NewBadRequestError("invalid level JSON", err)
	}

	return &Document{ID: id, fields: fields, raw: raw}, nil
}

// ParseSummary extracts the summary of a stored level file. Unlike
// ParseDocument it does not interpret the id.
func ParseSummary(data []byte, filename string) (Summary, error) {
	trimmed, fields, err := decodeObject(data)
	if err != nil {
		return Summary{}, err
	}
	d := &Document{fields: fields, raw: trimmed}
	return d.Summarize(filename), nil
}

func decodeObject(body []byte) ([]byte, map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, nil, errors.NewBadRequestError("invalid level JSON", err)
	}
	if fields == nil {
		return nil, nil, errors.NewBadRequestError("level document must be a JSON object", nil)
	}
	return trimmed, fields, nil
}

func parseDocumentID(raw json.RawMessage) (int, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, err
	}

	switch id := v.(type) {
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return int(n), nil
		}
		f, err := id.Float64()
		if err != nil || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, fmt.Errorf("id %s is out of range", id)
		}
		return int(math.Trunc(f)), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			return 0, fmt.Errorf("id %q is not an integer", id)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("id must be an integer, got %s", string(raw))
	}
}

// dedupeKeys rewrites raw so that every object, at any depth, holds each key
// once: the last value at the position of the first occurrence. Values that
// are not objects or arrays are copied byte for byte.
func dedupeKeys(raw json.RawMessage) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '{' && raw[0] != '[') {
		return raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if raw[0] == '[' {
		buf.WriteByte('[')
		for i := 0; dec.More(); i++ {
			elem, err := decodeDeduped(dec)
			if err != nil {
				return nil, err
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(elem)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		value, err := decodeDeduped(dec)
		if err != nil {
			return nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}

	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		buf.Write(values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeDeduped(dec *json.Decoder) (json.RawMessage, error) {
	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return dedupeKeys(value)
}

func writeKey(buf *bytes.Buffer, key string) error {
	var enc bytes.Buffer
	e := json.NewEncoder(&enc)
	e.SetEscapeHTML(false)
	if err := e.Encode(key); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(enc.Bytes(), "\n"))
	return nil
}

// Indented returns the document re-serialized with 2-space indentation.
// Field order and values are kept as received, except that a repeated key
// keeps only its last value.
func (d *Document) Indented() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, d.raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Summarize projects the document onto a Summary for the given file name.
func (d *Document) Summarize(filename string) Summary {
	return Summary{
		ID:       d.fieldOr("id", nullValue),
		Name:     d.fieldOr("name", defaultName),
		Width:    d.fieldOr("width", defaultWidth),
		Height:   d.fieldOr("height", defaultHeight),
		Filename: filename,
	}
}

func (d *Document) fieldOr(name string, def json.RawMessage) json.RawMessage {
	if v, ok := d.fields[name]; ok {
		return v
	}
	return def
}
