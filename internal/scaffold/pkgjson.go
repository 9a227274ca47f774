package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Script is one package.json script entry.
type Script struct {
	Name    string
	Command string
}

// member is one key of a JSON object, kept in document order.
type member struct {
	key   string
	value json.RawMessage
}

// MergeScripts sets scripts in a package.json document. Existing keys keep
// their position (and their value, unless overwritten here); new scripts are
// appended. Every other top-level key is preserved in order.
func MergeScripts(existing string, scripts []Script) (string, error) {
	if strings.TrimSpace(existing) == "" {
		existing = "{}"
	}
	top, err := decodeObject([]byte(existing))
	if err != nil {
		return "", fmt.Errorf("failed to parse package.json: %w", err)
	}

	idx := -1
	var current []member
	for i, m := range top {
		if m.key == "scripts" {
			idx = i
			current, err = decodeObject(m.value)
			if err != nil {
				return "", fmt.Errorf("failed to parse package.json scripts: %w", err)
			}
		}
	}

	for _, s := range scripts {
		value, err := marshalString(s.Command)
		if err != nil {
			return "", err
		}
		found := false
		for i := range current {
			if current[i].key == s.Name {
				current[i].value = value
				found = true
			}
		}
		if !found {
			current = append(current, member{key: s.Name, value: value})
		}
	}

	encoded, err := encodeObject(current)
	if err != nil {
		return "", err
	}
	if idx >= 0 {
		top[idx].value = encoded
	} else {
		top = append(top, member{key: "scripts", value: encoded})
	}

	out, err := encodeObject(top)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, out, "", "  "); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

func decodeObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	var out []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		out = append(out, member{key: key, value: value})
	}
	return out, nil
}

func encodeObject(members []member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalString encodes s without HTML escaping, so "&&" stays readable.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
