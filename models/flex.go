package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

// StringList decodes from a JSON array of strings, a comma separated string
// or null. Loosely typed documents (drafts, AI output) use it for tag lists.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = StringList{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = splitList(s)
		return nil
	case '[':
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(StringList, 0, len(raw))
		for _, item := range raw {
			switch v := item.(type) {
			case nil:
			case string:
				if s := strings.TrimSpace(v); s != "" {
					out = append(out, s)
				}
			default:
				out = append(out, fmt.Sprint(v))
			}
		}
		*l = out
		return nil
	}
	return fmt.Errorf("cannot decode %s into a string list", string(data))
}

// JSONSlice converts the list into the column type, never nil.
func (l StringList) JSONSlice() datatypes.JSONSlice[string] {
	return nonNilList(datatypes.JSONSlice[string](l))
}

func splitList(s string) StringList {
	out := StringList{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nonNilList(l datatypes.JSONSlice[string]) datatypes.JSONSlice[string] {
	if l == nil {
		return datatypes.JSONSlice[string]{}
	}
	return l
}

// ListOrEmpty returns l as a plain slice, never nil.
func ListOrEmpty(l datatypes.JSONSlice[string]) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

// FlexString accepts a JSON string, number, boolean or null. Years and
// similar fields are often typed as numbers by the editor.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*s = FlexString(data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string, got %s", string(data))
		}
		if i, err := n.Int64(); err == nil {
			*s = FlexString(strconv.FormatInt(i, 10))
		} else {
			*s = FlexString(n.String())
		}
	}
	return nil
}

func (s FlexString) String() string { return string(s) }
