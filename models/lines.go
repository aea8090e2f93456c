package models

import (
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/datatypes"
)

// Lines is the input form of a list-valued field. Clients may send either a
// JSON array of strings or a single newline-joined string; blank entries are
// dropped and order is kept.
type Lines []string

func (l *Lines) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}

	var joined string
	if err := json.Unmarshal(b, &joined); err == nil {
		*l = SplitLines(joined)
		return nil
	}

	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return errors.New("expected a string or an array of strings")
	}
	*l = clean(items)
	return nil
}

// Slice converts l to its column type.
func (l Lines) Slice() datatypes.JSONSlice[string] {
	if len(l) == 0 {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](l)
}

// SplitLines splits a newline-joined value, trimming entries and dropping
// blank ones.
func SplitLines(s string) Lines {
	return clean(strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n"))
}

func clean(items []string) Lines {
	out := make(Lines, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
