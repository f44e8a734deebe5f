package source

import (
	"bytes"
	"encoding/json"
	"io"
)

// ParseJSON accepts a JSON array whose elements are all strings.
func ParseJSON(data []byte) ([]string, error) {
	var root any
	if err := json.Unmarshal(bytes.TrimSpace(data), &root); err != nil {
		return nil, &ImportError{Reason: reasonParse, Err: err}
	}
	return toIDs(root)
}

// Export writes ids as a two-space indented JSON array.
func Export(w io.Writer, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func toIDs(root any) ([]string, error) {
	arr, ok := root.([]any)
	if !ok {
		return nil, &ImportError{Reason: reasonNotArray}
	}
	ids := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, &ImportError{Reason: reasonNotString}
		}
		ids = append(ids, s)
	}
	return ids, nil
}
