package format

import (
	"encoding/json"
	"io"
)

// WriteJSON writes strict JSON output for CLI commands.
//
// NOTE: We intentionally keep output strict JSON only. If you need to
// communicate how to fetch more data, use a `meta` object or `_hint` fields.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}
