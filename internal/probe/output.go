package probe

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteText renders r for the monitoring agent: one name=value line per
// metric, followed by "<Label>\n<message>" when the verdict is not ok.
func WriteText(w io.Writer, r *Result) error {
	for _, m := range r.Metrics {
		if _, err := fmt.Fprintf(w, "%s=%s\n", m.Name, m.Value); err != nil {
			return err
		}
	}
	if r.Status == StatusOK {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", r.Status.Label(), r.Message)
	return err
}

// WriteJSON renders r as a single JSON document.
func WriteJSON(w io.Writer, r *Result) error {
	return json.NewEncoder(w).Encode(r)
}
