package camunda

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/curo-bpm/curo/pkg/variable"
)

// Time decodes engine-rest timestamps ("2006-01-02T15:04:05.000-0700").
// A JSON null leaves it nil.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(variable.DateLayout, s)
	if err != nil {
		// Some engine versions omit milliseconds or use RFC 3339.
		if parsed, err = time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("invalid engine timestamp %q", s)
		}
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(variable.DateLayout))
}

// Ptr returns nil for a nil receiver, otherwise the wrapped time.
func (t *Time) Ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}
