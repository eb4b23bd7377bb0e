package dreamlogs

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BoolIsh accepts the loose boolean encodings web forms produce:
// true/false, 0/1, "true"/"1"/"yes"/"on" and their negatives.
type BoolIsh bool

func (b *BoolIsh) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case bool:
		*b = BoolIsh(v)
		return nil
	case float64:
		*b = v != 0
		return nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			*b = true
			return nil
		case "false", "0", "no", "off":
			*b = false
			return nil
		}
	}
	return fmt.Errorf("invalid boolean value %s", string(data))
}

var dreamDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDreamDate parses the ISO-8601-ish date strings the clients send,
// down to a bare calendar date.
func parseDreamDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dreamDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid dream date %q", value)
}
