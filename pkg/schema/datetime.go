package schema

import (
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/ajitpratap0/framestat/pkg/errors"
)

// DefaultDateLayouts are tried in order when a datetime column has no format.
var DefaultDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	"02 Jan 2006",
}

// guessDatetime returns the first successful parse over the engine's layouts.
func (e *TypeInferenceEngine) guessDatetime(s string) (time.Time, error) {
	for _, layout := range e.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrorTypeValidation, "value matches no known datetime layout").
		WithDetail("value", s)
}

// parseWithFormat parses s with a strftime format when the format contains a
// conversion specifier, and as a Go reference layout otherwise.
func parseWithFormat(format, s string) (time.Time, error) {
	if strings.Contains(format, "%") {
		return strftime.Parse(format, s)
	}
	return time.Parse(format, s)
}
