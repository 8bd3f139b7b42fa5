package resources

import (
	"fmt"

	"github.com/jrsteele09/go-dashboard/internal/utils"
)

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func valueOf(s *string) string {
	return utils.Value(s)
}

// FormatField renders a Field value for display; unset values are empty.
func FormatField(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
