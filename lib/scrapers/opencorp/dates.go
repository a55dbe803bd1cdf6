package opencorp

import (
	"fmt"
	"strings"
	"time"
)

// the registry renders every date as e.g. "4 Jul 2021"
const registryDateLayout = "2 Jan 2006"

// NormalizeDate converts a registry date into ISO calendar form
// (YYYY-MM-DD). Anything else, including an already-normalized ISO
// string, is rejected: raw date text must never survive into a record,
// and normalization must never be silently applied twice.
func NormalizeDate(raw string) (string, error) {
	parsed, err := time.Parse(registryDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("date %q is not in the registry's \"D Mon YYYY\" form: %w", raw, err)
	}
	return parsed.Format("2006-01-02"), nil
}
