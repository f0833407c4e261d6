package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
)

var errNotInitialized = errors.New("application not initialized - database connection required")

// RequireApp returns the global app or an error when main could not build it.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, errNotInitialized
	}
	return app, nil
}

// DescribeError renders a domain error with its kind and hint for the terminal.
func DescribeError(err error) string {
	kind := sharedDomain.KindOf(err)
	var b strings.Builder
	fmt.Fprintf(&b, "error [%s]: %v", kind, err)
	if label, ok := sharedDomain.BusyConflictLabel(err); ok && label != "" {
		fmt.Fprintf(&b, "\n  conflicts with: %s", label)
	}
	if hint := sharedDomain.Hint(err); hint != "" {
		fmt.Fprintf(&b, "\n  hint: %s", hint)
	}
	return b.String()
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ParseTimes parses RFC 3339 timestamps given on the command line.
func ParseTimes(values []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, errors.WithHint(
				errors.Wrapf(sharedDomain.ErrInvalidInput, "invalid time %q", v),
				"use RFC 3339, e.g. 2026-03-02T15:00:00Z",
			)
		}
		out = append(out, t)
	}
	return out, nil
}

// VersionFlag converts an --expected-version flag into an optional version;
// negative means "not given".
func VersionFlag(v int) *int {
	if v < 0 {
		return nil
	}
	return &v
}
