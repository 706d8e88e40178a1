package scenario

import (
	"fmt"

	"wfbench/internal/marketplace"
)

// need fails a step whose input should have been produced by an earlier,
// failed step.
func need(value, what string) error {
	if value == "" {
		return fmt.Errorf("no %s available from a previous step", what)
	}
	return nil
}

// first returns the first record of a list or an error naming what was empty.
func first(records []marketplace.Record, what string) (marketplace.Record, error) {
	if len(records) == 0 {
		return marketplace.Record{}, fmt.Errorf("no %s found", what)
	}
	return records[0], nil
}

// expectField checks that rec has want at path.
func expectField(rec marketplace.Record, path, want string) error {
	if got := rec.String(path); got != want {
		return fmt.Errorf("expected %s to be %q, got %q", path, want, got)
	}
	return nil
}

// expectOneOf checks that rec has one of want at path.
func expectOneOf(rec marketplace.Record, path string, want ...string) error {
	got := rec.String(path)
	for _, w := range want {
		if got == w {
			return nil
		}
	}
	return fmt.Errorf("unexpected %s %q, expected one of %v", path, got, want)
}
