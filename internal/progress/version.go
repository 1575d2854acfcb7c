package progress

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// checkVersion accepts any record version sharing the current major number.
// Minor bumps are additive; a different major means the layout changed and
// the record cannot be trusted.
func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("record has no version")
	}
	sv := "v" + v
	if !semver.IsValid(sv) {
		return fmt.Errorf("unrecognized record version %q", v)
	}
	if got, want := semver.Major(sv), semver.Major("v"+RecordVersion); got != want {
		return fmt.Errorf("record version %q is not compatible with %q", v, RecordVersion)
	}
	return nil
}
