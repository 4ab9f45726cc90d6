// Package version compares tool versions using semver.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Compare compares two version strings. Returns -1 if a < b, 0 if equal,
// 1 if a > b. A leading "v" is ignored.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := parse(b)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// ProjectNewer reports whether a project written by projectVersion is newer
// than the running tool. Unparseable versions (such as "dev") never count
// as newer.
func ProjectNewer(toolVersion, projectVersion string) bool {
	cmp, err := Compare(toolVersion, projectVersion)
	if err != nil {
		return false
	}
	return cmp == -1
}

func parse(v string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(v, "v"))
}
