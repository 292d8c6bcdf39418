// Package version interprets the build version injected at link time and
// enforces the semver constraint a project config may place on it.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Dev is the version string of unreleased builds.
const Dev = "dev"

// ErrUnsatisfied is returned when the running build does not meet a
// configured version constraint.
var ErrUnsatisfied = errors.New("version constraint not satisfied")

// IsDev reports whether v denotes a development build.
func IsDev(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == Dev
}

// Normalize parses v (tolerating a leading "v") and returns its canonical
// semver form. Development builds are returned as Dev.
func Normalize(v string) (string, error) {
	if IsDev(v) {
		return Dev, nil
	}
	sv, err := parseSemver(v)
	if err != nil {
		return "", fmt.Errorf("parsing version %q: %w", v, err)
	}
	return sv.String(), nil
}

// Require checks current against constraint (e.g. ">= 1.2.0, < 2").
// An empty constraint and development builds always pass.
func Require(current, constraint string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" || IsDev(current) {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing version constraint %q: %w", constraint, err)
	}
	cv, err := parseSemver(current)
	if err != nil {
		return fmt.Errorf("parsing version %q: %w", current, err)
	}
	if ok, errs := c.Validate(cv); !ok {
		reason := constraint
		if len(errs) > 0 {
			reason = errs[0].Error()
		}
		return fmt.Errorf("%w: %s (running %s)", ErrUnsatisfied, reason, cv)
	}
	return nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(v string) (*semver.Version, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	return semver.NewVersion(v)
}
