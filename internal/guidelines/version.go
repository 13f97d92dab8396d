// SPDX-License-Identifier: MPL-2.0

package guidelines

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed major.minor.patch triplet.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a loosely-formatted version string into a Version.
// It is total: it never fails. The string is split on ".", at most three
// fields are considered, non-digit characters are stripped from each field,
// and an empty or unparsable field becomes 0. Missing trailing fields are
// padded with 0.
//
// This is deliberately lossy: pre-release and build suffixes are dropped, so
// "1.2.3-beta" and "1.2.3" parse identically. Malformed input is treated as
// version zero rather than rejected.
func ParseVersion(s string) Version {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "0"
	}

	var nums [3]int
	for i, field := range strings.SplitN(s, ".", 4) {
		if i >= 3 {
			break
		}
		var digits strings.Builder
		for _, c := range field {
			if c >= '0' && c <= '9' {
				digits.WriteRune(c)
			}
		}
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			n = 0
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}
}

// Compare compares two versions component-wise.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}
	return 0
}

// String returns the canonical "major.minor.patch" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
