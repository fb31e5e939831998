// Package usetype implements the use-type compatibility scoring rule from
// spec.md §4.1.1: a warehouse's ActivityTier grants a set of capabilities,
// a buyer's UseType declares a set of needs, and the overlap between the
// two determines the use_type_score component of a Match.
package usetype

import (
	"fmt"
	"strings"

	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// Unknown is the callout returned alongside a zero score whenever the
// tier or use type isn't recognized by the matrix.
const Unknown = "Unknown"

// Score computes the use_type_score (0, 30, 60, or 100) for a
// (ActivityTier, UseType) pair, injecting the "office" capability when
// the truth core reports has_office_space. callout is a short
// human-readable string suitable for UI display and Match.Reasoning.
func Score(matrix config.UseTypeMatrix, tier models.ActivityTier, hasOfficeSpace bool, useType models.UseType) (score float64, callout string) {
	capabilities, tierKnown := matrix.Capabilities[tier]
	needs, typeKnown := matrix.Needs[useType]
	if !tierKnown || !typeKnown {
		return 0, Unknown
	}

	capSet := make(map[string]bool, len(capabilities)+1)
	for _, c := range capabilities {
		capSet[c] = true
	}
	officeBonus := hasOfficeSpace && !capSet["office"]
	if hasOfficeSpace {
		capSet["office"] = true
	}

	var overlap, missing []string
	for _, n := range needs {
		if capSet[n] {
			overlap = append(overlap, n)
		} else {
			missing = append(missing, n)
		}
	}

	if len(missing) == 0 {
		if officeBonus {
			return 100, "Bonus: office space"
		}
		return 100, "all required capabilities present"
	}
	if len(overlap) == 0 {
		return 0, fmt.Sprintf("Incompatible: no %s", strings.Join(needs, "/"))
	}
	if len(overlap) >= len(missing) {
		return 60, fmt.Sprintf("Partial match: missing %s", strings.Join(missing, "/"))
	}
	return 30, fmt.Sprintf("Weak match: missing %s", strings.Join(missing, "/"))
}
