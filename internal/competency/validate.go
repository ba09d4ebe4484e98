package competency

import (
	"fmt"
	"strings"
)

// validateAreas checks that a catalog is usable as a visiting order.
func validateAreas(areas []Area) error {
	var errs []string

	if len(areas) == 0 {
		errs = append(errs, "catalog is empty")
	}

	seen := make(map[Area]bool, len(areas))
	for i, a := range areas {
		name := strings.TrimSpace(string(a))
		if name == "" {
			errs = append(errs, fmt.Sprintf("area %d has an empty name", i))
			continue
		}
		if name != string(a) {
			errs = append(errs, fmt.Sprintf("area %q has surrounding whitespace", a))
		}
		if strings.Contains(name, "\n") {
			errs = append(errs, fmt.Sprintf("area %q spans multiple lines", a))
		}
		if seen[a] {
			errs = append(errs, fmt.Sprintf("duplicate area: %q", a))
		}
		seen[a] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("competency catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
