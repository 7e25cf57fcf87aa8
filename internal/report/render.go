package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/coordinator"
)

// RenderText formats the aggregated outcomes as a human-readable report.
// Cities are sorted alphabetically so the output is stable across runs.
func RenderText(outcomes map[string]coordinator.Outcome, updatedAt time.Time) string {
	cities := make([]string, 0, len(outcomes))
	for city := range outcomes {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	var b strings.Builder
	b.WriteString(strings.Repeat("=", 50) + "\n")
	b.WriteString("AIR QUALITY REPORT\n")
	if !updatedAt.IsZero() {
		fmt.Fprintf(&b, "updated %s\n", updatedAt.Format(time.RFC3339))
	}
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, city := range cities {
		outcome := outcomes[city]
		fmt.Fprintf(&b, "%s\n", city)

		if outcome.State != coordinator.StateDone || outcome.Result == nil {
			fmt.Fprintf(&b, "   Status: unavailable (%v)\n\n", outcome.Err)
			continue
		}

		result := outcome.Result
		fmt.Fprintf(&b, "   Status: %s (%s)\n", result.Classification.Category, result.Provenance)
		fmt.Fprintf(&b, "   Main concern: %s (%.1f µg/m³)\n",
			result.Classification.Dominant, result.Classification.DominantValue)
		fmt.Fprintf(&b, "   Advice: %s\n\n", result.Advisory.General)
	}

	b.WriteString(strings.Repeat("=", 50) + "\n")
	return b.String()
}
