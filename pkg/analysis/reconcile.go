package analysis

import (
	"github.com/charmbracelet/log"

	"visage/pkg/category"
	"visage/pkg/schema"
	"visage/pkg/utils"
)

// Reconcile replaces every classification's class number with the one the
// registry assigns to its label. Labels the registry does not know keep the
// model's number, or 0 when none was given, and produce a warning with the
// closest known label. Reconcile never fails; unclassified entries are a
// degraded result, not an error.
func Reconcile(entries []schema.ClassEntry) ([]schema.ClassEntry, []schema.Warning) {
	reconciled := make([]schema.ClassEntry, 0, len(entries))
	var warnings []schema.Warning

	for _, entry := range entries {
		if class, ok := category.ClassByLabel(entry.Category, entry.Label); ok {
			reconciled = append(reconciled, schema.ClassEntry{
				Category: entry.Category,
				Class:    class,
				Label:    entry.Label,
			})
			continue
		}

		closest := closestLabel(entry.Category, entry.Label)
		log.Warn("unrecognized classification label",
			"category", entry.Category,
			"label", entry.Label,
			"closest", closest,
		)
		warnings = append(warnings, schema.Warning{
			Category: entry.Category,
			Label:    entry.Label,
			Closest:  closest,
		})
		reconciled = append(reconciled, entry)
	}

	return reconciled, warnings
}

// closestLabel suggests the registry label most similar to the rejected one.
// Empty when the category itself is unknown or nothing is remotely close.
func closestLabel(categoryKey, label string) string {
	best := ""
	bestScore := 0.0
	for _, known := range category.Labels(categoryKey) {
		score := utils.Similarity(label, known)
		if score > bestScore {
			best, bestScore = known, score
		}
	}
	if bestScore < 0.4 {
		return ""
	}
	return best
}
