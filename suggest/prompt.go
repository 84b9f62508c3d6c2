package suggest

import (
	"fmt"
	"strings"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

func kind(t models.ItemType) string {
	if t == models.TypeOpportunity {
		return "opportunity"
	}
	return "risk"
}

func describe(in Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hospital section: %s\n", in.Section)
	fmt.Fprintf(&b, "Process: %s\n", in.Process)
	if in.Description != "" {
		fmt.Fprintf(&b, "Current description: %s\n", in.Description)
	}
	return b.String()
}

func descriptionPrompt(in Context) string {
	return fmt.Sprintf(`You help a hospital quality office word its risk and opportunities registry.
%s
Write %d concise, specific descriptions of a %s for this process.
Respond with a JSON array of strings only.`, describe(in), maxSuggestions, kind(in.Type))
}

func actionPlanPrompt(in Context) string {
	strategies := make([]string, 0, 4)
	for _, s := range models.StrategiesFor(in.Type) {
		strategies = append(strategies, string(s))
	}
	return fmt.Sprintf(`You help a hospital quality office plan responses to its registry entries.
%s
Propose up to %d action plans for this %s.
Respond with a JSON array of objects with the keys "strategy" (one of %s),
"description" and "responsiblePerson".`, describe(in), maxSuggestions, kind(in.Type), strings.Join(strategies, ", "))
}
