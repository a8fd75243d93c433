package tripform

import (
	"strings"

	"github.com/diagnosis/tourvisto-admin/internal/domain"
	"github.com/diagnosis/tourvisto-admin/internal/utils"
)

// SelectKeys are the combo-box fields, in form order.
var SelectKeys = []string{"groupType", "travelStyle", "interest", "budget"}

var Options = map[string][]string{
	"groupType": {"Solo", "Couple", "Family", "Friends", "Business"},
	"travelStyle": {
		"Relaxed", "Luxury", "Adventure", "Cultural",
		"Nature & Outdoors", "City Exploration",
	},
	"interest": {
		"Food & Culinary", "Historical Sites", "Hiking & Nature Walks",
		"Beaches & Water Activities", "Museums & Art", "Nightlife & Bars",
		"Photography Spots", "Shopping", "Local Experiences",
	},
	"budget": {"Budget", "Mid-range", "Luxury", "Premium"},
}

type Select struct {
	Key         string
	Label       string
	Placeholder string
	Options     []string
	Selected    string
}

// Selects builds the combo boxes with the draft's current values selected.
func Selects(d domain.TripFormData) []Select {
	current := map[string]string{
		"groupType":   d.GroupType,
		"travelStyle": d.TravelStyle,
		"interest":    d.Interest,
		"budget":      d.Budget,
	}
	out := make([]Select, 0, len(SelectKeys))
	for _, key := range SelectKeys {
		label := utils.FormatKey(key)
		out = append(out, Select{
			Key:         key,
			Label:       label,
			Placeholder: "Select " + label,
			Options:     Options[key],
			Selected:    current[key],
		})
	}
	return out
}

// Filter keeps the items containing query, case-insensitively.
func Filter(items []string, query string) []string {
	q := strings.ToLower(query)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it), q) {
			out = append(out, it)
		}
	}
	return out
}
