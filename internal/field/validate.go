package field

import (
	"fmt"
	"strings"
)

// Plausibility thresholds for the most common mis-binding: pointing at the
// wrong nearby number.
const (
	electricUsageMax = 10000 // kWh above this is probably a meter reading
	meterReadingMin  = 1000  // readings below this are probably usage
	gasUsageMax      = 1000  // CCF above this is implausible for a home
)

// Validate checks extracted values against the document type's field
// definitions. Missing required fields and unparseable values are errors and
// flip ok; plausibility warnings are appended to issues but advisory only.
func Validate(values map[string]string, docType string) (bool, []string) {
	var issues []string

	for _, def := range Definitions(docType) {
		value := strings.TrimSpace(values[def.Name])
		if value == "" {
			if def.Required {
				issues = append(issues, fmt.Sprintf("Missing required field: %s", def.Label))
			}
			continue
		}
		if _, ok := Parse(value, def.Type); !ok {
			issues = append(issues, fmt.Sprintf("Invalid value for %s: %s", def.Label, value))
		}
	}
	ok := len(issues) == 0

	issues = append(issues, plausibilityWarnings(values, docType)...)
	return ok, issues
}

// plausibilityWarnings applies per-type sanity heuristics to catch swapped
// usage/meter bindings. These never gate an import.
func plausibilityWarnings(values map[string]string, docType string) []string {
	var warnings []string

	asNumber := func(name string) (float64, bool) {
		v, ok := Parse(values[name], TypeNumber)
		if !ok {
			return 0, false
		}
		return v.(float64), true
	}

	switch docType {
	case "electric":
		if usage, ok := asNumber("usage_kwh"); ok && usage > electricUsageMax {
			warnings = append(warnings, fmt.Sprintf("Usage (%.0f kWh) seems too high - may be meter reading?", usage))
		}
		if meter, ok := asNumber("meter_reading"); ok && meter > 0 && meter < meterReadingMin {
			warnings = append(warnings, fmt.Sprintf("Meter reading (%.0f) seems too low - may be usage?", meter))
		}
	case "gas":
		if usage, ok := asNumber("usage_ccf"); ok && usage > gasUsageMax {
			warnings = append(warnings, fmt.Sprintf("Usage (%.0f CCF) seems too high - verify value", usage))
		}
	}
	return warnings
}
