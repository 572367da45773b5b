package field

import (
	"log/slog"
	"regexp"
	"sort"
)

// Shared date pattern fragments. Order matters everywhere they appear:
// numeric forms first, textual month forms after, the no-year short form
// last (it is a prefix of the full textual forms).
const (
	monthNames     = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?`
	slashDate      = `(\d{1,2}/\d{1,2}/\d{2,4})`
	dashDate       = `(\d{1,2}-\d{1,2}-\d{2,4})`
	monthDayYear   = `(` + monthNames + `\s+\d{1,2},?\s+\d{4})`
	dayMonthYear   = `(\d{1,2}\s+` + monthNames + `\s+\d{4})`
	monthDayNoYear = `(` + monthNames + `\s+\d{1,2})`
)

var currencyPatterns = []string{`\$\s*([\d,]+\.?\d*)`, `([\d,]+\.\d{2})`}

var singleDatePatterns = []string{slashDate, dashDate, monthDayYear, dayMonthYear, monthDayNoYear}

// registry holds the static field definitions per document type. Pattern
// order within each definition is load-bearing.
var registry = map[string][]Definition{
	"electric": {
		{Name: "bill_date", Label: "Bill Date", Type: TypeDate, Required: true, Mappable: true,
			Patterns: singleDatePatterns},
		{Name: "usage_kwh", Label: "Usage (kWh)", Type: TypeNumber, Required: true, Mappable: true,
			Patterns: []string{
				`([\d,]+)(?:\.\d*)?\s*kWh`,
				`([\d,]+)(?:\.\d*)?\s*kwh`,
				`([\d,]+)(?:\.\d*)?`,
			}},
		{Name: "total_cost", Label: "Total Cost", Type: TypeCurrency, Required: true, Mappable: true,
			Patterns: currencyPatterns},
		{Name: "days", Label: "Service Days", Type: TypeInteger, Required: true, Mappable: true,
			Patterns: []string{`(\d+)\s*days?`, `(\d{2,3})(?:\D|$)`}},
		{Name: "meter_reading", Label: "Meter Reading", Type: TypeNumber, Required: false, Mappable: true,
			Patterns: []string{`([\d,]+)`}},
		{Name: "electric_cost", Label: "Electric Cost", Type: TypeCurrency, Required: false, Mappable: true,
			Patterns: currencyPatterns},
		{Name: "taxes", Label: "Taxes", Type: TypeCurrency, Required: false, Mappable: true,
			Patterns: currencyPatterns},
	},
	"gas": {
		{Name: "bill_date", Label: "Bill Date", Type: TypeDate, Required: true, Mappable: true,
			Patterns: []string{
				// Billing-period ranges: capture the second (end) date.
				`\d{1,2}/\d{1,2}/\d{2,4}\s*[-–]\s*(\d{1,2}/\d{1,2}/\d{2,4})`,
				`\d{1,2}-\d{1,2}-\d{2,4}\s*[-–]\s*(\d{1,2}-\d{1,2}-\d{2,4})`,
				slashDate,
				dashDate,
				monthDayYear,
				dayMonthYear,
				monthDayNoYear,
			}},
		{Name: "usage_ccf", Label: "Usage (CCF)", Type: TypeNumber, Required: true, Mappable: true,
			Patterns: []string{`([\d,]+)(?:\.\d*)?\s*(?:ccf|CCF)`, `([\d,]+)(?:\.\d*)?`}},
		{Name: "total_cost", Label: "Total Cost", Type: TypeCurrency, Required: true, Mappable: true,
			Patterns: currencyPatterns},
		{Name: "days", Label: "Service Days", Type: TypeInteger, Required: true, Mappable: true,
			Patterns: []string{`(\d+)\s*days?`, `(\d{2,3})(?:\D|$)`}},
		{Name: "therms", Label: "Therms", Type: TypeNumber, Required: false, Mappable: true,
			Patterns: []string{`([\d,]+)(?:\.\d*)?`}},
		{Name: "meter_reading", Label: "Meter Reading", Type: TypeNumber, Required: false, Mappable: true,
			Patterns: []string{`([\d,]+)`}},
		{Name: "btu_factor", Label: "BTU Factor", Type: TypeNumber, Required: false, Mappable: true,
			Patterns: []string{
				// Conversion factors print as "X $1.279167"; long decimals
				// must win over the generic decimal fallback.
				`[Xx]\s*[\$]?\s*(\d+\.\d{4,})`,
				`(\d+\.\d{4,})`,
				`[Xx]\s*[\$]?\s*(\d+\.\d+)`,
				`(\d+\.\d+)`,
			}},
		{Name: "service_charge", Label: "Service Charge", Type: TypeCurrency, Required: false, Mappable: true,
			Patterns: currencyPatterns},
		{Name: "taxes", Label: "Taxes", Type: TypeCurrency, Required: false, Mappable: true,
			Patterns: currencyPatterns},
	},
	"water": {
		{Name: "bill_date", Label: "Bill Date", Type: TypeDate, Required: true, Mappable: true,
			Patterns: singleDatePatterns},
		{Name: "usage_gallons", Label: "Usage (Gallons)", Type: TypeNumber, Required: true, Mappable: true,
			Patterns: []string{`([\d,]+)(?:\.\d*)?\s*(?:gal|gallons?)`, `([\d,]+)(?:\.\d*)?`}},
		{Name: "total_cost", Label: "Total Cost", Type: TypeCurrency, Required: true, Mappable: true,
			Patterns: currencyPatterns},
		{Name: "meter_reading", Label: "Meter Reading", Type: TypeNumber, Required: false, Mappable: true,
			Patterns: []string{`([\d,]+)`}},
		// Auto-calculated: Total - Service Charge
		{Name: "water_cost", Label: "Water Cost", Type: TypeCurrency, Required: false, Mappable: false,
			Patterns: currencyPatterns},
		// Carried over from the previous bill
		{Name: "service_charge", Label: "Service Charge", Type: TypeCurrency, Required: false, Mappable: false,
			Patterns: currencyPatterns},
	},
}

func init() {
	for docType, defs := range registry {
		for i := range defs {
			defs[i].compiled = compilePatterns(docType, defs[i].Name, defs[i].Patterns)
		}
	}
}

// compilePatterns compiles a definition's cascade once, case-insensitively.
// A pattern that fails to compile is logged and skipped; the rest of the
// cascade stays usable.
func compilePatterns(docType, name string, patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			slog.Warn("Skipping invalid field pattern", "doc_type", docType, "field", name, "pattern", p, "error", err)
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// DocumentTypes returns the known document types, sorted.
func DocumentTypes() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Definitions returns the ordered field definitions for a document type, or
// nil for an unknown type.
func Definitions(docType string) []Definition {
	return registry[docType]
}

// Lookup finds a field definition by name within a document type.
func Lookup(docType, name string) (Definition, bool) {
	for _, def := range registry[docType] {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}
