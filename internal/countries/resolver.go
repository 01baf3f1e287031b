package countries

import "sort"

// Resolver maps a currency code to the country names its events are
// attributed from. Injected so tests and config can swap the table while
// keeping the attributor and the regressor consistent.
type Resolver interface {
	CountriesFor(code string) []string
	Codes() []string
}

// StaticResolver serves a fixed currency to country-set table.
type StaticResolver struct {
	table map[string][]string
	codes []string
}

// NewStatic builds a resolver from an explicit table. Country lists are
// copied and the code list is sorted for deterministic iteration.
func NewStatic(table map[string][]string) *StaticResolver {
	copied := make(map[string][]string, len(table))
	codes := make([]string, 0, len(table))
	for code, names := range table {
		list := make([]string, len(names))
		copy(list, names)
		copied[code] = list
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return &StaticResolver{table: copied, codes: codes}
}

// CountriesFor returns the mapped country names, nil when the code is
// not tracked.
func (r *StaticResolver) CountriesFor(code string) []string {
	return r.table[code]
}

// Codes lists the tracked currency codes in ascending order.
func (r *StaticResolver) Codes() []string {
	return r.codes
}

// Empty reports whether the resolver tracks no currencies at all.
func (r *StaticResolver) Empty() bool {
	return len(r.codes) == 0
}

// Default returns the built-in table covering the 22 tracked USD pairs.
// EUR maps to the Eurozone members; several countries carry the name
// variants that appear in raw event geography strings.
func Default() *StaticResolver {
	return NewStatic(map[string][]string{
		"EUR": {"Austria", "Belgium", "Cyprus", "Estonia", "Finland", "France", "Germany",
			"Greece", "Ireland", "Italy", "Latvia", "Lithuania", "Luxembourg",
			"Malta", "Netherlands", "Portugal", "Slovakia", "Slovenia", "Spain"},
		"GBP": {"United Kingdom", "England", "Scotland", "Wales", "Northern Ireland", "UK"},
		"JPY": {"Japan"},
		"CAD": {"Canada"},
		"AUD": {"Australia"},
		"CHF": {"Switzerland"},
		"CNY": {"China", "People's Republic of China"},
		"INR": {"India"},
		"NZD": {"New Zealand"},
		"SEK": {"Sweden"},
		"NOK": {"Norway"},
		"DKK": {"Denmark"},
		"ZAR": {"South Africa", "RSA"},
		"BRL": {"Brazil"},
		"MXN": {"Mexico"},
		"SGD": {"Singapore"},
		"HKD": {"Hong Kong"},
		"KRW": {"South Korea", "Korea, South", "Republic of Korea", "Korea"},
		"TRY": {"Turkey", "Türkiye"},
		"THB": {"Thailand"},
		"TWD": {"Taiwan", "Chinese Taipei"},
		"RUB": {"Russia", "Russian Federation"},
	})
}

var _ Resolver = (*StaticResolver)(nil)
