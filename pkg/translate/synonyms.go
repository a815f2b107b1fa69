package translate

// SynonymTable maps a vocabulary concept to the alias strings users reach
// for when naming it. Seeded with common financial, temporal, location, and
// product vocabularies; a session may extend it but never removes seeds.
type SynonymTable map[string][]string

// DefaultSynonyms returns a fresh copy of the seed vocabulary so one
// session's additions never leak into another.
func DefaultSynonyms() SynonymTable {
	seed := SynonymTable{
		// Financial
		"sales":    {"sales", "revenue", "turnover", "amount", "income"},
		"cost":     {"cost", "costs", "expense", "expenses", "spend", "expenditure"},
		"profit":   {"profit", "margin", "earnings", "gain"},
		"budget":   {"budget", "target", "plan", "forecast"},
		"actual":   {"actual", "achieved", "realized"},
		"price":    {"price", "rate", "unit price"},
		"discount": {"discount", "rebate", "markdown"},

		// Temporal
		"date":    {"date", "day", "time", "period"},
		"month":   {"month", "monthly"},
		"year":    {"year", "yearly", "annual"},
		"quarter": {"quarter", "quarterly", "qtr"},

		// Location
		"region":  {"region", "area", "territory", "zone", "geography"},
		"country": {"country", "nation", "market"},
		"city":    {"city", "town", "location", "site"},
		"state":   {"state", "province"},

		// Product / customer
		"product":  {"product", "item", "sku", "goods", "merchandise"},
		"category": {"category", "segment", "group", "type", "class"},
		"customer": {"customer", "client", "account", "buyer"},
		"quantity": {"quantity", "qty", "units", "volume"},
	}

	table := make(SynonymTable, len(seed))
	for concept, aliases := range seed {
		table[concept] = append([]string(nil), aliases...)
	}
	return table
}

// Add appends aliases to a concept, creating the concept if needed.
func (t SynonymTable) Add(concept string, aliases ...string) {
	t[concept] = append(t[concept], aliases...)
}
