package statement

import "strings"

// Group labels produced by the classifier.
const (
	GroupGroundFloor = "GROUND FLOOR"
	GroupFirstFloor  = "FIRST FLOOR"
	GroupSecondFloor = "SECOND FLOOR"
	GroupThirdFloor  = "THIRD FLOOR"
	GroupCommercial  = "COMMERCIAL"
	GroupResidential = "RESIDENTIAL"
	GroupOther       = "OTHER"
)

// groupKeywords maps unit-type substrings to group labels, checked in
// order so floor wording wins over the broader commercial/residential tags.
var groupKeywords = []struct {
	keyword string
	label   string
}{
	{"ground", GroupGroundFloor},
	{"first", GroupFirstFloor},
	{"second", GroupSecondFloor},
	{"third", GroupThirdFloor},
	{"commercial", GroupCommercial},
	{"residential", GroupResidential},
}

// ClassifyGroup maps a free-text unit type to a structural group label.
// Text matching nothing falls back to OTHER.
func ClassifyGroup(unitType string) string {
	text := strings.ToLower(unitType)
	for _, entry := range groupKeywords {
		if strings.Contains(text, entry.keyword) {
			return entry.label
		}
	}
	return GroupOther
}

// Aggregate folds ledger rows into structural groups with exact subtotals
// and a grand total. Groups appear in first-encountered input order; no
// rounding happens between levels, so the grand total always equals the
// sum of every individual row.
func Aggregate(rows []LedgerRow) ([]Group, Totals) {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, row := range rows {
		i, ok := index[row.GroupLabel]
		if !ok {
			i = len(groups)
			index[row.GroupLabel] = i
			groups = append(groups, Group{Label: row.GroupLabel})
		}
		groups[i].Rows = append(groups[i].Rows, row)
		groups[i].Total = groups[i].Total.add(row)
	}

	var grand Totals
	for _, grp := range groups {
		grand = grand.merge(grp.Total)
	}
	return groups, grand
}
