package constants

import "strings"

// Group separates the two report tables: turnover (CA) and sales (Ventes).
type Group string

const (
	GroupTurnover Group = "CA"
	GroupSales    Group = "Vente"
)

// Field is a canonical financial metric. The string value is also the
// column prefix in the output table, so it must never change.
type Field string

const (
	TurnoverTotal          Field = "CA total"
	TurnoverCash           Field = "CA Espece"
	TurnoverCashless1      Field = "CA Cashless1"
	TurnoverCashless1Aztek Field = "CA Cashless1 Aztek"
	TurnoverCashless2      Field = "CA Cashless2"
	TurnoverCashless2Aztek Field = "CA Cashless2 Aztek"

	SalesTotal          Field = "Vente Total"
	SalesCash           Field = "Vente Espece"
	SalesCashless1      Field = "Vente Cashless1"
	SalesCashless1Aztek Field = "Vente Cashless1 Aztek"
	SalesCashless2      Field = "Vente Cashless2"
	SalesCashless2Aztek Field = "Vente Cashless2 Aztek"
)

// TurnoverFields lists the turnover group in output column order.
var TurnoverFields = []Field{
	TurnoverTotal,
	TurnoverCash,
	TurnoverCashless1,
	TurnoverCashless1Aztek,
	TurnoverCashless2,
	TurnoverCashless2Aztek,
}

// SalesFields lists the sales group in output column order.
var SalesFields = []Field{
	SalesTotal,
	SalesCash,
	SalesCashless1,
	SalesCashless1Aztek,
	SalesCashless2,
	SalesCashless2Aztek,
}

// AllFields returns every canonical field, turnover first, in column order.
func AllFields() []Field {
	out := make([]Field, 0, len(TurnoverFields)+len(SalesFields))
	out = append(out, TurnoverFields...)
	return append(out, SalesFields...)
}

// Group returns the group a field belongs to.
func (f Field) Group() Group {
	if strings.HasPrefix(string(f), string(GroupSales)+" ") {
		return GroupSales
	}
	return GroupTurnover
}

// SlotSuffixes are the column suffixes of the three triple slots.
var SlotSuffixes = [3]string{"_Cumul", "_Interim", "_Interim2"}

// FieldsAsStringSlice returns every canonical field name.
func FieldsAsStringSlice() []string {
	all := AllFields()
	result := make([]string, len(all))
	for i, f := range all {
		result[i] = string(f)
	}
	return result
}

// ParseField resolves a field name, case-insensitively.
func ParseField(input string) (Field, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}
	for _, f := range AllFields() {
		if normalized == strings.ToLower(string(f)) {
			return f, true
		}
	}
	return "", false
}

// FreeCodeCount is the number of "Code gratuit N" columns.
const FreeCodeCount = 7
