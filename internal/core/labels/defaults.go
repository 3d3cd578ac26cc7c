package labels

import "github.com/joseph-ayodele/vending-reports/constants"

// Surface forms per canonical field. Order inside a list does not matter
// for matching (longer forms are always tried first); keep accented and
// unaccented spellings as they appear in the reports. Entries may be added
// but never removed: old firmware still prints them.
var turnoverVariants = map[constants.Field][]string{
	constants.TurnoverTotal: {
		"CA Total", "CA TTC Total", "Chiffre d'affaires total", "Chiffre d'affaire total",
		"Turnover total", "Total turnover", "Total",
	},
	constants.TurnoverCash: {
		"CA Espèces", "CA Especes", "CA Espèce", "CA Espece",
		"Turnover cash", "Cash turnover", "Espèces", "Especes", "Cash",
	},
	constants.TurnoverCashless1: {
		"CA Cashless 1", "CA Cashless1", "Turnover cashless 1", "Cashless 1 turnover",
		"Cashless 1", "Cashless1",
	},
	constants.TurnoverCashless1Aztek: {
		"CA Cashless 1 Aztek", "CA Cashless1 Aztek", "Turnover cashless 1 Aztek",
		"Cashless 1 Aztek", "Cashless1 Aztek",
	},
	constants.TurnoverCashless2: {
		"CA Cashless 2", "CA Cashless2", "Turnover cashless 2", "Cashless 2 turnover",
		"Cashless 2", "Cashless2",
	},
	constants.TurnoverCashless2Aztek: {
		"CA Cashless 2 Aztek", "CA Cashless2 Aztek", "Turnover cashless 2 Aztek",
		"Cashless 2 Aztek", "Cashless2 Aztek",
	},
}

var salesVariants = map[constants.Field][]string{
	constants.SalesTotal: {
		"Ventes Total", "Vente Total", "Ventes Totales", "Nombre de ventes total",
		"Sales total", "Total sales", "Vend total", "Total vends",
	},
	constants.SalesCash: {
		"Ventes Espèces", "Ventes Especes", "Vente Espèces", "Vente Especes",
		"Vente Espèce", "Vente Espece", "Sales cash", "Cash sales", "Cash vends",
	},
	constants.SalesCashless1: {
		"Ventes Cashless 1", "Ventes Cashless1", "Vente Cashless 1", "Vente Cashless1",
		"Sales cashless 1", "Cashless 1 sales",
	},
	constants.SalesCashless1Aztek: {
		"Ventes Cashless 1 Aztek", "Ventes Cashless1 Aztek", "Vente Cashless 1 Aztek",
		"Vente Cashless1 Aztek", "Sales cashless 1 Aztek",
	},
	constants.SalesCashless2: {
		"Ventes Cashless 2", "Ventes Cashless2", "Vente Cashless 2", "Vente Cashless2",
		"Sales cashless 2", "Cashless 2 sales",
	},
	constants.SalesCashless2Aztek: {
		"Ventes Cashless 2 Aztek", "Ventes Cashless2 Aztek", "Vente Cashless 2 Aztek",
		"Vente Cashless2 Aztek", "Sales cashless 2 Aztek",
	},
}

// Default returns the built-in turnover and sales dictionaries.
func Default() *Set {
	s, err := Build(nil)
	if err != nil {
		panic(err)
	}
	return s
}

// Build indexes the built-in dictionaries extended with extra variants.
func Build(extra map[constants.Field][]string) (*Set, error) {
	turnover := NewDictionary(constants.GroupTurnover)
	sales := NewDictionary(constants.GroupSales)
	for _, f := range constants.TurnoverFields {
		if err := turnover.Add(f, turnoverVariants[f]...); err != nil {
			return nil, err
		}
		if err := turnover.Add(f, extra[f]...); err != nil {
			return nil, err
		}
	}
	for _, f := range constants.SalesFields {
		if err := sales.Add(f, salesVariants[f]...); err != nil {
			return nil, err
		}
		if err := sales.Add(f, extra[f]...); err != nil {
			return nil, err
		}
	}
	return buildSet([]*Dictionary{turnover, sales})
}
