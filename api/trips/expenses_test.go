package trips

import (
	"strings"
	"testing"
)

func TestClassifyExpensePrecedence(t *testing.T) {
	t.Parallel()
	cases := []struct {
		category string
		tipo     string
		want     string
	}{
		// category rules win over the expense type
		{"Acquisto nuovo motore", "variabili", MacroNewPurchase},
		{"Provvigioni agenzia", "fissi", MacroCommissions},
		{"Gasolio flotta", "variabili", MacroFuel},
		{"Stipendi equipaggio", "fissi", MacroSalaries},
		{"Versamento F24", "variabili", MacroSalaries},
		{"Assicurazione", "fissi", MacroFixedCosts},
		{"Manutenzione", "variabili", MacroVariableCosts},
		// tasse are excluded from the fixed bucket
		{"Tasse portuali", "fissi", MacroOther},
		{"Varie", "", MacroOther},
	}
	for _, c := range cases {
		if got := ClassifyExpense(c.category, c.tipo); got != c.want {
			t.Fatalf("ClassifyExpense(%q, %q) = %q, want %q", c.category, c.tipo, got, c.want)
		}
	}
}

func TestIngestExpensesCSV(t *testing.T) {
	t.Parallel()
	csvData := strings.Join([]string{
		"DATA,COSTO,TIPO SPESA,FORNITORE,CATEGORIA,DESTINAZIONE,METODO PAGAMENTO",
		"05/03/2024,\"1.250,00 €\",fissi,Assicuratore,Assicurazione,Beluga,Bonifico",
		"12/03/2024,\"340,50\",variabili,Porto,Gasolio,Flotta,Carta",
		"non-una-data,\"10,00\",fissi,X,Y,Z,Contanti",
	}, "\n")

	expenses, err := IngestExpenses([]byte(csvData), "spese.csv")
	if err != nil {
		t.Fatalf("IngestExpenses: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("kept %d rows, want 2 (invalid date skipped)", len(expenses))
	}
	first := expenses[0]
	if first.Cost == nil || *first.Cost != 1250.0 {
		t.Fatalf("first cost = %v, want 1250", first.Cost)
	}
	if first.MacroCategory != MacroFixedCosts {
		t.Fatalf("first macro = %q, want %q", first.MacroCategory, MacroFixedCosts)
	}
	if expenses[1].MacroCategory != MacroFuel {
		t.Fatalf("second macro = %q, want %q", expenses[1].MacroCategory, MacroFuel)
	}
}

func TestIngestExpensesRequiresColumns(t *testing.T) {
	t.Parallel()
	csvData := "FORNITORE,CATEGORIA\nPorto,Gasolio\n"
	if _, err := IngestExpenses([]byte(csvData), "spese.csv"); err == nil {
		t.Fatal("expected an error for a ledger without DATA and COSTO")
	}
}
