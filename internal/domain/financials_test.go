package domain

import "testing"

func TestComputeFinancials(t *testing.T) {
	t.Parallel()

	sales := []Record{
		{ID: "s1", Date: "2024-02-01", Amount: "6000"},
		{ID: "s2", Date: "2024-02-15", Amount: "4000"},
	}
	purchases := []Record{{ID: "p1", Date: "2024-02-03", Amount: "6000"}}
	expenses := []Record{{ID: "e1", Date: "2024-02-05", Amount: "1000"}}

	f := ComputeFinancials(sales, purchases, expenses, DateRange{})

	checks := []struct {
		name string
		got  string
		want string
	}{
		{"revenue", f.TotalRevenue.String(), "10000"},
		{"cost", f.TotalCost.String(), "6000"},
		{"expense", f.TotalExpense.String(), "1000"},
		{"gross", f.GrossProfit.String(), "4000"},
		{"net", f.NetProfit.String(), "3000"},
		{"margin", f.ProfitMarginPct.String(), "30"},
		{"expense ratio", f.ExpenseRatioPct.String(), "10"},
		{"cash flow", f.NetCashFlow.String(), "3000"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}

	if f.SalesCount != 2 || f.PurchaseCount != 1 || f.ExpenseCount != 1 {
		t.Fatalf("unexpected counts %d/%d/%d", f.SalesCount, f.PurchaseCount, f.ExpenseCount)
	}
}

func TestComputeFinancials_ZeroRevenue(t *testing.T) {
	t.Parallel()

	f := ComputeFinancials(nil, []Record{{ID: "p1", Date: "2024-02-03", Amount: "500"}}, nil, DateRange{})

	if !f.ProfitMarginPct.IsZero() || !f.ExpenseRatioPct.IsZero() {
		t.Fatalf("percentages must be zero without revenue, got %s/%s", f.ProfitMarginPct, f.ExpenseRatioPct)
	}
	if !f.NetProfit.Equal(dec("-500")) {
		t.Fatalf("net = %s, want -500", f.NetProfit)
	}
}

func TestComputeFinancials_Empty(t *testing.T) {
	t.Parallel()

	f := ComputeFinancials(nil, nil, nil, DateRange{})

	for name, v := range map[string]string{
		"revenue": f.TotalRevenue.String(),
		"net":     f.NetProfit.String(),
		"margin":  f.ProfitMarginPct.String(),
	} {
		if v != "0" {
			t.Fatalf("%s = %s, want 0", name, v)
		}
	}
}

func TestComputeFinancials_RangeAndMalformed(t *testing.T) {
	t.Parallel()

	sales := []Record{
		{ID: "in", Date: "2024-02-10", Amount: "300"},
		{ID: "bad", Date: "2024-02-11", Amount: "abc"},
		{ID: "out", Date: "2024-03-01", Amount: "999"},
	}

	f := ComputeFinancials(sales, nil, nil, mustRange(t, "2024-02-01", "2024-02-29"))

	if !f.TotalRevenue.Equal(dec("300")) {
		t.Fatalf("revenue = %s, want 300", f.TotalRevenue)
	}
	if f.SalesCount != 2 {
		t.Fatalf("sales count = %d, want 2", f.SalesCount)
	}
	if len(f.Diagnostics) != 1 || f.Diagnostics[0].SourceID != "bad" {
		t.Fatalf("unexpected diagnostics %+v", f.Diagnostics)
	}
}

func TestComputeFinancials_RoundsPercentages(t *testing.T) {
	t.Parallel()

	sales := []Record{{ID: "s", Date: "2024-02-01", Amount: "3"}}
	expenses := []Record{{ID: "e", Date: "2024-02-01", Amount: "1"}}

	f := ComputeFinancials(sales, nil, expenses, DateRange{})

	if f.ExpenseRatioPct.String() != "33.33" {
		t.Fatalf("expense ratio = %s, want 33.33", f.ExpenseRatioPct)
	}
	if f.ProfitMarginPct.String() != "66.67" {
		t.Fatalf("margin = %s, want 66.67", f.ProfitMarginPct)
	}
}

func TestComputeBranchFinancials(t *testing.T) {
	t.Parallel()

	sales := []Record{
		{ID: "s1", BranchID: "north", Date: "2024-02-01", Amount: "100"},
		{ID: "s2", BranchID: "south", Date: "2024-02-01", Amount: "200"},
	}
	expenses := []Record{{ID: "e1", BranchID: "north", Date: "2024-02-01", Amount: "10"}}

	got := ComputeBranchFinancials(sales, nil, expenses, DateRange{})

	if len(got) != 2 || got[0].BranchID != "north" || got[1].BranchID != "south" {
		t.Fatalf("unexpected branches %+v", got)
	}
	if !got[0].Financials.NetProfit.Equal(dec("90")) {
		t.Fatalf("north net = %s, want 90", got[0].Financials.NetProfit)
	}
	if !got[1].Financials.NetProfit.Equal(dec("200")) {
		t.Fatalf("south net = %s, want 200", got[1].Financials.NetProfit)
	}
}

func TestComputeMonthlyFinancials(t *testing.T) {
	t.Parallel()

	sales := []Record{
		{ID: "mar", Date: "2024-03-05", Amount: "50"},
		{ID: "jan", Date: "2024-01-05", Amount: "100"},
		{ID: "jan2", Date: "2024-01-25T10:00:00Z", Amount: "20"},
		{ID: "undated", Date: "??", Amount: "1"},
	}

	months, diags := ComputeMonthlyFinancials(sales, nil, nil, DateRange{})

	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}
	if months[0].Year != 2024 || months[0].Month != 1 || !months[0].Financials.TotalRevenue.Equal(dec("120")) {
		t.Fatalf("unexpected first month %+v", months[0])
	}
	if months[1].Month != 3 || !months[1].Financials.TotalRevenue.Equal(dec("50")) {
		t.Fatalf("unexpected second month %+v", months[1])
	}
	if len(diags) != 1 || diags[0].SourceID != "undated" {
		t.Fatalf("unexpected diagnostics %+v", diags)
	}
}
