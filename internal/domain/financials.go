package domain

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PercentPlaces is the rounding applied to margin and ratio percentages.
const PercentPlaces = 2

// PeriodFinancials aggregates sales, purchases and expenses over a period.
//
// NetCashFlow equals NetProfit: receivable and payable timing is not modelled.
type PeriodFinancials struct {
	Range           DateRange
	TotalRevenue    decimal.Decimal
	TotalCost       decimal.Decimal
	TotalExpense    decimal.Decimal
	GrossProfit     decimal.Decimal
	NetProfit       decimal.Decimal
	ProfitMarginPct decimal.Decimal
	ExpenseRatioPct decimal.Decimal
	NetCashFlow     decimal.Decimal
	SalesCount      int
	PurchaseCount   int
	ExpenseCount    int
	Diagnostics     []Diagnostic
}

// BranchFinancials is the PeriodFinancials of one branch.
type BranchFinancials struct {
	BranchID   string
	Financials PeriodFinancials
}

// MonthlyFinancials is the PeriodFinancials of one calendar month.
type MonthlyFinancials struct {
	Year       int
	Month      int
	Financials PeriodFinancials
}

// ComputeFinancials filters each collection through r and reduces them to
// revenue, cost, expense and the profit figures derived from them. A
// malformed amount contributes zero and is reported in Diagnostics.
func ComputeFinancials(sales, purchases, expenses []Record, r DateRange) PeriodFinancials {
	var diags []Diagnostic

	revenue, salesCount, d := sumRecords(sales, SourceSale, r)
	diags = append(diags, d...)

	cost, purchaseCount, d := sumRecords(purchases, SourcePurchase, r)
	diags = append(diags, d...)

	expense, expenseCount, d := sumRecords(expenses, SourceExpense, r)
	diags = append(diags, d...)

	gross := revenue.Sub(cost)
	net := gross.Sub(expense)

	return PeriodFinancials{
		Range:           r.clone(),
		TotalRevenue:    revenue,
		TotalCost:       cost,
		TotalExpense:    expense,
		GrossProfit:     gross,
		NetProfit:       net,
		ProfitMarginPct: percentOf(net, revenue),
		ExpenseRatioPct: percentOf(expense, revenue),
		NetCashFlow:     net,
		SalesCount:      salesCount,
		PurchaseCount:   purchaseCount,
		ExpenseCount:    expenseCount,
		Diagnostics:     diags,
	}
}

// ComputeBranchFinancials computes PeriodFinancials per BranchID, ordered by
// branch. Records without a branch are grouped under the empty ID.
func ComputeBranchFinancials(sales, purchases, expenses []Record, r DateRange) []BranchFinancials {
	type bucket struct {
		sales, purchases, expenses []Record
	}

	buckets := make(map[string]*bucket)
	get := func(id string) *bucket {
		b, ok := buckets[id]
		if !ok {
			b = &bucket{}
			buckets[id] = b
		}
		return b
	}

	for _, rec := range sales {
		b := get(rec.BranchID)
		b.sales = append(b.sales, rec)
	}
	for _, rec := range purchases {
		b := get(rec.BranchID)
		b.purchases = append(b.purchases, rec)
	}
	for _, rec := range expenses {
		b := get(rec.BranchID)
		b.expenses = append(b.expenses, rec)
	}

	result := make([]BranchFinancials, 0, len(buckets))
	for id, b := range buckets {
		result = append(result, BranchFinancials{
			BranchID:   id,
			Financials: ComputeFinancials(b.sales, b.purchases, b.expenses, r),
		})
	}

	slices.SortFunc(result, func(a, b BranchFinancials) int {
		return cmp.Compare(a.BranchID, b.BranchID)
	})

	return result
}

// ComputeMonthlyFinancials buckets the records inside r by calendar month and
// computes PeriodFinancials for each month, oldest first. Months without any
// record are omitted. Records that could not be placed in a month are
// returned as diagnostics.
func ComputeMonthlyFinancials(sales, purchases, expenses []Record, r DateRange) ([]MonthlyFinancials, []Diagnostic) {
	type monthKey struct{ year, month int }
	type bucket struct {
		sales, purchases, expenses []Record
	}

	buckets := make(map[monthKey]*bucket)
	var diags []Diagnostic

	add := func(records []Record, st SourceType, pick func(*bucket) *[]Record) {
		filtered, d := filterRecords(records, r, st)
		diags = append(diags, d...)

		for _, rec := range filtered {
			t, ok := ParseRecordDate(rec.Date)
			if !ok {
				diags = append(diags, dateDiagnostic(rec, st, "excluded from monthly trend"))
				continue
			}
			k := monthKey{t.Year(), int(t.Month())}
			b, ok := buckets[k]
			if !ok {
				b = &bucket{}
				buckets[k] = b
			}
			dst := pick(b)
			*dst = append(*dst, rec)
		}
	}

	add(sales, SourceSale, func(b *bucket) *[]Record { return &b.sales })
	add(purchases, SourcePurchase, func(b *bucket) *[]Record { return &b.purchases })
	add(expenses, SourceExpense, func(b *bucket) *[]Record { return &b.expenses })

	result := make([]MonthlyFinancials, 0, len(buckets))
	for k, b := range buckets {
		result = append(result, MonthlyFinancials{
			Year:       k.year,
			Month:      k.month,
			Financials: ComputeFinancials(b.sales, b.purchases, b.expenses, DateRange{}),
		})
	}

	slices.SortFunc(result, func(a, b MonthlyFinancials) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})

	for _, m := range result {
		diags = append(diags, m.Financials.Diagnostics...)
	}

	return result, diags
}

func sumRecords(records []Record, st SourceType, r DateRange) (decimal.Decimal, int, []Diagnostic) {
	filtered, diags := filterRecords(records, r, st)

	total := decimal.Zero
	for _, rec := range filtered {
		amount, err := ParseAmount(rec.Amount)
		if err != nil {
			diags = append(diags, amountDiagnostic(rec, st, err.Error()))
			continue
		}
		total = total.Add(amount)
	}

	return total, len(filtered), diags
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(PercentPlaces)
}
