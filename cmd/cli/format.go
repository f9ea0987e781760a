package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iho/storeledger/internal/adapter/http/dto"
)

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

// formatMoney renders d with thousands separators and two decimals.
// Example: -1234.5 -> "-1,234.50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")

	return sign + groupThousands(whole) + "." + frac
}

// groupThousands inserts a comma every three digits of an unsigned integer
// string of any length.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func formatPercent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func printStatement(w io.Writer, st *dto.StatementResponse) {
	title := "Statement"
	if st.EntityKind != "" {
		title = titler.String(st.EntityKind) + " statement"
	}
	name := st.EntityID
	if st.EntityName != "" {
		name = st.EntityName + " (" + st.EntityID + ")"
	}
	fmt.Fprintf(w, "%s: %s\n", title, name)
	fmt.Fprintf(w, "Period: %s\n\n", describeRange(st.Range))

	tw := newTable(w)
	fmt.Fprintln(tw, "Date\tDescription\tDebit\tCredit\tBalance\t")
	for _, l := range st.Lines {
		debit, credit := "", ""
		if !l.Opening {
			debit, credit = formatMoney(l.Debit), formatMoney(l.Credit)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", l.Date, l.Description, debit, credit, formatMoney(l.RunningBalance))
	}
	fmt.Fprintf(tw, "\tTotal\t%s\t%s\t%s\t\n", formatMoney(st.TotalDebit), formatMoney(st.TotalCredit), formatMoney(st.ClosingBalance))
	tw.Flush()

	if st.Credit != nil {
		fmt.Fprintf(w, "\nCredit limit: %s  Available: %s", formatMoney(st.Credit.Limit), formatMoney(st.Credit.Available))
		if st.Credit.Exceeded {
			fmt.Fprint(w, "  LIMIT EXCEEDED")
		}
		fmt.Fprintln(w)
	}

	printDiagnostics(w, st.Diagnostics)
}

func printFinancials(w io.Writer, branch string, f *dto.FinancialsResponse) {
	scope := "All branches"
	if branch != "" {
		scope = "Branch " + branch
	}
	fmt.Fprintf(w, "%s, period: %s\n\n", scope, describeRange(f.Range))

	tw := newTable(w)
	rows := []struct {
		label string
		value string
	}{
		{printer.Sprintf("Revenue (%d sales)", f.SalesCount), formatMoney(f.TotalRevenue)},
		{printer.Sprintf("Cost (%d purchases)", f.PurchaseCount), formatMoney(f.TotalCost)},
		{"Gross profit", formatMoney(f.GrossProfit)},
		{printer.Sprintf("Expenses (%d)", f.ExpenseCount), formatMoney(f.TotalExpense)},
		{"Net profit", formatMoney(f.NetProfit)},
		{"Profit margin", formatPercent(f.ProfitMarginPct)},
		{"Expense ratio", formatPercent(f.ExpenseRatioPct)},
		{"Net cash flow", formatMoney(f.NetCashFlow)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", r.label, r.value)
	}
	tw.Flush()

	printDiagnostics(w, f.Diagnostics)
}

func printReconciliation(w io.Writer, r *dto.ReconciliationResponse) {
	status := "RECONCILED"
	if !r.IsReconciled {
		status = "DISCREPANCY"
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "Entity\t%s\t\n", r.EntityID)
	fmt.Fprintf(tw, "Stored balance\t%s\t\n", formatMoney(r.StoredBalance))
	fmt.Fprintf(tw, "Calculated balance\t%s\t\n", formatMoney(r.CalculatedBalance))
	fmt.Fprintf(tw, "Difference\t%s\t\n", formatMoney(r.Difference))
	fmt.Fprintf(tw, "Records\t%d\t\n", r.Records)
	fmt.Fprintf(tw, "Status\t%s\t\n", status)
	tw.Flush()
}

func printDiagnostics(w io.Writer, diags []dto.DiagnosticResponse) {
	if len(diags) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%d malformed field(s) were treated as zero or skipped:\n", len(diags))
	for _, d := range diags {
		id := d.SourceID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "  %s %s %s=%q: %s\n", d.SourceType, id, d.Field, d.Value, d.Reason)
	}
}

func describeRange(r dto.RangeResponse) string {
	switch {
	case r.From == "" && r.To == "":
		return "all dates"
	case r.From == "":
		return "up to " + r.To
	case r.To == "":
		return "from " + r.From
	default:
		return r.From + " to " + r.To
	}
}
