package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/storeledger/internal/adapter/http/dto"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"1234.5", "1,234.50"},
		{"-1234567.891", "-1,234,567.89"},
		{"999.999", "1,000.00"},
		{"123456789012345678901234.5", "123,456,789,012,345,678,901,234.50"},
	}

	for _, tt := range tests {
		if got := formatMoney(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Fatalf("formatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatementCommand(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		json.NewEncoder(w).Encode(dto.StatementResponse{
			EntityID:       "c1",
			EntityKind:     "client",
			EntityName:     "Acme",
			Range:          dto.RangeResponse{From: "2024-01-01", To: "2024-01-31"},
			OpeningBalance: decimal.NewFromInt(1000),
			ClosingBalance: decimal.NewFromInt(1200),
			TotalDebit:     decimal.NewFromInt(500),
			TotalCredit:    decimal.NewFromInt(300),
			Lines: []dto.StatementLineResponse{
				{Date: "2024-01-01", Description: "Opening balance", RunningBalance: decimal.NewFromInt(1000), Opening: true},
				{Date: "2024-01-10", Description: "Sales invoice S-1", Debit: decimal.NewFromInt(500), RunningBalance: decimal.NewFromInt(1500)},
				{Date: "2024-01-15", Description: "Receipt voucher R-1", Credit: decimal.NewFromInt(300), RunningBalance: decimal.NewFromInt(1200)},
			},
		})
	}))
	defer srv.Close()

	out, err := runCLI(t, "--url", srv.URL, "--from", "2024-01-01", "--to", "2024-01-31", "statement", "c1")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/entities/c1/statement", gotPath)
	assert.Equal(t, "from=2024-01-01&to=2024-01-31", gotQuery)
	assert.Contains(t, out, "Client statement: Acme (c1)")
	assert.Contains(t, out, "Period: 2024-01-01 to 2024-01-31")
	assert.Contains(t, out, "1,500.00")
	assert.Contains(t, out, "1,200.00")
}

func TestFinancialsCommandBranch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(dto.FinancialsResponse{
			TotalRevenue:    decimal.NewFromInt(10000),
			TotalCost:       decimal.NewFromInt(6000),
			TotalExpense:    decimal.NewFromInt(1000),
			GrossProfit:     decimal.NewFromInt(4000),
			NetProfit:       decimal.NewFromInt(3000),
			ProfitMarginPct: decimal.NewFromInt(30),
			ExpenseRatioPct: decimal.NewFromInt(10),
			SalesCount:      1,
		})
	}))
	defer srv.Close()

	out, err := runCLI(t, "--url", srv.URL, "financials", "--branch", "north")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/branches/north/financials", gotPath)
	assert.Contains(t, out, "Branch north, period: all dates")
	assert.Contains(t, out, "10,000.00")
	assert.Contains(t, out, "30.00%")
}

func TestCommandReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "invalid date range", Message: "bad from"})
	}))
	defer srv.Close()

	_, err := runCLI(t, "--url", srv.URL, "financials")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date range (status 400): bad from")
}

func TestReconcileCommandFailsOnDiscrepancy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dto.ReconciliationResponse{
			EntityID:          "c1",
			StoredBalance:     decimal.NewFromInt(100),
			CalculatedBalance: decimal.NewFromInt(90),
			Difference:        decimal.NewFromInt(10),
		})
	}))
	defer srv.Close()

	out, err := runCLI(t, "--url", srv.URL, "reconcile", "c1")
	require.Error(t, err)
	assert.Contains(t, out, "DISCREPANCY")
	assert.Contains(t, err.Error(), "out of balance by 10.00")
}

const exportJSON = `{
  "kind": "client",
  "entity_id": "c1",
  "opening_balance": "1000",
  "records": [
    {"id": "r1", "type": "receipt", "entity_id": "c1", "branch_id": "north", "date": "2024-01-15", "amount": 300},
    {"id": "s1", "type": "sale", "entity_id": "c1", "branch_id": "north", "date": "2024-01-10", "amount": "500"},
    {"id": "s2", "type": "sale", "entity_id": "c2", "branch_id": "south", "date": "2024-01-11", "amount": "9500"},
    {"id": "p1", "type": "purchase", "entity_id": "s9", "branch_id": "north", "date": "2024-01-12", "amount": "6000"},
    {"id": "e1", "type": "expense", "branch_id": "north", "date": "2024-01-13", "amount": "1000"},
    {"id": "s3", "type": "sale", "entity_id": "c1", "branch_id": "north", "date": "2024-02-02", "amount": "abc"}
  ]
}`

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(exportJSON), 0o600))
	return path
}

func TestStatementFileCommand(t *testing.T) {
	out, err := runCLI(t, "--from", "2024-01-01", "--to", "2024-01-31", "statement-file", writeExport(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Client statement: c1")
	assert.Contains(t, out, "1,500.00")
	assert.Contains(t, out, "1,200.00")
	assert.NotContains(t, out, "9,500.00")
	assert.NotContains(t, out, "malformed")
}

func TestStatementFileCommandReportsMalformedRecords(t *testing.T) {
	out, err := runCLI(t, "statement-file", writeExport(t))
	require.NoError(t, err)

	assert.Contains(t, out, "1 malformed field(s)")
	assert.Contains(t, out, `amount="abc"`)
}

func TestStatementFileCommandSignedOpeningBalance(t *testing.T) {
	export := `{
  "kind": "client",
  "entity_id": "c1",
  "opening_balance": "-500",
  "records": [
    {"id": "s1", "type": "sale", "entity_id": "c1", "date": "2024-01-10", "amount": "500"},
    {"id": "r1", "type": "receipt", "entity_id": "c1", "date": "2024-01-15", "amount": "300"}
  ]
}`
	path := filepath.Join(t.TempDir(), "credit.json")
	require.NoError(t, os.WriteFile(path, []byte(export), 0o600))

	out, err := runCLI(t, "statement-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "-500.00")
	assert.Contains(t, out, "-300.00")
	assert.NotContains(t, out, "malformed")
}

func TestStatementFileCommandUnreadableOpeningBalance(t *testing.T) {
	export := `{"kind": "supplier", "entity_id": "s1", "opening_balance": "n/a", "records": []}`
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(export), 0o600))

	out, err := runCLI(t, "statement-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 malformed field(s)")
	assert.Contains(t, out, `opening_balance="n/a"`)
}

func TestFinancialsFileCommand(t *testing.T) {
	out, err := runCLI(t, "--to", "2024-01-31", "financials-file", writeExport(t))
	require.NoError(t, err)

	assert.Contains(t, out, "All branches")
	assert.Contains(t, out, "10,000.00")
	assert.Contains(t, out, "3,000.00")
	assert.Contains(t, out, "30.00%")

	out, err = runCLI(t, "financials-file", "--by-branch", writeExport(t))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Branch "))
}

func TestStatementFileCommandRejectsUnknownKind(t *testing.T) {
	_, err := runCLI(t, "statement-file", "--kind", "vendor", writeExport(t))
	require.Error(t, err)
}
