package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/storeledger/internal/adapter/http/dto"
	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/usecase"
)

// exportFile is a JSON export of records, as produced by the ERP.
type exportFile struct {
	Kind           domain.EntityKind `json:"kind"`
	EntityID       string            `json:"entity_id"`
	OpeningBalance domain.Amount     `json:"opening_balance"`
	Records        []exportRecord    `json:"records"`
}

type exportRecord struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	EntityID    string        `json:"entity_id"`
	BranchID    string        `json:"branch_id"`
	Date        string        `json:"date"`
	Amount      domain.Amount `json:"amount"`
	Reference   string        `json:"reference"`
	Description string        `json:"description"`
	Direction   string        `json:"direction"`
}

func (r exportRecord) toDomain() domain.Record {
	return domain.Record{
		ID:          r.ID,
		Type:        domain.SourceType(r.Type),
		EntityID:    r.EntityID,
		BranchID:    r.BranchID,
		Date:        r.Date,
		Amount:      r.Amount,
		Reference:   r.Reference,
		Description: r.Description,
		Direction:   domain.Direction(r.Direction),
	}
}

func readExport(path string) (*exportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &export, nil
}

// byType groups records by source type, keeping file order.
func (e *exportFile) byType(keep func(domain.Record) bool) map[domain.SourceType][]domain.Record {
	out := make(map[domain.SourceType][]domain.Record)
	for _, r := range e.Records {
		rec := r.toDomain()
		if keep != nil && !keep(rec) {
			continue
		}
		out[rec.Type] = append(out[rec.Type], rec)
	}
	return out
}

// parseOpening reads a signed opening balance. An unreadable value counts as
// zero and is reported like any other malformed field.
func parseOpening(raw domain.Amount) (decimal.Decimal, *domain.Diagnostic) {
	value := strings.TrimSpace(string(raw))
	if value == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &domain.Diagnostic{
			Field:  "opening_balance",
			Value:  value,
			Reason: domain.ErrInvalidAmount.Error(),
		}
	}
	return d, nil
}

func statementFileCmd(opts *options) *cobra.Command {
	var entityID, kind string

	cmd := &cobra.Command{
		Use:   "statement-file <records.json>",
		Short: "Build a statement from a JSON export without a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dateRange, err := domain.ParseDateRange(opts.from, opts.to)
			if err != nil {
				return err
			}

			export, err := readExport(args[0])
			if err != nil {
				return err
			}

			if entityID == "" {
				entityID = export.EntityID
			}
			entityKind := export.Kind
			if kind != "" {
				entityKind = domain.EntityKind(kind)
			}
			if !entityKind.IsValid() {
				return fmt.Errorf("%w: %q, set \"kind\" in the file or pass --kind", domain.ErrInvalidEntityKind, entityKind)
			}

			opening, openingDiag := parseOpening(export.OpeningBalance)

			groups := export.byType(func(r domain.Record) bool {
				return entityID == "" || r.EntityID == entityID
			})

			var sources []domain.SourceSet
			for _, st := range entityKind.LedgerSources() {
				sources = append(sources, domain.SourceSet{Type: st, Records: groups[st]})
			}

			entity := &domain.Entity{ID: entityID, Kind: entityKind}
			statement := domain.BuildStatement(opening, sources, dateRange)
			if openingDiag != nil {
				statement.Diagnostics = append([]domain.Diagnostic{*openingDiag}, statement.Diagnostics...)
			}
			printStatement(cmd.OutOrStdout(), dto.StatementFromDomain(entityID, &usecase.EntityStatement{
				Entity:    entity,
				Statement: statement,
			}))
			return nil
		},
	}
	cmd.Flags().StringVar(&entityID, "entity", "", "Only use records of this entity")
	cmd.Flags().StringVar(&kind, "kind", "", "Entity kind (client or supplier)")

	return cmd
}

func financialsFileCmd(opts *options) *cobra.Command {
	var branch string
	var byBranch bool

	cmd := &cobra.Command{
		Use:   "financials-file <records.json>",
		Short: "Compute period financials from a JSON export without a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dateRange, err := domain.ParseDateRange(opts.from, opts.to)
			if err != nil {
				return err
			}

			export, err := readExport(args[0])
			if err != nil {
				return err
			}

			groups := export.byType(func(r domain.Record) bool {
				return branch == "" || r.BranchID == branch
			})
			sales, purchases, expenses := groups[domain.SourceSale], groups[domain.SourcePurchase], groups[domain.SourceExpense]

			out := cmd.OutOrStdout()
			if byBranch {
				for i, b := range domain.ComputeBranchFinancials(sales, purchases, expenses, dateRange) {
					if i > 0 {
						fmt.Fprintln(out)
					}
					printFinancials(out, b.BranchID, dto.FinancialsFromDomain(b.Financials))
				}
				return nil
			}

			printFinancials(out, branch, dto.FinancialsFromDomain(domain.ComputeFinancials(sales, purchases, expenses, dateRange)))
			return nil
		},
	}
	cmd.Flags().StringVar(&branch, "branch", "", "Only use records of this branch")
	cmd.Flags().BoolVar(&byBranch, "by-branch", false, "Print one table per branch")

	return cmd
}
