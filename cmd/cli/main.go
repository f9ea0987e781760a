package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/storeledger/internal/adapter/http/dto"
)

type options struct {
	baseURL string
	timeout time.Duration
	from    string
	to      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "storeledger-cli",
		Short:         "StoreLedger CLI tool",
		Long:          `A command line interface for account statements and financial reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the StoreLedger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.from, "from", "", "Start date (YYYY-MM-DD), inclusive")
	rootCmd.PersistentFlags().StringVar(&opts.to, "to", "", "End date (YYYY-MM-DD), inclusive")

	rootCmd.AddCommand(
		statementCmd(opts),
		financialsCmd(opts),
		reconcileCmd(opts),
		statementFileCmd(opts),
		financialsFileCmd(opts),
	)

	return rootCmd
}

func statementCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "statement <entity-id>",
		Short: "Print the account statement of a client or supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var st dto.StatementResponse
			path := "/api/v1/entities/" + url.PathEscape(args[0]) + "/statement"
			if err := opts.get(cmd.Context(), path, opts.rangeQuery(), &st); err != nil {
				return err
			}
			printStatement(cmd.OutOrStdout(), &st)
			return nil
		},
	}
}

func financialsCmd(opts *options) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "financials",
		Short: "Print period financials, business-wide or for one branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/financials"
			if branch != "" {
				path = "/api/v1/branches/" + url.PathEscape(branch) + "/financials"
			}

			var f dto.FinancialsResponse
			if err := opts.get(cmd.Context(), path, opts.rangeQuery(), &f); err != nil {
				return err
			}
			printFinancials(cmd.OutOrStdout(), branch, &f)
			return nil
		},
	}
	cmd.Flags().StringVar(&branch, "branch", "", "Branch ID")

	return cmd
}

func reconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <entity-id>",
		Short: "Compare an entity's stored balance with its recomputed balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res dto.ReconciliationResponse
			path := "/api/v1/entities/" + url.PathEscape(args[0]) + "/reconciliation"
			if err := opts.get(cmd.Context(), path, nil, &res); err != nil {
				return err
			}

			printReconciliation(cmd.OutOrStdout(), &res)
			if !res.IsReconciled {
				return fmt.Errorf("entity %s is out of balance by %s", res.EntityID, formatMoney(res.Difference))
			}
			return nil
		},
	}
}

func (o *options) rangeQuery() url.Values {
	q := url.Values{}
	if o.from != "" {
		q.Set("from", o.from)
	}
	if o.to != "" {
		q.Set("to", o.to)
	}
	return q
}

// get fetches path and decodes a 200 response into out.
func (o *options) get(ctx context.Context, path string, query url.Values, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	u := o.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
