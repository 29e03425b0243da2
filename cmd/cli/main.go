package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/bonusledger/internal/adapter/http/dto"
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/infrastructure/auth"
	"github.com/iho/bonusledger/internal/infrastructure/config"
	"github.com/iho/bonusledger/internal/infrastructure/logger"
	"github.com/iho/bonusledger/internal/infrastructure/postgres"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
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
		Use:           "bonusledger-cli",
		Short:         "Bonus ledger CLI tool",
		Long:          `A command line interface for operating the bonus ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("LEDGER_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		ledgerCmd(opts),
		eventCmd(opts),
		accountCmd(opts),
		documentCmd(opts),
		tokenCmd(),
		migrateCmd(),
	)
	return rootCmd
}

// apiError is a non-2xx API response.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.Status, strings.TrimSpace(e.Body))
}

// call sends a request and decodes a 2xx JSON response into out.
func (o *options) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	raw, status, err := o.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &apiError{Status: status, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (o *options) send(ctx context.Context, method, path string, body io.Reader) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(o.baseURL, "/")+path, body)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return raw, resp.StatusCode, nil
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check that balances and entries agree ledger-wide",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, status, err := opts.send(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil)
			if err != nil {
				return err
			}
			var result dto.ConsistencyResponse
			if err := json.Unmarshal(raw, &result); err != nil {
				return &apiError{Status: status, Body: string(raw)}
			}
			if status != http.StatusOK || !result.Consistent {
				return fmt.Errorf("consistency check FAILED: %s", result.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Consistency check PASSED")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "report",
		Short: "Reconcile every account and list discrepancies",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ReconciliationReportResponse
			if err := opts.call(cmd.Context(), http.MethodGet, "/api/v1/ledger/reconciliation", nil, &report); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	})

	return cmd
}

func eventCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Back-office events",
	}

	var req dto.PostEventRequest
	var amount string
	postCmd := &cobra.Command{
		Use:   "post <add|remove>",
		Short: "Post an add or remove event for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			req.Operation = args[0]
			req.Amount = d

			var result map[string]any
			if err := opts.call(cmd.Context(), http.MethodPost, "/api/v1/events", req, &result); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	postCmd.Flags().StringVar(&req.Account, "account", "", "Account ID or phone")
	postCmd.Flags().StringVar(&req.DocumentID, "document", "", "Source document ID")
	postCmd.Flags().StringVar(&req.AgentID, "agent", "", "Posting agent ID")
	postCmd.Flags().StringVar(&req.Kind, "kind", string(domain.KindMoney), "Balance kind (money or bonus)")
	postCmd.Flags().StringVar(&amount, "amount", "", "Amount")
	postCmd.Flags().StringVar(&req.Description, "description", "", "Entry description")
	postCmd.Flags().StringVar(&req.Date, "date", "", "Event date (dd.mm.yyyy)")
	for _, f := range []string{"account", "document", "amount", "date"} {
		_ = postCmd.MarkFlagRequired(f)
	}
	cmd.AddCommand(postCmd)

	return cmd
}

func accountCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <account>",
		Short: "Show an account by ID or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := opts.call(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, &account); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), account)
		},
	})

	var kind string
	var limit int
	entriesCmd := &cobra.Command{
		Use:   "entries <account>",
		Short: "List recent entries of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", fmt.Sprint(limit))
			if kind != "" {
				q.Set("kind", kind)
			}
			var entries []*dto.EntryResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/entries?" + q.Encode()
			if err := opts.call(cmd.Context(), http.MethodGet, path, nil, &entries); err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	entriesCmd.Flags().StringVar(&kind, "kind", "", "Balance kind (money or bonus)")
	entriesCmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")
	cmd.AddCommand(entriesCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "reconcile <account>",
		Short: "Compare stored balances with the entry log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result dto.ReconciliationResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/reconciliation"
			if err := opts.call(cmd.Context(), http.MethodGet, path, nil, &result); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rebuild <account>",
		Short: "Recompute an account's running balances from its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result dto.ReconciliationResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/rebuild"
			if err := opts.call(cmd.Context(), http.MethodPost, path, nil, &result); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	})

	var from, to, format, locale string
	statementCmd := &cobra.Command{
		Use:   "statement <account>",
		Short: "Print a money statement for a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("from", from)
			q.Set("to", to)
			q.Set("format", format)
			if locale != "" {
				q.Set("locale", locale)
			}
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/statement?" + q.Encode()
			raw, status, err := opts.send(cmd.Context(), http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return &apiError{Status: status, Body: string(raw)}
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
	statementCmd.Flags().StringVar(&from, "from", "", "First day (dd.mm.yyyy)")
	statementCmd.Flags().StringVar(&to, "to", "", "Last day (dd.mm.yyyy)")
	statementCmd.Flags().StringVar(&format, "format", "text", "Output format (text or json)")
	statementCmd.Flags().StringVar(&locale, "locale", "", "Override the account locale")
	_ = statementCmd.MarkFlagRequired("from")
	_ = statementCmd.MarkFlagRequired("to")
	cmd.AddCommand(statementCmd)

	return cmd
}

func documentCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Document operations",
	}

	var agent string
	deleteCmd := &cobra.Command{
		Use:   "delete <document>",
		Short: "Reverse every entry a document produced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/documents/" + url.PathEscape(args[0])
			if agent != "" {
				path += "?" + url.Values{"agent_id": {agent}}.Encode()
			}
			raw, status, err := opts.send(cmd.Context(), http.MethodDelete, path, nil)
			if err != nil {
				return err
			}
			var result dto.DeleteDocumentResponse
			if status != http.StatusOK && status != http.StatusMultiStatus {
				return &apiError{Status: status, Body: string(raw)}
			}
			if err := json.Unmarshal(raw, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if status == http.StatusMultiStatus {
				return fmt.Errorf("document %s was only partially reversed", args[0])
			}
			return nil
		},
	}
	deleteCmd.Flags().StringVar(&agent, "agent", "", "Only reverse entries posted by this agent")
	cmd.AddCommand(deleteCmd)

	return cmd
}

func tokenCmd() *cobra.Command {
	var secret, role string
	var expiration time.Duration

	cmd := &cobra.Command{
		Use:   "token <account>",
		Short: "Issue a signed API token for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("a signing secret is required (--secret or JWT_SECRET)")
			}
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			token, err := auth.NewJWTManager(secret, expiration).Generate(args[0], r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleOperator), "Role carried by the token")
	cmd.Flags().DurationVar(&expiration, "expiration", 24*time.Hour, "Token lifetime")
	return cmd
}

func migrateCmd() *cobra.Command {
	var down, status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations using the server configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			lg := logger.NewWithWriter(logger.Config{Level: cfg.LogLevel, Format: "console"}, cmd.ErrOrStderr())

			switch {
			case status:
				version, dirty, err := postgres.MigrationVersion(cfg.DatabaseURL, cfg.MigrationsPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)
				return nil
			case down:
				return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath, lg)
			default:
				return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, lg)
			}
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Roll back the last migration")
	cmd.Flags().BoolVar(&status, "status", false, "Print the applied schema version")
	cmd.MarkFlagsMutuallyExclusive("down", "status")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEntries(w io.Writer, entries []*dto.EntryResponse) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tKIND\tAMOUNT\tBALANCE\tDOCUMENT\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			e.EventDate, e.Kind, e.Amount, e.NewBalance, truncate(e.DocumentID, 16), truncate(e.Description, 32))
	}
	tw.Flush()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
