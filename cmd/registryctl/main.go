// Command registryctl runs registry jobs outside the web UI.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/config"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/database"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/registry"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/utils"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/workflow"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "registryctl",
		Short:        "Operate the risk and opportunities registry",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			config.LoadConfig()
		},
	}

	root.AddCommand(newHashPasswordCmd())
	root.AddCommand(newOverdueCmd())
	root.AddCommand(newSummaryCmd())
	return root
}

func newHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for the users file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && err != io.EOF {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("password is empty")
			}

			hash, err := utils.HashPasswordCost(password, cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", utils.PasswordCost, "bcrypt cost")
	return cmd
}

// openService connects to the configured store and returns a read-only view
// of the registry dated at asOf (today when empty).
func openService(ctx context.Context, asOf string) (*registry.Service, func(), error) {
	opts := []workflow.Option{}
	if asOf != "" {
		day, err := time.Parse(models.DateLayout, asOf)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --date value: %w", err)
		}
		opts = append(opts, workflow.WithClock(func() time.Time { return day }))
	}

	if config.StoreBackend == config.BackendMongo {
		if err := database.Connect(); err != nil {
			return nil, nil, err
		}
	}
	store, err := registry.OpenStore(ctx)
	if err != nil {
		database.Disconnect()
		return nil, nil, err
	}
	svc := registry.NewService(store, workflow.New(opts...))
	return svc, func() {
		svc.Close()
		database.Disconnect()
	}, nil
}

func newOverdueCmd() *cobra.Command {
	var (
		asOf    string
		section string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List action plans past their target date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			svc, closeFn, err := openService(ctx, asOf)
			if err != nil {
				return err
			}
			defer closeFn()

			plans, err := svc.Overdue(ctx)
			if err != nil {
				return err
			}
			if section != "" {
				filtered := plans[:0]
				for _, p := range plans {
					if p.Section == section {
						filtered = append(filtered, p)
					}
				}
				plans = filtered
			}
			return writeOverdue(cmd.OutOrStdout(), plans, asJSON)
		},
	}

	cmd.Flags().StringVar(&asOf, "date", "", "evaluate as of this date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&section, "section", "s", "", "only this section")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeOverdue(w io.Writer, plans []registry.OverduePlan, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plans)
	}
	if len(plans) == 0 {
		fmt.Fprintln(w, "No overdue action plans")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tSECTION\tPROCESS\tSTATUS\tACTION PLAN\tRESPONSIBLE")
	for _, p := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.TargetDate, p.Section, p.Process, p.Status, p.Description, p.ResponsiblePerson)
	}
	return tw.Flush()
}

func newSummaryCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard summary as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			svc, closeFn, err := openService(ctx, asOf)
			if err != nil {
				return err
			}
			defer closeFn()

			summary, err := svc.Summary(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}

	cmd.Flags().StringVar(&asOf, "date", "", "evaluate as of this date (YYYY-MM-DD)")
	return cmd
}
