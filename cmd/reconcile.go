package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"presence-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// yesConfirm skips the interactive prompt of destructive commands.
	yesConfirm bool
	// passTimeout bounds one-shot commands.
	passTimeout time.Duration
)

// reconcileCmd is the parent command for one-shot reconciliation operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Inspect or reset the presence category outside the service",
	Long: `One-shot operations against the configured guild and category.
Do not run these while the service is running against the same category.`,
}

// planCmd prints what the first pass of a fresh engine would do.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the channels a fresh start would create",
	Long: `Fetches the online roster once and prints the channels the first pass
would create. Nothing is changed on Discord.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, rt *runtime, engine *reconcile.Engine) error {
			diff, current, err := engine.Plan(ctx)
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), diff, current)
			return nil
		})
	},
}

// clearCmd deletes every channel in the category.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every channel in the presence category",
	Long: `Deletes every channel in the configured category, whether or not
presence-sync created it.

Examples:
  # Interactive confirmation
  reconcile clear

  # Non-interactive
  reconcile clear --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, rt *runtime, engine *reconcile.Engine) error {
			if err := engine.Initialize(ctx); err != nil {
				return err
			}
			if !confirmDestructiveAction(cmd.InOrStdin(), cmd.OutOrStdout()) {
				rt.log.Warn("Operation cancelled by user. No changes were made.")
				return nil
			}
			deleted, err := engine.Clear(ctx)
			if err != nil {
				return err
			}
			rt.log.Info("Cleared presence category", zap.Int("deleted", deleted))
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(reconcileCmd)
	reconcileCmd.AddCommand(planCmd, clearCmd)

	reconcileCmd.PersistentFlags().DurationVar(&passTimeout, "timeout", 2*time.Minute, "Abort the operation after this long")
	clearCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
}

// withEngine loads the config, builds an engine without scheduling and runs fn.
func withEngine(cmd *cobra.Command, fn func(ctx context.Context, rt *runtime, engine *reconcile.Engine) error) error {
	cfg, logg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), passTimeout)
	defer cancel()

	rt, err := newRuntime(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer rt.close()

	return fn(ctx, rt, rt.engine(cfg.Presence, nil))
}

// printPlan writes a human readable plan.
func printPlan(w io.Writer, diff reconcile.Diff, current reconcile.Snapshot) {
	fmt.Fprintf(w, "Online: %d\n", current.Len())
	fmt.Fprintf(w, "Channels to create: %d\n", len(diff.Arrived))
	for _, id := range diff.Arrived {
		name, _ := current.Name(id)
		fmt.Fprintf(w, "  + %s (%s)\n", name, id)
	}
	if len(diff.Departed) > 0 {
		fmt.Fprintf(w, "Channels to delete: %d\n", len(diff.Departed))
		for _, id := range diff.Departed {
			fmt.Fprintf(w, "  - %s\n", id)
		}
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(in io.Reader, out io.Writer) bool {
	if yesConfirm {
		fmt.Fprintln(out, "\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprint(out, "\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}

