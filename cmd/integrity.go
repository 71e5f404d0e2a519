package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"presence-sync/core/reconcile"
	"presence-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the emulator schema, Discord containers and archive bucket",
	Long: `Runs the same checks as GET /integrity and prints the reports as JSON.
With --fix a missing archive bucket is created.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		rt, err := newRuntime(ctx, cfg, logg)
		if err != nil {
			return err
		}
		defer rt.close()

		svc := integrity.NewService(integrity.Targets{
			DB:         rt.db,
			Emulator:   cfg.Server.EmulatorName(),
			CheckLinks: cfg.Linking.Enabled,
			Discord:    rt.discord,
			Presence:   func() reconcile.Config { return cfg.Presence },
			Storage:    rt.store,
			Bucket:     cfg.Storage.Bucket,
		}, logg)

		out := cmd.OutOrStdout()

		server, err := svc.CheckServer()
		if err != nil {
			return err
		}
		printSection(out, "Server", server)

		discordReport, err := svc.CheckDiscord(ctx)
		if err != nil {
			return err
		}
		printSection(out, "Discord", discordReport)

		if rt.store == nil {
			fmt.Fprintln(out, "\n=== Storage ===\ndisabled")
			return nil
		}
		storageReport, err := svc.CheckStorage(ctx)
		if err != nil {
			return err
		}
		if !storageReport.BucketExists && fixFlag {
			if err := svc.FixStorage(ctx); err != nil {
				return err
			}
			logg.Info("Archive bucket created", zap.String("bucket", storageReport.Bucket))
			storageReport.BucketExists = true
			storageReport.Status = "fixed"
		}
		printSection(out, "Storage", storageReport)
		return nil
	},
}

func printSection(w io.Writer, title string, report any) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "\n=== %s ===\n%v\n", title, err)
		return
	}
	fmt.Fprintf(w, "\n=== %s ===\n%s\n", title, data)
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the archive bucket if it is missing")
}
