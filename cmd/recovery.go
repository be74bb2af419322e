package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/playvideo/internal/app"
	"github.com/tejashwikalptaru/playvideo/internal/service"
)

var recoveryCmd = &cobra.Command{
	Use:   "recovery",
	Short: "Inspect or clear the reboot counter",
}

var recoveryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print how many reboots were attempted in a row",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRecovery(cmd, func(recovery *service.RecoveryService, maxAttempts int) error {
			count, err := recovery.Status()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reboot attempts: %d of %d\n", count, maxAttempts)
			return nil
		})
	},
}

var recoveryResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set the reboot counter back to zero",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRecovery(cmd, func(recovery *service.RecoveryService, _ int) error {
			if err := recovery.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "reboot counter reset")
			return nil
		})
	},
}

func init() {
	recoveryCmd.AddCommand(recoveryStatusCmd, recoveryResetCmd)
	rootCmd.AddCommand(recoveryCmd)
}

// withRecovery runs fn against the recovery service. Only the recovery file
// location matters here, so missing jukebox settings are tolerated.
func withRecovery(cmd *cobra.Command, fn func(*service.RecoveryService, int) error) error {
	cfg, err := loadConfig(cmd)
	if cfg == nil {
		return err
	}

	application, err := app.NewApplication(app.Options{Config: cfg, Log: logConfig()})
	if err != nil {
		return err
	}
	defer application.Shutdown()

	recovery, _, _, _ := application.GetServices()
	return fn(recovery, cfg.RebootAttempts)
}
