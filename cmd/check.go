package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/playvideo/internal/app"
	"github.com/tejashwikalptaru/playvideo/internal/config"
	"github.com/tejashwikalptaru/playvideo/internal/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check [list-file]",
	Short: "Parse a list file and report what would be played",
	Long: `Parse the list file once, without retries or reboots, and print every
entry with its volume, location and title. Skipped lines are listed with
the reason they were rejected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	var missing *domain.ConfigMissingError
	if err != nil && !errors.As(err, &missing) {
		return err
	}
	if len(args) == 1 {
		cfg.ListFile = args[0]
	}
	if cfg.ListFile == "" {
		return &domain.ConfigMissingError{Key: config.EnvListFile}
	}

	application, err := app.NewApplication(app.Options{Config: cfg, Log: logConfig()})
	if err != nil {
		return err
	}
	defer application.Shutdown()
	_, playlist, _, _ := application.GetServices()

	f, err := os.Open(cfg.ListFile)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrListFileUnavailable, err)
	}
	defer f.Close()

	res, err := playlist.Parse(f, cfg.ListFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tVOLUME\tLOOP\tFOUND\tPATH\tTITLE")
	for i, entry := range res.Playlist.Entries {
		path := entry.FullPath()
		found := "yes"
		if _, err := os.Stat(path); err != nil {
			found = "NO"
		}
		title, _ := application.GetMetadata().Title(path)
		fmt.Fprintf(w, "%d\t%d\t%t\t%s\t%s\t%s\n", i, entry.Volume, entry.Loop, found, path, title)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d entries", len(res.Playlist.Entries))
	if res.Dropped > 0 {
		fmt.Fprintf(out, ", %d dropped past the limit of %d", res.Dropped, cfg.MaxVideos)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "minimum play time: %s, auto advance: %t\n", res.Playlist.MinimumPlayTime, res.Playlist.AutoAdvance)

	for _, line := range res.Skipped {
		fmt.Fprintf(out, "skipped: %v\n", line)
	}
	for _, line := range res.Warnings {
		fmt.Fprintf(out, "warning: %v\n", line)
	}
	return nil
}
