package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/huedetect/internal/config"
	"github.com/ayusman/huedetect/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List journaled detection sessions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().Int("limit", 20, "Maximum number of sessions to list (0 lists all)")
}

func runSessions(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	st, err := openStore(viper.GetString(config.KeyDBPath))
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := st.Sessions().List(limit)
	if err != nil {
		return err
	}

	return writeSessions(cmd.OutOrStdout(), sessions)
}

func writeSessions(w io.Writer, sessions []*store.Session) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOLOR\tDEVICE\tSTARTED\tDURATION\tFRAMES\tDETECTIONS\tENDED")

	for _, s := range sessions {
		duration := "-"
		ended := "running"
		if s.EndedAt != nil {
			duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
			ended = string(s.EndReason)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%d\t%d\t%s\n",
			s.ID, strings.ToLower(s.Color.String()), s.Device,
			s.StartedAt.Local().Format(time.DateTime), duration,
			s.Frames, s.Detections, ended)
	}
	return tw.Flush()
}
