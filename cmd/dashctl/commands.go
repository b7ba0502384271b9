package main

import (
	"dashboard/src/deadlines"
	"dashboard/src/timezones"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the dashctl command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dashctl",
		Short:         "Report deadline tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newZonesCmd())
	rootCmd.AddCommand(newSlotsCmd())
	return rootCmd
}

func newNextCmd() *cobra.Command {
	var (
		cadence   string
		weekday   int
		slot      string
		zone      string
		reference string
		at        string
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Preview the next deadline of a schedule",
		Long: "Preview the next deadline of a schedule as seen from a display zone\n" +
			"usage:\n" +
			"\tdashctl next --cadence Weekly --weekday 2 --time 17:00 --tz America/Los_Angeles",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedCadence, err := deadlines.ParseCadence(cadence)
			if err != nil {
				return err
			}
			parsedSlot, err := deadlines.ParseTimeSlot(slot)
			if err != nil {
				return err
			}
			var day *int
			if cmd.Flags().Changed("weekday") {
				day = &weekday
			}
			schedule, err := deadlines.NewSchedule(parsedCadence, day, &parsedSlot)
			if err != nil {
				return err
			}

			referenceZone, err := timezones.LoadZone(reference)
			if err != nil {
				return err
			}
			displayZone, err := timezones.LoadZone(zone)
			if err != nil {
				return err
			}

			now := time.Now()
			if at != "" {
				now, err = time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at value: %w", err)
				}
			}

			status := deadlines.Evaluate(schedule, referenceZone, displayZone, now)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "schedule:  %s\n", schedule)
			if status.HasDeadline {
				fmt.Fprintf(out, "deadline:  %s\n", status.Deadline.Format(deadlines.DisplayLayout))
			}
			fmt.Fprintf(out, "countdown: %s\n", status.Text())
			return nil
		},
	}

	cmd.Flags().StringVar(&cadence, "cadence", string(deadlines.CadenceDaily), "Report cadence (Daily or Weekly)")
	cmd.Flags().IntVar(&weekday, "weekday", 0, "Deadline weekday, Monday=0 ... Sunday=6")
	cmd.Flags().StringVar(&slot, "time", "17:00", "Deadline time of day (HH:MM, on :00 or :30)")
	cmd.Flags().StringVar(&zone, "tz", timezones.DefaultZone, "Display time zone")
	cmd.Flags().StringVar(&reference, "reference", timezones.DefaultZone, "Zone deadlines are authored in")
	cmd.Flags().StringVar(&at, "at", "", "Evaluate at this RFC3339 instant instead of now")
	return cmd
}

func newZonesCmd() *cobra.Command {
	var overrides map[string]string

	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List work locations and their display zones",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := timezones.NewResolver(timezones.DefaultZone, overrides)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LOCATION\tTIMEZONE")
			for _, location := range timezones.Locations() {
				fmt.Fprintf(w, "%s\t%s\n", location, resolver.Resolve(location))
			}
			fmt.Fprintf(w, "(unset)\t%s\n", resolver.DefaultZone())
			return w.Flush()
		},
	}

	cmd.Flags().StringToStringVar(&overrides, "override", nil, "Location zone overrides, e.g. ACBO=America/Chicago")
	return cmd
}

func newSlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List the valid deadline times of day",
		RunE: func(cmd *cobra.Command, args []string) error {
			slots := deadlines.TimeSlots()
			names := make([]string, len(slots))
			for i, s := range slots {
				names[i] = s.String()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, " "))
			return err
		},
	}
}
