package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	metricsDays        int
	metricsCleanupDays int
)

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.AddCommand(metricsCleanupCmd)

	metricsCmd.Flags().IntVar(&metricsDays, "days", 7, "Number of days to report")
	metricsCleanupCmd.Flags().IntVar(&metricsCleanupDays, "days", 30, "Delete records older than this many days")
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show LLM token usage and process health",
	Args:  cobra.NoArgs,
	RunE:  runMetrics,
}

var metricsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old LLM usage records",
	Args:  cobra.NoArgs,
	RunE:  runMetricsCleanup,
}

func runMetrics(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	usage, err := a.Metrics.GetDailyUsage(commandContext(cmd), metricsDays)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPROMPT\tCOMPLETION\tCALLS")
	for _, d := range usage {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", d.Date, d.TotalPrompt, d.TotalCompletion, d.TotalExecution)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	h := a.Health()
	fmt.Fprintf(cmd.OutOrStdout(), "\nRAM: %dMB alloc / %dMB sys, goroutines: %d, data: %s\n",
		h.AllocMB, h.SysMB, h.Goroutines, h.DataDiskSize)
	return nil
}

func runMetricsCleanup(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	n, err := a.Metrics.Cleanup(commandContext(cmd), metricsCleanupDays)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d records\n", n)
	return nil
}
