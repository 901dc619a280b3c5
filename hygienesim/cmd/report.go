package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/hygienesim/datarecording"
	"github.com/sarchlab/hygienesim/tracing"
)

func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report <database>",
		Short: "Print the series recorded by a run.",
		Args:  cobra.ExactArgs(1),
		RunE:  report,
	}

	reportCmd.Flags().Int("limit", 0, "print at most this many weeks")

	return reportCmd
}

func report(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	reader, err := datarecording.NewReader(args[0])
	if err != nil {
		return err
	}
	defer reader.Close()

	reader.MapTable(tracing.SeriesTable, tracing.SeriesEntry{})
	reader.MapTable(datarecording.ExecInfoTable, datarecording.ExecInfo{})

	info, _, err := reader.Query(cmd.Context(), datarecording.ExecInfoTable,
		datarecording.QueryParams{})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, row := range info {
		entry := row.(*datarecording.ExecInfo)
		fmt.Fprintf(out, "%s: %s\n", entry.Property, entry.Value)
	}

	rows, total, err := reader.Query(cmd.Context(), tracing.SeriesTable,
		datarecording.QueryParams{OrderBy: "Period", Limit: limit})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period\tGood\tBad\tClosed\t")

	for _, row := range rows {
		entry := row.(*tracing.SeriesEntry)
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t\n",
			entry.Period, entry.Good, entry.Bad, entry.Closed)
	}

	tw.Flush()

	if len(rows) < total {
		fmt.Fprintf(out, "%d of %d weeks shown\n", len(rows), total)
	}

	return nil
}
