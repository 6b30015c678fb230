package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/fundwatch/internal/control"
	"github.com/vietddude/fundwatch/internal/fund"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Probe the node and the fund contract",
	Run:   runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	app := control.New(setup())
	ctx, cancel := commandContext()
	defer cancel()

	report, err := fund.Inspect(ctx, app.Chain(), app.FundConfig())
	if err != nil {
		slog.Error("Failed to reach node", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintf(w, "chain id\t%s\n", report.ChainID)
	_, _ = fmt.Fprintf(w, "latest block\t%d\n", report.LatestBlock)
	_, _ = fmt.Fprintf(w, "fund address\t%s\n", report.Address)
	_, _ = fmt.Fprintf(w, "contract found\t%t (%d bytes)\n", report.ContractFound, report.CodeSize)

	names := make([]string, 0, len(report.Calls))
	for name := range report.Calls {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		res := report.Calls[name]
		if res.Error != "" {
			_, _ = fmt.Fprintf(w, "%s()\terror: %s\n", name, res.Error)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s()\t%s\n", name, res.Value)
	}

	if report.ContractFound {
		_, _ = fmt.Fprintf(w, "window\t%s\n", report.Window)
		_, _ = fmt.Fprintf(w, "deposit events\t%d\n", report.Deposits)
		_, _ = fmt.Fprintf(w, "withdrawal events\t%d\n", report.Withdrawals)
		_, _ = fmt.Fprintf(w, "raw logs\t%d\n", report.RawLogs)
	}
	for _, e := range report.EventErrors {
		_, _ = fmt.Fprintf(w, "event error\t%s\n", e)
	}
	_ = w.Flush()
}
