package cli

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/vietddude/fundwatch/internal/control"
	"github.com/vietddude/fundwatch/internal/core/domain"
	"github.com/vietddude/fundwatch/internal/fund"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the fund's total supply",
	Run:   runSummary,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print fund deposits and withdrawals in the lookback window",
	Run:   runHistory,
}

var sharesCmd = &cobra.Command{
	Use:   "shares <address>",
	Short: "Print the fund shares held by an address",
	Args:  cobra.ExactArgs(1),
	Run:   runShares,
}

func init() {
	rootCmd.AddCommand(summaryCmd, historyCmd, sharesCmd)
}

func runSummary(cmd *cobra.Command, args []string) {
	app := control.New(setup())
	ctx, cancel := commandContext()
	defer cancel()

	summary, err := app.Summary().Summary(ctx)
	if err != nil {
		slog.Error("Failed to load fund data", "category", fund.Classify(err), "error", err)
		os.Exit(1)
	}
	fmt.Printf("Total supply: %s\n", summary.TotalSupply)
}

func runHistory(cmd *cobra.Command, args []string) {
	app := control.New(setup())
	ctx, cancel := commandContext()
	defer cancel()

	report := app.History().Fetch(ctx)
	if err := printHistory(report); err != nil {
		slog.Error("Failed to print history", "error", err)
		os.Exit(1)
	}
}

func printHistory(report fund.HistoryReport) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, "TYPE\tUSER\tAMOUNT\tTIME\tTX")
	for _, ev := range report.Events {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ev.Kind,
			domain.ShortAddress(ev.Account),
			ev.Amount.String(),
			ev.OccurredAt.Format(time.RFC3339),
			ev.Reference,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	deposits, withdrawals := domain.CountByKind(report.Events)
	window := "-"
	if report.Window != nil {
		window = report.Window.String()
	}
	fmt.Printf("\nstatus=%s window=%s deposits=%d withdrawals=%d\n", report.Status, window, deposits, withdrawals)
	if report.Err != nil {
		fmt.Printf("error: %v\n", report.Err)
	}
	return nil
}

func runShares(cmd *cobra.Command, args []string) {
	if !common.IsHexAddress(args[0]) {
		fmt.Fprintf(os.Stderr, "invalid address %q\n", args[0])
		os.Exit(1)
	}

	app := control.New(setup())
	ctx, cancel := commandContext()
	defer cancel()

	account := common.HexToAddress(args[0])
	fmt.Printf("%s: %s\n", account.Hex(), app.Summary().Shares(ctx, account))
}
