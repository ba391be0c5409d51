// Command reconcile audits every priced event service and rewrites stored
// totals that drifted from the pricing formula.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"be-fest/internal/data/repository"
	"be-fest/internal/pricing"
	"be-fest/internal/usecase"
	"be-fest/pkg/broker"
	"be-fest/pkg/database"
	"be-fest/pkg/utils"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	v := viper.New()
	envFile, err := parseFlags(v, args)
	if err != nil {
		// pflag has already printed the error and usage
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitAborted
	}

	config, err := utils.LoadConfigWith(v, envFile)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return exitAborted
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return exitAborted
	}
	defer db.Close()

	publisher, err := broker.NewPublisher(config.Kafka.Brokers)
	if err != nil {
		logger.Error("Failed to connect to Kafka", zap.Error(err), zap.Strings("brokers", config.Kafka.Brokers))
		return exitAborted
	}
	defer publisher.Close()

	repos := repository.NewRepository(db, logger)
	srv := usecase.NewReconcileService(repos, config.Reconcile, publisher, config.Kafka.PricingTopic, logger)

	ctx = utils.SetActorContext(ctx, "cli")
	report, err := srv.ReconcileAll(ctx, config.Reconcile.DryRun)
	if err != nil {
		logger.Error("Reconciliation aborted", zap.Error(err))
		return exitAborted
	}

	if err := writeReport(out, report); err != nil {
		logger.Error("Failed to write report", zap.Error(err))
	}

	return exitCode(report)
}

const (
	exitOK      = 0
	exitFailed  = 1
	exitAborted = 2
)

// exitCode is 1 when any correction failed to persist. A run that found
// nothing to fix or applied every correction exits 0.
func exitCode(report *pricing.CorrectionReport) int {
	if report.HasFailures() {
		return exitFailed
	}
	return exitOK
}

// parseFlags binds CLI flags into v so they override .env and environment
// values when set.
func parseFlags(v *viper.Viper, args []string) (string, error) {
	fs := pflag.NewFlagSet("reconcile", pflag.ContinueOnError)
	fs.Bool("dry-run", false, "report stale totals without writing them")
	fs.Int("concurrency", 4, "number of snapshots checked in parallel")
	fs.Duration("timeout", 0, "per-snapshot timeout, e.g. 5s")
	envFile := fs.String("env-file", ".env", "path to the .env file")

	if err := fs.Parse(args); err != nil {
		return "", err
	}

	for key, name := range map[string]string{
		"RECONCILE_DRY_RUN":     "dry-run",
		"RECONCILE_CONCURRENCY": "concurrency",
		"RECONCILE_TIMEOUT":     "timeout",
	} {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return "", err
		}
	}

	return *envFile, nil
}

func writeReport(out io.Writer, report *pricing.CorrectionReport) error {
	mode := "apply"
	if report.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(out, "Reconciliation (%s)\n", mode)
	fmt.Fprintf(out, "  checked:   %d\n", report.TotalChecked)
	if report.DryRun {
		fmt.Fprintf(out, "  stale:     %d\n", report.PendingCount)
	} else {
		fmt.Fprintf(out, "  corrected: %d\n", report.CorrectedCount)
	}
	fmt.Fprintf(out, "  locked:    %d\n", report.LockedCount)
	fmt.Fprintf(out, "  failed:    %d\n\n", len(report.Failures))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEVENT\tOUTCOME\tBEFORE\tAFTER\tDELTA")
	for _, item := range report.Items {
		if item.Outcome == pricing.OutcomeOK {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.EventID, item.Outcome,
			pricing.FormatCurrency(item.OldValue),
			pricing.FormatCurrency(item.NewValue),
			pricing.FormatCurrency(item.Delta),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, f := range report.Failures {
		fmt.Fprintf(out, "\nFAILED %s: %s", f.ID, f.Error)
	}
	if len(report.Failures) > 0 {
		fmt.Fprintln(out)
	}

	delta := report.TotalDelta
	if report.DryRun {
		delta = report.PendingDelta
	}
	_, err := fmt.Fprintf(out, "\nTotal delta (old - new): %s\n", pricing.FormatCurrency(delta))
	return err
}
