// Command evaluate trains on every season before -season and reports how
// often the predictor matches the results of -season.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/okian/matchpredictor/internal/adapters/results"
	"github.com/okian/matchpredictor/internal/domain/model"
	"github.com/okian/matchpredictor/internal/domain/prediction"
	"github.com/okian/matchpredictor/internal/domain/training"
	"github.com/okian/matchpredictor/internal/evaluation"
	"github.com/okian/matchpredictor/pkg/logger"
)

// Default configuration constants.
const (
	defaultData     = "data/spi_matches.csv"
	defaultLeague   = "Barclays Premier League"
	defaultSeason   = 2021
	defaultBaseline = true
)

type namedPredictor struct {
	name string
	p    prediction.Predictor
}

type options struct {
	paths    []string
	league   string
	season   int
	window   int
	workers  int
	baseline bool
	verbose  bool
}

func main() {
	var (
		data     = flag.String("data", defaultData, "Comma separated results CSV files")
		league   = flag.String("league", defaultLeague, "League to train and evaluate on (empty for all)")
		season   = flag.Int("season", defaultSeason, "Season held out for evaluation")
		window   = flag.Int("window", training.DefaultRecentWindow, "Number of recent seasons feeding the form tables")
		workers  = flag.Int("workers", runtime.NumCPU(), "Number of evaluation workers")
		baseline = flag.Bool("baseline", defaultBaseline, "Also report the alphabetical predictor")
		verbose  = flag.Bool("verbose", false, "Print the per-outcome breakdown and enable debug logging")
	)
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{
		paths:    strings.Split(*data, ","),
		league:   *league,
		season:   *season,
		window:   *window,
		workers:  *workers,
		baseline: *baseline,
		verbose:  *verbose,
	}
	if err := run(ctx, opts, os.Stdout, logger.Get()); err != nil {
		logger.Get().Error(ctx, "evaluation failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer, log logger.Logger) error {
	all, err := results.Load(ctx, opts.paths,
		results.WithLeague(opts.league),
		results.WithLogger(log.Named("results")),
	)
	if err != nil {
		return err
	}

	train, validation := results.Split(all, opts.season)
	if len(validation) == 0 {
		return fmt.Errorf("no results for season %d", opts.season)
	}

	m := training.Train(train,
		training.WithRecentWindow(opts.window),
		training.WithLogger(log.Named("trainer")),
	)

	predictors := []namedPredictor{{"enhanced", prediction.NewEnhanced(m)}}
	if opts.baseline {
		predictors = append(predictors, namedPredictor{"alphabet", prediction.Alphabet{}})
	}

	fmt.Fprintf(out, "league=%q season=%d training=%d validation=%d recent_seasons=%v\n",
		opts.league, opts.season, len(train), len(validation), m.RecentSeasons())
	for _, pr := range predictors {
		ev := evaluation.New(pr.p,
			evaluation.WithWorkerCount(opts.workers),
			evaluation.WithLogger(log.Named("evaluation")),
		)
		rep, err := ev.MeasureAccuracy(ctx, validation)
		if err != nil {
			return fmt.Errorf("%s: %w", pr.name, err)
		}
		printReport(out, pr.name, rep, opts.verbose)
	}
	return nil
}

// printReport writes one summary line per predictor, plus one line per
// outcome when breakdown is set.
func printReport(out io.Writer, name string, rep evaluation.Report, breakdown bool) {
	fmt.Fprintf(out, "%-9s accuracy=%.4f correct=%d total=%d\n", name, rep.Accuracy, rep.Correct, rep.Total)
	if !breakdown {
		return
	}
	for _, o := range model.Outcomes {
		st := rep.ByOutcome[o]
		fmt.Fprintf(out, "  %-5s actual=%d predicted=%d correct=%d\n", o, st.Actual, st.Predicted, st.Correct)
	}
}
