// Package results reads historical match results from CSV files laid out
// like fivethirtyeight's spi_matches export.
package results

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/okian/matchpredictor/internal/domain/dedupe"
	"github.com/okian/matchpredictor/internal/domain/model"
	"github.com/okian/matchpredictor/pkg/logger"
	"github.com/okian/matchpredictor/pkg/metrics"
)

// Column names read from the header row.
const (
	ColSeason = "season"
	ColLeague = "league"
	ColHome   = "team1"
	ColAway   = "team2"
	ColScore1 = "score1"
	ColScore2 = "score2"
	ColDate   = "date" // optional, only used to tell duplicates apart
)

var requiredColumns = [...]string{ColSeason, ColLeague, ColHome, ColAway, ColScore1, ColScore2}

// Skip reasons reported to metrics.
const (
	skipUnplayed  = "unplayed"
	skipMalformed = "malformed"
	skipLeague    = "league"
)

type loader struct {
	league     string
	dedupeSize int
	logger     logger.Logger
	client     *resty.Client

	seen    dedupe.Deduper
	skipped map[string]int
	dupes   int
}

// Load reads every file in paths and returns the played results in file
// order. Paths starting with http:// or https:// are downloaded. Unplayed fixtures and malformed rows are skipped; rows repeated
// across files are kept once.
func Load(ctx context.Context, paths []string, opts ...Option) ([]model.Result, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}

	l := &loader{
		logger:  logger.Nop(),
		skipped: make(map[string]int),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.seen = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(l.dedupeSize))

	var out []model.Result
	for _, path := range paths {
		var err error
		if isRemote(path) {
			out, err = l.fetch(ctx, path, out)
		} else {
			out, err = l.loadFile(ctx, path, out)
		}
		if err != nil {
			return nil, err
		}
	}

	l.logger.Info(ctx, "results loaded",
		logger.Int("files", len(paths)),
		logger.Int("results", len(out)),
		logger.Int("unplayed", l.skipped[skipUnplayed]),
		logger.Int("malformed", l.skipped[skipMalformed]),
		logger.Int("duplicates", l.dupes),
	)
	return out, nil
}

func (l *loader) loadFile(ctx context.Context, path string, out []model.Result) ([]model.Result, error) {
	f, err := os.Open(path) //nolint:gosec // paths come from operator configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadResults, err)
	}
	defer f.Close()

	out, err = l.read(ctx, f, out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func (l *loader) read(ctx context.Context, r io.Reader, out []model.Result) ([]model.Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrLoadResults, err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				l.skip(ctx, skipMalformed, line, err)
				continue
			}
			return nil, fmt.Errorf("%w: %w", ErrLoadResults, err)
		}

		res, reason, err := l.parse(record, idx)
		if reason != "" {
			l.skip(ctx, reason, line, err)
			continue
		}

		if l.seen.SeenAndRecord(ctx, identity(record, idx)) {
			l.dupes++
			metrics.RecordResultDuplicate()
			continue
		}

		metrics.RecordResultLoaded()
		out = append(out, res)
	}
}

func (l *loader) skip(ctx context.Context, reason string, line int, err error) {
	l.skipped[reason]++
	metrics.RecordResultSkipped(reason)
	if reason == skipMalformed {
		l.logger.Debug(ctx, "skipping malformed row", logger.Int("line", line), logger.Error(err))
	}
}

// parse converts one record. A non-empty reason means the row is skipped.
func (l *loader) parse(record []string, idx map[string]int) (model.Result, string, error) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	league := field(ColLeague)
	if l.league != "" && strings.ToLower(league) != l.league {
		return model.Result{}, skipLeague, nil
	}

	s1, s2 := field(ColScore1), field(ColScore2)
	if s1 == "" || s2 == "" {
		return model.Result{}, skipUnplayed, nil
	}

	home, away := field(ColHome), field(ColAway)
	if home == "" || away == "" {
		return model.Result{}, skipMalformed, errors.New("empty team name")
	}

	season, err := strconv.Atoi(field(ColSeason))
	if err != nil {
		return model.Result{}, skipMalformed, fmt.Errorf("season: %w", err)
	}
	hg, err := parseGoals(s1)
	if err != nil {
		return model.Result{}, skipMalformed, fmt.Errorf("score1: %w", err)
	}
	ag, err := parseGoals(s2)
	if err != nil {
		return model.Result{}, skipMalformed, fmt.Errorf("score2: %w", err)
	}

	fixture := model.NewFixture(home, away)
	fixture.League = league
	return model.NewResult(fixture, hg, ag, season), "", nil
}

// parseGoals accepts integral values written either as "2" or "2.0".
func parseGoals(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative goals %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid goals %q", s)
	}
	return int(f), nil
}

func identity(record []string, idx map[string]int) string {
	parts := make([]string, 0, 5)
	for _, col := range [...]string{ColSeason, ColLeague, ColDate, ColHome, ColAway} {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, record[i])
	}
	return dedupe.Key(parts...)
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return idx, nil
}

// Split partitions results into training data (seasons before
// validationSeason) and validation data (exactly validationSeason).
// Later seasons belong to neither.
func Split(all []model.Result, validationSeason int) (training, validation []model.Result) {
	for _, r := range all {
		switch {
		case r.Season < validationSeason:
			training = append(training, r)
		case r.Season == validationSeason:
			validation = append(validation, r)
		}
	}
	return training, validation
}
