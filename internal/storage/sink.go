package storage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tidycatch/internal/tidy"
)

// Column orders of the two destination tables, matching the CSV artifacts.
var (
	WideColumns = []string{"calendar_year", "licences", "days", "tonnes", "cpue_t_per_day"}
	LongColumns = []string{"calendar_year", "metric", "value"}
)

// DDL templates. The type names are deliberately portable: SQLite applies
// affinity rules to DOUBLE PRECISION and Postgres takes them verbatim.
const (
	wideDDL = `CREATE TABLE IF NOT EXISTS %s (
	calendar_year INTEGER NOT NULL,
	licences DOUBLE PRECISION NOT NULL,
	days DOUBLE PRECISION NOT NULL,
	tonnes DOUBLE PRECISION NOT NULL,
	cpue_t_per_day DOUBLE PRECISION
)`
	longDDL = `CREATE TABLE IF NOT EXISTS %s (
	calendar_year INTEGER NOT NULL,
	metric TEXT NOT NULL,
	value DOUBLE PRECISION NOT NULL
)`
)

// Persist loads the wide and long tables into the repository, creating the
// destination tables first when cfg.AutoCreateTable is set. The two tables
// are independent, so they load concurrently under one errgroup; the first
// failure cancels the other load and is returned.
func Persist(ctx context.Context, repo Repository, cfg Config, wide []tidy.WideRow, long []tidy.LongRow) (int64, error) {
	if cfg.AutoCreateTable {
		if err := repo.Exec(ctx, fmt.Sprintf(wideDDL, cfg.WideTable)); err != nil {
			return 0, fmt.Errorf("create %s: %w", cfg.WideTable, err)
		}
		if err := repo.Exec(ctx, fmt.Sprintf(longDDL, cfg.LongTable)); err != nil {
			return 0, fmt.Errorf("create %s: %w", cfg.LongTable, err)
		}
	}

	wideRows := make([][]any, 0, len(wide))
	for _, r := range wide {
		var cpue any
		if r.CPUE != nil {
			cpue = *r.CPUE
		}
		wideRows = append(wideRows, []any{r.Year, r.Licences, r.Days, r.Tonnes, cpue})
	}
	longRows := make([][]any, 0, len(long))
	for _, r := range long {
		longRows = append(longRows, []any{r.Year, r.Metric, r.Value})
	}

	var nWide, nLong int64
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := repo.CopyFrom(ctx, cfg.WideTable, WideColumns, wideRows)
		nWide = n
		if err != nil {
			return fmt.Errorf("load %s: %w", cfg.WideTable, err)
		}
		return nil
	})
	g.Go(func() error {
		n, err := repo.CopyFrom(ctx, cfg.LongTable, LongColumns, longRows)
		nLong = n
		if err != nil {
			return fmt.Errorf("load %s: %w", cfg.LongTable, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nWide + nLong, err
	}
	return nWide + nLong, nil
}
