// Package pipeline sequences the four stages of a tidy run: locate the
// source file, read and normalize it, tidy/aggregate it, then validate and
// persist the results. Control flows strictly downward; the first fatal error
// aborts the run. Every step is timed and reported through the metrics
// package.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"tidycatch/internal/config"
	"tidycatch/internal/datasource"
	"tidycatch/internal/datasource/file"
	"tidycatch/internal/metrics"
	"tidycatch/internal/parser"
	pcsv "tidycatch/internal/parser/csv"
	"tidycatch/internal/storage"
	"tidycatch/internal/tidy"
	"tidycatch/internal/writer"
	"tidycatch/pkg/records"
)

// Summary reports what one run read, excluded, and produced.
type Summary struct {
	InputPath   string
	RowsParsed  int
	RowsSkipped int
	RowsDropped int
	Years       int
	WidePath    string
	LongPath    string
	DropLogPath string
	Persisted   int64
}

// Run executes the full pipeline for p. The pipeline is single-pass and
// rebuilt from scratch on every invocation: raw rows are read once, the tidy
// tables are derived once, and nothing is mutated after creation.
func Run(ctx context.Context, p config.Pipeline) (*Summary, error) {
	p.ApplyDefaults()
	sum := &Summary{}

	// Stage 1: locate the input.
	inputPath, err := step(p.Job, "locate", func() (string, error) {
		return file.Locate(p.Source.File.Path, p.Source.File.Fallbacks...)
	})
	if err != nil {
		return nil, err
	}
	sum.InputPath = inputPath

	// Stage 2: read and normalize.
	type parsed struct {
		recs    []records.Record
		headers []string
		skipped int
	}
	pr, err := step(p.Job, "parse", func() (parsed, error) {
		var src datasource.Source = file.NewLocal(inputPath)
		rc, err := src.Open(ctx)
		if err != nil {
			return parsed{}, err
		}
		defer rc.Close()

		var pp parser.Parser = pcsv.NewParser(pcsv.Options{
			HasHeader: p.Parser.Options.Bool("has_header", true),
			Comma:     p.Parser.Options.Rune("comma", ','),
			TrimSpace: p.Parser.Options.Bool("trim_space", true),
			HeaderMap: p.Parser.Options.StringMap("header_map"),
		})
		recs, headers, skipped, err := pp.Parse(rc)
		if err != nil {
			return parsed{}, fmt.Errorf("parse %s: %w", inputPath, err)
		}
		if err := pcsv.RequireColumns(headers, tidy.RequiredColumns); err != nil {
			return parsed{}, err
		}
		return parsed{recs: recs, headers: headers, skipped: skipped}, nil
	})
	if err != nil {
		return nil, err
	}
	sum.RowsParsed = len(pr.recs)
	sum.RowsSkipped = pr.skipped
	metrics.RecordRow(p.Job, "parsed", int64(len(pr.recs)))
	metrics.RecordRow(p.Job, "skipped", int64(pr.skipped))

	// Stage 3: tidy.
	res, err := step(p.Job, "tidy", func() (*tidy.Result, error) {
		return tidy.Transform(pr.recs)
	})
	if err != nil {
		return nil, err
	}
	sum.RowsDropped = len(res.Dropped)
	sum.Years = len(res.Wide)
	metrics.RecordRow(p.Job, "dropped", int64(len(res.Dropped)))
	metrics.RecordRow(p.Job, "aggregated", int64(len(res.Wide)))

	// Stage 4a: validate.
	if _, err := step(p.Job, "validate", func() (struct{}, error) {
		return struct{}{}, tidy.AssertTidy(res.Wide)
	}); err != nil {
		return nil, err
	}

	long := tidy.Reshape(res.Wide)

	// Stage 4b: write artifacts.
	if _, err := step(p.Job, "write", func() (struct{}, error) {
		outDir, err := writer.ResolveDir(p.Output.Dir, p.Output.FallbackDirs)
		if err != nil {
			return struct{}{}, err
		}
		sum.WidePath = filepath.Join(outDir, p.Output.WideFile)
		sum.LongPath = filepath.Join(outDir, p.Output.LongFile)

		if p.Output.DropLog != "" {
			sum.DropLogPath = filepath.Join(outDir, p.Output.DropLog)
			if err := writeDropLog(sum.DropLogPath, res.Dropped); err != nil {
				return struct{}{}, err
			}
		}
		if err := writer.WriteWide(sum.WidePath, res.Wide); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, writer.WriteLong(sum.LongPath, long)
	}); err != nil {
		return nil, err
	}

	// Stage 4c: optional database sink.
	if kind := p.Storage.Kind; kind != "" && kind != "none" {
		n, err := step(p.Job, "persist", func() (int64, error) {
			cfg := storage.Config{
				Kind:            kind,
				DSN:             p.Storage.DB.DSN,
				WideTable:       p.Storage.DB.WideTable,
				LongTable:       p.Storage.DB.LongTable,
				AutoCreateTable: p.Storage.DB.AutoCreateTable,
			}
			repo, err := storage.New(ctx, cfg)
			if err != nil {
				return 0, err
			}
			defer repo.Close()
			return storage.Persist(ctx, repo, cfg, res.Wide, long)
		})
		if err != nil {
			return nil, err
		}
		sum.Persisted = n
		metrics.RecordRow(p.Job, "persisted", n)
	}

	return sum, nil
}

// writeDropLog persists the drop audit and logs per-reason counts.
func writeDropLog(path string, dropped []tidy.Dropped) error {
	dl, err := tidy.NewDropLog(path)
	if err != nil {
		return err
	}
	for _, d := range dropped {
		if err := dl.Add(d); err != nil {
			dl.Close()
			return err
		}
	}
	if err := dl.Close(); err != nil {
		return err
	}
	for reason, n := range dl.Counts() {
		log.Printf("pipeline: dropped %d row(s): %s", n, reason)
	}
	return nil
}

// step runs fn, records its duration and outcome under the given step name,
// and passes the result through.
func step[T any](job, name string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}
