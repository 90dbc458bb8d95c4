// Command csvprobe samples the start of a catch/effort CSV (local file or
// URL) and prints what the pipeline would make of it: canonical headers,
// naive type guesses, and any missing required columns. With -json it emits
// a starter pipeline config instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"unicode/utf8"

	"tidycatch/internal/probe"
)

var (
	flagPath      = flag.String("path", "", "local CSV file to sample")
	flagURL       = flag.String("url", "", "URL of the CSV file to sample (alternative to -path)")
	flagBytes     = flag.Int("bytes", 64*1024, "number of bytes to sample from the start of the file")
	flagDelimiter = flag.String("delimiter", ",", "CSV field delimiter (single character)")
	flagJob       = flag.String("job", "catch_effort", "job name used in the generated config")
	flagJSON      = flag.Bool("json", false, "output a starter pipeline JSON config instead of the text report")
)

func main() {
	flag.Parse()

	delim := ','
	if *flagDelimiter != "" {
		if r, _ := utf8.DecodeRuneInString(*flagDelimiter); r != utf8.RuneError {
			delim = r
		}
	}

	rep, err := probe.Run(context.Background(), probe.Options{
		Path:      *flagPath,
		URL:       *flagURL,
		MaxBytes:  *flagBytes,
		Delimiter: delim,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *flagJSON {
		src := *flagPath
		if src == "" {
			src = *flagURL
		}
		b, err := probe.MarshalConfig(probe.StarterConfig(*flagJob, src, rep))
		if err != nil {
			log.Fatalf("marshal config: %v", err)
		}
		fmt.Println(string(b))
		return
	}

	fmt.Printf("sampled %d data row(s)\n", rep.RowsSampled)
	for _, c := range rep.Columns {
		fmt.Printf("  %-30q -> %-20s %-7s (%d samples)\n", c.Source, c.Canonical, c.Type, c.Samples)
	}
	if len(rep.MissingRequired) > 0 {
		fmt.Printf("missing required columns: %v\n", rep.MissingRequired)
		os.Exit(1)
	}
}
