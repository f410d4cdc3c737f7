// Command gds-recstats prints per-record-type counts for one or more
// GDSII files, parsing them concurrently since each file's scan shares
// no state with any other.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/icflow/layoutfmt"
	"github.com/icflow/layoutfmt/byteio"
	"github.com/icflow/layoutfmt/gds"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
)

const terminalWidth = 80

type fileStats struct {
	path   string
	counts map[gds.RecordType]int
	total  int
}

func scanFile(ctx context.Context, path string) (*fileStats, error) {
	rf, err := byteio.Open(path, byteio.Auto)
	if err != nil {
		return nil, err
	}
	defer rf.Close()

	stats := &fileStats{path: path, counts: make(map[gds.RecordType]int)}
	sc := gds.NewScanner(rf)
	for {
		if stats.total%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := sc.Record()
		if err != nil {
			break
		}
		stats.counts[rec.Type]++
		stats.total++
	}
	return stats, nil
}

func sortedTypes(counts map[gds.RecordType]int) []gds.RecordType {
	types := make([]gds.RecordType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func printStats(w *bufio.Writer, s *fileStats, wrapToTerminal bool) error {
	if _, err := fmt.Fprintf(w, "%s: %d records\n", s.path, s.total); err != nil {
		return err
	}
	types := sortedTypes(s.counts)
	if !wrapToTerminal {
		for _, t := range types {
			if _, err := fmt.Fprintf(w, "%s %d\n", t, s.counts[t]); err != nil {
				return err
			}
		}
		return nil
	}
	col := 0
	for _, t := range types {
		field := fmt.Sprintf("%s:%d  ", t, s.counts[t])
		if col > 0 && col+len(field) > terminalWidth {
			if _, err := w.WriteString("\n"); err != nil {
				return err
			}
			col = 0
		}
		if _, err := w.WriteString(field); err != nil {
			return err
		}
		col += len(field)
	}
	if col > 0 {
		if _, err := w.WriteString("\n"); err != nil {
			return err
		}
	}
	return nil
}

func run(ctx context.Context, paths []string) error {
	results := make([]*fileStats, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			s, err := scanFile(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	wrap := isatty.IsTerminal(os.Stdout.Fd())
	for _, s := range results {
		if err := printStats(w, s, wrap); err != nil {
			return err
		}
	}
	return w.Flush()
}

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: gds-recstats gdsii-file ...")
	}
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}
	ctx, cancel := layoutfmt.InterruptibleContext()
	defer cancel()
	if err := run(ctx, args); err != nil {
		log.Fatalf("gds-recstats: %v", err)
	}
}
