// Command gds-copy copies a GDSII stream record-for-record, selecting
// gzip framing on either side from the ".gz" suffix.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/renameio"
	"github.com/icflow/layoutfmt/byteio"
	"github.com/icflow/layoutfmt/gds"
)

func run(inPath, outPath string) error {
	rf, err := byteio.Open(inPath, byteio.Auto)
	if err != nil {
		return err
	}
	defer rf.Close()
	sc := gds.NewScanner(rf)

	pf, err := renameio.TempFile("", outPath)
	if err != nil {
		return err
	}
	defer pf.Cleanup()

	wf := byteio.NewFromOSFile(pf.File, outPath, byteio.Auto)
	w := gds.NewWriter(wf)

	for {
		rec, err := sc.Record()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", inPath, err)
		}
		if err := w.WriteRecord(rec.Type, rec.Kind, rec.Body); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := wf.FinishWrite(); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: gds-copy infile outfile")
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(args[0], args[1]); err != nil {
		log.Fatalf("gds-copy: %v", err)
	}
}
