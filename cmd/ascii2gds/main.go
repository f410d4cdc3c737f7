// Command ascii2gds parses asciidump's text format back into a GDSII
// stream, the inverse of gds2ascii.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/renameio"
	"github.com/icflow/layoutfmt/asciidump"
	"github.com/icflow/layoutfmt/byteio"
	"github.com/icflow/layoutfmt/gds"
)

func run(asciiPath, gdsPath string) error {
	in, err := os.Open(asciiPath)
	if err != nil {
		return err
	}
	defer in.Close()

	pf, err := renameio.TempFile("", gdsPath)
	if err != nil {
		return err
	}
	defer pf.Cleanup()

	wf := byteio.NewFromOSFile(pf.File, gdsPath, byteio.Auto)
	w := gds.NewWriter(wf)

	if err := asciidump.Ingest(in, w); err != nil {
		return fmt.Errorf("ingesting %s: %w", asciiPath, err)
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
		fmt.Fprintln(os.Stderr, "usage: ascii2gds ascii-file gdsii-file")
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(args[0], args[1]); err != nil {
		log.Fatalf("ascii2gds: %v", err)
	}
}
