// Command gds-cells lists the structure names in a GDSII file, one per
// line, in file order.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/icflow/layoutfmt/byteio"
	"github.com/icflow/layoutfmt/gds"
	"github.com/icflow/layoutfmt/pipeline"
)

type cellLister struct {
	pipeline.NoopBuilder
	w *bufio.Writer
}

func (c *cellLister) BeginCell(name string) error {
	_, err := fmt.Fprintln(c.w, name)
	return err
}

func run(path string) error {
	rf, err := byteio.Open(path, byteio.Auto)
	if err != nil {
		return err
	}
	defer rf.Close()

	w := bufio.NewWriter(os.Stdout)
	lister := &cellLister{w: w}
	p := &pipeline.GDSIIParser{File: path}
	if err := p.Parse(gds.NewScanner(rf), lister); err != nil {
		return err
	}
	return w.Flush()
}

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: gds-cells gdsii-file")
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(args[0]); err != nil {
		log.Fatalf("gds-cells: %v", err)
	}
}
