// Command gds-dot renders a GDSII file's cell-reference graph (SREF and
// AREF placements) as a graphviz dot digraph on stdout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/icflow/layoutfmt/byteio"
	"github.com/icflow/layoutfmt/gds"
	"github.com/icflow/layoutfmt/pipeline"
)

type refGrapher struct {
	pipeline.NoopBuilder
	w    *bufio.Writer
	cell string
	seen map[[2]string]bool
}

func (g *refGrapher) BeginCell(name string) error {
	g.cell = name
	return nil
}

func (g *refGrapher) Placement(p pipeline.Placement) error {
	edge := [2]string{g.cell, p.Cell}
	if g.seen[edge] {
		return nil
	}
	g.seen[edge] = true
	_, err := fmt.Fprintf(g.w, "\t%s -> %s;\n", strconv.Quote(g.cell), strconv.Quote(p.Cell))
	return err
}

func run(path string) error {
	rf, err := byteio.Open(path, byteio.Auto)
	if err != nil {
		return err
	}
	defer rf.Close()

	w := bufio.NewWriter(os.Stdout)
	if _, err := fmt.Fprintln(w, "digraph gds {"); err != nil {
		return err
	}
	g := &refGrapher{w: w, seen: make(map[[2]string]bool)}
	p := &pipeline.GDSIIParser{File: path}
	if err := p.Parse(gds.NewScanner(rf), g); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return err
	}
	return w.Flush()
}

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: gds-dot gdsii-file")
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(args[0]); err != nil {
		log.Fatalf("gds-dot: %v", err)
	}
}
