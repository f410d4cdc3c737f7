// Command gds2ascii renders a GDSII file as text, one line per record,
// via package asciidump.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/icflow/layoutfmt/asciidump"
	"github.com/icflow/layoutfmt/byteio"
	"github.com/icflow/layoutfmt/gds"
)

func run(gdsPath, asciiPath string, cell string, annotateUnits bool) error {
	rf, err := byteio.Open(gdsPath, byteio.Auto)
	if err != nil {
		return err
	}
	defer rf.Close()

	var buf bytes.Buffer
	if err := asciidump.Dump(&buf, gds.NewScanner(rf), asciidump.Options{Cell: cell}); err != nil {
		return err
	}

	text := buf.String()
	if annotateUnits {
		text = annotateUnitsLines(text)
	}

	out := os.Stdout
	if asciiPath != "" {
		f, err := os.Create(asciiPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	_, err = out.WriteString(text)
	return err
}

// annotateUnitsLines appends a human-readable comment after the UNITS
// line, restating its two fields with labels (each value printed with
// %v, so small values stay in exponent form). Ingest skips "#"-prefixed lines,
// so this annotation round trips safely.
func annotateUnitsLines(text string) string {
	lines := strings.Split(text, "\n")
	var out strings.Builder
	for _, line := range lines {
		out.WriteString(line)
		out.WriteByte('\n')
		fields := strings.Fields(line)
		if len(fields) == 3 && fields[0] == "UNITS" {
			userUnit, err1 := strconv.ParseFloat(fields[1], 64)
			dbUnit, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 == nil && err2 == nil {
				fmt.Fprintf(&out, "# user unit = %v meters, database unit = %v meters\n", userUnit, dbUnit)
			}
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func main() {
	aFlag := flag.Bool("a", false, "accepted for compatibility; asciidump always emits ASCII output")
	sFlag := flag.String("s", "", "dump only the named structure")
	uFlag := flag.Bool("u", false, "annotate the UNITS record with its value in meters")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: gds2ascii [-a] [-s cell] [-u] gdsii-file [ascii-file]")
	}
	flag.Parse()
	_ = *aFlag

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		flag.Usage()
		os.Exit(1)
	}
	asciiPath := ""
	if len(args) == 2 {
		asciiPath = args[1]
	}
	if err := run(args[0], asciiPath, *sFlag, *uFlag); err != nil {
		log.Fatalf("gds2ascii: %v", err)
	}
}
