// Command oasis-print renders an OASIS file's cells and elements as
// text, with flags to select categories of output out and to run the
// file's trailer validation.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/icflow/layoutfmt/byteio"
	"github.com/icflow/layoutfmt/oasis"
	"github.com/icflow/layoutfmt/pipeline"
)

type printer struct {
	pipeline.NoopBuilder

	w *bufio.Writer

	cellFilter       string
	excludeText      bool
	excludeLayerName bool
	excludeX         bool

	cell     string
	printing bool
}

func (p *printer) BeginFile(meta pipeline.FileMeta) error {
	_, err := fmt.Fprintf(p.w, "FILE libname=%q unit=%g\n", meta.LibName, meta.DBUnit)
	return err
}

func (p *printer) BeginCell(name string) error {
	p.cell = name
	p.printing = p.cellFilter == "" || name == p.cellFilter
	if !p.printing {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "CELL %s\n", name)
	return err
}

func (p *printer) EndCell() error {
	if !p.printing {
		return nil
	}
	_, err := fmt.Fprintln(p.w, "ENDCELL")
	return err
}

func (p *printer) RegisterName(kind oasis.NameKind, name string, ref uint64) error {
	if kind == oasis.NameLayer && p.excludeLayerName {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "NAME %s %q %d\n", kind, name, ref)
	return err
}

func (p *printer) Rectangle(r pipeline.Rectangle) error {
	if !p.printing {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "  RECTANGLE layer=%d datatype=%d x=%d y=%d w=%d h=%d\n", r.Layer, r.Datatype, r.X, r.Y, r.W, r.H)
	return err
}

func (p *printer) Polygon(v pipeline.Polygon) error {
	if !p.printing {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "  POLYGON layer=%d datatype=%d points=%d\n", v.Layer, v.Datatype, len(v.Points))
	return err
}

func (p *printer) Path(v pipeline.Path) error {
	if !p.printing {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "  PATH layer=%d datatype=%d halfwidth=%d points=%d\n", v.Layer, v.Datatype, v.Halfwidth, len(v.Points))
	return err
}

func (p *printer) Trapezoid(v pipeline.Trapezoid) error {
	if !p.printing {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "  TRAPEZOID layer=%d datatype=%d x=%d y=%d w=%d h=%d\n", v.Layer, v.Datatype, v.X, v.Y, v.W, v.H)
	return err
}

func (p *printer) Circle(v pipeline.Circle) error {
	if !p.printing {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "  CIRCLE layer=%d datatype=%d x=%d y=%d radius=%d\n", v.Layer, v.Datatype, v.X, v.Y, v.Radius)
	return err
}

func (p *printer) Text(v pipeline.Text) error {
	if !p.printing || p.excludeText {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "  TEXT layer=%d type=%d x=%d y=%d %q\n", v.TextLayer, v.TextType, v.X, v.Y, v.String)
	return err
}

func (p *printer) Placement(v pipeline.Placement) error {
	if !p.printing {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "  PLACEMENT cell=%s x=%d y=%d mag=%g angle=%g\n", v.Cell, v.X, v.Y, v.Mag, v.Angle)
	return err
}

func (p *printer) XElement(v pipeline.XElement) error {
	if !p.printing || p.excludeX {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "  XELEMENT attribute=%d bytes=%d\n", v.Attribute, len(v.Data))
	return err
}

func (p *printer) XGeometry(v pipeline.XGeometry) error {
	if !p.printing || p.excludeX {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "  XGEOMETRY layer=%d datatype=%d attribute=%d x=%d y=%d bytes=%d\n", v.Layer, v.Datatype, v.Attribute, v.X, v.Y, len(v.Data))
	return err
}

func run(path string, cell string, excludeText, excludeLayerName, excludeX, excludeValidation, relaxed bool) error {
	rf, err := byteio.Open(path, byteio.Auto)
	if err != nil {
		return err
	}
	defer rf.Close()

	w := bufio.NewWriter(os.Stdout)
	p := &printer{
		w:                w,
		cellFilter:       cell,
		excludeText:      excludeText,
		excludeLayerName: excludeLayerName,
		excludeX:         excludeX,
	}
	parser := &pipeline.OASISParser{File: path}
	if !relaxed {
		parser.OnWarning = func(wn pipeline.Warning) {
			fmt.Fprintf(os.Stderr, "warning: %s (file %s, offset %d)\n", wn.Message, wn.File, wn.Offset)
		}
	}
	if err := parser.Parse(oasis.NewReader(rf), p); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if excludeValidation {
		return nil
	}
	vf, err := byteio.Open(path, byteio.Auto)
	if err != nil {
		return err
	}
	defer vf.Close()
	result, err := oasis.Validate(vf)
	if err != nil {
		return err
	}
	status := "OK"
	if !result.Valid {
		status = "MISMATCH"
	}
	fmt.Printf("VALIDATION scheme=%d stored=%d computed=%d %s\n", result.Scheme, result.Stored, result.Computed, status)
	return nil
}

func main() {
	cellFlag := flag.String("c", "", "restrict output to the named cell")
	lFlag := flag.Bool("l", false, "select out LAYERNAME entries")
	nFlag := flag.Bool("n", false, "select out strict-conformance warnings")
	tFlag := flag.Bool("t", false, "select out TEXT elements")
	vFlag := flag.Bool("v", false, "select out trailer validation")
	xFlag := flag.Bool("x", false, "select out x-records")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: oasis-print [-c cell] [-lntvx] oasis-file")
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(args[0], *cellFlag, *tFlag, *lFlag, *xFlag, *vFlag, *nFlag); err != nil {
		log.Fatalf("oasis-print: %v", err)
	}
}
