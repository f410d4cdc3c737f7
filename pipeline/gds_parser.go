package pipeline

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/icflow/layoutfmt/gds"
	"github.com/icflow/layoutfmt/oasis"
)

// GDSIIParser drives a Builder from a GDSII record stream. Modal
// variables do not exist in GDSII itself (every field is explicit per
// element), but defaults named in spec.md §6's extensions list
// (DATATYPE/TEXTTYPE/NODETYPE/BOXTYPE default to 0, PATHTYPE outside
// {0,1,2,4} is forced to 0) are applied here.
type GDSIIParser struct {
	Logger    *log.Logger
	OnWarning func(Warning)
	File      string
}

type elementKind int

const (
	elemNone elementKind = iota
	elemBoundary
	elemPath
	elemSRef
	elemARef
	elemText
	elemBox
	elemNode
)

type elementState struct {
	kind elementKind

	layer, datatype uint64
	xy              []oasis.Point

	// PATH
	width           int32
	pathType        int16
	bgnExt, endExt  int32
	hasBgnExt       bool
	hasEndExt       bool

	// SREF/AREF
	sname       string
	strans      uint16
	hasStrans   bool
	mag         float64
	hasMag      bool
	angle       float64
	hasAngle    bool
	cols, rows  int16
	hasColRow   bool

	// TEXT
	textType     uint64
	presentation uint16

	// BOX
	boxtype uint64

	// NODE
	nodetype uint64

	props []Property
}

func (p *GDSIIParser) warn(offset int64, format string, args ...interface{}) {
	if p.OnWarning == nil {
		return
	}
	p.OnWarning(Warning{File: p.File, Offset: offset, Message: fmt.Sprintf(format, args...)})
}

// Parse reads every record from sc, driving b. It returns once ENDLIB
// has been processed or a fatal *Error is raised.
func (p *GDSIIParser) Parse(sc *gds.Scanner, b Builder) error {
	var meta FileMeta
	var el elementState
	inCell := false

	for {
		offset := sc.Offset()
		rec, err := sc.Record()
		if err == io.EOF {
			break
		}
		if err != nil {
			return newError(FormatError, p.File, offset, "", "reading record: %w", err)
		}

		switch rec.Type {
		case gds.HEADER:
			// version number, not surfaced to the builder.
		case gds.BGNLIB:
			// modification/access timestamps, not surfaced.
		case gds.LIBNAME:
			meta.LibName = gds.DecodeString(rec.Body)
		case gds.UNITS:
			vs := gds.DecodeDouble(rec.Body)
			if len(vs) == 2 {
				meta.UserUnit, meta.DBUnit = vs[0], vs[1]
			}
			if err := b.BeginFile(meta); err != nil {
				return err
			}

		case gds.BGNSTR:
			el = elementState{}
			inCell = true
		case gds.STRNAME:
			if err := b.BeginCell(gds.DecodeString(rec.Body)); err != nil {
				return err
			}
		case gds.ENDSTR:
			if err := b.EndCell(); err != nil {
				return err
			}
			inCell = false

		case gds.ENDLIB:
			if inCell {
				return newError(FormatError, p.File, offset, "", "ENDLIB before ENDSTR")
			}
			return b.EndFile()

		case gds.BOUNDARY:
			el = elementState{kind: elemBoundary}
		case gds.PATH:
			el = elementState{kind: elemPath}
		case gds.SREF:
			el = elementState{kind: elemSRef}
		case gds.AREF:
			el = elementState{kind: elemARef}
		case gds.TEXT:
			el = elementState{kind: elemText}
		case gds.BOX:
			el = elementState{kind: elemBox}
		case gds.NODE:
			el = elementState{kind: elemNode}

		case gds.LAYER:
			vs := gds.DecodeShort(rec.Body)
			el.layer = uint64(uint16(vs[0]))
		case gds.DATATYPE:
			vs := gds.DecodeShort(rec.Body)
			el.datatype = uint64(uint16(vs[0]))
		case gds.BOXTYPE:
			vs := gds.DecodeShort(rec.Body)
			el.boxtype = uint64(uint16(vs[0]))
		case gds.NODETYPE:
			vs := gds.DecodeShort(rec.Body)
			el.nodetype = uint64(uint16(vs[0]))
		case gds.TEXTTYPE:
			vs := gds.DecodeShort(rec.Body)
			el.textType = uint64(uint16(vs[0]))
		case gds.PRESENTATION:
			v, err := gds.DecodeBitArray(rec.Body)
			if err != nil {
				return newError(FormatError, p.File, offset, "", "%w", err)
			}
			el.presentation = v

		case gds.WIDTH:
			vs := gds.DecodeInt(rec.Body)
			el.width = vs[0]
		case gds.PATHTYPE:
			vs := gds.DecodeShort(rec.Body)
			pt := vs[0]
			if pt != 0 && pt != 1 && pt != 2 && pt != 4 {
				p.warn(offset, "PATHTYPE %d out of {0,1,2,4}, forced to 0", pt)
				pt = 0
			}
			el.pathType = pt
		case gds.BGNEXTN:
			vs := gds.DecodeInt(rec.Body)
			el.bgnExt, el.hasBgnExt = vs[0], true
			el.pathType = 4
		case gds.ENDEXTN:
			vs := gds.DecodeInt(rec.Body)
			el.endExt, el.hasEndExt = vs[0], true
			el.pathType = 4

		case gds.XY:
			vs := gds.DecodeInt(rec.Body)
			el.xy = el.xy[:0]
			for i := 0; i+1 < len(vs); i += 2 {
				el.xy = append(el.xy, oasis.Point{X: int64(vs[i]), Y: int64(vs[i+1])})
			}

		case gds.SNAME:
			el.sname = gds.DecodeString(rec.Body)
		case gds.STRANS:
			v, err := gds.DecodeBitArray(rec.Body)
			if err != nil {
				return newError(FormatError, p.File, offset, "", "%w", err)
			}
			el.strans, el.hasStrans = v, true
		case gds.MAG:
			vs := gds.DecodeDouble(rec.Body)
			el.mag, el.hasMag = vs[0], true
		case gds.ANGLE:
			vs := gds.DecodeDouble(rec.Body)
			el.angle, el.hasAngle = vs[0], true
		case gds.COLROW:
			vs := gds.DecodeShort(rec.Body)
			el.cols, el.rows, el.hasColRow = vs[0], vs[1], true

		case gds.STRING:
			// text string body reuses el.sname as scratch since TEXT
			// elements never also carry SNAME.
			el.sname = gds.DecodeString(rec.Body)

		case gds.PROPATTR:
			vs := gds.DecodeShort(rec.Body)
			el.props = append(el.props, Property{Name: strconv.Itoa(int(vs[0]))})
		case gds.PROPVALUE:
			if len(el.props) == 0 {
				return newError(FormatError, p.File, offset, "", "PROPVALUE without a preceding PROPATTR")
			}
			el.props[len(el.props)-1].StringValue = gds.DecodeString(rec.Body)

		case gds.ENDEL:
			if err := p.finishElement(&el, b, offset); err != nil {
				return err
			}
			el = elementState{}

		default:
			// ignore records with no semantic role in the builder
			// model (PLEX, formatting hints, tape bookkeeping, ...).
		}
	}
	return newError(FormatError, p.File, sc.Offset(), "", "file ended without ENDLIB")
}

func (p *GDSIIParser) finishElement(el *elementState, b Builder, offset int64) error {
	switch el.kind {
	case elemNone:
		return nil
	case elemBoundary:
		points := el.xy
		if len(points) > 0 && points[len(points)-1] == points[0] {
			points = points[:len(points)-1]
		}
		if err := b.Polygon(BoundaryToPolygon(points, el.layer, el.datatype)); err != nil {
			return err
		}
	case elemPath:
		path := PathToOASISPath(el.xy, el.layer, el.datatype, el.width, el.pathType, el.bgnExt, el.endExt)
		if err := b.Path(path); err != nil {
			return err
		}
	case elemBox:
		rect, err := BoxToRectangle(el.xy, el.layer, el.boxtype)
		if err != nil {
			return err
		}
		if err := b.Rectangle(rect); err != nil {
			return err
		}
	case elemSRef:
		if len(el.xy) == 0 {
			return newError(FormatError, p.File, offset, "", "SREF has no XY")
		}
		placement := SREFToPlacement(el.sname, el.xy[0].X, el.xy[0].Y, strandsFlip(el), el.mag, el.angle)
		if !el.hasMag {
			placement.Mag = 1
		}
		if err := b.Placement(placement); err != nil {
			return err
		}
	case elemARef:
		if len(el.xy) < 3 || !el.hasColRow {
			return newError(FormatError, p.File, offset, "", "AREF needs 3 XY points and COLROW")
		}
		mag := el.mag
		if !el.hasMag {
			mag = 1
		}
		placement, err := AREFToPlacement(el.sname, el.xy[0], el.xy[1], el.xy[2], int64(el.cols), int64(el.rows), strandsFlip(el), mag, el.angle)
		if err != nil {
			return err
		}
		if err := b.Placement(placement); err != nil {
			return err
		}
	case elemText:
		if len(el.xy) == 0 {
			return newError(FormatError, p.File, offset, "", "TEXT has no XY")
		}
		txt := Text{TextLayer: el.layer, TextType: el.textType, X: el.xy[0].X, Y: el.xy[0].Y, String: el.sname}
		if err := b.Text(txt); err != nil {
			return err
		}
	case elemNode:
		if err := b.XGeometry(NodeToXGeometry(el.layer, el.nodetype, el.xy)); err != nil {
			return err
		}
	}
	for _, prop := range el.props {
		if err := b.Property(prop); err != nil {
			return err
		}
	}
	return nil
}

func strandsFlip(el *elementState) bool {
	return el.hasStrans && el.strans&0x8000 != 0
}
