package pipeline

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"io/ioutil"
	"log"

	"github.com/icflow/layoutfmt/oasis"
)

// OASISParser drives a Builder from an OASIS record stream, resolving
// modal variables through a single oasis.ModalState per spec.md §4.3
// and §4.5. Every geometry record's info byte is a bitset of "explicit
// value follows, else reuse the modal variable" flags, least
// significant bit first; OASISCreator writes the identical bit
// assignment, so the two stay paired even where spec.md leaves a
// byte-level choice open.
type OASISParser struct {
	Logger    *log.Logger
	OnWarning func(Warning)
	File      string

	names *oasis.NameTables
	modal oasis.ModalState
}

func (p *OASISParser) warn(r *oasis.Reader, format string, args ...interface{}) {
	if p.OnWarning == nil {
		return
	}
	p.OnWarning(Warning{File: p.File, Offset: r.Offset(), Message: fmt.Sprintf(format, args...)})
}

// Parse reads every record from r, driving b, until RecEnd or a fatal
// *Error.
func (p *OASISParser) Parse(r *oasis.Reader, b Builder) error {
	p.names = oasis.NewNameTables()
	p.modal.Reset()

	magic, err := r.ReadBytes(13)
	if err != nil {
		return newError(IOError, p.File, r.Offset(), "", "reading magic bytes: %w", err)
	}
	if string(magic) != "%SEMI-OASIS\r\n" {
		return newError(FormatError, p.File, 0, "", "missing %%SEMI-OASIS magic bytes")
	}

	cellOpen := false
	err = p.run(r, b, &cellOpen)
	if cellOpen {
		if cerr := b.EndCell(); cerr != nil {
			return cerr
		}
	}
	if err != nil {
		return err
	}
	return b.EndFile()
}

// run drives records from r until RecEnd or EOF, recursing into CBLOCK
// payloads. cellOpen tracks whether a BeginCell has not yet been
// matched by EndCell, since CBLOCK bodies can span a cell boundary.
func (p *OASISParser) run(r *oasis.Reader, b Builder, cellOpen *bool) error {
	for {
		idByte, err := r.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return newError(IOError, p.File, r.Offset(), "", "reading record id: %w", err)
		}
		id := oasis.RecordID(idByte)

		switch id {
		case oasis.RecPad:
			// no payload

		case oasis.RecStart:
			if err := p.parseStart(r, b); err != nil {
				return err
			}

		case oasis.RecEnd:
			return nil

		case oasis.RecCellNameImplicit, oasis.RecCellNameExplicit:
			if err := p.parseNameRecord(r, p.names.Cell, id == oasis.RecCellNameExplicit); err != nil {
				return err
			}
		case oasis.RecTextStringImpl, oasis.RecTextStringExpl:
			if err := p.parseNameRecord(r, p.names.Text, id == oasis.RecTextStringExpl); err != nil {
				return err
			}
		case oasis.RecPropNameImpl, oasis.RecPropNameExpl:
			if err := p.parseNameRecord(r, p.names.PropName, id == oasis.RecPropNameExpl); err != nil {
				return err
			}
		case oasis.RecPropStringImpl, oasis.RecPropStringExpl:
			if err := p.parseNameRecord(r, p.names.PropString, id == oasis.RecPropStringExpl); err != nil {
				return err
			}
		case oasis.RecXNameImpl, oasis.RecXNameExpl:
			if err := p.parseNameRecord(r, p.names.XName, id == oasis.RecXNameExpl); err != nil {
				return err
			}
		case oasis.RecLayerNameData, oasis.RecLayerNameText:
			if err := p.parseLayerName(r); err != nil {
				return err
			}

		case oasis.RecCellRef, oasis.RecCellName:
			if *cellOpen {
				if err := b.EndCell(); err != nil {
					return err
				}
			}
			p.modal.Reset()
			var name string
			if id == oasis.RecCellRef {
				ref, err := oasis.ReadUnsigned(r)
				if err != nil {
					return newError(FormatError, p.File, r.Offset(), "", "cell reference: %w", err)
				}
				name, err = p.names.Cell.Lookup(ref)
				if err != nil {
					return newError(FormatError, p.File, r.Offset(), "", "%w", err)
				}
			} else {
				var err error
				name, err = oasis.ReadString(r)
				if err != nil {
					return newError(FormatError, p.File, r.Offset(), "", "cell name: %w", err)
				}
				p.names.Cell.Add(oasis.NameEntry{Name: name})
			}
			if err := b.BeginCell(name); err != nil {
				return err
			}
			*cellOpen = true

		case oasis.RecXYAbsolute:
			p.modal.XYAbsolute = true
		case oasis.RecXYRelative:
			p.modal.XYAbsolute = false

		case oasis.RecPlacement, oasis.RecPlacementXform:
			if err := p.parsePlacement(r, b, id == oasis.RecPlacementXform); err != nil {
				return err
			}
		case oasis.RecText:
			if err := p.parseText(r, b); err != nil {
				return err
			}
		case oasis.RecRectangle:
			if err := p.parseRectangle(r, b); err != nil {
				return err
			}
		case oasis.RecPolygon:
			if err := p.parsePolygon(r, b); err != nil {
				return err
			}
		case oasis.RecPath:
			if err := p.parsePath(r, b); err != nil {
				return err
			}
		case oasis.RecTrapezoidAB, oasis.RecTrapezoidA, oasis.RecTrapezoidB:
			if err := p.parseTrapezoid(r, b, id); err != nil {
				return err
			}
		case oasis.RecCTrapezoid:
			if err := p.parseCTrapezoid(r, b); err != nil {
				return err
			}
		case oasis.RecCircle:
			if err := p.parseCircle(r, b); err != nil {
				return err
			}
		case oasis.RecXElement:
			if err := p.parseXElement(r, b); err != nil {
				return err
			}
		case oasis.RecXGeometry:
			if err := p.parseXGeometry(r, b); err != nil {
				return err
			}
		case oasis.RecProperty:
			if err := p.parseProperty(r, b, false); err != nil {
				return err
			}
		case oasis.RecPropertyRepeat:
			if err := p.parseProperty(r, b, true); err != nil {
				return err
			}

		case oasis.RecCBlock:
			if err := p.parseCBlock(r, b, cellOpen); err != nil {
				return err
			}

		default:
			return newError(FormatError, p.File, r.Offset(), "", "unknown record id %d", idByte)
		}
	}
}

func (p *OASISParser) parseStart(r *oasis.Reader, b Builder) error {
	version, err := oasis.ReadString(r)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "START version: %w", err)
	}
	unit, err := oasis.ReadReal(r)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "START unit: %w", err)
	}
	offsetFlag, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "START offset flag: %w", err)
	}
	if offsetFlag == 1 {
		// table-at-start: 6 (count, offset) uvarint pairs we do not
		// need for a single streaming pass, since every name record is
		// still encountered in file order.
		for i := 0; i < 6; i++ {
			if _, err := oasis.ReadUnsigned(r); err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "START table count: %w", err)
			}
			if _, err := oasis.ReadUnsigned(r); err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "START table offset: %w", err)
			}
		}
	}
	return b.BeginFile(FileMeta{LibName: version, DBUnit: unit.Value(), UserUnit: 1})
}

func (p *OASISParser) parseNameRecord(r *oasis.Reader, table interface {
	Add(oasis.NameEntry) uint64
}, explicit bool) error {
	name, err := oasis.ReadString(r)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "name record: %w", err)
	}
	entry := oasis.NameEntry{Name: name}
	if explicit {
		ref, err := oasis.ReadUnsigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "name record reference: %w", err)
		}
		entry.Reference, entry.HasRef = ref, true
	}
	table.Add(entry)
	return nil
}

func (p *OASISParser) parseLayerName(r *oasis.Reader) error {
	name, err := oasis.ReadString(r)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "layer name: %w", err)
	}
	// layer/datatype interval: a single flag byte (0 = all values) is
	// this library's simplified interval encoding; the full
	// bound-selector forms spec.md describes are not needed since no
	// component queries layer-name intervals, only names.
	if _, err := r.ReadByte(); err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "layer name interval: %w", err)
	}
	p.names.Layer.Add(oasis.NameEntry{Name: name})
	return nil
}

func bit(info byte, n uint) bool { return info&(1<<n) != 0 }

// resolveXY reads an explicit X and/or Y coordinate independently: a
// record may specify a new X while reusing the modal Y, and vice versa.
func (p *OASISParser) resolveXY(r *oasis.Reader, xExplicit, yExplicit bool, modX, modY *oasis.Optional[int64]) (int64, int64, error) {
	x := modX.GetOr(0)
	if xExplicit {
		v, err := oasis.ReadSigned(r)
		if err != nil {
			return 0, 0, err
		}
		x = v
		modX.Set(v)
	}
	y := modY.GetOr(0)
	if yExplicit {
		v, err := oasis.ReadSigned(r)
		if err != nil {
			return 0, 0, err
		}
		y = v
		modY.Set(v)
	}
	return x, y, nil
}

// resolveRepetition reads this record's repetition. Unlike the other
// modal fields, an unset repetition bit means "this element is not
// repeated" rather than "reuse the previous record's repetition" —
// most geometry is unrepeated, so treating the bit as modal reuse
// would silently attach a stale repetition to every following record
// of the same kind.
func (p *OASISParser) resolveRepetition(r *oasis.Reader, explicit bool) (oasis.Repetition, error) {
	if !explicit {
		return nil, nil
	}
	return oasis.ReadRepetition(r)
}

func (p *OASISParser) parsePlacement(r *oasis.Reader, b Builder, xform bool) error {
	info, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "placement info byte: %w", err)
	}
	cellExplicit, cellIsName := bit(info, 0), bit(info, 1)
	xExplicit, yExplicit := bit(info, 2), bit(info, 3)
	repExplicit := bit(info, 4)
	flip := bit(info, 5)

	var cell string
	if cellExplicit {
		if cellIsName {
			cell, err = oasis.ReadString(r)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "placement cell name: %w", err)
			}
			p.modal.PlacementCell.Set(cell)
		} else {
			ref, err := oasis.ReadUnsigned(r)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "placement cell ref: %w", err)
			}
			cell, err = p.names.Cell.Lookup(ref)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "%w", err)
			}
			p.modal.PlacementCellRef.Set(ref)
			p.modal.PlacementCell.Set(cell)
		}
	} else {
		cell = p.modal.PlacementCell.GetOr("")
		if cell == "" {
			return newError(FormatError, p.File, r.Offset(), "", "unset modal variable placement-cell referenced")
		}
	}

	var mag, angle float64 = 1, 0
	if xform {
		magR, err := oasis.ReadReal(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "placement mag: %w", err)
		}
		angleR, err := oasis.ReadReal(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "placement angle: %w", err)
		}
		mag, angle = magR.Value(), angleR.Value()
		p.modal.PlacementMag.Set(magR)
		p.modal.PlacementAngle.Set(angleR)
	} else {
		if m, ok := p.modal.PlacementMag.Get(); ok {
			mag = m.Value()
		}
		if a, ok := p.modal.PlacementAngle.Get(); ok {
			angle = a.Value()
		}
	}
	p.modal.PlacementFlip.Set(flip)

	x, y, err := p.resolveXY(r, xExplicit, yExplicit, &p.modal.PlacementX, &p.modal.PlacementY)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "placement xy: %w", err)
	}
	rep, err := p.resolveRepetition(r, repExplicit)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "placement repetition: %w", err)
	}
	return b.Placement(Placement{Cell: cell, X: x, Y: y, FlipY: flip, Mag: mag, Angle: angle, Repetition: rep})
}

func (p *OASISParser) parseText(r *oasis.Reader, b Builder) error {
	info, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "text info byte: %w", err)
	}
	strExplicit, strIsName := bit(info, 0), bit(info, 1)
	xExplicit, yExplicit := bit(info, 2), bit(info, 3)
	repExplicit := bit(info, 4)
	layerExplicit, datatypeExplicit := bit(info, 5), bit(info, 6)

	var str string
	if strExplicit {
		if strIsName {
			str, err = oasis.ReadString(r)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "text string: %w", err)
			}
			p.names.Text.Add(oasis.NameEntry{Name: str})
		} else {
			ref, err := oasis.ReadUnsigned(r)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "text string ref: %w", err)
			}
			str, err = p.names.Text.Lookup(ref)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "%w", err)
			}
			p.modal.TextStringRef.Set(ref)
		}
		p.modal.TextString.Set(str)
	} else {
		str = p.modal.TextString.GetOr("")
	}

	layer, datatype, err := p.resolveLayerDatatype(r, layerExplicit, datatypeExplicit, &p.modal.TextLayer, &p.modal.TextDatatype)
	if err != nil {
		return err
	}
	x, y, err := p.resolveXY(r, xExplicit, yExplicit, &p.modal.TextX, &p.modal.TextY)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "text xy: %w", err)
	}
	rep, err := p.resolveRepetition(r, repExplicit)
	if err != nil {
		return err
	}
	return b.Text(Text{TextLayer: layer, TextType: datatype, X: x, Y: y, String: str, Repetition: rep})
}

func (p *OASISParser) resolveLayerDatatype(r *oasis.Reader, layerExplicit, datatypeExplicit bool, modLayer, modDatatype *oasis.Optional[uint64]) (uint64, uint64, error) {
	layer := modLayer.GetOr(0)
	if layerExplicit {
		v, err := oasis.ReadUnsigned(r)
		if err != nil {
			return 0, 0, newError(FormatError, p.File, r.Offset(), "", "layer: %w", err)
		}
		layer = v
		modLayer.Set(v)
	}
	datatype := modDatatype.GetOr(0)
	if datatypeExplicit {
		v, err := oasis.ReadUnsigned(r)
		if err != nil {
			return 0, 0, newError(FormatError, p.File, r.Offset(), "", "datatype: %w", err)
		}
		datatype = v
		modDatatype.Set(v)
	}
	return layer, datatype, nil
}

func (p *OASISParser) parseRectangle(r *oasis.Reader, b Builder) error {
	info, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "rectangle info byte: %w", err)
	}
	square := bit(info, 0)
	wExplicit, hExplicit := bit(info, 1), bit(info, 2)
	xExplicit, yExplicit := bit(info, 3), bit(info, 4)
	repExplicit := bit(info, 5)
	layerExplicit, datatypeExplicit := bit(info, 6), bit(info, 7)

	layer, datatype, err := p.resolveLayerDatatype(r, layerExplicit, datatypeExplicit, &p.modal.Layer, &p.modal.Datatype)
	if err != nil {
		return err
	}
	w := p.modal.GeometryW.GetOr(0)
	if wExplicit {
		v, err := oasis.ReadUnsigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "rectangle width: %w", err)
		}
		w = v
		p.modal.GeometryW.Set(v)
	}
	h := p.modal.GeometryH.GetOr(0)
	if square {
		h = w
	} else if hExplicit {
		v, err := oasis.ReadUnsigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "rectangle height: %w", err)
		}
		h = v
		p.modal.GeometryH.Set(v)
	}
	x, y, err := p.resolveXY(r, xExplicit, yExplicit, &p.modal.GeometryX, &p.modal.GeometryY)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "rectangle xy: %w", err)
	}
	rep, err := p.resolveRepetition(r, repExplicit)
	if err != nil {
		return err
	}
	return b.Rectangle(Rectangle{Layer: layer, Datatype: datatype, X: x, Y: y, W: w, H: h, Repetition: rep})
}

func (p *OASISParser) parsePolygon(r *oasis.Reader, b Builder) error {
	info, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "polygon info byte: %w", err)
	}
	pointsExplicit := bit(info, 0)
	xExplicit, yExplicit := bit(info, 1), bit(info, 2)
	repExplicit := bit(info, 3)
	layerExplicit, datatypeExplicit := bit(info, 4), bit(info, 5)

	layer, datatype, err := p.resolveLayerDatatype(r, layerExplicit, datatypeExplicit, &p.modal.Layer, &p.modal.Datatype)
	if err != nil {
		return err
	}
	points := p.modal.PolygonPointList.GetOr(nil)
	if pointsExplicit {
		points, err = readPointList(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "polygon point list: %w", err)
		}
		p.modal.PolygonPointList.Set(points)
	}
	x, y, err := p.resolveXY(r, xExplicit, yExplicit, &p.modal.GeometryX, &p.modal.GeometryY)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "polygon xy: %w", err)
	}
	rep, err := p.resolveRepetition(r, repExplicit)
	if err != nil {
		return err
	}
	abs := absolutePoints(oasis.Point{X: x, Y: y}, points)
	return b.Polygon(Polygon{Layer: layer, Datatype: datatype, Points: abs, Repetition: rep})
}

// readPointList decodes an OASIS point list: a uvarint count followed
// by that many g-deltas relative to the previous point (the first
// delta is relative to the implicit (0,0)).
func readPointList(r *oasis.Reader) ([]oasis.Point, error) {
	n, err := oasis.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	pts := make([]oasis.Point, n)
	cur := oasis.Point{}
	for i := range pts {
		d, err := oasis.ReadGDelta(r)
		if err != nil {
			return nil, err
		}
		cur = oasis.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
		pts[i] = cur
	}
	return pts, nil
}

func writePointList(w *oasis.Writer, points []oasis.Point) error {
	if err := oasis.WriteUnsigned(w, uint64(len(points))); err != nil {
		return err
	}
	cur := oasis.Point{}
	for _, p := range points {
		d := oasis.Point{X: p.X - cur.X, Y: p.Y - cur.Y}
		if err := oasis.WriteGDelta(w, d); err != nil {
			return err
		}
		cur = p
	}
	return nil
}

func absolutePoints(origin oasis.Point, relative []oasis.Point) []oasis.Point {
	out := make([]oasis.Point, len(relative))
	for i, p := range relative {
		out[i] = oasis.Point{X: origin.X + p.X, Y: origin.Y + p.Y}
	}
	return out
}

func (p *OASISParser) parsePath(r *oasis.Reader, b Builder) error {
	info, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "path info byte: %w", err)
	}
	halfwidthExplicit := bit(info, 0)
	startExtExplicit, endExtExplicit := bit(info, 1), bit(info, 2)
	pointsExplicit := bit(info, 3)
	xExplicit, yExplicit := bit(info, 4), bit(info, 5)
	repExplicit := bit(info, 6)

	info2, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "path info byte 2: %w", err)
	}
	layerExplicit, datatypeExplicit := bit(info2, 0), bit(info2, 1)

	layer, datatype, err := p.resolveLayerDatatype(r, layerExplicit, datatypeExplicit, &p.modal.Layer, &p.modal.Datatype)
	if err != nil {
		return err
	}
	halfwidth := p.modal.PathHalfwidth.GetOr(0)
	if halfwidthExplicit {
		v, err := oasis.ReadUnsigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "path halfwidth: %w", err)
		}
		halfwidth = v
		p.modal.PathHalfwidth.Set(v)
	}
	startExt := p.modal.PathStartExt.GetOr(0)
	if startExtExplicit {
		v, err := oasis.ReadSigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "path start ext: %w", err)
		}
		startExt = v
		p.modal.PathStartExt.Set(v)
	}
	endExt := p.modal.PathEndExt.GetOr(0)
	if endExtExplicit {
		v, err := oasis.ReadSigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "path end ext: %w", err)
		}
		endExt = v
		p.modal.PathEndExt.Set(v)
	}
	points := p.modal.PathPointList.GetOr(nil)
	if pointsExplicit {
		points, err = readPointList(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "path point list: %w", err)
		}
		p.modal.PathPointList.Set(points)
	}
	x, y, err := p.resolveXY(r, xExplicit, yExplicit, &p.modal.GeometryX, &p.modal.GeometryY)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "path xy: %w", err)
	}
	rep, err := p.resolveRepetition(r, repExplicit)
	if err != nil {
		return err
	}
	abs := absolutePoints(oasis.Point{X: x, Y: y}, points)
	return b.Path(Path{Layer: layer, Datatype: datatype, Halfwidth: halfwidth, StartExt: startExt, EndExt: endExt, Points: abs, Repetition: rep})
}

func (p *OASISParser) parseTrapezoid(r *oasis.Reader, b Builder, id oasis.RecordID) error {
	info, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "trapezoid info byte: %w", err)
	}
	wExplicit, hExplicit := bit(info, 0), bit(info, 1)
	deltaAExplicit, deltaBExplicit := bit(info, 2), bit(info, 3)
	vertical := bit(info, 4)
	xExplicit, yExplicit := bit(info, 5), bit(info, 6)
	repExplicit := bit(info, 7)

	info2, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "trapezoid info byte 2: %w", err)
	}
	layerExplicit, datatypeExplicit := bit(info2, 0), bit(info2, 1)

	layer, datatype, err := p.resolveLayerDatatype(r, layerExplicit, datatypeExplicit, &p.modal.Layer, &p.modal.Datatype)
	if err != nil {
		return err
	}
	w := p.modal.GeometryW.GetOr(0)
	if wExplicit {
		v, err := oasis.ReadUnsigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "trapezoid width: %w", err)
		}
		w = v
		p.modal.GeometryW.Set(v)
	}
	h := p.modal.GeometryH.GetOr(0)
	if hExplicit {
		v, err := oasis.ReadUnsigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "trapezoid height: %w", err)
		}
		h = v
		p.modal.GeometryH.Set(v)
	}
	var deltaA, deltaB int64
	if id == oasis.RecTrapezoidAB || id == oasis.RecTrapezoidA {
		if deltaAExplicit {
			deltaA, err = oasis.ReadSigned(r)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "trapezoid delta A: %w", err)
			}
		}
	}
	if id == oasis.RecTrapezoidAB || id == oasis.RecTrapezoidB {
		if deltaBExplicit {
			deltaB, err = oasis.ReadSigned(r)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "trapezoid delta B: %w", err)
			}
		}
	}
	x, y, err := p.resolveXY(r, xExplicit, yExplicit, &p.modal.GeometryX, &p.modal.GeometryY)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "trapezoid xy: %w", err)
	}
	rep, err := p.resolveRepetition(r, repExplicit)
	if err != nil {
		return err
	}
	t := Trapezoid{Layer: layer, Datatype: datatype, X: x, Y: y, W: w, H: h, DeltaA: deltaA, DeltaB: deltaB, Vertical: vertical, Repetition: rep}
	if TrapezoidCrosses(t) {
		return newError(TrapezoidError, p.File, r.Offset(), "", "trapezoid slant edges cross: deltaA=%d deltaB=%d", deltaA, deltaB)
	}
	return b.Trapezoid(t)
}

// ctrapezoidShape mirrors CTrapezoidType's classification in reverse:
// given a predefined shape number and W/H, it derives DeltaA/DeltaB/Vertical.
func ctrapezoidShape(kind byte, w, h uint64) (deltaA, deltaB int64, vertical bool) {
	switch kind {
	case 1:
		return int64(h), 0, false
	case 2:
		return 0, int64(h), false
	case 3:
		return -int64(h), 0, false
	case 4:
		return 0, -int64(h), false
	case 5:
		return int64(w), 0, true
	case 6:
		return 0, int64(w), true
	case 7:
		return -int64(w), 0, true
	case 8:
		return 0, -int64(w), true
	default:
		return 0, 0, false
	}
}

func (p *OASISParser) parseCTrapezoid(r *oasis.Reader, b Builder) error {
	info, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "ctrapezoid info byte: %w", err)
	}
	typeExplicit := bit(info, 0)
	wExplicit, hExplicit := bit(info, 1), bit(info, 2)
	xExplicit, yExplicit := bit(info, 3), bit(info, 4)
	repExplicit := bit(info, 5)

	info2, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "ctrapezoid info byte 2: %w", err)
	}
	layerExplicit, datatypeExplicit := bit(info2, 0), bit(info2, 1)

	layer, datatype, err := p.resolveLayerDatatype(r, layerExplicit, datatypeExplicit, &p.modal.Layer, &p.modal.Datatype)
	if err != nil {
		return err
	}
	kind := p.modal.CTrapezoidType.GetOr(0)
	if typeExplicit {
		v, err := r.ReadByte()
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "ctrapezoid type: %w", err)
		}
		kind = v
		p.modal.CTrapezoidType.Set(v)
	}
	w := p.modal.GeometryW.GetOr(0)
	if wExplicit {
		v, err := oasis.ReadUnsigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "ctrapezoid width: %w", err)
		}
		w = v
		p.modal.GeometryW.Set(v)
	}
	h := p.modal.GeometryH.GetOr(0)
	if hExplicit {
		v, err := oasis.ReadUnsigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "ctrapezoid height: %w", err)
		}
		h = v
		p.modal.GeometryH.Set(v)
	}
	x, y, err := p.resolveXY(r, xExplicit, yExplicit, &p.modal.GeometryX, &p.modal.GeometryY)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "ctrapezoid xy: %w", err)
	}
	rep, err := p.resolveRepetition(r, repExplicit)
	if err != nil {
		return err
	}
	deltaA, deltaB, vertical := ctrapezoidShape(kind, w, h)
	return b.Trapezoid(Trapezoid{Layer: layer, Datatype: datatype, X: x, Y: y, W: w, H: h, DeltaA: deltaA, DeltaB: deltaB, Vertical: vertical, Repetition: rep})
}

func (p *OASISParser) parseCircle(r *oasis.Reader, b Builder) error {
	info, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "circle info byte: %w", err)
	}
	radiusExplicit := bit(info, 0)
	xExplicit, yExplicit := bit(info, 1), bit(info, 2)
	repExplicit := bit(info, 3)
	layerExplicit, datatypeExplicit := bit(info, 4), bit(info, 5)

	layer, datatype, err := p.resolveLayerDatatype(r, layerExplicit, datatypeExplicit, &p.modal.Layer, &p.modal.Datatype)
	if err != nil {
		return err
	}
	radius := p.modal.CircleRadius.GetOr(0)
	if radiusExplicit {
		v, err := oasis.ReadUnsigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "circle radius: %w", err)
		}
		radius = v
		p.modal.CircleRadius.Set(v)
	}
	x, y, err := p.resolveXY(r, xExplicit, yExplicit, &p.modal.GeometryX, &p.modal.GeometryY)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "circle xy: %w", err)
	}
	rep, err := p.resolveRepetition(r, repExplicit)
	if err != nil {
		return err
	}
	return b.Circle(Circle{Layer: layer, Datatype: datatype, X: x, Y: y, Radius: radius, Repetition: rep})
}

func (p *OASISParser) parseXElement(r *oasis.Reader, b Builder) error {
	attr, err := oasis.ReadUnsigned(r)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "xelement attribute: %w", err)
	}
	data, err := oasis.ReadString(r)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "xelement data: %w", err)
	}
	return b.XElement(XElement{Attribute: attr, Data: []byte(data)})
}

func (p *OASISParser) parseXGeometry(r *oasis.Reader, b Builder) error {
	info, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "xgeometry info byte: %w", err)
	}
	xExplicit, yExplicit := bit(info, 0), bit(info, 1)
	repExplicit := bit(info, 2)
	layerExplicit, datatypeExplicit := bit(info, 3), bit(info, 4)

	attr, err := oasis.ReadUnsigned(r)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "xgeometry attribute: %w", err)
	}
	data, err := oasis.ReadString(r)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "xgeometry data: %w", err)
	}
	layer, datatype, err := p.resolveLayerDatatype(r, layerExplicit, datatypeExplicit, &p.modal.Layer, &p.modal.Datatype)
	if err != nil {
		return err
	}
	x, y, err := p.resolveXY(r, xExplicit, yExplicit, &p.modal.GeometryX, &p.modal.GeometryY)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "xgeometry xy: %w", err)
	}
	rep, err := p.resolveRepetition(r, repExplicit)
	if err != nil {
		return err
	}
	return b.XGeometry(XGeometry{Layer: layer, Datatype: datatype, Attribute: attr, X: x, Y: y, Data: []byte(data), Repetition: rep})
}

func (p *OASISParser) parseProperty(r *oasis.Reader, b Builder, repeat bool) error {
	if repeat {
		name := p.modal.LastPropertyName.GetOr("")
		isStd := p.modal.LastPropertyIsStd.GetOr(false)
		values := p.modal.LastValueList.GetOr(nil)
		return b.Property(realsToProperty(name, isStd, values))
	}

	info, err := r.ReadByte()
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "property info byte: %w", err)
	}
	nameExplicit, nameIsName := bit(info, 0), bit(info, 1)
	isStandard := bit(info, 2)
	valuesExplicit := bit(info, 3)

	name := p.modal.LastPropertyName.GetOr("")
	if nameExplicit {
		if nameIsName {
			name, err = oasis.ReadString(r)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "property name: %w", err)
			}
			p.names.PropName.Add(oasis.NameEntry{Name: name})
		} else {
			ref, err := oasis.ReadUnsigned(r)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "property name ref: %w", err)
			}
			name, err = p.names.PropName.Lookup(ref)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "%w", err)
			}
		}
		p.modal.LastPropertyName.Set(name)
	}
	p.modal.LastPropertyIsStd.Set(isStandard)

	values := p.modal.LastValueList.GetOr(nil)
	if valuesExplicit {
		n, err := oasis.ReadUnsigned(r)
		if err != nil {
			return newError(FormatError, p.File, r.Offset(), "", "property value count: %w", err)
		}
		values = make([]oasis.Real, n)
		for i := range values {
			v, err := oasis.ReadReal(r)
			if err != nil {
				return newError(FormatError, p.File, r.Offset(), "", "property value %d: %w", i, err)
			}
			values[i] = v
		}
		p.modal.LastValueList.Set(values)
	}
	return b.Property(realsToProperty(name, isStandard, values))
}

func realsToProperty(name string, isStandard bool, values []oasis.Real) Property {
	return Property{Name: name, Values: values, IsStandard: isStandard}
}

func (p *OASISParser) parseCBlock(r *oasis.Reader, b Builder, cellOpen *bool) error {
	compType, err := oasis.ReadUnsigned(r)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "cblock compression type: %w", err)
	}
	if compType != 0 {
		return newError(FormatError, p.File, r.Offset(), "", "cblock compression type %d not supported (only deflate)", compType)
	}
	uncompLen, err := oasis.ReadUnsigned(r)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "cblock uncompressed length: %w", err)
	}
	compLen, err := oasis.ReadUnsigned(r)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "cblock compressed length: %w", err)
	}
	raw, err := r.ReadBytes(int(compLen))
	if err != nil {
		return newError(IOError, p.File, r.Offset(), "", "cblock payload: %w", err)
	}
	fr := flate.NewReader(bytes.NewReader(raw))
	defer fr.Close()
	plain, err := ioutil.ReadAll(fr)
	if err != nil {
		return newError(FormatError, p.File, r.Offset(), "", "cblock inflate: %w", err)
	}
	if uint64(len(plain)) != uncompLen {
		p.warn(r, "cblock uncompressed length mismatch: declared %d, got %d", uncompLen, len(plain))
	}
	inner := oasis.NewReader(bytes.NewReader(plain))
	return p.run(inner, b, cellOpen)
}
