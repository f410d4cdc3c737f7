package pipeline

import (
	"log"
	"reflect"

	"github.com/icflow/layoutfmt/oasis"
)

// OASISCreator implements Builder by writing OASIS records through an
// oasis.Writer, keeping a mirror oasis.ModalState so that fields
// matching the modal value are omitted the way spec.md §4.5 describes
// for a compliant creator. Names are always written by explicit string
// rather than reference number: resolving a reference table requires
// either a two-pass write or an a-priori name list, and nothing in this
// repository's callers supplies one, so the simpler (if slightly
// larger) by-name form is used throughout — still a fully valid OASIS
// encoding, just not the most compact one the format allows.
type OASISCreator struct {
	W      *oasis.Writer
	Logger *log.Logger

	modal      oasis.ModalState
	seenCell   map[string]bool
	seenText   map[string]bool
	seenProp   map[string]bool
	cellOpen   bool
	wroteStart bool
}

var _ Builder = (*OASISCreator)(nil)

func (c *OASISCreator) init() {
	if c.seenCell == nil {
		c.seenCell = make(map[string]bool)
		c.seenText = make(map[string]bool)
		c.seenProp = make(map[string]bool)
	}
}

func (c *OASISCreator) BeginFile(meta FileMeta) error {
	c.init()
	if err := c.W.Write([]byte("%SEMI-OASIS\r\n")); err != nil {
		return err
	}
	if err := c.W.WriteByte(byte(oasis.RecStart)); err != nil {
		return err
	}
	version := meta.LibName
	if version == "" {
		version = "1.0"
	}
	if err := oasis.WriteString(c.W, version); err != nil {
		return err
	}
	unit := meta.DBUnit
	if unit == 0 {
		unit = 1e-3
	}
	if err := oasis.WriteReal(c.W, oasis.RealFromFloat64(unit)); err != nil {
		return err
	}
	c.wroteStart = true
	return c.W.WriteByte(0) // offset flag: tables at end
}

func (c *OASISCreator) EndFile() error {
	if c.cellOpen {
		c.cellOpen = false
	}
	if err := c.W.WriteByte(byte(oasis.RecEnd)); err != nil {
		return err
	}
	return c.W.Flush()
}

func (c *OASISCreator) BeginCell(name string) error {
	c.init()
	if !c.seenCell[name] {
		if err := c.W.WriteByte(byte(oasis.RecCellNameImplicit)); err != nil {
			return err
		}
		if err := oasis.WriteString(c.W, name); err != nil {
			return err
		}
		c.seenCell[name] = true
	}
	c.modal.Reset()
	c.cellOpen = true
	if err := c.W.WriteByte(byte(oasis.RecCellName)); err != nil {
		return err
	}
	return oasis.WriteString(c.W, name)
}

func (c *OASISCreator) EndCell() error {
	c.cellOpen = false
	return nil
}

func (c *OASISCreator) RegisterName(kind oasis.NameKind, name string, ref uint64) error {
	c.init()
	switch kind {
	case oasis.NameCell:
		c.seenCell[name] = true
	case oasis.NameText:
		c.seenText[name] = true
	case oasis.NamePropName:
		c.seenProp[name] = true
	}
	return nil
}

func setBit(info *byte, n uint, v bool) {
	if v {
		*info |= 1 << n
	}
}

func diffInt64(o *oasis.Optional[int64], v int64) bool {
	cur, ok := o.Get()
	changed := !ok || cur != v
	o.Set(v)
	return changed
}

func diffUint64(o *oasis.Optional[uint64], v uint64) bool {
	cur, ok := o.Get()
	changed := !ok || cur != v
	o.Set(v)
	return changed
}

func diffString(o *oasis.Optional[string], v string) bool {
	cur, ok := o.Get()
	changed := !ok || cur != v
	o.Set(v)
	return changed
}

func diffBool(o *oasis.Optional[bool], v bool) bool {
	cur, ok := o.Get()
	changed := !ok || cur != v
	o.Set(v)
	return changed
}

func diffPoints(o *oasis.Optional[[]oasis.Point], v []oasis.Point) bool {
	cur, ok := o.Get()
	changed := !ok || !reflect.DeepEqual(cur, v)
	o.Set(v)
	return changed
}

// ensureXYAbsolute emits an XYABSOLUTE record exactly once per cell
// (BeginCell's modal reset clears the flag), the first time any
// geometry record is written,
// matching OASISParser's expectation that every cell's coordinates are
// interpreted the same way throughout.
func (c *OASISCreator) ensureXYAbsolute() error {
	if c.modal.XYAbsolute {
		return nil
	}
	c.modal.XYAbsolute = true
	return c.W.WriteByte(byte(oasis.RecXYAbsolute))
}

func (c *OASISCreator) Rectangle(r Rectangle) error {
	if err := c.ensureXYAbsolute(); err != nil {
		return err
	}
	square := r.W == r.H
	wExplicit := diffUint64(&c.modal.GeometryW, r.W)
	var hExplicit bool
	if !square {
		hExplicit = diffUint64(&c.modal.GeometryH, r.H)
	}
	xExplicit := diffInt64(&c.modal.GeometryX, r.X)
	yExplicit := diffInt64(&c.modal.GeometryY, r.Y)
	repExplicit := r.Repetition != nil
	layerExplicit := diffUint64(&c.modal.Layer, r.Layer)
	datatypeExplicit := diffUint64(&c.modal.Datatype, r.Datatype)

	var info byte
	setBit(&info, 0, square)
	setBit(&info, 1, wExplicit)
	setBit(&info, 2, hExplicit)
	setBit(&info, 3, xExplicit)
	setBit(&info, 4, yExplicit)
	setBit(&info, 5, repExplicit)
	setBit(&info, 6, layerExplicit)
	setBit(&info, 7, datatypeExplicit)

	if err := c.W.WriteByte(byte(oasis.RecRectangle)); err != nil {
		return err
	}
	if err := c.W.WriteByte(info); err != nil {
		return err
	}
	if layerExplicit {
		if err := oasis.WriteUnsigned(c.W, r.Layer); err != nil {
			return err
		}
	}
	if datatypeExplicit {
		if err := oasis.WriteUnsigned(c.W, r.Datatype); err != nil {
			return err
		}
	}
	if wExplicit {
		if err := oasis.WriteUnsigned(c.W, r.W); err != nil {
			return err
		}
	}
	if hExplicit {
		if err := oasis.WriteUnsigned(c.W, r.H); err != nil {
			return err
		}
	}
	if xExplicit {
		if err := oasis.WriteSigned(c.W, r.X); err != nil {
			return err
		}
	}
	if yExplicit {
		if err := oasis.WriteSigned(c.W, r.Y); err != nil {
			return err
		}
	}
	if repExplicit {
		if err := oasis.WriteRepetition(c.W, r.Repetition); err != nil {
			return err
		}
	}
	return nil
}

func (c *OASISCreator) Polygon(p Polygon) error {
	if err := c.ensureXYAbsolute(); err != nil {
		return err
	}
	pointsExplicit := diffPoints(&c.modal.PolygonPointList, p.Points)
	xExplicit := diffInt64(&c.modal.GeometryX, p.origin().X)
	yExplicit := diffInt64(&c.modal.GeometryY, p.origin().Y)
	repExplicit := p.Repetition != nil
	layerExplicit := diffUint64(&c.modal.Layer, p.Layer)
	datatypeExplicit := diffUint64(&c.modal.Datatype, p.Datatype)

	var info byte
	setBit(&info, 0, pointsExplicit)
	setBit(&info, 1, xExplicit)
	setBit(&info, 2, yExplicit)
	setBit(&info, 3, repExplicit)
	setBit(&info, 4, layerExplicit)
	setBit(&info, 5, datatypeExplicit)

	if err := c.W.WriteByte(byte(oasis.RecPolygon)); err != nil {
		return err
	}
	if err := c.W.WriteByte(info); err != nil {
		return err
	}
	if layerExplicit {
		if err := oasis.WriteUnsigned(c.W, p.Layer); err != nil {
			return err
		}
	}
	if datatypeExplicit {
		if err := oasis.WriteUnsigned(c.W, p.Datatype); err != nil {
			return err
		}
	}
	if pointsExplicit {
		origin := p.origin()
		relative := make([]oasis.Point, len(p.Points))
		for i, pt := range p.Points {
			relative[i] = oasis.Point{X: pt.X - origin.X, Y: pt.Y - origin.Y}
		}
		if err := writePointList(c.W, relative); err != nil {
			return err
		}
	}
	if xExplicit {
		if err := oasis.WriteSigned(c.W, p.origin().X); err != nil {
			return err
		}
	}
	if yExplicit {
		if err := oasis.WriteSigned(c.W, p.origin().Y); err != nil {
			return err
		}
	}
	if repExplicit {
		if err := oasis.WriteRepetition(c.W, p.Repetition); err != nil {
			return err
		}
	}
	return nil
}

func (p Polygon) origin() oasis.Point {
	if len(p.Points) == 0 {
		return oasis.Point{}
	}
	return p.Points[0]
}

func (p Path) origin() oasis.Point {
	if len(p.Points) == 0 {
		return oasis.Point{}
	}
	return p.Points[0]
}

func (c *OASISCreator) Path(p Path) error {
	if err := c.ensureXYAbsolute(); err != nil {
		return err
	}
	halfwidthExplicit := diffUint64(&c.modal.PathHalfwidth, p.Halfwidth)
	startExtExplicit := diffInt64(&c.modal.PathStartExt, p.StartExt)
	endExtExplicit := diffInt64(&c.modal.PathEndExt, p.EndExt)
	pointsExplicit := diffPoints(&c.modal.PathPointList, p.Points)
	xExplicit := diffInt64(&c.modal.GeometryX, p.origin().X)
	yExplicit := diffInt64(&c.modal.GeometryY, p.origin().Y)
	repExplicit := p.Repetition != nil
	layerExplicit := diffUint64(&c.modal.Layer, p.Layer)
	datatypeExplicit := diffUint64(&c.modal.Datatype, p.Datatype)

	var info, info2 byte
	setBit(&info, 0, halfwidthExplicit)
	setBit(&info, 1, startExtExplicit)
	setBit(&info, 2, endExtExplicit)
	setBit(&info, 3, pointsExplicit)
	setBit(&info, 4, xExplicit)
	setBit(&info, 5, yExplicit)
	setBit(&info, 6, repExplicit)
	setBit(&info2, 0, layerExplicit)
	setBit(&info2, 1, datatypeExplicit)

	if err := c.W.WriteByte(byte(oasis.RecPath)); err != nil {
		return err
	}
	if err := c.W.WriteByte(info); err != nil {
		return err
	}
	if err := c.W.WriteByte(info2); err != nil {
		return err
	}
	if layerExplicit {
		if err := oasis.WriteUnsigned(c.W, p.Layer); err != nil {
			return err
		}
	}
	if datatypeExplicit {
		if err := oasis.WriteUnsigned(c.W, p.Datatype); err != nil {
			return err
		}
	}
	if halfwidthExplicit {
		if err := oasis.WriteUnsigned(c.W, p.Halfwidth); err != nil {
			return err
		}
	}
	if startExtExplicit {
		if err := oasis.WriteSigned(c.W, p.StartExt); err != nil {
			return err
		}
	}
	if endExtExplicit {
		if err := oasis.WriteSigned(c.W, p.EndExt); err != nil {
			return err
		}
	}
	if pointsExplicit {
		origin := p.origin()
		relative := make([]oasis.Point, len(p.Points))
		for i, pt := range p.Points {
			relative[i] = oasis.Point{X: pt.X - origin.X, Y: pt.Y - origin.Y}
		}
		if err := writePointList(c.W, relative); err != nil {
			return err
		}
	}
	if xExplicit {
		if err := oasis.WriteSigned(c.W, p.origin().X); err != nil {
			return err
		}
	}
	if yExplicit {
		if err := oasis.WriteSigned(c.W, p.origin().Y); err != nil {
			return err
		}
	}
	if repExplicit {
		return oasis.WriteRepetition(c.W, p.Repetition)
	}
	return nil
}

func (c *OASISCreator) Trapezoid(t Trapezoid) error {
	if err := c.ensureXYAbsolute(); err != nil {
		return err
	}
	if kind, ok := CTrapezoidType(t); ok {
		return c.writeCTrapezoid(t, kind)
	}

	wExplicit := diffUint64(&c.modal.GeometryW, t.W)
	hExplicit := diffUint64(&c.modal.GeometryH, t.H)
	xExplicit := diffInt64(&c.modal.GeometryX, t.X)
	yExplicit := diffInt64(&c.modal.GeometryY, t.Y)
	repExplicit := t.Repetition != nil
	layerExplicit := diffUint64(&c.modal.Layer, t.Layer)
	datatypeExplicit := diffUint64(&c.modal.Datatype, t.Datatype)

	var info, info2 byte
	setBit(&info, 0, wExplicit)
	setBit(&info, 1, hExplicit)
	setBit(&info, 2, true) // delta A always explicit: no modal reuse for the general form
	setBit(&info, 3, true) // delta B always explicit
	setBit(&info, 4, t.Vertical)
	setBit(&info, 5, xExplicit)
	setBit(&info, 6, yExplicit)
	setBit(&info, 7, repExplicit)
	setBit(&info2, 0, layerExplicit)
	setBit(&info2, 1, datatypeExplicit)

	if err := c.W.WriteByte(byte(oasis.RecTrapezoidAB)); err != nil {
		return err
	}
	if err := c.W.WriteByte(info); err != nil {
		return err
	}
	if err := c.W.WriteByte(info2); err != nil {
		return err
	}
	if layerExplicit {
		if err := oasis.WriteUnsigned(c.W, t.Layer); err != nil {
			return err
		}
	}
	if datatypeExplicit {
		if err := oasis.WriteUnsigned(c.W, t.Datatype); err != nil {
			return err
		}
	}
	if wExplicit {
		if err := oasis.WriteUnsigned(c.W, t.W); err != nil {
			return err
		}
	}
	if hExplicit {
		if err := oasis.WriteUnsigned(c.W, t.H); err != nil {
			return err
		}
	}
	if err := oasis.WriteSigned(c.W, t.DeltaA); err != nil {
		return err
	}
	if err := oasis.WriteSigned(c.W, t.DeltaB); err != nil {
		return err
	}
	if xExplicit {
		if err := oasis.WriteSigned(c.W, t.X); err != nil {
			return err
		}
	}
	if yExplicit {
		if err := oasis.WriteSigned(c.W, t.Y); err != nil {
			return err
		}
	}
	if repExplicit {
		return oasis.WriteRepetition(c.W, t.Repetition)
	}
	return nil
}

func (c *OASISCreator) writeCTrapezoid(t Trapezoid, kind byte) error {
	typeExplicit := diffByte(&c.modal.CTrapezoidType, kind)
	wExplicit := diffUint64(&c.modal.GeometryW, t.W)
	hExplicit := diffUint64(&c.modal.GeometryH, t.H)
	xExplicit := diffInt64(&c.modal.GeometryX, t.X)
	yExplicit := diffInt64(&c.modal.GeometryY, t.Y)
	repExplicit := t.Repetition != nil
	layerExplicit := diffUint64(&c.modal.Layer, t.Layer)
	datatypeExplicit := diffUint64(&c.modal.Datatype, t.Datatype)

	var info, info2 byte
	setBit(&info, 0, typeExplicit)
	setBit(&info, 1, wExplicit)
	setBit(&info, 2, hExplicit)
	setBit(&info, 3, xExplicit)
	setBit(&info, 4, yExplicit)
	setBit(&info, 5, repExplicit)
	setBit(&info2, 0, layerExplicit)
	setBit(&info2, 1, datatypeExplicit)

	if err := c.W.WriteByte(byte(oasis.RecCTrapezoid)); err != nil {
		return err
	}
	if err := c.W.WriteByte(info); err != nil {
		return err
	}
	if err := c.W.WriteByte(info2); err != nil {
		return err
	}
	if layerExplicit {
		if err := oasis.WriteUnsigned(c.W, t.Layer); err != nil {
			return err
		}
	}
	if datatypeExplicit {
		if err := oasis.WriteUnsigned(c.W, t.Datatype); err != nil {
			return err
		}
	}
	if typeExplicit {
		if err := c.W.WriteByte(kind); err != nil {
			return err
		}
	}
	if wExplicit {
		if err := oasis.WriteUnsigned(c.W, t.W); err != nil {
			return err
		}
	}
	if hExplicit {
		if err := oasis.WriteUnsigned(c.W, t.H); err != nil {
			return err
		}
	}
	if xExplicit {
		if err := oasis.WriteSigned(c.W, t.X); err != nil {
			return err
		}
	}
	if yExplicit {
		if err := oasis.WriteSigned(c.W, t.Y); err != nil {
			return err
		}
	}
	if repExplicit {
		return oasis.WriteRepetition(c.W, t.Repetition)
	}
	return nil
}

func diffByte(o *oasis.Optional[byte], v byte) bool {
	cur, ok := o.Get()
	changed := !ok || cur != v
	o.Set(v)
	return changed
}

func (c *OASISCreator) Circle(ci Circle) error {
	if err := c.ensureXYAbsolute(); err != nil {
		return err
	}
	radiusExplicit := diffUint64(&c.modal.CircleRadius, ci.Radius)
	xExplicit := diffInt64(&c.modal.GeometryX, ci.X)
	yExplicit := diffInt64(&c.modal.GeometryY, ci.Y)
	repExplicit := ci.Repetition != nil
	layerExplicit := diffUint64(&c.modal.Layer, ci.Layer)
	datatypeExplicit := diffUint64(&c.modal.Datatype, ci.Datatype)

	var info byte
	setBit(&info, 0, radiusExplicit)
	setBit(&info, 1, xExplicit)
	setBit(&info, 2, yExplicit)
	setBit(&info, 3, repExplicit)
	setBit(&info, 4, layerExplicit)
	setBit(&info, 5, datatypeExplicit)

	if err := c.W.WriteByte(byte(oasis.RecCircle)); err != nil {
		return err
	}
	if err := c.W.WriteByte(info); err != nil {
		return err
	}
	if layerExplicit {
		if err := oasis.WriteUnsigned(c.W, ci.Layer); err != nil {
			return err
		}
	}
	if datatypeExplicit {
		if err := oasis.WriteUnsigned(c.W, ci.Datatype); err != nil {
			return err
		}
	}
	if radiusExplicit {
		if err := oasis.WriteUnsigned(c.W, ci.Radius); err != nil {
			return err
		}
	}
	if xExplicit {
		if err := oasis.WriteSigned(c.W, ci.X); err != nil {
			return err
		}
	}
	if yExplicit {
		if err := oasis.WriteSigned(c.W, ci.Y); err != nil {
			return err
		}
	}
	if repExplicit {
		return oasis.WriteRepetition(c.W, ci.Repetition)
	}
	return nil
}

func (c *OASISCreator) Text(t Text) error {
	if err := c.ensureXYAbsolute(); err != nil {
		return err
	}
	c.init()
	if !c.seenText[t.String] {
		if err := c.W.WriteByte(byte(oasis.RecTextStringImpl)); err != nil {
			return err
		}
		if err := oasis.WriteString(c.W, t.String); err != nil {
			return err
		}
		c.seenText[t.String] = true
	}
	strExplicit := diffString(&c.modal.TextString, t.String)
	xExplicit := diffInt64(&c.modal.TextX, t.X)
	yExplicit := diffInt64(&c.modal.TextY, t.Y)
	repExplicit := t.Repetition != nil
	layerExplicit := diffUint64(&c.modal.TextLayer, t.TextLayer)
	datatypeExplicit := diffUint64(&c.modal.TextDatatype, t.TextType)

	var info byte
	setBit(&info, 0, strExplicit)
	setBit(&info, 1, true) // string always written by name, never by reference number
	setBit(&info, 2, xExplicit)
	setBit(&info, 3, yExplicit)
	setBit(&info, 4, repExplicit)
	setBit(&info, 5, layerExplicit)
	setBit(&info, 6, datatypeExplicit)

	if err := c.W.WriteByte(byte(oasis.RecText)); err != nil {
		return err
	}
	if err := c.W.WriteByte(info); err != nil {
		return err
	}
	if strExplicit {
		if err := oasis.WriteString(c.W, t.String); err != nil {
			return err
		}
	}
	if layerExplicit {
		if err := oasis.WriteUnsigned(c.W, t.TextLayer); err != nil {
			return err
		}
	}
	if datatypeExplicit {
		if err := oasis.WriteUnsigned(c.W, t.TextType); err != nil {
			return err
		}
	}
	if xExplicit {
		if err := oasis.WriteSigned(c.W, t.X); err != nil {
			return err
		}
	}
	if yExplicit {
		if err := oasis.WriteSigned(c.W, t.Y); err != nil {
			return err
		}
	}
	if repExplicit {
		return oasis.WriteRepetition(c.W, t.Repetition)
	}
	return nil
}

func (c *OASISCreator) Placement(p Placement) error {
	if err := c.ensureXYAbsolute(); err != nil {
		return err
	}
	c.init()
	if !c.seenCell[p.Cell] {
		if err := c.W.WriteByte(byte(oasis.RecCellNameImplicit)); err != nil {
			return err
		}
		if err := oasis.WriteString(c.W, p.Cell); err != nil {
			return err
		}
		c.seenCell[p.Cell] = true
	}
	cellExplicit := diffString(&c.modal.PlacementCell, p.Cell)
	xExplicit := diffInt64(&c.modal.PlacementX, p.X)
	yExplicit := diffInt64(&c.modal.PlacementY, p.Y)
	repExplicit := p.Repetition != nil
	diffBool(&c.modal.PlacementFlip, p.FlipY)

	magR := oasis.RealFromFloat64(p.Mag)
	angleR := oasis.RealFromFloat64(p.Angle)
	xform := p.Mag != 0 && p.Mag != 1 || p.Angle != 0

	var info byte
	setBit(&info, 0, cellExplicit)
	setBit(&info, 1, true) // cell always by name
	setBit(&info, 2, xExplicit)
	setBit(&info, 3, yExplicit)
	setBit(&info, 4, repExplicit)
	setBit(&info, 5, p.FlipY)

	id := oasis.RecPlacement
	if xform {
		id = oasis.RecPlacementXform
	}
	if err := c.W.WriteByte(byte(id)); err != nil {
		return err
	}
	if err := c.W.WriteByte(info); err != nil {
		return err
	}
	if cellExplicit {
		if err := oasis.WriteString(c.W, p.Cell); err != nil {
			return err
		}
	}
	if xform {
		if err := oasis.WriteReal(c.W, magR); err != nil {
			return err
		}
		if err := oasis.WriteReal(c.W, angleR); err != nil {
			return err
		}
		c.modal.PlacementMag.Set(magR)
		c.modal.PlacementAngle.Set(angleR)
	}
	if xExplicit {
		if err := oasis.WriteSigned(c.W, p.X); err != nil {
			return err
		}
	}
	if yExplicit {
		if err := oasis.WriteSigned(c.W, p.Y); err != nil {
			return err
		}
	}
	if repExplicit {
		return oasis.WriteRepetition(c.W, p.Repetition)
	}
	return nil
}

func (c *OASISCreator) XElement(x XElement) error {
	if err := c.W.WriteByte(byte(oasis.RecXElement)); err != nil {
		return err
	}
	if err := oasis.WriteUnsigned(c.W, x.Attribute); err != nil {
		return err
	}
	return oasis.WriteString(c.W, string(x.Data))
}

func (c *OASISCreator) XGeometry(g XGeometry) error {
	if err := c.ensureXYAbsolute(); err != nil {
		return err
	}
	xExplicit := diffInt64(&c.modal.GeometryX, g.X)
	yExplicit := diffInt64(&c.modal.GeometryY, g.Y)
	repExplicit := g.Repetition != nil
	layerExplicit := diffUint64(&c.modal.Layer, g.Layer)
	datatypeExplicit := diffUint64(&c.modal.Datatype, g.Datatype)

	var info byte
	setBit(&info, 0, xExplicit)
	setBit(&info, 1, yExplicit)
	setBit(&info, 2, repExplicit)
	setBit(&info, 3, layerExplicit)
	setBit(&info, 4, datatypeExplicit)

	if err := c.W.WriteByte(byte(oasis.RecXGeometry)); err != nil {
		return err
	}
	if err := c.W.WriteByte(info); err != nil {
		return err
	}
	if err := oasis.WriteUnsigned(c.W, g.Attribute); err != nil {
		return err
	}
	if err := oasis.WriteString(c.W, string(g.Data)); err != nil {
		return err
	}
	if layerExplicit {
		if err := oasis.WriteUnsigned(c.W, g.Layer); err != nil {
			return err
		}
	}
	if datatypeExplicit {
		if err := oasis.WriteUnsigned(c.W, g.Datatype); err != nil {
			return err
		}
	}
	if xExplicit {
		if err := oasis.WriteSigned(c.W, g.X); err != nil {
			return err
		}
	}
	if yExplicit {
		if err := oasis.WriteSigned(c.W, g.Y); err != nil {
			return err
		}
	}
	if repExplicit {
		return oasis.WriteRepetition(c.W, g.Repetition)
	}
	return nil
}

func (c *OASISCreator) Property(p Property) error {
	c.init()
	if p.Name != "" && !c.seenProp[p.Name] {
		if err := c.W.WriteByte(byte(oasis.RecPropNameImpl)); err != nil {
			return err
		}
		if err := oasis.WriteString(c.W, p.Name); err != nil {
			return err
		}
		c.seenProp[p.Name] = true
	}
	nameExplicit := diffString(&c.modal.LastPropertyName, p.Name)
	diffBool(&c.modal.LastPropertyIsStd, p.IsStandard)
	valuesExplicit := !reflect.DeepEqual(c.modal.LastValueList.GetOr(nil), p.Values)
	c.modal.LastValueList.Set(p.Values)

	if !nameExplicit && !valuesExplicit {
		return c.W.WriteByte(byte(oasis.RecPropertyRepeat))
	}

	var info byte
	setBit(&info, 0, nameExplicit)
	setBit(&info, 1, true) // name always by string
	setBit(&info, 2, p.IsStandard)
	setBit(&info, 3, valuesExplicit)

	if err := c.W.WriteByte(byte(oasis.RecProperty)); err != nil {
		return err
	}
	if err := c.W.WriteByte(info); err != nil {
		return err
	}
	if nameExplicit {
		if err := oasis.WriteString(c.W, p.Name); err != nil {
			return err
		}
	}
	if valuesExplicit {
		if err := oasis.WriteUnsigned(c.W, uint64(len(p.Values))); err != nil {
			return err
		}
		for _, v := range p.Values {
			if err := oasis.WriteReal(c.W, v); err != nil {
				return err
			}
		}
	}
	return nil
}
