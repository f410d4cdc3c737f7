package oasis

// RecordID is the one-byte OASIS record identifier, 0..34.
type RecordID byte

const (
	RecPad              RecordID = 0
	RecStart            RecordID = 1
	RecEnd              RecordID = 2
	RecCellNameImplicit RecordID = 3
	RecCellNameExplicit RecordID = 4
	RecTextStringImpl   RecordID = 5
	RecTextStringExpl   RecordID = 6
	RecPropNameImpl     RecordID = 7
	RecPropNameExpl     RecordID = 8
	RecPropStringImpl   RecordID = 9
	RecPropStringExpl   RecordID = 10
	RecLayerNameData    RecordID = 11
	RecLayerNameText    RecordID = 12
	RecCellRef          RecordID = 13
	RecCellName         RecordID = 14
	RecXYAbsolute       RecordID = 15
	RecXYRelative       RecordID = 16
	RecPlacement        RecordID = 17
	RecPlacementXform   RecordID = 18
	RecText             RecordID = 19
	RecRectangle        RecordID = 20
	RecPolygon          RecordID = 21
	RecPath             RecordID = 22
	RecTrapezoidAB      RecordID = 23
	RecTrapezoidA       RecordID = 24
	RecTrapezoidB       RecordID = 25
	RecCTrapezoid       RecordID = 26
	RecCircle           RecordID = 27
	RecProperty         RecordID = 28
	RecPropertyRepeat   RecordID = 29
	RecXNameImpl        RecordID = 30
	RecXNameExpl        RecordID = 31
	RecXElement         RecordID = 32
	RecXGeometry        RecordID = 33
	RecCBlock           RecordID = 34

	maxRecordID = 34
)

// NameKind identifies which of the six OASIS name tables a record
// belongs to.
type NameKind int

const (
	NameCell NameKind = iota
	NameText
	NamePropName
	NamePropString
	NameLayer
	NameXName
)

func (k NameKind) String() string {
	switch k {
	case NameCell:
		return "cellname"
	case NameText:
		return "textstring"
	case NamePropName:
		return "propname"
	case NamePropString:
		return "propstring"
	case NameLayer:
		return "layername"
	case NameXName:
		return "xname"
	default:
		return "name"
	}
}

func validRecordID(id RecordID) bool { return id <= maxRecordID }
