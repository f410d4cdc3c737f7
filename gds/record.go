// Package gds implements the GDSII Stream record codec: framing,
// per-type validation, and the scalar decoders/encoders (short, int,
// bit-array, IBM-370 double, string) that operate on a record body.
package gds

import "fmt"

// RecordType is the one-byte GDSII record type, 0..69.
type RecordType byte

const (
	HEADER       RecordType = 0
	BGNLIB       RecordType = 1
	LIBNAME      RecordType = 2
	UNITS        RecordType = 3
	ENDLIB       RecordType = 4
	BGNSTR       RecordType = 5
	STRNAME      RecordType = 6
	ENDSTR       RecordType = 7
	BOUNDARY     RecordType = 8
	PATH         RecordType = 9
	SREF         RecordType = 10
	AREF         RecordType = 11
	TEXT         RecordType = 12
	LAYER        RecordType = 13
	DATATYPE     RecordType = 14
	WIDTH        RecordType = 15
	XY           RecordType = 16
	ENDEL        RecordType = 17
	SNAME        RecordType = 18
	COLROW       RecordType = 19
	TEXTNODE     RecordType = 20
	NODE         RecordType = 21
	TEXTTYPE     RecordType = 22
	PRESENTATION RecordType = 23
	SPACING      RecordType = 24 // invalid
	STRING       RecordType = 25
	STRANS       RecordType = 26
	MAG          RecordType = 27
	ANGLE        RecordType = 28
	UINTEGER     RecordType = 29 // invalid
	USTRING      RecordType = 30 // invalid
	REFLIBS      RecordType = 31
	FONTS        RecordType = 32
	PATHTYPE     RecordType = 33
	GENERATIONS  RecordType = 34
	ATTRTABLE    RecordType = 35
	STYPTABLE    RecordType = 36 // invalid
	STRTYPE      RecordType = 37 // invalid
	ELFLAGS      RecordType = 38
	ELKEY        RecordType = 39 // invalid
	LINKTYPE     RecordType = 40 // invalid
	LINKKEYS     RecordType = 41 // invalid
	NODETYPE     RecordType = 42
	PROPATTR     RecordType = 43
	PROPVALUE    RecordType = 44
	BOX          RecordType = 45
	BOXTYPE      RecordType = 46
	PLEX         RecordType = 47
	BGNEXTN      RecordType = 48
	ENDEXTN      RecordType = 49
	TAPENUM      RecordType = 50
	TAPECODE     RecordType = 51
	STRCLASS     RecordType = 52
	RESERVED     RecordType = 53 // invalid
	FORMAT       RecordType = 54
	MASK         RecordType = 55
	ENDMASKS     RecordType = 56
	LIBDIRSIZE   RecordType = 57
	SRFNAME      RecordType = 58
	LIBSECUR     RecordType = 59
	BORDER       RecordType = 60
	SOFTFENCE    RecordType = 61
	HARDFENCE    RecordType = 62
	SOFTWIRE     RecordType = 63
	HARDWIRE     RecordType = 64
	PATHPORT     RecordType = 65
	NODEPORT     RecordType = 66
	USERCONSTR   RecordType = 67
	SPACERERROR  RecordType = 68
	CONTACT      RecordType = 69

	maxRecordType = 69
)

// DataKind is the payload interpretation for a record type.
type DataKind int

const (
	KindNone DataKind = iota
	KindBitArray
	KindShort
	KindInt
	KindDouble
	KindString
)

func (k DataKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBitArray:
		return "bitarray"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("DataKind(%d)", int(k))
	}
}

// descriptor describes the legal shape of one record type's body.
//
// Unit is the byte granularity the body length must be a multiple of for
// fixed-item types (0 means no multiple-of check beyond the global
// even-length rule). FixedStringUnit, when non-zero, means the string
// body is one or more fixed blobs of that many bytes (e.g. the 44-byte
// library/font names in REFLIBS/FONTS) rather than a single
// variable-length, NUL-padded blob.
type descriptor struct {
	Kind            DataKind
	Unit            int
	MinLen          int
	MaxLen          int
	FixedStringUnit int
	Invalid         bool
}

const maxBodyLen = 65530

var descriptors = map[RecordType]descriptor{
	HEADER:       {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	BGNLIB:       {Kind: KindShort, Unit: 2, MinLen: 24, MaxLen: 24},
	LIBNAME:      {Kind: KindString, MinLen: 0, MaxLen: maxBodyLen},
	UNITS:        {Kind: KindDouble, Unit: 8, MinLen: 16, MaxLen: 16},
	ENDLIB:       {Kind: KindNone, MinLen: 0, MaxLen: 0},
	BGNSTR:       {Kind: KindShort, Unit: 2, MinLen: 24, MaxLen: 24},
	STRNAME:      {Kind: KindString, MinLen: 0, MaxLen: maxBodyLen},
	ENDSTR:       {Kind: KindNone, MinLen: 0, MaxLen: 0},
	BOUNDARY:     {Kind: KindNone, MinLen: 0, MaxLen: 0},
	PATH:         {Kind: KindNone, MinLen: 0, MaxLen: 0},
	SREF:         {Kind: KindNone, MinLen: 0, MaxLen: 0},
	AREF:         {Kind: KindNone, MinLen: 0, MaxLen: 0},
	TEXT:         {Kind: KindNone, MinLen: 0, MaxLen: 0},
	LAYER:        {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	DATATYPE:     {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	WIDTH:        {Kind: KindInt, Unit: 4, MinLen: 4, MaxLen: 4},
	XY:           {Kind: KindInt, Unit: 8, MinLen: 0, MaxLen: maxBodyLen},
	ENDEL:        {Kind: KindNone, MinLen: 0, MaxLen: 0},
	SNAME:        {Kind: KindString, MinLen: 0, MaxLen: maxBodyLen},
	COLROW:       {Kind: KindShort, Unit: 2, MinLen: 4, MaxLen: 4},
	TEXTNODE:     {Kind: KindNone, MinLen: 0, MaxLen: 0},
	NODE:         {Kind: KindNone, MinLen: 0, MaxLen: 0},
	TEXTTYPE:     {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	PRESENTATION: {Kind: KindBitArray, Unit: 2, MinLen: 2, MaxLen: 2},
	SPACING:      {Invalid: true},
	STRING:       {Kind: KindString, MinLen: 0, MaxLen: maxBodyLen},
	STRANS:       {Kind: KindBitArray, Unit: 2, MinLen: 2, MaxLen: 2},
	MAG:          {Kind: KindDouble, Unit: 8, MinLen: 8, MaxLen: 8},
	ANGLE:        {Kind: KindDouble, Unit: 8, MinLen: 8, MaxLen: 8},
	UINTEGER:     {Invalid: true},
	USTRING:      {Invalid: true},
	REFLIBS:      {Kind: KindString, FixedStringUnit: 44, MinLen: 88, MaxLen: 88},
	FONTS:        {Kind: KindString, FixedStringUnit: 44, MinLen: 176, MaxLen: 176},
	PATHTYPE:     {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	GENERATIONS:  {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	ATTRTABLE:    {Kind: KindString, MinLen: 0, MaxLen: maxBodyLen},
	STYPTABLE:    {Invalid: true},
	STRTYPE:      {Invalid: true},
	ELFLAGS:      {Kind: KindBitArray, Unit: 2, MinLen: 2, MaxLen: 2},
	ELKEY:        {Invalid: true},
	LINKTYPE:     {Invalid: true},
	LINKKEYS:     {Invalid: true},
	NODETYPE:     {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	PROPATTR:     {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	PROPVALUE:    {Kind: KindString, MinLen: 0, MaxLen: maxBodyLen},
	BOX:          {Kind: KindNone, MinLen: 0, MaxLen: 0},
	BOXTYPE:      {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	PLEX:         {Kind: KindInt, Unit: 4, MinLen: 4, MaxLen: 4},
	BGNEXTN:      {Kind: KindInt, Unit: 4, MinLen: 4, MaxLen: 4},
	ENDEXTN:      {Kind: KindInt, Unit: 4, MinLen: 4, MaxLen: 4},
	TAPENUM:      {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	TAPECODE:     {Kind: KindShort, Unit: 2, MinLen: 12, MaxLen: 12},
	STRCLASS:     {Kind: KindBitArray, Unit: 2, MinLen: 2, MaxLen: 2},
	RESERVED:     {Invalid: true},
	FORMAT:       {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	MASK:         {Kind: KindString, MinLen: 0, MaxLen: maxBodyLen},
	ENDMASKS:     {Kind: KindNone, MinLen: 0, MaxLen: 0},
	LIBDIRSIZE:   {Kind: KindShort, Unit: 2, MinLen: 2, MaxLen: 2},
	SRFNAME:      {Kind: KindString, MinLen: 0, MaxLen: maxBodyLen},
	LIBSECUR:     {Kind: KindShort, Unit: 6, MinLen: 6, MaxLen: maxBodyLen},
	BORDER:       {Kind: KindNone, MinLen: 0, MaxLen: 0},
	SOFTFENCE:    {Kind: KindNone, MinLen: 0, MaxLen: 0},
	HARDFENCE:    {Kind: KindNone, MinLen: 0, MaxLen: 0},
	SOFTWIRE:     {Kind: KindNone, MinLen: 0, MaxLen: 0},
	HARDWIRE:     {Kind: KindNone, MinLen: 0, MaxLen: 0},
	PATHPORT:     {Kind: KindNone, MinLen: 0, MaxLen: 0},
	NODEPORT:     {Kind: KindNone, MinLen: 0, MaxLen: 0},
	USERCONSTR:   {Kind: KindNone, MinLen: 0, MaxLen: 0},
	SPACERERROR:  {Kind: KindNone, MinLen: 0, MaxLen: 0},
	CONTACT:      {Kind: KindNone, MinLen: 0, MaxLen: 0},
}

// names used for diagnostics and the ascii bridge.
var typeNames = map[RecordType]string{
	HEADER: "HEADER", BGNLIB: "BGNLIB", LIBNAME: "LIBNAME", UNITS: "UNITS",
	ENDLIB: "ENDLIB", BGNSTR: "BGNSTR", STRNAME: "STRNAME", ENDSTR: "ENDSTR",
	BOUNDARY: "BOUNDARY", PATH: "PATH", SREF: "SREF", AREF: "AREF", TEXT: "TEXT",
	LAYER: "LAYER", DATATYPE: "DATATYPE", WIDTH: "WIDTH", XY: "XY", ENDEL: "ENDEL",
	SNAME: "SNAME", COLROW: "COLROW", TEXTNODE: "TEXTNODE", NODE: "NODE",
	TEXTTYPE: "TEXTTYPE", PRESENTATION: "PRESENTATION", SPACING: "SPACING",
	STRING: "STRING", STRANS: "STRANS", MAG: "MAG", ANGLE: "ANGLE",
	UINTEGER: "UINTEGER", USTRING: "USTRING", REFLIBS: "REFLIBS", FONTS: "FONTS",
	PATHTYPE: "PATHTYPE", GENERATIONS: "GENERATIONS", ATTRTABLE: "ATTRTABLE",
	STYPTABLE: "STYPTABLE", STRTYPE: "STRTYPE", ELFLAGS: "ELFLAGS", ELKEY: "ELKEY",
	LINKTYPE: "LINKTYPE", LINKKEYS: "LINKKEYS", NODETYPE: "NODETYPE",
	PROPATTR: "PROPATTR", PROPVALUE: "PROPVALUE", BOX: "BOX", BOXTYPE: "BOXTYPE",
	PLEX: "PLEX", BGNEXTN: "BGNEXTN", ENDEXTN: "ENDEXTN", TAPENUM: "TAPENUM",
	TAPECODE: "TAPECODE", STRCLASS: "STRCLASS", RESERVED: "RESERVED",
	FORMAT: "FORMAT", MASK: "MASK", ENDMASKS: "ENDMASKS", LIBDIRSIZE: "LIBDIRSIZE",
	SRFNAME: "SRFNAME", LIBSECUR: "LIBSECUR", BORDER: "BORDER",
	SOFTFENCE: "SOFTFENCE", HARDFENCE: "HARDFENCE", SOFTWIRE: "SOFTWIRE",
	HARDWIRE: "HARDWIRE", PATHPORT: "PATHPORT", NODEPORT: "NODEPORT",
	USERCONSTR: "USERCONSTRAINT", SPACERERROR: "SPACER_ERROR", CONTACT: "CONTACT",
}

func (t RecordType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("RecordType(%d)", byte(t))
}

func describe(t RecordType) (descriptor, bool) {
	d, ok := descriptors[t]
	if !ok || byte(t) > maxRecordType {
		return descriptor{}, false
	}
	return d, true
}

// Describe exposes the parts of a record type's descriptor that callers
// outside this package need to decode or validate a body without
// duplicating the table: its data kind and, for REFLIBS/FONTS-style
// fixed-blob strings, the blob unit size.
func Describe(t RecordType) (kind DataKind, fixedStringUnit int, ok bool) {
	d, ok := describe(t)
	if !ok || d.Invalid {
		return 0, 0, false
	}
	return d.Kind, d.FixedStringUnit, true
}

// RecordTypeByName reverses RecordType.String, for the ascii ingest path.
func RecordTypeByName(name string) (RecordType, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Record is one decoded GDSII Stream record. A Body returned from
// Scanner.Record aliases the scanner's buffer; use Clone to keep it past
// the next call.
type Record struct {
	Type RecordType
	Kind DataKind
	Body []byte
}
