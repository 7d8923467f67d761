package markup

import "regexp"

// Markers embedded in an entry buffer.
const (
	BoldMarker    = "**"
	ItalicMarker  = "*"
	HeaderPrefix  = "# "
	BulletPrefix  = "• "
	RangeEndToken = "<re>"

	// legacyBulletPrefix is the bullet glyph as it was persisted by older
	// builds that mangled UTF-8 through a Windows-1252 round trip.
	legacyBulletPrefix = "â€¢ "

	bulletInsertion = "\n" + BulletPrefix
)

// BulletCaretAdvance is how far the host should move the caret after InsertBullet.
const BulletCaretAdvance = 3

const (
	timestampLayout = "03:04:05 PM"
	rangeLayout     = "03:04 PM"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)

	// annotationPattern picks the first timestamp or range token on a line.
	annotationPattern = regexp.MustCompile(`<(t|r|rs):([^>]+)>`)
	stripPattern      = regexp.MustCompile(`<(?:t|r|rs):[^>]+>|<re>`)
)

// Kind identifies how a segment should be styled.
type Kind uint8

const (
	// KindPlain is unstyled text.
	KindPlain Kind = iota
	// KindBold is text wrapped in **.
	KindBold
	// KindItalic is text wrapped in *.
	KindItalic
	// KindHeader is the remainder of a line starting with "# ".
	KindHeader
	// KindBullet is a whole bullet line, prefix included.
	KindBullet
)

var kindNames = [...]string{"plain", "bold", "italic", "header", "bullet"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText lets segments encode kinds by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Tone is the per-line colour class picked from the annotations a line carries.
type Tone uint8

const (
	// ToneDefault is regular text colour.
	ToneDefault Tone = iota
	// ToneAccent marks lines holding a timestamp.
	ToneAccent
	// TonePrimary marks lines holding a time range.
	TonePrimary
)

func (t Tone) String() string {
	switch t {
	case ToneAccent:
		return "accent"
	case TonePrimary:
		return "primary"
	default:
		return "default"
	}
}

// MarshalText encodes the tone by name.
func (t Tone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// AnnotationType distinguishes point-in-time and range annotations.
type AnnotationType uint8

const (
	// AnnotationTimestamp is a <t:...> token.
	AnnotationTimestamp AnnotationType = iota
	// AnnotationRange is a <r:...> or <rs:...> token.
	AnnotationRange
)

func (a AnnotationType) String() string {
	if a == AnnotationRange {
		return "range"
	}
	return "timestamp"
}

// MarshalText encodes the annotation type by name.
func (a AnnotationType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Annotation is the payload a host surfaces when a clickable segment is tapped.
type Annotation struct {
	Type   AnnotationType `json:"type"`
	Marker string         `json:"marker"`
	Value  string         `json:"value"`
}

func annotationFor(marker, value string) Annotation {
	typ := AnnotationTimestamp
	if marker != "t" {
		typ = AnnotationRange
	}
	return Annotation{Type: typ, Marker: marker, Value: value}
}
