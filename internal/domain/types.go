package domain

import "strconv"

// RawRow is one Notion page as decoded from the API response.
type RawRow = map[string]any

type Field string

const (
	FieldRoll  Field = "roll"
	FieldDate  Field = "date"
	FieldFilm  Field = "film"
	FieldBrand Field = "brand"
	FieldType  Field = "type"
	FieldISO   Field = "iso"
)

// Columns is the column order used wherever a Shot is laid out as a table row.
var Columns = []Field{FieldRoll, FieldDate, FieldFilm, FieldBrand, FieldType, FieldISO}

// Shot is one normalized entry of the film log. A nil field means the value
// was absent or malformed in the source row.
type Shot struct {
	Roll  *string
	Date  *string
	Film  *string
	Brand *string
	Type  *string
	ISO   *float64
}

// Value returns the field rendered as text, or false when it is absent.
func (s Shot) Value(f Field) (string, bool) {
	var p *string
	switch f {
	case FieldRoll:
		p = s.Roll
	case FieldDate:
		p = s.Date
	case FieldFilm:
		p = s.Film
	case FieldBrand:
		p = s.Brand
	case FieldType:
		p = s.Type
	case FieldISO:
		if s.ISO == nil {
			return "", false
		}
		return FormatISO(*s.ISO), true
	}
	if p == nil {
		return "", false
	}
	return *p, true
}

// FormatISO renders an ISO speed in its shortest decimal form ("400", "6.5").
func FormatISO(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
