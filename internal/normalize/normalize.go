package normalize

import (
	"github.com/vbonduro/filmlog/internal/domain"
	"github.com/vbonduro/filmlog/internal/dotpath"
)

// Source paths of each Shot field inside a Notion page.
const (
	RollPath  = "properties.ID.title.0.plain_text"
	DatePath  = "properties.DateTaken.date.start"
	FilmPath  = "properties.Film.multi_select.0.name"
	BrandPath = "properties.Brand.multi_select.0.name"
	TypePath  = "properties.Type.multi_select.0.name"
	ISOPath   = "properties.ISO.number"
)

// Row extracts a Shot from one Notion page. Missing or malformed properties
// leave the corresponding field nil.
func Row(row domain.RawRow) domain.Shot {
	return domain.Shot{
		Roll:  stringAt(row, RollPath),
		Date:  stringAt(row, DatePath),
		Film:  stringAt(row, FilmPath),
		Brand: stringAt(row, BrandPath),
		Type:  stringAt(row, TypePath),
		ISO:   numberAt(row, ISOPath),
	}
}

// Rows normalizes every page, keeping the order they were returned in.
func Rows(rows []domain.RawRow) []domain.Shot {
	shots := make([]domain.Shot, 0, len(rows))
	for _, row := range rows {
		shots = append(shots, Row(row))
	}
	return shots
}

func stringAt(row domain.RawRow, path string) *string {
	s, ok := dotpath.String(row, path)
	if !ok {
		return nil
	}
	return &s
}

func numberAt(row domain.RawRow, path string) *float64 {
	n, ok := dotpath.Number(row, path)
	if !ok {
		return nil
	}
	return &n
}
