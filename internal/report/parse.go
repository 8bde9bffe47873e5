package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/vbonduro/filmlog/internal/domain"
)

// ParseTable reads the shot table back out of a rendered report.
func ParseTable(r io.Reader) ([]domain.Shot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	table := doc.Find("table.shots").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("report has no shot table")
	}

	var columns []domain.Field
	table.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		columns = append(columns, domain.Field(th.Text()))
	})

	shots := make([]domain.Shot, 0)
	var parseErr error
	table.Find("tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		var shot domain.Shot
		tr.Find("td").EachWithBreak(func(j int, td *goquery.Selection) bool {
			if j >= len(columns) || td.HasClass("absent") {
				return true
			}
			if err := setField(&shot, columns[j], td.Text()); err != nil {
				parseErr = fmt.Errorf("row %d: %w", i+1, err)
				return false
			}
			return true
		})
		if parseErr != nil {
			return false
		}
		shots = append(shots, shot)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return shots, nil
}

func setField(shot *domain.Shot, field domain.Field, text string) error {
	switch field {
	case domain.FieldRoll:
		shot.Roll = &text
	case domain.FieldDate:
		shot.Date = &text
	case domain.FieldFilm:
		shot.Film = &text
	case domain.FieldBrand:
		shot.Brand = &text
	case domain.FieldType:
		shot.Type = &text
	case domain.FieldISO:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("invalid iso %q: %w", text, err)
		}
		shot.ISO = &v
	}
	return nil
}
