package trends24

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"trendtags/config"
	"trendtags/models"
)

const (
	tableSelector = "table.the-table"
	rowSelector   = "table.the-table tbody tr"
)

// FieldSet decides which cells a row must carry to be kept.
type FieldSet string

const (
	// CoreFields requires rank, topic and tweet count.
	CoreFields FieldSet = "core"
	// FullFields also requires top position and duration.
	FullFields FieldSet = "full"
)

// Accepts reports whether r carries every field the set requires.
func (f FieldSet) Accepts(r models.TrendRecord) bool {
	if f == FullFields {
		return r.HasAllFields()
	}
	return r.HasCoreFields()
}

// FieldSetFromConfig returns the field set the deployment extracts.
func FieldSetFromConfig(cfg *config.Config) FieldSet {
	if cfg.ExtractFields == config.FieldsCore {
		return CoreFields
	}
	return FullFields
}

// ParseTable reads trend rows out of the trends table markup. Rows missing a
// required cell are skipped; dropped is how many.
func ParseTable(html string, fields FieldSet) (records []models.TrendRecord, dropped int, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, 0, fmt.Errorf("parse trends table: %w", err)
	}

	records = make([]models.TrendRecord, 0)
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		r := models.NewTrendRecord(
			cellText(row, ".rank"),
			cellText(row, ".topic a"),
			cellText(row, ".position"),
			cellText(row, ".count"),
			cellText(row, ".duration"),
		)
		if !fields.Accepts(r) {
			dropped++
			return
		}
		if fields == CoreFields {
			r.TopPosition, r.Duration = "", ""
		}
		records = append(records, r)
	})

	return records, dropped, nil
}

func cellText(row *goquery.Selection, selector string) string {
	return strings.TrimSpace(row.Find(selector).First().Text())
}
