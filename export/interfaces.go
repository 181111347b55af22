package export

import "trendtags/models"

// RecordWriter is the interface any trend record export format must satisfy.
type RecordWriter interface {
	WriteRecords(records []models.TrendRecord) error
	Flush() error
}

var _ RecordWriter = (*CSVWriter)(nil)
