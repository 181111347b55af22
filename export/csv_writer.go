package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"

	"trendtags/models"
)

var csvHeader = []string{"rank", "topic", "top_position", "tweet_count", "tweet_count_num", "duration"}

// CSVWriter writes trend records as CSV to any io.Writer.
// It is safe for concurrent use.
type CSVWriter struct {
	mu          sync.Mutex
	writer      *csv.Writer
	wroteHeader bool
}

// NewCSVWriter wraps w. The header row is written with the first batch.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{writer: csv.NewWriter(w)}
}

// WriteRecords appends records in the order given.
func (c *CSVWriter) WriteRecords(records []models.TrendRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.wroteHeader {
		if err := c.writer.Write(csvHeader); err != nil {
			return fmt.Errorf("csv: write header: %w", err)
		}
		c.wroteHeader = true
	}

	for _, r := range records {
		row := []string{
			r.Rank,
			r.Topic,
			r.TopPosition,
			r.TweetCount,
			strconv.FormatInt(r.TweetCountNum, 10),
			r.Duration,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Flush writes any buffered data to the underlying writer.
func (c *CSVWriter) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	return c.writer.Error()
}
