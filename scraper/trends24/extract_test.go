package trends24

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"trendtags/models"
)

func TestParseTableFullFields(t *testing.T) {
	records, dropped, err := ParseTable(sampleTable, FullFields)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if dropped != 2 {
		t.Errorf("dropped: got %d, want 2", dropped)
	}

	want := []models.TrendRecord{
		{Rank: "1", Topic: "#AI", TopPosition: "1", TweetCount: "12,345", TweetCountNum: 12345, Duration: "5 hrs"},
		{Rank: "2", Topic: "Taylor Swift", TopPosition: "2", TweetCount: "9,000", TweetCountNum: 9000, Duration: "3 hrs"},
		{Rank: "3", Topic: "日本語トレンド", TopPosition: "3", TweetCount: "N/A", TweetCountNum: 0, Duration: "1 hr"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("ParseTable mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTableCoreFields(t *testing.T) {
	records, dropped, err := ParseTable(sampleTable, CoreFields)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if dropped != 1 {
		t.Errorf("dropped: got %d, want 1", dropped)
	}
	if len(records) != 4 {
		t.Fatalf("records: got %d, want 4", len(records))
	}
	if records[3].Topic != "NoDuration" || records[3].TweetCountNum != 50 {
		t.Errorf("last record: %+v", records[3])
	}
}

func TestParseTableUsesFirstLinkOnly(t *testing.T) {
	html := `<table class="the-table"><tbody>
		<tr><td class="rank">1</td><td class="topic"><a>First</a><a>Second</a></td><td class="count">10</td></tr>
	</tbody></table>`

	records, _, err := ParseTable(html, CoreFields)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if len(records) != 1 || records[0].Topic != "First" {
		t.Errorf("got %+v, want a single record with topic First", records)
	}
}

func TestParseTableNoRows(t *testing.T) {
	for _, html := range []string{"", "<div>maintenance</div>", `<table class="the-table"></table>`} {
		records, dropped, err := ParseTable(html, FullFields)
		if err != nil {
			t.Errorf("ParseTable(%q): %v", html, err)
		}
		if records == nil || len(records) != 0 || dropped != 0 {
			t.Errorf("ParseTable(%q) = %v, %d; want empty non-nil slice", html, records, dropped)
		}
	}
}

func TestMatchLabel(t *testing.T) {
	tests := []struct {
		texts []string
		label string
		want  int
	}{
		{[]string{"Reject", "AGREE"}, "AGREE", 1},
		{[]string{" agree "}, "AGREE", 0},
		{[]string{"I agree", "Agree to all"}, "AGREE", -1},
		{nil, "AGREE", -1},
		{[]string{"STRASSE", "straße"}, "Straße", 0},
	}

	for _, tt := range tests {
		if got := matchLabel(tt.texts, tt.label); got != tt.want {
			t.Errorf("matchLabel(%q, %q) = %d; want %d", tt.texts, tt.label, got, tt.want)
		}
	}
}

func TestAcquisitionErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("handler: %w", &AcquisitionError{Stage: StageAwaitData, Err: cause})

	if !errors.Is(err, cause) {
		t.Error("AcquisitionError should unwrap to its cause")
	}
	want := "handler: acquisition failed at await-data: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
	if _, ok := StageOf(errors.New("plain")); ok {
		t.Error("StageOf should be false for non-acquisition errors")
	}
}
