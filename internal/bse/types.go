package bse

import (
	"strings"
	"time"
)

// Announcement is one exchange-reported disclosure event from the listing API
type Announcement struct {
	NewsID    string
	ScripCode string
	ShortName string
	LongName  string
	Headline  string
	NewsDate  time.Time
}

// StockName returns the long name, falling back to the short name
func (a Announcement) StockName() string {
	if name := strings.TrimSpace(a.LongName); name != "" {
		return name
	}
	return strings.TrimSpace(a.ShortName)
}

// Field holds one extracted text value. Found distinguishes a source that was
// consulted and yielded a value from one that errored, was never consulted,
// or found nothing. A Field is only Found with non-empty trimmed text.
type Field struct {
	Text  string
	Found bool
}

// FoundField wraps non-empty trimmed text in a found Field
func FoundField(text string) Field {
	text = strings.TrimSpace(text)
	if text == "" {
		return Field{}
	}
	return Field{Text: text, Found: true}
}

// Extraction is the per-source result for one announcement. Values are never
// mutated after creation; merging two extractions produces a new value.
type Extraction struct {
	Link        Field
	Category    Field
	Subcategory Field
}

// Complete reports whether every field carries a value
func (e Extraction) Complete() bool {
	return e.Link.Found && e.Category.Found && e.Subcategory.Found
}

// Row is one final output record, in the listing's iteration order
type Row struct {
	ScripCode   string `json:"stock_code"`
	StockName   string `json:"stock_name"`
	Headline    string `json:"headline"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	PDFLink     string `json:"pdf_link"`
	Date        string `json:"date"`
	NewsID      string `json:"news_id"`
}
