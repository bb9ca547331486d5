package bse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bseworker/pkg/errors"
)

func newFilingClient(body string, fetchErr error) (*Client, *string) {
	var requested string
	fetch := func(ctx context.Context, url string) ([]byte, error) {
		requested = url
		if fetchErr != nil {
			return nil, fetchErr
		}
		return []byte(body), nil
	}
	return NewClientWithFetch("https://www.bseindia.com", "https://api.bseindia.com", fetch), &requested
}

func TestParseFilingNamespaced(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<xbrl xmlns:in-bse-co="http://www.bseindia.com/xbrl/in-bse-co">
	<in-bse-co:CategoryOfAnnouncement>Company Update</in-bse-co:CategoryOfAnnouncement>
	<in-bse-co:SubjectOfAnnouncement>Regulation 30 (LODR) - Acquisition</in-bse-co:SubjectOfAnnouncement>
	<in-bse-co:AttachmentURL>https://www.bseindia.com/xml-data/corpfiling/AttachLive/https://www.bseindia.com/doc.pdf</in-bse-co:AttachmentURL>
</xbrl>`

	client, requested := newFilingClient(xml, nil)
	ext := client.ParseFiling(context.Background(), "FIL-1")

	assert.Equal(t, "https://www.bseindia.com/xml-data/corpfiling/AttachLive/FIL-1.xml", *requested)

	require.True(t, ext.Category.Found)
	assert.Equal(t, "Company Update", ext.Category.Text)

	// Regulation prefix is stripped from the hyphenated subject
	require.True(t, ext.Subcategory.Found)
	assert.Equal(t, "Acquisition", ext.Subcategory.Text)

	// Doubled-host attachment URL is repaired
	require.True(t, ext.Link.Found)
	assert.Equal(t, "https://www.bseindia.com/doc.pdf", ext.Link.Text)
}

func TestParseFilingBareElements(t *testing.T) {
	xml := `<?xml version="1.0"?>
<filing>
	<TypeOfAnnouncement>Financial Results</TypeOfAnnouncement>
	<SubCategoryOfAnnouncement>Board Meeting - Outcome</SubCategoryOfAnnouncement>
</filing>`

	client, _ := newFilingClient(xml, nil)
	ext := client.ParseFiling(context.Background(), "FIL-2")

	require.True(t, ext.Category.Found)
	assert.Equal(t, "Financial Results", ext.Category.Text)

	// A hyphenated subject without a regulation prefix is kept whole
	require.True(t, ext.Subcategory.Found)
	assert.Equal(t, "Board Meeting - Outcome", ext.Subcategory.Text)

	assert.False(t, ext.Link.Found)
}

func TestParseFilingIndependentFields(t *testing.T) {
	xml := `<?xml version="1.0"?>
<filing>
	<AttachmentURL>/xml-data/corpfiling/AttachLive/doc.pdf</AttachmentURL>
</filing>`

	client, _ := newFilingClient(xml, nil)
	ext := client.ParseFiling(context.Background(), "FIL-3")

	require.True(t, ext.Link.Found)
	assert.Equal(t, "https://www.bseindia.com/xml-data/corpfiling/AttachLive/doc.pdf", ext.Link.Text)
	assert.False(t, ext.Category.Found)
	assert.False(t, ext.Subcategory.Found)
}

func TestParseFilingEmptyID(t *testing.T) {
	called := false
	fetch := func(ctx context.Context, url string) ([]byte, error) {
		called = true
		return nil, nil
	}
	client := NewClientWithFetch("https://www.bseindia.com", "https://api.bseindia.com", fetch)

	ext := client.ParseFiling(context.Background(), "")
	assert.Equal(t, Extraction{}, ext)
	assert.False(t, called, "empty filing ID must not trigger a fetch")
}

func TestParseFilingFetchFailure(t *testing.T) {
	client, _ := newFilingClient("", apperrors.NewTransport("filing", "status 404", nil))
	ext := client.ParseFiling(context.Background(), "FIL-4")
	assert.Equal(t, Extraction{}, ext)
}
