package bse

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bseworker/pkg/errors"
)

// newPageClient wires a client whose detail-page fetch returns the given
// markup, recording the requested URL
func newPageClient(html string, fetchErr error) (*Client, *string) {
	var requested string
	fetch := func(ctx context.Context, url string) ([]byte, error) {
		requested = url
		if fetchErr != nil {
			return nil, fetchErr
		}
		return []byte(html), nil
	}
	return NewClientWithFetch("https://www.bseindia.com", "https://api.bseindia.com", fetch), &requested
}

func TestParsePageHiddenFields(t *testing.T) {
	html := `<html><body>
		<input type="hidden" name="ctl00$hdnCategory" value="Board Meeting" />
		<input type="hidden" name="ctl00$hdnSubCategory" value="Outcome of Board Meeting" />
		<a href="/xml-data/corpfiling/AttachHis/notice.pdf">Download</a>
	</body></html>`

	client, requested := newPageClient(html, nil)
	ext := client.ParsePage(context.Background(), "1001")

	assert.Equal(t, "https://www.bseindia.com/corporates/anndet_new.aspx?newsid=1001", *requested)

	require.True(t, ext.Category.Found)
	assert.Equal(t, "Board Meeting", ext.Category.Text)
	require.True(t, ext.Subcategory.Found)
	assert.Equal(t, "Outcome of Board Meeting", ext.Subcategory.Text)
	require.True(t, ext.Link.Found)
	assert.Equal(t, "https://www.bseindia.com/xml-data/corpfiling/AttachHis/notice.pdf", ext.Link.Text)
	assert.True(t, ext.Complete())
}

func TestParsePageDropdownAndSpans(t *testing.T) {
	html := `<html><body>
		<span id="ctl00_lblCategory">Company Update</span>
		<select id="ddlSubCategory">
			<option value="1">Acquisition</option>
			<option value="2" selected="selected">Joint Venture</option>
		</select>
		<a href="https://www.bseindia.com/corporates/https://www.bseindia.com/xml-data/att.pdf">Attachment</a>
	</body></html>`

	client, _ := newPageClient(html, nil)
	ext := client.ParsePage(context.Background(), "1002")

	require.True(t, ext.Category.Found)
	assert.Equal(t, "Company Update", ext.Category.Text)
	require.True(t, ext.Subcategory.Found)
	assert.Equal(t, "Joint Venture", ext.Subcategory.Text)

	// Doubled-host link is repaired on the way out
	require.True(t, ext.Link.Found)
	assert.Equal(t, "https://www.bseindia.com/xml-data/att.pdf", ext.Link.Text)
}

func TestParsePageFreeTextFallback(t *testing.T) {
	html := `<html><body>
		<p>Announcement details follow.
Sub-Category: Press Release
Submitted to the exchange.</p>
	</body></html>`

	client, _ := newPageClient(html, nil)
	ext := client.ParsePage(context.Background(), "1003")

	assert.False(t, ext.Category.Found)
	assert.False(t, ext.Link.Found)
	require.True(t, ext.Subcategory.Found)
	assert.Equal(t, "Press Release", ext.Subcategory.Text)
}

func TestParsePageFetchFailure(t *testing.T) {
	client, _ := newPageClient("", apperrors.NewTransport("page", "status 500", fmt.Errorf("boom")))
	ext := client.ParsePage(context.Background(), "1004")

	assert.Equal(t, Extraction{}, ext)
	assert.False(t, ext.Complete())
}

func TestParsePageEmptyMarkup(t *testing.T) {
	client, _ := newPageClient("<html><body></body></html>", nil)
	ext := client.ParsePage(context.Background(), "1005")

	assert.Equal(t, Extraction{}, ext)
}

func TestResolveFilingID(t *testing.T) {
	html := `<html><body>
		<iframe src="https://www.bseindia.com/xml-data/corpfiling/AttachLive/ABC123-DEF456.xml"></iframe>
	</body></html>`

	client, _ := newPageClient(html, nil)
	id, ok := client.ResolveFilingID(context.Background(), "1006")
	require.True(t, ok)
	assert.Equal(t, "ABC123-DEF456", id)
}

func TestResolveFilingIDAbsent(t *testing.T) {
	client, _ := newPageClient("<html><body>No filing here</body></html>", nil)
	_, ok := client.ResolveFilingID(context.Background(), "1007")
	assert.False(t, ok)
}

func TestResolveFilingIDFetchFailure(t *testing.T) {
	client, _ := newPageClient("", apperrors.NewTransport("page", "status 404", nil))
	_, ok := client.ResolveFilingID(context.Background(), "1008")
	assert.False(t, ok)
}
