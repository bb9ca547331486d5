package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"bseworker/config"
	"bseworker/internal/bse"
	"bseworker/services/cache"
	"bseworker/services/sink"
	"bseworker/services/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testListingJSON = `{
	"Table": [
		{"NEWSID": "news-1", "SCRIP_CD": 500325, "SSHORTNAME": "RIL", "SLONGNAME": "Reliance Industries Ltd", "HEADLINE": "Board Meeting Intimation", "NEWSSUB": "", "NEWS_DT": "2026-08-21T09:15:00.00"},
		{"NEWSID": "news-2", "SCRIP_CD": 532540, "SSHORTNAME": "TCS", "SLONGNAME": "", "HEADLINE": "Regulation 30 - Acquisition of XYZ Ltd", "NEWSSUB": "", "NEWS_DT": "2026-08-21T10:30:00.00"}
	],
	"Table1": [{"ROWCNT": 2}]
}`

const testDetailPage1 = `<!DOCTYPE html>
<html>
<body>
	<input type="hidden" name="ctl00$hdnCategory" value="Board Meeting" />
	<input type="hidden" name="ctl00$hdnSubCategory" value="Outcome of Board Meeting" />
	<a href="/xml-data/corpfiling/AttachHis/outcome.pdf">Download PDF</a>
</body>
</html>`

const testDetailPage2 = `<!DOCTYPE html>
<html>
<body>
	<iframe src="/xml-data/corpfiling/AttachLive/FIL-2026-01.xml"></iframe>
</body>
</html>`

const testFilingXML = `<?xml version="1.0" encoding="UTF-8"?>
<xbrl xmlns:in-bse-co="http://www.bseindia.com/xbrl/in-bse-co">
	<in-bse-co:CategoryOfAnnouncement>Company Update</in-bse-co:CategoryOfAnnouncement>
	<in-bse-co:SubjectOfAnnouncement>Regulation 30 (LODR) - Acquisition</in-bse-co:SubjectOfAnnouncement>
	<in-bse-co:AttachmentURL>/xml-data/corpfiling/AttachLive/fil-2026-01.pdf</in-bse-co:AttachmentURL>
</xbrl>`

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache map[string][]byte
}

// Ensure MockCacheService implements cache.CacheService
var _ cache.CacheService = (*MockCacheService)(nil)

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, errors.New("cache miss")
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

func newTestServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/BseIndiaAPI/api/AnnGetData/w", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageno") != "1" {
			fmt.Fprint(w, `{"Table": [], "Table1": []}`)
			return
		}
		fmt.Fprint(w, testListingJSON)
	})
	mux.HandleFunc("/corporates/anndet_new.aspx", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("newsid") {
		case "news-1":
			fmt.Fprint(w, testDetailPage1)
		case "news-2":
			fmt.Fprint(w, testDetailPage2)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/xml-data/corpfiling/AttachLive/FIL-2026-01.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testFilingXML)
	})
	return httptest.NewServer(mux)
}

func TestEndToEndScrape(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	cfg := config.Config{
		BaseURL:        server.URL,
		APIURL:         server.URL,
		RequestTimeout: 5 * time.Second,
		RequestDelay:   0,
		Concurrency:    2,
	}

	cacheSvc := &MockCacheService{cache: make(map[string][]byte)}
	client := bse.NewClient(cfg, cacheSvc)

	ctx := context.Background()
	day := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)

	announcements, err := client.FetchAnnouncements(ctx, day)
	require.NoError(t, err)
	require.Len(t, announcements, 2)

	announcements = worker.FilterByDay(announcements, day)
	require.Len(t, announcements, 2)

	dir := t.TempDir()
	csvSink, err := sink.NewCSVSink(dir, day)
	require.NoError(t, err)

	w := worker.NewWorker(client, csvSink, nil, cfg.Concurrency)
	written, err := w.Run(ctx, announcements)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	require.NoError(t, csvSink.Close())

	f, err := os.Open(csvSink.Path())
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	// First announcement resolved entirely from the detail page
	first := records[1]
	assert.Equal(t, "500325", first[0])
	assert.Equal(t, "Reliance Industries Ltd", first[1])
	assert.Equal(t, "Board Meeting", first[3])
	assert.Equal(t, "Outcome Of Board Meeting", first[4])
	assert.True(t, strings.HasSuffix(first[5], "/xml-data/corpfiling/AttachHis/outcome.pdf"))
	assert.Equal(t, "21/08/26", first[6])

	// Second announcement needed the XBRL filing
	second := records[2]
	assert.Equal(t, "532540", second[0])
	assert.Equal(t, "TCS", second[1])
	assert.Equal(t, "Company Update", second[3])
	assert.Equal(t, "Acquisition", second[4])
	assert.True(t, strings.HasSuffix(second[5], "/xml-data/corpfiling/AttachLive/fil-2026-01.pdf"))
}
