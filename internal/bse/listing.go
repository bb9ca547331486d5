package bse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "bseworker/pkg/errors"
)

// The listing API pages its results; cap the walk so a bad row count cannot
// spin us forever.
const maxListingPages = 50

type listingRow struct {
	NewsID    string      `json:"NEWSID"`
	ScripCode json.Number `json:"SCRIP_CD"`
	ShortName string      `json:"SSHORTNAME"`
	LongName  string      `json:"SLONGNAME"`
	Headline  string      `json:"HEADLINE"`
	Subject   string      `json:"NEWSSUB"`
	NewsDate  string      `json:"NEWS_DT"`
}

type listingResponse struct {
	Table  []listingRow `json:"Table"`
	Table1 []struct {
		RowCount int `json:"ROWCNT"`
	} `json:"Table1"`
}

var newsDateLayouts = []string{
	"2006-01-02T15:04:05.00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (c *Client) listingURL(day time.Time, page int) string {
	date := day.Format("20060102")
	return fmt.Sprintf(
		"%s/BseIndiaAPI/api/AnnGetData/w?pageno=%d&strCat=-1&strPrevDate=%s&strScrip=&strSearch=P&strToDate=%s&strType=C&subcategory=-1",
		c.apiURL, page, date, date,
	)
}

// FetchAnnouncements retrieves the day's corporate announcements from the
// listing API, walking its pages until the reported row count is reached.
// This is the one upstream call whose failure is fatal to the run.
func (c *Client) FetchAnnouncements(ctx context.Context, day time.Time) ([]Announcement, error) {
	var announcements []Announcement
	total := -1

	for page := 1; page <= maxListingPages; page++ {
		data, err := c.fetch(ctx, c.listingURL(day, page))
		if err != nil {
			return nil, apperrors.NewListing(fmt.Sprintf("failed to fetch announcement list page %d", page), err)
		}

		var resp listingResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, apperrors.NewListing(fmt.Sprintf("invalid announcement list response on page %d", page), err)
		}

		if total < 0 && len(resp.Table1) > 0 {
			total = resp.Table1[0].RowCount
		}

		if len(resp.Table) == 0 {
			break
		}

		for _, row := range resp.Table {
			announcements = append(announcements, row.toAnnouncement())
		}

		if total >= 0 && len(announcements) >= total {
			break
		}
	}

	c.log.Info().Int("count", len(announcements)).Str("date", day.Format("2006-01-02")).Msg("Fetched announcements")
	return announcements, nil
}

func (r listingRow) toAnnouncement() Announcement {
	headline := strings.TrimSpace(r.Headline)
	if headline == "" {
		headline = strings.TrimSpace(r.Subject)
	}
	if headline == "" {
		headline = "No headline"
	}

	var newsDate time.Time
	for _, layout := range newsDateLayouts {
		if t, err := time.Parse(layout, r.NewsDate); err == nil {
			newsDate = t
			break
		}
	}

	return Announcement{
		NewsID:    strings.TrimSpace(r.NewsID),
		ScripCode: strings.TrimSpace(r.ScripCode.String()),
		ShortName: strings.TrimSpace(r.ShortName),
		LongName:  strings.TrimSpace(r.LongName),
		Headline:  headline,
		NewsDate:  newsDate,
	}
}
