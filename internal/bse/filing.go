package bse

import (
	"bytes"
	"context"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Alternative field paths tolerate the exchange's XBRL schema drift: older
// filings use the in-bse-co namespace, newer ones bse-coi, and some carry no
// namespace at all. First path yielding non-empty text wins.
var (
	filingLinkPaths = []string{
		"//in-bse-co:AttachmentURL",
		"//AttachmentURL",
	}

	filingCategoryPaths = []string{
		"//in-bse-co:CategoryOfAnnouncement",
		"//in-bse-co:TypeOfAnnouncement",
		"//CategoryOfAnnouncement",
		"//TypeOfAnnouncement",
		"//xbrl:CategoryOfAnnouncement",
		"//bse-coi:CategoryName",
		"//AnnouncementType",
	}

	filingSubcategoryPaths = []string{
		"//in-bse-co:SubjectOfAnnouncement",
		"//in-bse-co:SubCategoryOfAnnouncement",
		"//SubjectOfAnnouncement",
		"//SubCategoryOfAnnouncement",
		"//xbrl:SubCategoryOfAnnouncement",
		"//bse-coi:SubCategoryName",
		"//in-bse-co:AcquisitionDetails",
		"//AcquisitionOrDisposalAnnouncement",
	}
)

func (c *Client) filingURL(filingID string) string {
	return c.baseURL + "/xml-data/corpfiling/AttachLive/" + filingID + ".xml"
}

// ParseFiling fetches the XBRL filing document and extracts the document
// link, category and subcategory via the prioritized field paths. The three
// extractions are independent; transport or parse failures are logged and
// yield an all-absent result, never an error.
func (c *Client) ParseFiling(ctx context.Context, filingID string) Extraction {
	if filingID == "" {
		return Extraction{}
	}

	data, err := c.fetch(ctx, c.filingURL(filingID))
	if err != nil {
		c.log.Warn().Err(err).Str("filing_id", filingID).Msg("Failed to fetch XBRL filing")
		return Extraction{}
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		c.log.Error().Err(err).Str("filing_id", filingID).Msg("Failed to parse XBRL filing")
		return Extraction{}
	}

	var link Field
	if raw := queryFirstText(doc, filingLinkPaths); raw != "" {
		link = FoundField(RepairDocumentLink(raw))
	}

	category := FoundField(queryFirstText(doc, filingCategoryPaths))

	var subcategory Field
	if subject := queryFirstText(doc, filingSubcategoryPaths); subject != "" {
		subcategory = FoundField(subjectToSubcategory(subject))
	}

	return Extraction{
		Link:        link,
		Category:    category,
		Subcategory: subcategory,
	}
}

// queryFirstText runs the alternative paths in order and returns the first
// non-empty element text. Paths that fail to compile are skipped.
func queryFirstText(doc *xmlquery.Node, paths []string) string {
	for _, path := range paths {
		nodes, err := xmlquery.QueryAll(doc, path)
		if err != nil {
			continue
		}
		for _, node := range nodes {
			if text := strings.TrimSpace(node.InnerText()); text != "" {
				return text
			}
		}
	}
	return ""
}

// subjectToSubcategory strips a regulation prefix from a hyphenated subject:
// "Regulation 30 (LODR) - Acquisition" carries the subcategory after the
// hyphen, while "Board Meeting - Outcome" is a subject in its own right.
func subjectToSubcategory(subject string) string {
	if !strings.Contains(subject, "-") {
		return subject
	}

	parts := strings.SplitN(subject, "-", 2)
	if strings.Contains(parts[0], "Regulation") || strings.Contains(parts[0], "LODR") {
		return strings.TrimSpace(parts[1])
	}
	return subject
}
