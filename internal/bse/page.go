package bse

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The detail page references the XBRL filing by a storage filename
var filingIDRe = regexp.MustCompile(`AttachLive/([a-zA-Z0-9\-]+)\.xml`)

// Legacy markup carried the labels in spans with a handful of id schemes
var (
	categorySelectors = []string{
		"span[id*='lblCat']",
		"span[id*='Category']",
		".announcement-category",
		"#ctl00_ContentPlaceHolder1_lblCategory",
	}

	subcategorySelectors = []string{
		"span[id*='SubCat']",
		"span[id*='SubCategory']",
		".announcement-subcategory",
		"#ctl00_ContentPlaceHolder1_lblSubCategory",
		"select[id*='ddlSubCategory'] option[selected]",
	}
)

// Free-text fallback patterns for the subcategory, applied to the page's
// visible text in order
var subcategoryTextRes = []*regexp.Regexp{
	regexp.MustCompile(`Sub[- ]?[Cc]ategory\s*:\s*([^\n]+)`),
	regexp.MustCompile(`Subject\s*:\s*([^\n]+)`),
	regexp.MustCompile(`Type\s*:\s*([^\n]+)`),
	regexp.MustCompile(`Acquisition\s*:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)Regulation\s+30[^\n-]*-\s*([^.\n]+)`),
	regexp.MustCompile(`(?i)LODR[^\n-]*-\s*([^.\n]+)`),
}

func (c *Client) detailPageURL(newsID string) string {
	return c.baseURL + "/corporates/anndet_new.aspx?newsid=" + newsID
}

// ParsePage fetches the rendered detail page for an announcement and extracts
// the document link, category and subcategory from its markup. A transport or
// parse failure is logged and yields an all-absent result, never an error.
func (c *Client) ParsePage(ctx context.Context, newsID string) Extraction {
	data, err := c.fetch(ctx, c.detailPageURL(newsID))
	if err != nil {
		c.log.Warn().Err(err).Str("news_id", newsID).Msg("Failed to fetch announcement page")
		return Extraction{}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		c.log.Error().Err(err).Str("news_id", newsID).Msg("Failed to parse announcement page")
		return Extraction{}
	}

	return Extraction{
		Link:        extractPageLink(doc),
		Category:    extractPageCategory(doc),
		Subcategory: extractPageSubcategory(doc),
	}
}

// ResolveFilingID fetches the detail page and searches its raw markup for the
// XBRL storage filename, returning the embedded identifier token
func (c *Client) ResolveFilingID(ctx context.Context, newsID string) (string, bool) {
	data, err := c.fetch(ctx, c.detailPageURL(newsID))
	if err != nil {
		c.log.Warn().Err(err).Str("news_id", newsID).Msg("Failed to fetch page for filing ID")
		return "", false
	}

	if m := filingIDRe.FindSubmatch(data); m != nil {
		return string(m[1]), true
	}
	return "", false
}

// extractPageLink returns the first hyperlink whose target references a
// document file, repaired to an absolute URL
func extractPageLink(doc *goquery.Document) Field {
	var link string
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(strings.ToLower(href), ".pdf") {
			link = RepairDocumentLink(strings.TrimSpace(href))
			return false
		}
		return true
	})
	return FoundField(link)
}

func extractPageCategory(doc *goquery.Document) Field {
	category, _ := extractHiddenFields(doc)
	if category.Found {
		return category
	}
	return extractBySelectors(doc, categorySelectors)
}

func extractPageSubcategory(doc *goquery.Document) Field {
	_, subcategory := extractHiddenFields(doc)
	if subcategory.Found {
		return subcategory
	}

	if f := extractFromDropdown(doc); f.Found {
		return f
	}

	if f := extractBySelectors(doc, subcategorySelectors); f.Found {
		return f
	}

	return extractSubcategoryFromText(doc.Text())
}

// extractHiddenFields scans hidden form fields whose name references the
// category. Names containing "sub" are subcategory; plain "category" names
// are the main category.
func extractHiddenFields(doc *goquery.Document) (category, subcategory Field) {
	doc.Find("input[type='hidden']").Each(func(i int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		value, _ := s.Attr("value")
		name = strings.ToLower(name)
		value = strings.TrimSpace(value)
		if value == "" || !strings.Contains(name, "category") {
			return
		}

		if strings.Contains(name, "sub") {
			if !subcategory.Found {
				subcategory = FoundField(value)
			}
		} else if !category.Found {
			category = FoundField(value)
		}
	})
	return category, subcategory
}

// extractFromDropdown returns the selected option of a subcategory selection
// control, trying an id match first and any category-ish select second
func extractFromDropdown(doc *goquery.Document) Field {
	var value Field

	doc.Find("select").EachWithBreak(func(i int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		if !strings.Contains(strings.ToLower(id), "subcategory") {
			return true
		}
		value = selectedOption(s)
		return !value.Found
	})
	if value.Found {
		return value
	}

	doc.Find("select").EachWithBreak(func(i int, s *goquery.Selection) bool {
		html, err := goquery.OuterHtml(s)
		if err != nil || !strings.Contains(strings.ToLower(html), "category") {
			return true
		}
		value = selectedOption(s)
		return !value.Found
	})
	return value
}

func selectedOption(sel *goquery.Selection) Field {
	return FoundField(sel.Find("option[selected]").First().Text())
}

func extractBySelectors(doc *goquery.Document, selectors []string) Field {
	for _, selector := range selectors {
		var value Field
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			value = FoundField(s.Text())
			return !value.Found
		})
		if value.Found {
			return value
		}
	}
	return Field{}
}

func extractSubcategoryFromText(text string) Field {
	for _, re := range subcategoryTextRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if f := FoundField(m[1]); f.Found {
				return f
			}
		}
	}
	return Field{}
}
