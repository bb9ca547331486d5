package bse

import (
	"context"
	"strings"
)

// The category-side marker some legacy pages carry for an unclassified
// announcement; treated like the generic default during merging.
const uncategorized = "Uncategorized"

// Resolve sequences the extraction pipeline for one announcement: detail
// page first, then (if the page result is incomplete or generic) the filing
// referenced by the page, merged under page precedence, normalized, with the
// headline as a last resort for the subcategory.
//
// If the page and the filing disagree on specific, non-default values the
// page wins; the filing only fills gaps and replaces generic placeholders.
func (c *Client) Resolve(ctx context.Context, ann Announcement) Row {
	ext := c.ParsePage(ctx, ann.NewsID)

	if needsFiling(ext) {
		if filingID, ok := c.ResolveFilingID(ctx, ann.NewsID); ok {
			ext = mergeExtractions(ext, c.ParseFiling(ctx, filingID))
		}
	}

	category := DefaultCategory
	if ext.Category.Found {
		category = NormalizeCategory(ext.Category.Text)
	}

	subcategory := DefaultSubcategory
	if ext.Subcategory.Found {
		subcategory = NormalizeSubcategory(ext.Subcategory.Text)
	}

	if subcategory == DefaultSubcategory {
		if segment, ok := SubcategoryFromHeadline(ann.Headline); ok {
			subcategory = NormalizeSubcategory(segment)
		}
	}

	var date string
	if !ann.NewsDate.IsZero() {
		date = ann.NewsDate.Format("02/01/06")
	}

	return Row{
		ScripCode:   ann.ScripCode,
		StockName:   ann.StockName(),
		Headline:    strings.TrimSpace(ann.Headline),
		Category:    category,
		Subcategory: subcategory,
		PDFLink:     ext.Link.Text,
		Date:        date,
		NewsID:      ann.NewsID,
	}
}

// needsFiling reports whether the page result warrants the filing lookup:
// any field missing, or a category/subcategory stuck on the generic default
func needsFiling(ext Extraction) bool {
	if !ext.Complete() {
		return true
	}
	return ext.Category.Text == DefaultCategory || ext.Subcategory.Text == DefaultSubcategory
}

// mergeExtractions merges the filing result into the page result. A field
// already present from the page is kept unless it is itself a generic
// placeholder, in which case the filing-derived value overrides it.
func mergeExtractions(page, filing Extraction) Extraction {
	merged := page

	if !merged.Link.Found && filing.Link.Found {
		merged.Link = filing.Link
	}

	if filing.Category.Found && (!merged.Category.Found ||
		merged.Category.Text == uncategorized ||
		merged.Category.Text == DefaultCategory) {
		merged.Category = filing.Category
	}

	if filing.Subcategory.Found && (!merged.Subcategory.Found ||
		merged.Subcategory.Text == DefaultSubcategory) {
		merged.Subcategory = filing.Subcategory
	}

	return merged
}
