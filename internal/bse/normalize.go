package bse

import (
	"regexp"
	"strings"

	"bseworker/helpers"
)

const (
	// DefaultCategory is the generic main category placeholder
	DefaultCategory = "General Announcement"
	// DefaultSubcategory is the generic subcategory placeholder
	DefaultSubcategory = "General"

	// Unmapped text shorter than this with at most four words passes
	// through title-cased instead of collapsing to the default.
	passthroughMaxLen   = 30
	passthroughMaxWords = 4
)

// categoryRule maps a lower-case substring to a canonical label
type categoryRule struct {
	key   string
	label string
}

// Evaluated top to bottom, first match wins. Order matters: the regulation
// check must run before the "general" check so that "General Announcement
// under Regulation 30" maps to the LODR label.
var categoryRules = []categoryRule{
	{"regulation 30", "Announcement under Regulation 30 (LODR)"},
	{"lodr", "Announcement under Regulation 30 (LODR)"},
	{"general", DefaultCategory},
	{"board meeting", "Board Meeting"},
	{"financial result", "Financial Results"},
	{"agm", "AGM/EGM"},
	{"annual general", "AGM/EGM"},
	{"egm", "AGM/EGM"},
	{"extraordinary", "AGM/EGM"},
	{"dividend", "Dividend"},
	{"investor", "Investor Presentation"},
	{"presentation", "Investor Presentation"},
}

// Subcategory rule table mirroring the exchange's own dropdown vocabulary.
// Evaluated top to bottom, first key found as a substring wins.
var subcategoryRules = []categoryRule{
	{"acquisition", "Acquisition"},
	{"agreement", "Agreement"},
	{"allotment of equity", "Allotment of Equity Shares"},
	{"allotment of warrant", "Allotment of Warrants"},
	{"award of order", "Award of Order / Receipt of Order"},
	{"receipt of order", "Award of Order / Receipt of Order"},
	{"buy back", "Buy back"},
	{"change in director", "Change in Directorate"},
	{"change in registered", "Change in Registered Office"},
	{"clarification of news", "Clarification of News Item"},
	{"clarification", "Clarification"},
	{"declaration of nav", "Declaration of NAV"},
	{"delisting", "Delisting"},
	{"fccb", "FCCBs"},
	{"joint venture", "Joint Venture"},
	{"open offer", "Open Offer"},
	{"press release", "Press Release / Media Release"},
	{"media release", "Press Release / Media Release"},
	{"sale of share", "Sale of shares"},
	{"strike", "Strike"},
	{"utilisation of fund", "Utilisation of Funds"},
	{"debt securit", "Debt Securities"},
	{"credit rating", "Credit Rating"},
	{"change of name", "Change of Name"},
	{"shareholding", "Shareholding"},
	{"investor meet", "Analyst / Investor Meet"},
	{"analyst", "Analyst / Investor Meet"},
	{"investor complaint", "Reg. 13(3) - Statement of Investor Complaints"},
	{"compliance certificate", "Reg. 7(3) – Compliance Certificate"},
	{"pcs certificate", "Reg. 40 (10) - PCS Certificate"},
	{"deviation", "Reg. 32 (1), (3) - Statement of Deviation & Variation"},
	{"disclosure under clause", "Disclosure under Clause 35A of the Listing Agreement"},
	{"nav declaration", "NAV Declaration"},
	{"appointment of director", "Appointment of Director"},
	{"appointment of chairman", "Appointment of Chairman"},
	{"appointment of managing director", "Appointment of Managing Director"},
	{"appointment of ceo", "Appointment of Chief Executive Officer (CEO)"},
	{"appointment of chief executive", "Appointment of Chief Executive Officer (CEO)"},
	{"appointment of cfo", "Appointment of Chief Financial Officer (CFO)"},
	{"appointment of chief financial", "Appointment of Chief Financial Officer (CFO)"},
	{"acquire", "Acquisition"},
	{"merger", "Acquisition"},
	{"purchase of", "Acquisition"},
	{"buying", "Acquisition"},
	{"acquired", "Acquisition"},
	{"lodr-acquisition", "Acquisition"},
	{"regulation 30-acquisition", "Acquisition"},
}

// Acquisition synonyms consulted only after the rule table misses
var acquisitionKeywords = []string{"acquisition", "acquire", "merger", "take over", "buyout"}

var (
	lodrAcquisitionRe = regexp.MustCompile(`(?i)(?:regulation\s+30|lodr)[-\s]*acquisition`)
	headlineSegmentRe = regexp.MustCompile(`(?i)(?:regulation\s+30|lodr).*?[-:]\s*([^.\n]+)`)
)

// NormalizeCategory maps arbitrary category text to a canonical main
// category. Total: every input, including empty, yields a label.
func NormalizeCategory(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultCategory
	}

	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		if strings.Contains(lower, rule.key) {
			return rule.label
		}
	}

	return helpers.TitleCase(text)
}

// NormalizeSubcategory maps arbitrary subcategory text to a canonical
// subcategory. Total and deterministic: every input yields exactly one label.
func NormalizeSubcategory(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultSubcategory
	}

	lower := strings.ToLower(text)
	for _, rule := range subcategoryRules {
		if strings.Contains(lower, rule.key) {
			return rule.label
		}
	}

	for _, keyword := range acquisitionKeywords {
		if strings.Contains(lower, keyword) {
			return "Acquisition"
		}
	}

	// Regulation 30 subjects usually carry the real subcategory after the
	// final hyphen; extract it and normalize the remainder.
	if strings.Contains(lower, "regulation 30") || strings.Contains(lower, "lodr") {
		if segment := segmentAfterLastHyphen(text); segment != "" {
			return NormalizeSubcategory(segment)
		}
	}

	if len(lower) < passthroughMaxLen && len(strings.Fields(lower)) <= passthroughMaxWords {
		return helpers.TitleCase(text)
	}

	return DefaultSubcategory
}

// segmentAfterLastHyphen returns the text after the last hyphen, cut at the
// first period or end of line, or empty if there is no usable segment
func segmentAfterLastHyphen(text string) string {
	i := strings.LastIndex(text, "-")
	if i < 0 || i+1 >= len(text) {
		return ""
	}

	segment := text[i+1:]
	if j := strings.IndexAny(segment, ".\n"); j >= 0 {
		segment = segment[:j]
	}
	return strings.TrimSpace(segment)
}

// SubcategoryFromHeadline attempts pattern extraction directly from the
// announcement headline. Only consulted when no subcategory was resolved from
// any other source; both patterns require a regulation reference.
func SubcategoryFromHeadline(headline string) (string, bool) {
	headline = strings.TrimSpace(headline)
	if headline == "" {
		return "", false
	}

	if lodrAcquisitionRe.MatchString(headline) {
		return "Acquisition", true
	}

	if m := headlineSegmentRe.FindStringSubmatch(headline); m != nil {
		segment := strings.TrimSpace(m[1])
		if segment != "" && len(segment) < passthroughMaxLen {
			return segment, true
		}
	}

	return "", false
}
