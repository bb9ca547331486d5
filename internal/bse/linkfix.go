package bse

import (
	"regexp"
	"strings"
)

const (
	domainHost = "bseindia.com"
	origin     = "https://www.bseindia.com"
)

// The exchange sometimes emits attachment URLs with the site origin glued on
// twice; everything after the second host occurrence is the real path.
var doubledHostRe = regexp.MustCompile(`bseindia\.com(.*?)bseindia\.com(.+)`)

// RepairDocumentLink normalizes a raw attachment link into an absolute,
// non-duplicated URL. Pure string transform, idempotent for well-formed input.
func RepairDocumentLink(raw string) string {
	if raw == "" {
		return ""
	}

	if strings.Count(raw, domainHost) > 1 {
		if m := doubledHostRe.FindStringSubmatch(raw); m != nil {
			return origin + m[2]
		}
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		if strings.HasPrefix(raw, "/") {
			return origin + raw
		}
		return origin + "/" + raw
	}

	return raw
}
