package scraper

import (
	"regexp"
	"strconv"
)

// IDMatcher pulls an auction ID out of a listing link.
type IDMatcher func(href string) (id string, ok bool)

var auctionIDPattern = regexp.MustCompile(`[a-z][0-9]+`)

// AuctionIDFromHref returns the first run of one lowercase letter followed by
// digits found anywhere in href, e.g. "x1234567890" in ".../auction/x1234567890".
func AuctionIDFromHref(href string) (string, bool) {
	return PatternMatcher(auctionIDPattern)(href)
}

// PatternMatcher builds an IDMatcher from re. When re has a capture group
// the first group is the ID, otherwise the leftmost whole match is.
func PatternMatcher(re *regexp.Regexp) IDMatcher {
	if re.NumSubexp() == 0 {
		return func(href string) (string, bool) {
			id := re.FindString(href)
			return id, id != ""
		}
	}
	return func(href string) (string, bool) {
		m := re.FindStringSubmatch(href)
		if len(m) < 2 || m[1] == "" {
			return "", false
		}
		return m[1], true
	}
}

// syntheticID stands in for listings without a recognisable link.
func syntheticID(index int) string {
	return "scraped_" + strconv.Itoa(index)
}
