package scraper

import (
	"net/url"
	"strings"
)

// DefaultSearchEndpoint is the auction search page queried by default.
const DefaultSearchEndpoint = "https://auctions.yahoo.co.jp/search/search"

// SearchURL builds the search page URL for keyword. The keyword is carried
// in both the p and va parameters, percent-encoded with %20 for spaces.
func SearchURL(endpoint, keyword string) string {
	enc := escapeComponent(keyword)
	return endpoint + "?p=" + enc + "&va=" + enc
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
