package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/template"

	"github.com/Rsm-Microstate/team-dev/internal/scraper"
)

// Response is the wire shape of a search result. Total is the untruncated
// listing count rendered as a decimal string.
type Response struct {
	Items []scraper.Listing `json:"items"`
	Total string            `json:"total"`
}

// NewResponse converts a result set to its wire shape. Items is never nil so
// it encodes as [] rather than null.
func NewResponse(rs scraper.ResultSet) Response {
	items := rs.Items
	if items == nil {
		items = []scraper.Listing{}
	}
	return Response{Items: items, Total: strconv.Itoa(rs.Total)}
}

// WriteJSON writes the result set to w in its wire shape.
func WriteJSON(w io.Writer, rs scraper.ResultSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewResponse(rs)); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

const textTmpl = `Search: {{.Keyword}}
Found:  {{.Total}} listings (showing {{len .Items}})
{{- range $i, $l := .Items}}
{{printf "%3d" (inc $i)}}. [{{$l.AuctionID}}] {{$l.Title}}
     price: {{if $l.CurrentPrice}}¥{{$l.CurrentPrice}}{{else}}-{{end}}
{{- if $l.Image}}
     image: {{$l.Image}}
{{- end}}
{{- else}}
  No listings found.
{{- end}}
`

var textTemplate = template.Must(template.New("textReport").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(textTmpl))

// WriteText writes a human-readable listing table to w.
func WriteText(w io.Writer, keyword string, rs scraper.ResultSet) error {
	data := struct {
		Keyword string
		scraper.ResultSet
	}{keyword, rs}

	if err := textTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
