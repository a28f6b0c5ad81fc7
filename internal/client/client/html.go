package client

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// looksLikeHTML reports whether body is an HTML page, as returned by
// proxies and gateways in front of the API.
func looksLikeHTML(body []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(body))
	if len(head) > 64 {
		head = head[:64]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

// htmlSummary extracts a one-line description of an HTML error page.
func htmlSummary(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "server returned an HTML error page"
	}
	for _, sel := range []string{"title", "h1", "body"} {
		text := strings.Join(strings.Fields(doc.Find(sel).First().Text()), " ")
		if text != "" {
			if r := []rune(text); len(r) > 120 {
				text = string(r[:120])
			}
			return "server returned an HTML error page: " + text
		}
	}
	return "server returned an HTML error page"
}
