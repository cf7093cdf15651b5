// Package extract pulls values out of response bodies for display.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// maxHTMLBodyBytes bounds how much of a body is parsed as HTML.
const maxHTMLBodyBytes = 1 << 20

// JSONPath returns the value at path in a JSON body using gjson syntax.
func JSONPath(body []byte, path string) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	res := gjson.GetBytes(body, path)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// CSS returns the trimmed text of every node matching selector.
func CSS(body []byte, selector string) ([]string, error) {
	doc, err := parseHTML(body)
	if err != nil {
		return nil, err
	}
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out, nil
}

// Title returns og:title, falling back to the <title> element.
func Title(body []byte) (string, error) {
	doc, err := parseHTML(body)
	if err != nil {
		return "", err
	}
	if node := doc.Find(`meta[property="og:title"]`).First(); node.Length() > 0 {
		if val, ok := node.Attr("content"); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val), nil
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text()), nil
}

func parseHTML(body []byte) (*goquery.Document, error) {
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
