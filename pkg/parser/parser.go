// Package parser turns HTML into plain text lines suitable for indexing.
package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

type Parser struct{}

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"head": true, "svg": true, "iframe": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "td": true,
	"th": true, "tr": true, "ul": true, "title": true,
}

// ToText renders html as text with one line per block element. Runs of
// whitespace inside a line collapse to one space and empty lines are dropped.
func (p *Parser) ToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var sb strings.Builder
	writeText(&sb, doc.Selection)
	return normalizeLines(sb.String()), nil
}

// ArticleText extracts the main article of a page with readability and
// renders it with ToText. The title, when found, is the first line.
func (p *Parser) ArticleText(rawURL, html string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract article: %w", err)
	}

	body, err := p.ToText(article.Content)
	if err != nil {
		return "", err
	}
	title := normalizeLines(article.Title)
	switch {
	case title == "":
		return body, nil
	case body == "":
		return title, nil
	}
	return title + "\n" + body, nil
}

func writeText(sb *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			sb.WriteString(c.Text())
		case skipTags[name], name == "#comment":
		case name == "br":
			sb.WriteByte('\n')
		case blockTags[name]:
			sb.WriteByte('\n')
			writeText(sb, c)
			sb.WriteByte('\n')
		default:
			writeText(sb, c)
		}
	})
}

func normalizeLines(input string) string {
	var lines []string
	for _, line := range strings.Split(input, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}
