package markdown

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var (
	imgLineRe  = regexp.MustCompile(`!\[[^\]]*\]\([^\)]+\)`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// boilerplate class/id keywords stripped before conversion
var noiseKeywords = []string{
	"cookie", "consent", "banner", "navbar", "nav-", "menu-",
	"pagination", "share", "signup", "signin", "login",
	"ad-", "advert", "promo", "modal", "popup", "dialog",
	"breadcrumb", "sidebar",
}

// ConvertHTMLToMarkdown strips boilerplate from an HTML document and
// converts the main content to markdown.
func ConvertHTMLToMarkdown(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var content *goquery.Selection
	for _, sel := range []string{"main", "[role=\"main\"]", "#content", "#main"} {
		if doc.Find(sel).Length() > 0 {
			content = doc.Find(sel).First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	content.Find("script, style, noscript, nav, header, footer, aside, form, iframe, svg, button, input").Each(
		func(_ int, s *goquery.Selection) { s.Remove() })

	content.Find("[class], [id]").Each(func(_ int, sel *goquery.Selection) {
		classVal, _ := sel.Attr("class")
		idVal, _ := sel.Attr("id")
		lower := strings.ToLower(classVal + " " + idVal)
		for _, kw := range noiseKeywords {
			if strings.Contains(lower, kw) {
				sel.Remove()
				break
			}
		}
	})

	body, err := content.Html()
	if err != nil {
		return ""
	}

	conv := md.NewConverter("", true, nil)
	out, err := conv.ConvertString(body)
	if err != nil {
		return ""
	}

	return Clean(out)
}

// Title returns the document title of an HTML page, if any.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// Clean removes markdown-level noise: pure image lines and runs of blank
// lines.
func Clean(mdText string) string {
	lines := strings.Split(mdText, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		line := strings.TrimSpace(l)
		if line == "" {
			continue
		}
		if imgLineRe.MatchString(line) && strings.TrimSpace(imgLineRe.ReplaceAllString(line, "")) == "" {
			continue
		}
		out = append(out, line)
	}
	cleaned := strings.Join(out, "\n")
	cleaned = blankRunRe.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
