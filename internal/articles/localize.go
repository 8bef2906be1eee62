package articles

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"github.com/ranwtech/site/internal/i18n"
)

// ExcerptRunes is the length of list-card excerpts.
const ExcerptRunes = 160

var (
	stripPolicy = bluemonday.StrictPolicy()
	blockEnd    = regexp.MustCompile(`(?i)(<br\s*/?>|</(p|div|li|h[1-6]|blockquote|tr)>)`)

	mdConverter = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
)

// PlainText strips markup from an HTML body and collapses whitespace.
func PlainText(body string) string {
	if body == "" {
		return ""
	}
	spaced := blockEnd.ReplaceAllString(body, "$1 ")
	text := html.UnescapeString(stripPolicy.Sanitize(spaced))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt cuts s to ExcerptRunes runes, marking the cut with an ellipsis.
func Excerpt(s string) string {
	r := []rune(s)
	if len(r) <= ExcerptRunes {
		return s
	}
	return strings.TrimSpace(string(r[:ExcerptRunes])) + "…"
}

func pick(lang i18n.Lang, he, en string) string {
	if lang == i18n.English {
		return firstNonEmpty(en, he)
	}
	return firstNonEmpty(he, en)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Localize renders a in lang, falling back to the other language field by field.
// The title falls back to the slug as a last resort.
func Localize(a *Article, lang i18n.Lang) Localized {
	body := pick(lang, a.BodyHe, a.BodyEn)
	plain := PlainText(body)
	subtitle := pick(lang, a.SubtitleHe, a.SubtitleEn)
	return Localized{
		ID:        a.ID,
		Slug:      firstNonEmpty(a.Slug, a.ID),
		Lang:      string(lang),
		Dir:       i18n.Dir(lang),
		Title:     firstNonEmpty(pick(lang, a.TitleHe, a.TitleEn), a.Slug),
		Subtitle:  subtitle,
		Body:      body,
		PlainText: plain,
		Excerpt:   Excerpt(firstNonEmpty(subtitle, plain)),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// Markdown exports the article in lang as a Markdown document headed by its title.
func Markdown(a *Article, lang i18n.Lang) (string, error) {
	loc := Localize(a, lang)
	md, err := mdConverter.ConvertString(loc.Body)
	if err != nil {
		return "", fmt.Errorf("convert article %s: %w", a.ID, err)
	}
	var b strings.Builder
	b.WriteString("# " + loc.Title + "\n\n")
	if loc.Subtitle != "" {
		b.WriteString("_" + loc.Subtitle + "_\n\n")
	}
	b.WriteString(strings.TrimSpace(md))
	b.WriteString("\n")
	return b.String(), nil
}
