// Package sitemap renders sitemap.xml and robots.txt for the public site.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ranwtech/site/internal/articles"
)

const (
	xmlns      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	dateLayout = "2006-01-02"
)

type page struct {
	Path       string
	Priority   string
	ChangeFreq string
}

var staticPages = []page{
	{Path: "/", Priority: "1.0", ChangeFreq: "weekly"},
	{Path: "/privacy", Priority: "0.5", ChangeFreq: "monthly"},
	{Path: "/accessibility", Priority: "0.5", ChangeFreq: "monthly"},
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Build renders the sitemap: the static pages stamped with today's date, then one
// entry per public article dated by its last update. Public includes articles with no
// status at all (written before statuses existed), not only status "published", so
// every article the site serves is listed.
func Build(siteURL string, arts []*articles.Article, now time.Time) ([]byte, error) {
	base := strings.TrimRight(siteURL, "/")
	today := now.UTC().Format(dateLayout)
	set := urlSet{Xmlns: xmlns}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, entry{Loc: base + p.Path, LastMod: today, ChangeFreq: p.ChangeFreq, Priority: p.Priority})
	}
	for _, a := range arts {
		if !a.Public() || a.Slug == "" {
			continue
		}
		set.URLs = append(set.URLs, entry{
			Loc:        base + "/articles/" + url.PathEscape(a.Slug),
			LastMod:    lastMod(a, now).UTC().Format(dateLayout),
			ChangeFreq: "monthly",
			Priority:   "0.8",
		})
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func lastMod(a *articles.Article, now time.Time) time.Time {
	switch {
	case !a.UpdatedAt.IsZero():
		return a.UpdatedAt
	case !a.CreatedAt.IsZero():
		return a.CreatedAt
	}
	return now
}

// Robots allows everything except the admin area and points crawlers at the sitemap.
func Robots(siteURL string) string {
	base := strings.TrimRight(siteURL, "/")
	return "User-agent: *\nAllow: /\nDisallow: /admin\nDisallow: /api/admin\n\nSitemap: " + base + "/sitemap.xml\n"
}
