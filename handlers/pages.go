package handlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/ranwtech/site/internal/articles"
	"github.com/ranwtech/site/internal/i18n"
	"github.com/ranwtech/site/internal/siteconfig"
	"github.com/ranwtech/site/internal/sitemap"
	"github.com/ranwtech/site/pkg/logger"
	"github.com/ranwtech/site/pkg/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

var articleTmpl = template.Must(template.ParseFS(templateFS, "templates/article.html"))

// PagesHandler renders crawler-facing pages: article HTML, sitemap and robots.txt.
type PagesHandler struct {
	articles *articles.Service
	config   *siteconfig.Service
	siteURL  string
	policy   *bluemonday.Policy
	now      func() time.Time
}

func NewPagesHandler(a *articles.Service, cfg *siteconfig.Service, siteURL string) *PagesHandler {
	return &PagesHandler{articles: a, config: cfg, siteURL: siteURL, policy: bluemonday.UGCPolicy(), now: time.Now}
}

func (h *PagesHandler) Register(r gin.IRoutes) {
	r.GET("/articles/:slug", h.Article)
	r.GET("/sitemap.xml", h.Sitemap)
	r.GET("/robots.txt", h.Robots)
}

type articlePage struct {
	Lang         string
	Dir          string
	PageTitle    string
	Description  string
	Keywords     string
	Canonical    string
	AltLang      string
	AltURL       string
	BackLabel    string
	NotFoundText string
	Article      *articles.Localized
	Body         template.HTML
	Published    string
	PublishedISO string
}

func (h *PagesHandler) articleURL(slug string, lang i18n.Lang) string {
	if h.siteURL == "" {
		return ""
	}
	return h.siteURL + "/articles/" + url.PathEscape(slug) + "?lang=" + string(lang)
}

// Article renders a published article as a standalone HTML document.
func (h *PagesHandler) Article(c *gin.Context) {
	lang := requestLang(c)
	ctx := c.Request.Context()
	page := articlePage{
		Lang:      string(lang),
		Dir:       i18n.Dir(lang),
		BackLabel: i18n.T(lang, i18n.MsgBackToArticles),
	}
	seo, err := h.config.SEO(ctx)
	if err != nil {
		logger.Warnf("article page: load seo: %v", err)
	}
	site := siteconfig.SEOFor(seo, lang)
	page.Keywords = site.Keywords

	status := http.StatusOK
	a, err := h.articles.GetPublishedBySlug(ctx, c.Param("slug"))
	switch {
	case errors.Is(err, articles.ErrNotFound):
		status = http.StatusNotFound
		page.PageTitle = i18n.T(lang, i18n.MsgArticleNotFound)
		page.NotFoundText = i18n.T(lang, i18n.MsgArticleNotFoundLd)
	case err != nil:
		logger.Errorf("article page %q: %v", c.Param("slug"), err)
		c.String(http.StatusInternalServerError, i18n.T(lang, i18n.MsgServerError))
		return
	default:
		loc := articles.Localize(a, lang)
		page.Article = &loc
		page.Body = template.HTML(h.policy.Sanitize(loc.Body))
		page.PageTitle = loc.Title
		if site.Title != "" {
			page.PageTitle = loc.Title + " | " + site.Title
		}
		page.Description = loc.Excerpt
		alt := i18n.English
		if lang == i18n.English {
			alt = i18n.Hebrew
		}
		page.Canonical = h.articleURL(loc.Slug, lang)
		page.AltLang = string(alt)
		page.AltURL = h.articleURL(loc.Slug, alt)
		if !loc.CreatedAt.IsZero() {
			page.PublishedISO = loc.CreatedAt.Format("2006-01-02")
			page.Published = loc.CreatedAt.Format("02/01/2006")
		}
		metrics.ArticlesServed.WithLabelValues(string(lang)).Inc()
	}

	var buf bytes.Buffer
	if err := articleTmpl.Execute(&buf, page); err != nil {
		logger.Errorf("render article page: %v", err)
		c.String(http.StatusInternalServerError, i18n.T(lang, i18n.MsgServerError))
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h *PagesHandler) Sitemap(c *gin.Context) {
	list, err := h.articles.ListPublished(c.Request.Context())
	if err != nil {
		logger.Errorf("sitemap: list articles: %v", err)
		c.String(http.StatusInternalServerError, "sitemap unavailable")
		return
	}
	out, err := sitemap.Build(h.siteURL, list, h.now())
	if err != nil {
		logger.Errorf("sitemap: build: %v", err)
		c.String(http.StatusInternalServerError, "sitemap unavailable")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", out)
}

func (h *PagesHandler) Robots(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(sitemap.Robots(h.siteURL)))
}
