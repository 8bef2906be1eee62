package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ranwtech/site/internal/articles"
	"github.com/ranwtech/site/internal/i18n"
	"github.com/ranwtech/site/internal/leads"
	"github.com/ranwtech/site/internal/siteconfig"
	"github.com/ranwtech/site/pkg/metrics"
)

// PublicHandler serves the JSON API used by the marketing front end.
type PublicHandler struct {
	articles *articles.Service
	config   *siteconfig.Service
	leads    *leads.Service
}

func NewPublicHandler(a *articles.Service, cfg *siteconfig.Service, l *leads.Service) *PublicHandler {
	return &PublicHandler{articles: a, config: cfg, leads: l}
}

// Register mounts the read endpoints; the contact form is mounted separately so it can
// carry its own rate limit.
func (h *PublicHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/articles", h.ListArticles)
	rg.GET("/articles/:slug", h.GetArticle)
	rg.GET("/config", h.Config)
	rg.GET("/i18n", h.Messages)
}

func (h *PublicHandler) RegisterContact(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/leads", append(mw, h.SubmitLead)...)
}

func (h *PublicHandler) ListArticles(c *gin.Context) {
	lang := requestLang(c)
	list, err := h.articles.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, lang, err)
		return
	}
	out := make([]articles.Localized, 0, len(list))
	for _, a := range list {
		loc := articles.Localize(a, lang)
		loc.Body = ""
		out = append(out, loc)
	}
	c.JSON(http.StatusOK, gin.H{"lang": lang, "dir": i18n.Dir(lang), "articles": out})
}

func (h *PublicHandler) GetArticle(c *gin.Context) {
	lang := requestLang(c)
	a, err := h.articles.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, lang, err)
		return
	}
	metrics.ArticlesServed.WithLabelValues(string(lang)).Inc()
	c.JSON(http.StatusOK, articles.Localize(a, lang))
}

// Config returns the social links and the SEO block for the visitor language.
func (h *PublicHandler) Config(c *gin.Context) {
	lang := requestLang(c)
	ctx := c.Request.Context()
	social, err := h.config.Social(ctx)
	if err != nil {
		respondError(c, lang, err)
		return
	}
	seo, err := h.config.SEO(ctx)
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"social": social, "seo": siteconfig.SEOFor(seo, lang)})
}

func (h *PublicHandler) Messages(c *gin.Context) {
	lang := requestLang(c)
	c.JSON(http.StatusOK, gin.H{
		"lang":     lang,
		"dir":      i18n.Dir(lang),
		"locale":   i18n.Locale(lang),
		"messages": i18n.Catalog(lang),
	})
}

// SubmitLead accepts the contact form.
func (h *PublicHandler) SubmitLead(c *gin.Context) {
	lang := requestLang(c)
	var in leads.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgLeadInvalid)
		return
	}
	if in.Language == "" {
		in.Language = string(lang)
	}
	l, err := h.leads.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, i18n.Normalize(in.Language), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": l.ID, "message": i18n.T(i18n.Normalize(l.Language), i18n.MsgLeadSubmitted)})
}
