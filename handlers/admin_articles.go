package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ranwtech/site/internal/articles"
	"github.com/ranwtech/site/internal/i18n"
)

// AdminArticlesHandler is the CRUD surface of the article editor.
type AdminArticlesHandler struct {
	svc *articles.Service
}

func NewAdminArticlesHandler(svc *articles.Service) *AdminArticlesHandler {
	return &AdminArticlesHandler{svc: svc}
}

func (h *AdminArticlesHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/articles", h.List)
	rg.POST("/articles", h.Create)
	rg.GET("/articles/:id", h.Get)
	rg.PUT("/articles/:id", h.Update)
	rg.DELETE("/articles/:id", h.Delete)
	rg.GET("/articles/:id/markdown", h.Markdown)
}

func (h *AdminArticlesHandler) List(c *gin.Context) {
	lang := requestLang(c)
	list, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": list})
}

func (h *AdminArticlesHandler) Get(c *gin.Context) {
	lang := requestLang(c)
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AdminArticlesHandler) Create(c *gin.Context) {
	h.save(c, "", http.StatusCreated)
}

func (h *AdminArticlesHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"), http.StatusOK)
}

func (h *AdminArticlesHandler) save(c *gin.Context, id string, status int) {
	lang := requestLang(c)
	var in articles.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	a, err := h.svc.Save(c.Request.Context(), in, id)
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(status, gin.H{"article": a, "message": i18n.T(lang, i18n.MsgArticleSaved)})
}

func (h *AdminArticlesHandler) Delete(c *gin.Context) {
	lang := requestLang(c)
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, i18n.MsgArticleDeleted)})
}

// Markdown exports one language of the article as text/markdown.
func (h *AdminArticlesHandler) Markdown(c *gin.Context) {
	lang := requestLang(c)
	ctx := c.Request.Context()
	a, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, lang, err)
		return
	}
	md, err := articles.Markdown(a, lang)
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+a.Slug+"-"+string(lang)+`.md"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}
