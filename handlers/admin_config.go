package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ranwtech/site/internal/i18n"
	"github.com/ranwtech/site/internal/siteconfig"
)

type AdminConfigHandler struct {
	svc *siteconfig.Service
}

func NewAdminConfigHandler(svc *siteconfig.Service) *AdminConfigHandler {
	return &AdminConfigHandler{svc: svc}
}

func (h *AdminConfigHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/config/social", h.GetSocial)
	rg.PUT("/config/social", h.PutSocial)
	rg.GET("/config/seo", h.GetSEO)
	rg.PUT("/config/seo", h.PutSEO)
}

func (h *AdminConfigHandler) GetSocial(c *gin.Context) {
	lang := requestLang(c)
	s, err := h.svc.Social(c.Request.Context())
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *AdminConfigHandler) PutSocial(c *gin.Context) {
	lang := requestLang(c)
	var in siteconfig.SocialLinks
	if err := c.ShouldBindJSON(&in); err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	saved, err := h.svc.SaveSocial(c.Request.Context(), in)
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"social": saved, "message": i18n.T(lang, i18n.MsgSocialSaved)})
}

func (h *AdminConfigHandler) GetSEO(c *gin.Context) {
	lang := requestLang(c)
	s, err := h.svc.SEO(c.Request.Context())
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *AdminConfigHandler) PutSEO(c *gin.Context) {
	lang := requestLang(c)
	var in siteconfig.SEO
	if err := c.ShouldBindJSON(&in); err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	saved, err := h.svc.SaveSEO(c.Request.Context(), in)
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seo": saved, "message": i18n.T(lang, i18n.MsgSEOSaved)})
}
