package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ranwtech/site/internal/i18n"
	"github.com/ranwtech/site/internal/leads"
)

// AdminLeadsHandler serves the back-office leads table.
type AdminLeadsHandler struct {
	svc *leads.Service
}

func NewAdminLeadsHandler(svc *leads.Service) *AdminLeadsHandler {
	return &AdminLeadsHandler{svc: svc}
}

func (h *AdminLeadsHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/leads", h.List)
	rg.GET("/leads/suggestions", h.Suggestions)
	rg.PATCH("/leads/:id", h.Patch)
	rg.DELETE("/leads/:id", h.Delete)
}

type leadView struct {
	*leads.Lead
	ServiceLabel string `json:"serviceLabel"`
	StatusLabel  string `json:"statusLabel"`
}

// List returns leads newest first; ?q= searches name, company and email, ?status= filters.
func (h *AdminLeadsHandler) List(c *gin.Context) {
	lang := requestLang(c)
	f := leads.Filter{Query: c.Query("q")}
	if st := c.Query("status"); st != "" {
		f.Status = leads.Status(st)
		if !f.Status.Valid() {
			respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
			return
		}
	}
	list, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, lang, err)
		return
	}
	out := make([]leadView, 0, len(list))
	for _, l := range list {
		out = append(out, leadView{Lead: l, ServiceLabel: leads.ServiceTypeLabel(l, lang), StatusLabel: leads.StatusLabel(l.Status, lang)})
	}
	c.JSON(http.StatusOK, gin.H{"leads": out, "count": len(out)})
}

func (h *AdminLeadsHandler) Suggestions(c *gin.Context) {
	lang := requestLang(c)
	s, err := h.svc.Suggestions(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": s})
}

// Patch updates status and/or admin notes.
func (h *AdminLeadsHandler) Patch(c *gin.Context) {
	lang := requestLang(c)
	var p leads.Patch
	if err := c.ShouldBindJSON(&p); err != nil || (p.Status == nil && p.AdminNotes == nil) {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	ctx := c.Request.Context()
	if err := h.svc.Apply(ctx, c.Param("id"), p); err != nil {
		respondError(c, lang, err)
		return
	}
	l, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *AdminLeadsHandler) Delete(c *gin.Context) {
	lang := requestLang(c)
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, lang, err)
		return
	}
	c.Status(http.StatusNoContent)
}
