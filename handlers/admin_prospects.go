package handlers

import (
	"bytes"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ranwtech/site/internal/i18n"
	"github.com/ranwtech/site/internal/ingest"
	"github.com/ranwtech/site/internal/prospects"
	"github.com/ranwtech/site/pkg/middleware"
)

const (
	// maxImportBytes bounds a prospect upload.
	maxImportBytes = 20 << 20
	previewRows    = 20
)

// AdminProspectsHandler serves the "public 150" call list and its file import.
type AdminProspectsHandler struct {
	svc *prospects.Service
}

func NewAdminProspectsHandler(svc *prospects.Service) *AdminProspectsHandler {
	return &AdminProspectsHandler{svc: svc}
}

func (h *AdminProspectsHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/prospects", h.List)
	rg.POST("/prospects/import", h.Import)
	rg.GET("/prospects/priority/next", h.NextPriority)
	rg.PATCH("/prospects/:id/status", h.SetStatus)
	rg.POST("/prospects/:id/comments", h.AddComment)
	rg.PUT("/prospects/:id/comments/:index", h.EditComment)
	rg.DELETE("/prospects/:id/comments/:index", h.DeleteComment)
	rg.PATCH("/prospects/:id/insurance/:key", h.SetInsurance)
	rg.GET("/imports/:jobId", h.Job)
}

func parseStatus(v string) (*prospects.CallStatus, bool) {
	if v == "" {
		return nil, true
	}
	st := prospects.CallStatus(v)
	if !st.Valid() {
		return nil, false
	}
	return &st, true
}

// List supports ?q= (company or CEO) and ?priority=<call status>.
func (h *AdminProspectsHandler) List(c *gin.Context) {
	lang := requestLang(c)
	pr, ok := parseStatus(c.Query("priority"))
	if !ok {
		respond(c, http.StatusBadRequest, lang, i18n.MsgProspectStatusBad)
		return
	}
	list, err := h.svc.List(c.Request.Context(), prospects.Query{Search: c.Query("q"), Priority: pr})
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prospects": list, "count": len(list)})
}

func (h *AdminProspectsHandler) NextPriority(c *gin.Context) {
	lang := requestLang(c)
	cur, ok := parseStatus(c.Query("current"))
	if !ok {
		respond(c, http.StatusBadRequest, lang, i18n.MsgProspectStatusBad)
		return
	}
	c.JSON(http.StatusOK, gin.H{"priority": prospects.NextPriority(cur)})
}

// Import parses a CSV or JSON upload. Without replace=true it only previews the rows;
// with it the collection is replaced and the import job is returned.
func (h *AdminProspectsHandler) Import(c *gin.Context) {
	lang := requestLang(c)
	fh, err := c.FormFile("file")
	if err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	if fh.Size > maxImportBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": i18n.T(lang, i18n.MsgBadRequest), "code": i18n.MsgBadRequest})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, lang, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImportBytes))
	if err != nil {
		respondError(c, lang, err)
		return
	}
	format := ingest.FormatOf(fh.Filename, data)
	rows, err := ingest.Parse(format, bytes.NewReader(data))
	if err != nil {
		respondError(c, lang, err)
		return
	}

	if replace, _ := strconv.ParseBool(c.PostForm("replace")); !replace {
		n := len(rows)
		if n > previewRows {
			n = previewRows
		}
		c.JSON(http.StatusOK, gin.H{"format": format, "rows": len(rows), "columns": columns(rows[0]), "preview": rows[:n]})
		return
	}

	job, err := h.svc.ReplaceAll(c.Request.Context(), rows, format, fh.Filename)
	if err != nil {
		if job == nil {
			respondError(c, lang, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(lang, i18n.MsgImportFailed), "code": i18n.MsgImportFailed, "job": job})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job, "message": i18n.T(lang, i18n.MsgImportDone)})
}

func columns(row map[string]any) []string {
	out := make([]string, 0, len(row))
	for k := range row {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (h *AdminProspectsHandler) SetStatus(c *gin.Context) {
	lang := requestLang(c)
	var body struct {
		Status prospects.CallStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	ctx := c.Request.Context()
	if err := h.svc.SetStatus(ctx, c.Param("id"), body.Status); err != nil {
		respondError(c, lang, err)
		return
	}
	h.writeProspect(c, lang)
}

type commentBody struct {
	Comment string `json:"comment"`
}

func (h *AdminProspectsHandler) AddComment(c *gin.Context) {
	lang := requestLang(c)
	var body commentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	p, err := h.svc.AddComment(c.Request.Context(), c.Param("id"), middleware.ClaimString(c, "email"), body.Comment)
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *AdminProspectsHandler) EditComment(c *gin.Context) {
	lang := requestLang(c)
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	var body commentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	p, err := h.svc.EditComment(c.Request.Context(), c.Param("id"), idx, middleware.ClaimString(c, "email"), body.Comment)
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminProspectsHandler) DeleteComment(c *gin.Context) {
	lang := requestLang(c)
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	p, err := h.svc.DeleteComment(c.Request.Context(), c.Param("id"), idx)
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SetInsurance merges {interested, renewalDate} into one insurance line.
func (h *AdminProspectsHandler) SetInsurance(c *gin.Context) {
	lang := requestLang(c)
	var change prospects.NeedChange
	if err := c.ShouldBindJSON(&change); err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	p, err := h.svc.SetInsuranceNeed(c.Request.Context(), c.Param("id"), prospects.InsuranceKey(c.Param("key")), change)
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminProspectsHandler) Job(c *gin.Context) {
	lang := requestLang(c)
	job, err := h.svc.Job(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *AdminProspectsHandler) writeProspect(c *gin.Context, lang i18n.Lang) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
