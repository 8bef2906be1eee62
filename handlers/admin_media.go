package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ranwtech/site/internal/i18n"
	"github.com/ranwtech/site/internal/storage"
)

// AdminMediaHandler uploads article images to object storage.
type AdminMediaHandler struct {
	store storage.ObjectStore
	now   func() time.Time
}

func NewAdminMediaHandler(store storage.ObjectStore) *AdminMediaHandler {
	return &AdminMediaHandler{store: store, now: time.Now}
}

func (h *AdminMediaHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/media", h.Upload)
}

func (h *AdminMediaHandler) Upload(c *gin.Context) {
	lang := requestLang(c)
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage not configured"})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		respond(c, http.StatusBadRequest, lang, i18n.MsgBadRequest)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, lang, err)
		return
	}
	defer f.Close()
	obj, err := storage.UploadImage(c.Request.Context(), h.store, f, h.now())
	if err != nil {
		respondError(c, lang, err)
		return
	}
	c.JSON(http.StatusCreated, obj)
}
