package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ranwtech/site/internal/articles"
	"github.com/ranwtech/site/internal/i18n"
	"github.com/ranwtech/site/internal/imports"
	"github.com/ranwtech/site/internal/ingest"
	"github.com/ranwtech/site/internal/leads"
	"github.com/ranwtech/site/internal/prospects"
	"github.com/ranwtech/site/internal/storage"
	"github.com/ranwtech/site/pkg/logger"
)

// requestLang resolves the visitor language and persists an explicit ?lang= choice.
func requestLang(c *gin.Context) i18n.Lang {
	l, fromQuery := i18n.Resolve(c.Request)
	if fromQuery {
		i18n.SetCookie(c.Writer, l)
	}
	return l
}

// respond writes {"error": <localized text>, "code": <message key>}.
func respond(c *gin.Context, status int, lang i18n.Lang, key string) {
	c.JSON(status, gin.H{"error": i18n.T(lang, key), "code": key})
}

// respondError maps service errors to HTTP status codes and localized messages.
func respondError(c *gin.Context, lang i18n.Lang, err error) {
	var leadErr *leads.ValidationError
	var articleErr *articles.ValidationError
	switch {
	case errors.As(err, &leadErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, leadErr.MsgKey), "code": leadErr.MsgKey, "field": leadErr.Field})
	case errors.As(err, &articleErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, articleErr.MsgKey), "code": articleErr.MsgKey, "field": articleErr.Field})
	case errors.Is(err, articles.ErrSlugTaken):
		respond(c, http.StatusConflict, lang, i18n.MsgArticleSlugTaken)
	case errors.Is(err, articles.ErrNotFound):
		respond(c, http.StatusNotFound, lang, i18n.MsgArticleNotFound)
	case errors.Is(err, leads.ErrNotFound),
		errors.Is(err, prospects.ErrNotFound),
		errors.Is(err, prospects.ErrCommentNotFound),
		errors.Is(err, imports.ErrNotFound):
		respond(c, http.StatusNotFound, lang, i18n.MsgNotFound)
	case errors.Is(err, prospects.ErrInvalidStatus):
		respond(c, http.StatusBadRequest, lang, i18n.MsgProspectStatusBad)
	case errors.Is(err, prospects.ErrInvalidInsurance):
		respond(c, http.StatusBadRequest, lang, i18n.MsgInsuranceKeyBad)
	case errors.Is(err, prospects.ErrEmptyComment):
		respond(c, http.StatusBadRequest, lang, i18n.MsgCommentRequired)
	case errors.Is(err, ingest.ErrNoRows):
		respond(c, http.StatusBadRequest, lang, i18n.MsgImportEmpty)
	case errors.Is(err, ingest.ErrFormat),
		errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, i18n.MsgBadRequest), "code": i18n.MsgBadRequest, "details": err.Error()})
	case errors.Is(err, storage.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": i18n.T(lang, i18n.MsgBadRequest), "code": i18n.MsgBadRequest, "details": err.Error()})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		respond(c, http.StatusInternalServerError, lang, i18n.MsgServerError)
	}
}
