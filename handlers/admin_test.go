package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ranwtech/site/internal/i18n"
	"github.com/ranwtech/site/internal/leads"
	"github.com/ranwtech/site/internal/prospects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/admin/leads", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/admin/leads", nil, "forged.token.value").Code)
}

func TestAdminLeads(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.login(t)
	ctx := context.Background()
	for _, in := range []leads.Input{
		{Name: "Dana Levi", Email: "dana@acme.io", Company: "Acme", Message: "hi", ServiceTypeKey: leads.ServiceCyber},
		{Name: "Yossi", Phone: "050-1234567", Company: "Beta Labs", Message: "call me"},
	} {
		_, err := env.deps.Leads.Submit(ctx, in)
		require.NoError(t, err)
	}

	w := env.do(http.MethodGet, "/api/admin/leads?lang=en", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.EqualValues(t, 2, got["count"])

	w = env.do(http.MethodGet, "/api/admin/leads?q=acme&lang=en", nil, token)
	got = decode(t, w)
	require.EqualValues(t, 1, got["count"])
	row := got["leads"].([]any)[0].(map[string]any)
	assert.Equal(t, "Dana Levi", row["name"])
	assert.Equal(t, "Cyber", row["serviceLabel"])
	id := row["id"].(string)

	w = env.do(http.MethodGet, "/api/admin/leads/suggestions?q=a", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["suggestions"])

	w = env.do(http.MethodPatch, "/api/admin/leads/"+id, gin.H{"status": "handled", "adminNotes": "called back"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got = decode(t, w)
	assert.Equal(t, "handled", got["status"])
	assert.Equal(t, "called back", got["adminNotes"])

	w = env.do(http.MethodPatch, "/api/admin/leads/"+id, gin.H{"status": "archived"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(http.MethodGet, "/api/admin/leads?status=archived", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/admin/leads?status=handled", nil, token)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/admin/leads/"+id, nil, token).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/admin/leads/"+id, nil, token).Code)
}

func TestAdminArticles(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.login(t)

	w := env.do(http.MethodPost, "/api/admin/articles?lang=en", gin.H{"slug": "Cyber Risk", "titleEn": "Cyber risk", "bodyEn": "<h2>Why</h2><p>Because <em>ransomware</em>.</p>"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := decode(t, w)
	assert.Equal(t, "Article saved successfully.", got["message"])
	art := got["article"].(map[string]any)
	assert.Equal(t, "cyber-risk", art["slug"])
	assert.Equal(t, "draft", art["status"])
	id := art["id"].(string)

	w = env.do(http.MethodPost, "/api/admin/articles", gin.H{"slug": "cyber-risk", "titleHe": "כפול"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, i18n.MsgArticleSlugTaken, decode(t, w)["code"])

	w = env.do(http.MethodPost, "/api/admin/articles", gin.H{"slug": "no-title"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "title", decode(t, w)["field"])

	w = env.do(http.MethodPut, "/api/admin/articles/"+id, gin.H{"slug": "cyber-risk", "status": "published", "titleEn": "Cyber risk 2026", "bodyEn": "<p>Updated</p>"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/articles/cyber-risk", nil, "").Code)

	w = env.do(http.MethodGet, "/api/admin/articles/"+id+"/markdown?lang=en", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# Cyber risk 2026\n\nUpdated\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cyber-risk-en.md")

	w = env.do(http.MethodGet, "/api/admin/articles", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["articles"], 1)

	assert.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/admin/articles/"+id, nil, token).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/admin/articles/"+id, nil, token).Code)
}

func TestAdminConfig(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.login(t)

	w := env.do(http.MethodGet, "/api/admin/config/social", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decode(t, w)["linkedinUrl"])

	w = env.do(http.MethodPut, "/api/admin/config/social", gin.H{"facebookUrl": " https://fb.com/ran "}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://fb.com/ran", decode(t, w)["social"].(map[string]any)["facebookUrl"])

	w = env.do(http.MethodPut, "/api/admin/config/seo?lang=en", gin.H{"titleEn": " Ran ", "descriptionHe": "תיאור"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SEO settings saved successfully.", decode(t, w)["message"])

	w = env.do(http.MethodGet, "/api/admin/config/seo", nil, token)
	got := decode(t, w)
	assert.Equal(t, "Ran", got["titleEn"])
	assert.Equal(t, "תיאור", got["descriptionHe"])
}

func upload(t *testing.T, env *testEnv, path, token, fileName string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = io.Copy(fw, bytes.NewReader(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

const prospectsCSV = "Company Full Name;CEO;City\n\"Acme Ltd\";Dana Levi;Tel Aviv\nBeta Labs;Yossi Cohen;Haifa\n\nGamma;;\n"

func TestAdminProspectsImport(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.login(t)

	w := upload(t, env, "/api/admin/prospects/import", token, "list.csv", []byte(prospectsCSV), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode(t, w)
	assert.EqualValues(t, 3, got["rows"])
	assert.Equal(t, []any{"CEO", "City", "Company Full Name"}, got["columns"])
	list, err := env.deps.Prospects.List(context.Background(), prospects.Query{})
	require.NoError(t, err)
	assert.Empty(t, list, "preview must not write")

	w = upload(t, env, "/api/admin/prospects/import", token, "list.csv", []byte(prospectsCSV), map[string]string{"replace": "true"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	job := decode(t, w)["job"].(map[string]any)
	assert.Equal(t, "done", job["status"])
	assert.EqualValues(t, 3, job["rows"])

	w = env.do(http.MethodGet, "/api/admin/imports/"+job["jobId"].(string), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list.csv", decode(t, w)["fileName"])
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/admin/imports/nope", nil, token).Code)

	w = upload(t, env, "/api/admin/prospects/import", token, "rows.json", []byte(`[{"Company":"Delta","CEO":"Noa"}]`), map[string]string{"replace": "1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = env.do(http.MethodGet, "/api/admin/prospects", nil, token)
	got = decode(t, w)
	assert.EqualValues(t, 1, got["count"])
	assert.Equal(t, "Delta", got["prospects"].([]any)[0].(map[string]any)["Company"])

	w = upload(t, env, "/api/admin/prospects/import", token, "empty.csv", []byte("Company\n"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, i18n.MsgImportEmpty, decode(t, w)["code"])

	w = upload(t, env, "/api/admin/prospects/import", token, "bad.json", []byte(`{"not":"an array"}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminProspectWorkflow(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.login(t)
	require.Equal(t, http.StatusOK, upload(t, env, "/api/admin/prospects/import", token, "list.csv", []byte(prospectsCSV), map[string]string{"replace": "true"}).Code)

	w := env.do(http.MethodGet, "/api/admin/prospects?q=yossi", nil, token)
	got := decode(t, w)
	require.EqualValues(t, 1, got["count"])
	beta := got["prospects"].([]any)[0].(map[string]any)
	assert.Equal(t, "new", beta["call_status"])
	id := beta["_id"].(string)
	base := "/api/admin/prospects/" + id

	w = env.do(http.MethodPatch, base+"/status", gin.H{"status": "meeting_scheduled"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "meeting_scheduled", decode(t, w)["call_status"])
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPatch, base+"/status", gin.H{"status": "won"}, token).Code)

	w = env.do(http.MethodGet, "/api/admin/prospects?priority=meeting_scheduled", nil, token)
	first := decode(t, w)["prospects"].([]any)[0].(map[string]any)
	assert.Equal(t, id, first["_id"])

	w = env.do(http.MethodPost, base+"/comments", gin.H{"comment": "  asked for a quote "}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	comments := decode(t, w)["comments"].([]any)
	require.Len(t, comments, 1)
	c0 := comments[0].(map[string]any)
	assert.Equal(t, "asked for a quote", c0["comment"])
	assert.Equal(t, testAdminEmail, c0["email"])

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, base+"/comments", gin.H{"comment": " "}, token).Code)

	w = env.do(http.MethodPut, base+"/comments/0", gin.H{"comment": "quote sent"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "quote sent", decode(t, w)["comments"].([]any)[0].(map[string]any)["comment"])
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPut, base+"/comments/5", gin.H{"comment": "x"}, token).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodDelete, base+"/comments/abc", nil, token).Code)

	w = env.do(http.MethodDelete, base+"/comments/0", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["comments"])

	w = env.do(http.MethodPatch, base+"/insurance/cyber", gin.H{"interested": true}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = env.do(http.MethodPatch, base+"/insurance/cyber", gin.H{"renewalDate": "2027-01-01"}, token)
	need := decode(t, w)["insurance_needs"].(map[string]any)["cyber"].(map[string]any)
	assert.Equal(t, true, need["interested"])
	assert.Equal(t, "2027-01-01", need["renewalDate"])
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPatch, base+"/insurance/pets", gin.H{"interested": true}, token).Code)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPatch, "/api/admin/prospects/missing/status", gin.H{"status": "full"}, token).Code)
}

func TestAdminNextPriority(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.login(t)

	w := env.do(http.MethodGet, "/api/admin/prospects/priority/next", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(prospects.Statuses[0]), decode(t, w)["priority"])

	last := prospects.Statuses[len(prospects.Statuses)-1]
	w = env.do(http.MethodGet, "/api/admin/prospects/priority/next?current="+string(last), nil, token)
	assert.Nil(t, decode(t, w)["priority"])

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/admin/prospects/priority/next?current=bogus", nil, token).Code)
}

type memoryObjects struct {
	puts map[string]string
}

func (m *memoryObjects) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	m.puts[key] = contentType
	return nil
}

func (m *memoryObjects) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://media.test/%s", key), nil
}

func TestAdminMedia(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.login(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	w := upload(t, env, "/api/admin/media", token, "a.png", png, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	store := &memoryObjects{puts: map[string]string{}}
	env.deps.Media = store
	env.router = gin.New()
	RegisterRoutes(env.router, env.deps)
	token, _ = env.login(t)

	w = upload(t, env, "/api/admin/media", token, "a.png", png, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := decode(t, w)
	key := got["key"].(string)
	assert.True(t, strings.HasPrefix(key, "media/"))
	assert.Equal(t, "https://media.test/"+key, got["url"])
	assert.Equal(t, "image/png", store.puts[key])

	w = upload(t, env, "/api/admin/media", token, "x.svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
