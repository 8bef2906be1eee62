package i18n

// Message keys returned to the front end alongside error and success responses.
const (
	MsgLeadSubmitted     = "lead.submitted"
	MsgLeadInvalid       = "lead.invalid"
	MsgLeadNameRequired  = "lead.name_required"
	MsgLeadMessageReq    = "lead.message_required"
	MsgLeadContactReq    = "lead.contact_required"
	MsgLeadEmailInvalid  = "lead.email_invalid"
	MsgArticleNotFound   = "article.not_found"
	MsgArticleSlugReq    = "article.slug_required"
	MsgArticleTitleReq   = "article.title_required"
	MsgArticleSlugTaken  = "article.slug_taken"
	MsgArticleStatusBad  = "article.status_invalid"
	MsgArticleSaved      = "article.saved"
	MsgArticleDeleted    = "article.deleted"
	MsgSocialSaved       = "config.social_saved"
	MsgSEOSaved          = "config.seo_saved"
	MsgLoginFailed       = "auth.login_failed"
	MsgNotAuthorized     = "auth.not_authorized"
	MsgNotFound          = "generic.not_found"
	MsgServerError       = "generic.server_error"
	MsgImportDone        = "prospects.import_done"
	MsgImportFailed      = "prospects.import_failed"
	MsgImportEmpty       = "prospects.import_empty"
	MsgCommentRequired   = "prospects.comment_required"
	MsgProspectStatusBad = "prospects.status_invalid"
	MsgInsuranceKeyBad   = "prospects.insurance_invalid"
	MsgBadRequest        = "generic.bad_request"
	MsgRateLimited       = "generic.rate_limited"
	MsgArticlesHeading   = "articles.heading"
	MsgArticlesIntro     = "articles.intro"
	MsgBackToArticles    = "articles.back"
	MsgArticleNotFoundLd = "articles.not_found_lead"
)

var messages = map[string][2]string{
	MsgLeadSubmitted:     {"ההודעה נשלחה בהצלחה! אחזור אליך בהקדם.", "Your message was sent! I'll get back to you soon."},
	MsgLeadInvalid:       {"הטופס אינו תקין.", "The form is not valid."},
	MsgLeadNameRequired:  {"יש למלא שם מלא.", "Full name is required."},
	MsgLeadMessageReq:    {"יש לכתוב הודעה.", "A message is required."},
	MsgLeadContactReq:    {"יש למלא אימייל או טלפון.", "An email or phone number is required."},
	MsgLeadEmailInvalid:  {"כתובת האימייל אינה תקינה.", "The email address is not valid."},
	MsgArticleNotFound:   {"המאמר לא נמצא או עדיין בטיוטה", "Article not found or still in draft"},
	MsgArticleSlugReq:    {"חובה להזין Slug", "Slug is required"},
	MsgArticleTitleReq:   {"חובה להזין כותרת לפחות בשפה אחת", "Title is required in at least one language"},
	MsgArticleSlugTaken:  {"כבר קיים מאמר עם ה-Slug הזה", "Another article already uses this slug"},
	MsgArticleStatusBad:  {"סטטוס המאמר אינו תקין.", "Article status is not valid."},
	MsgArticleSaved:      {"המאמר נשמר בהצלחה.", "Article saved successfully."},
	MsgArticleDeleted:    {"המאמר נמחק בהצלחה", "Article deleted successfully"},
	MsgSocialSaved:       {"קישורי הרשתות החברתיות נשמרו בהצלחה.", "Social links saved successfully."},
	MsgSEOSaved:          {"הגדרות ה-SEO נשמרו בהצלחה.", "SEO settings saved successfully."},
	MsgLoginFailed:       {"פרטי ההתחברות שגויים או שאין לך הרשאה.", "Invalid credentials or you are not authorized."},
	MsgNotAuthorized:     {"אין לך הרשאה לצפות בעמוד זה.", "You are not authorized to view this page."},
	MsgNotFound:          {"לא נמצא.", "Not found."},
	MsgServerError:       {"אירעה שגיאה. נסו שוב מאוחר יותר.", "Something went wrong. Please try again later."},
	MsgImportDone:        {"הנתונים נרשמו בהצלחה.", "Data was written successfully."},
	MsgImportFailed:      {"אירעה שגיאה בעת כתיבת הנתונים.", "An error occurred while writing the data."},
	MsgImportEmpty:       {"הקובץ לא מכיל שורות נתונים.", "The file has no data rows."},
	MsgCommentRequired:   {"יש לכתוב הערה.", "A comment is required."},
	MsgProspectStatusBad: {"סטטוס השיחה אינו תקין.", "Call status is not valid."},
	MsgInsuranceKeyBad:   {"סוג הביטוח אינו מוכר.", "Unknown insurance type."},
	MsgBadRequest:        {"הבקשה אינה תקינה.", "The request is not valid."},
	MsgRateLimited:       {"יותר מדי בקשות. נסו שוב בעוד רגע.", "Too many requests. Please try again shortly."},
	MsgArticlesHeading:   {"מאמרים", "Articles"},
	MsgArticlesIntro:     {"כל המאמרים המקצועיים, מרוכזים כאן במקום אחד.", "All the professional articles, in one place."},
	MsgBackToArticles:    {"חזרה לרשימת המאמרים", "Back to articles"},
	MsgArticleNotFoundLd: {"המאמר שחיפשת אינו זמין. ייתכן שהוא עדיין בטיוטה או שהקישור שגוי.", "The article you are looking for is not available. It may still be a draft or the link is incorrect."},
}

// T returns the localized message for key; unknown keys come back unchanged.
func T(l Lang, key string) string {
	m, ok := messages[key]
	if !ok {
		return key
	}
	if l == English {
		return m[1]
	}
	return m[0]
}

// Catalog returns every message in one language, keyed by message key.
func Catalog(l Lang) map[string]string {
	out := make(map[string]string, len(messages))
	for k := range messages {
		out[k] = T(l, k)
	}
	return out
}
