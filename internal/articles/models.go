package articles

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool { return s == StatusDraft || s == StatusPublished }

// Article is a bilingual blog post. Bodies hold sanitized HTML.
type Article struct {
	ID         string    `json:"id" bson:"_id"`
	Slug       string    `json:"slug" bson:"slug"`
	Status     Status    `json:"status" bson:"status"`
	TitleHe    string    `json:"titleHe" bson:"titleHe"`
	SubtitleHe string    `json:"subtitleHe" bson:"subtitleHe"`
	BodyHe     string    `json:"bodyHe" bson:"bodyHe"`
	TitleEn    string    `json:"titleEn" bson:"titleEn"`
	SubtitleEn string    `json:"subtitleEn" bson:"subtitleEn"`
	BodyEn     string    `json:"bodyEn" bson:"bodyEn"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Public reports whether visitors may see the article. Documents saved before the
// status field existed have none and count as published.
func (a *Article) Public() bool {
	return a.Status == "" || a.Status == StatusPublished
}

// Input is the admin editor payload.
type Input struct {
	Slug       string `json:"slug"`
	Status     Status `json:"status"`
	TitleHe    string `json:"titleHe"`
	SubtitleHe string `json:"subtitleHe"`
	BodyHe     string `json:"bodyHe"`
	TitleEn    string `json:"titleEn"`
	SubtitleEn string `json:"subtitleEn"`
	BodyEn     string `json:"bodyEn"`
}

// Localized is an article rendered in one language.
type Localized struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Lang      string    `json:"lang"`
	Dir       string    `json:"dir"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Body      string    `json:"body"`
	PlainText string    `json:"-"`
	Excerpt   string    `json:"excerpt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
