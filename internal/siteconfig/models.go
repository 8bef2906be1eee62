// Package siteconfig holds the singleton documents the public site reads at start:
// social links and SEO metadata.
package siteconfig

import "time"

// Document ids inside the public_config collection.
const (
	SocialDocID = "social_links"
	SEODocID    = "site"
)

type SocialLinks struct {
	LinkedinURL  string    `json:"linkedinUrl" bson:"linkedinUrl"`
	FacebookURL  string    `json:"facebookUrl" bson:"facebookUrl"`
	TwitterURL   string    `json:"twitterUrl" bson:"twitterUrl"`
	InstagramURL string    `json:"instagramUrl" bson:"instagramUrl"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

type SEO struct {
	TitleHe       string    `json:"titleHe" bson:"titleHe"`
	DescriptionHe string    `json:"descriptionHe" bson:"descriptionHe"`
	KeywordsHe    string    `json:"keywordsHe" bson:"keywordsHe"`
	TagsHe        string    `json:"tagsHe" bson:"tagsHe"`
	TitleEn       string    `json:"titleEn" bson:"titleEn"`
	DescriptionEn string    `json:"descriptionEn" bson:"descriptionEn"`
	KeywordsEn    string    `json:"keywordsEn" bson:"keywordsEn"`
	TagsEn        string    `json:"tagsEn" bson:"tagsEn"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// LocalizedSEO is the page metadata for one language.
type LocalizedSEO struct {
	Lang        string `json:"lang"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Tags        string `json:"tags"`
}
