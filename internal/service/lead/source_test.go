package lead

import (
	"testing"

	"pipeline-service/internal/domain/lead"

	"github.com/stretchr/testify/assert"
)

func TestClassifySource(t *testing.T) {
	tests := []struct {
		name       string
		utmSource  string
		utmMedium  string
		referer    string
		wantSource lead.Source
		wantMedium lead.Medium
	}{
		{"utm facebook", "facebook", "cpc", "", lead.SourceFacebook, lead.MediumCPC},
		{"utm fb shorthand", "fb", "paid", "", lead.SourceFacebook, lead.MediumCPC},
		{"utm instagram shorthand", "ig", "social", "", lead.SourceInstagram, lead.MediumSocial},
		{"utm adwords", "adwords", "ppc", "", lead.SourceGoogle, lead.MediumCPC},
		{"utm newsletter", "newsletter", "email", "", lead.SourceEmail, lead.MediumEmail},
		{"utm case insensitive", "LinkedIn", "", "", lead.SourceLinkedIn, lead.MediumNone},
		{"unknown utm becomes other", "carrier-pigeon", "", "", lead.SourceOther, lead.MediumNone},
		{"utm beats referer", "google", "organic", "https://facebook.com/page", lead.SourceGoogle, lead.MediumOrganic},
		{"google referer is organic", "", "", "https://www.google.com/search?q=crm", lead.SourceGoogle, lead.MediumOrganic},
		{"bing grouped under google", "", "", "https://bing.com/search", lead.SourceGoogle, lead.MediumOrganic},
		{"facebook referer is social", "", "", "https://www.facebook.com/", lead.SourceFacebook, lead.MediumSocial},
		{"tiktok referer", "", "", "https://tiktok.com/@someone", lead.SourceTikTok, lead.MediumSocial},
		{"unknown referer is referral", "", "", "https://partner-blog.example.com/post", lead.SourceReferral, lead.MediumReferral},
		{"no signal is direct", "", "", "", lead.SourceDirect, lead.MediumNone},
		{"garbage referer is direct", "", "", "::::", lead.SourceDirect, lead.MediumNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifySource(UTMParams{Source: tt.utmSource, Medium: tt.utmMedium}, tt.referer)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.Equal(t, tt.wantMedium, got.Medium)
		})
	}
}

func TestClassifyMedium(t *testing.T) {
	assert.Equal(t, lead.MediumOrganic, classifyMedium("seo"))
	assert.Equal(t, lead.MediumDisplay, classifyMedium("banner"))
	assert.Equal(t, lead.MediumVideo, classifyMedium("youtube"))
	assert.Equal(t, lead.MediumNone, classifyMedium("smoke-signal"))
}

func TestInitialScore(t *testing.T) {
	t.Run("complete referral lead caps at 100", func(t *testing.T) {
		req := &lead.CreateLeadRequest{
			Email:    "cto@acme.com",
			Name:     "Sam CTO",
			Phone:    "+1555",
			Company:  "Acme",
			JobTitle: "CTO",
		}
		// 20+15+20+15+10 = 80, +20 referral bonus = 100
		assert.Equal(t, 100, InitialScore(req, lead.SourceReferral))
	})

	t.Run("email only direct lead", func(t *testing.T) {
		req := &lead.CreateLeadRequest{Email: "someone@site.com"}
		// 20 + 5 direct bonus
		assert.Equal(t, 25, InitialScore(req, lead.SourceDirect))
	})

	t.Run("no bonus for unlisted source", func(t *testing.T) {
		req := &lead.CreateLeadRequest{Email: "someone@site.com"}
		assert.Equal(t, 20, InitialScore(req, lead.SourceTikTok))
	})
}
