// internal/service/lead/source.go
package lead

import (
	"net/url"
	"strings"

	"pipeline-service/internal/domain/lead"
)

// UTMParams carries the raw marketing parameters attached to a lead.
type UTMParams struct {
	Source   string
	Medium   string
	Campaign string
	Term     string
	Content  string
}

// Classification is the resolved channel for a lead.
type Classification struct {
	Source lead.Source
	Medium lead.Medium
}

var utmSourceMap = map[string]lead.Source{
	"facebook":   lead.SourceFacebook,
	"fb":         lead.SourceFacebook,
	"instagram":  lead.SourceInstagram,
	"ig":         lead.SourceInstagram,
	"linkedin":   lead.SourceLinkedIn,
	"google":     lead.SourceGoogle,
	"adwords":    lead.SourceGoogle,
	"youtube":    lead.SourceYouTube,
	"tiktok":     lead.SourceTikTok,
	"email":      lead.SourceEmail,
	"newsletter": lead.SourceEmail,
}

var domainSourceMap = map[string]lead.Source{
	"facebook.com":  lead.SourceFacebook,
	"fb.com":        lead.SourceFacebook,
	"instagram.com": lead.SourceInstagram,
	"linkedin.com":  lead.SourceLinkedIn,
	"google.com":    lead.SourceGoogle,
	"google.co":     lead.SourceGoogle,
	"bing.com":      lead.SourceGoogle, // grouped under Google
	"youtube.com":   lead.SourceYouTube,
	"tiktok.com":    lead.SourceTikTok,
}

// ClassifySource maps raw marketing parameters to the closed channel
// enum. UTM parameters win over the referer; an unrecognized utm_source
// becomes OTHER, an unrecognized referer becomes REFERRAL, and the
// absence of both is DIRECT. Never fails.
func ClassifySource(utm UTMParams, referer string) Classification {
	res := Classification{Source: lead.SourceDirect, Medium: lead.MediumNone}

	if utm.Source != "" {
		src, ok := utmSourceMap[strings.ToLower(utm.Source)]
		if !ok {
			src = lead.SourceOther
		}
		res.Source = src
		res.Medium = classifyMedium(utm.Medium)
		return res
	}

	if referer != "" {
		domain := extractDomain(referer)
		if domain != "" {
			for pattern, src := range domainSourceMap {
				if strings.Contains(domain, pattern) {
					res.Source = src
					if src == lead.SourceGoogle {
						res.Medium = lead.MediumOrganic
					} else {
						res.Medium = lead.MediumSocial
					}
					return res
				}
			}
			// A referer with no known domain is still a referral.
			res.Source = lead.SourceReferral
			res.Medium = lead.MediumReferral
			return res
		}
	}

	return res
}

func classifyMedium(raw string) lead.Medium {
	switch strings.ToLower(raw) {
	case "cpc", "ppc", "paid":
		return lead.MediumCPC
	case "organic", "seo":
		return lead.MediumOrganic
	case "social", "social-media":
		return lead.MediumSocial
	case "email", "newsletter":
		return lead.MediumEmail
	case "referral", "partner":
		return lead.MediumReferral
	case "display", "banner":
		return lead.MediumDisplay
	case "video", "youtube":
		return lead.MediumVideo
	case "affiliate":
		return lead.MediumAffiliate
	}
	return lead.MediumNone
}

func extractDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
}

var sourceScoreBonus = map[lead.Source]int{
	lead.SourceReferral: 20,
	lead.SourceLinkedIn: 15,
	lead.SourceGoogle:   10,
	lead.SourceFacebook: 5,
	lead.SourceDirect:   5,
}

// InitialScore rates a fresh lead by data completeness plus a bonus for
// quality channels, capped at 100.
func InitialScore(req *lead.CreateLeadRequest, source lead.Source) int {
	score := 0
	if req.Email != "" {
		score += 20
	}
	if req.Name != "" {
		score += 15
	}
	if req.Phone != "" {
		score += 20
	}
	if req.Company != "" {
		score += 15
	}
	if req.JobTitle != "" {
		score += 10
	}
	score += sourceScoreBonus[source]

	if score > 100 {
		score = 100
	}
	return score
}
