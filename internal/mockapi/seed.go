package mockapi

import (
	"time"

	"github.com/aurashield/aurashield/internal/models"
)

// seedAlerts builds the synthetic demo data set, newest first.
func seedAlerts(now time.Time) []models.Alert {
	return []models.Alert{
		{
			ID:          "6",
			Title:       "Deepfake Video Detection",
			Description: "AI-generated deepfake video of Celebrity VIP making controversial political statements detected on TikTok and YouTube. High-quality facial manipulation detected.",
			Severity:    models.SeverityHigh,
			VIPName:     "Celebrity VIP",
			Source:      "TikTok",
			Timestamp:   now.Add(-1 * time.Hour),
			Confidence:  0.91,
			Type:        models.TypeDeepfake,
		},
		{
			ID:          "1",
			Title:       "Impersonation Account Detected",
			Description: "Suspicious account @john_doe_official mimicking verified VIP with 95% profile similarity. Account created 2 days ago with stolen profile image from official social media.",
			Severity:    models.SeverityHigh,
			VIPName:     "John Doe",
			Source:      "Twitter",
			Timestamp:   now.Add(-2 * time.Hour),
			Confidence:  0.95,
			Type:        models.TypeImpersonation,
		},
		{
			ID:          "7",
			Title:       "Brand Impersonation Scam",
			Description: "Fake customer service accounts impersonating Tech CEO's company brand to steal customer credentials through phishing messages.",
			Severity:    models.SeverityMedium,
			VIPName:     "Tech CEO",
			Source:      "Facebook",
			Timestamp:   now.Add(-3 * time.Hour),
			Confidence:  0.84,
			Type:        models.TypeBrandImpersonation,
		},
		{
			ID:          "2",
			Title:       "Coordinated Campaign Detected",
			Description: "15 bot accounts posting identical malicious content targeting Jane Smith with phishing links. Detected coordinated inauthentic behavior patterns across multiple platforms.",
			Severity:    models.SeverityHigh,
			VIPName:     "Jane Smith",
			Source:      "Instagram",
			Timestamp:   now.Add(-4 * time.Hour),
			Confidence:  0.87,
			Type:        models.TypeCoordination,
		},
		{
			ID:          "3",
			Title:       "Media Reuse Alert",
			Description: "Official corporate headshot from Tech CEO's verified LinkedIn account reused in fake breaking news post claiming company bankruptcy and stock manipulation.",
			Severity:    models.SeverityMedium,
			VIPName:     "Tech CEO",
			Source:      "LinkedIn",
			Timestamp:   now.Add(-6 * time.Hour),
			Confidence:  0.78,
			Type:        models.TypeMediaReuse,
		},
		{
			ID:          "4",
			Title:       "Threat Keywords Detected",
			Description: "Multiple posts containing threatening language and harassment directed at VIP detected across Twitter, Instagram, and TikTok platforms.",
			Severity:    models.SeverityHigh,
			VIPName:     "John Doe",
			Source:      "Multiple",
			Timestamp:   now.Add(-8 * time.Hour),
			Confidence:  0.82,
			Type:        models.TypeThreat,
		},
		{
			ID:          "5",
			Title:       "Misinformation Campaign",
			Description: "False claims about Jane Smith's company financial status spreading across social media with coordinated hashtag usage #JaneSmithScam #CompanyFraud.",
			Severity:    models.SeverityMedium,
			VIPName:     "Jane Smith",
			Source:      "Twitter",
			Timestamp:   now.Add(-12 * time.Hour),
			Confidence:  0.73,
			Type:        models.TypeMisinformation,
		},
	}
}
