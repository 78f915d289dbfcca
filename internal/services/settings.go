package services

import (
	"time"

	"go-jobboard/internal/media"
)

// Settings are the tunables of the business rules.
type Settings struct {
	PageSize               int
	RecommendedWindow      int
	RecommendedCount       int
	MaxImageBytes          int
	MaxPDFBytes            int
	GoodStandingLikes      int
	FlaggedStandingReports int
	VerificationInterval   time.Duration
	VerificationAttempts   int
	AppName                string
}

func DefaultSettings() Settings {
	return Settings{
		PageSize:               5,
		RecommendedWindow:      10,
		RecommendedCount:       5,
		MaxImageBytes:          media.DefaultMaxImageBytes,
		MaxPDFBytes:            media.DefaultMaxPDFBytes,
		GoodStandingLikes:      5,
		FlaggedStandingReports: 3,
		VerificationInterval:   4 * time.Second,
		VerificationAttempts:   20,
		AppName:                "JobBoard",
	}
}

// withDefaults fills zero fields from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.PageSize <= 0 {
		s.PageSize = d.PageSize
	}
	if s.RecommendedWindow <= 0 {
		s.RecommendedWindow = d.RecommendedWindow
	}
	if s.RecommendedCount <= 0 {
		s.RecommendedCount = d.RecommendedCount
	}
	if s.MaxImageBytes <= 0 {
		s.MaxImageBytes = d.MaxImageBytes
	}
	if s.MaxPDFBytes <= 0 {
		s.MaxPDFBytes = d.MaxPDFBytes
	}
	if s.GoodStandingLikes <= 0 {
		s.GoodStandingLikes = d.GoodStandingLikes
	}
	if s.FlaggedStandingReports <= 0 {
		s.FlaggedStandingReports = d.FlaggedStandingReports
	}
	if s.VerificationInterval <= 0 {
		s.VerificationInterval = d.VerificationInterval
	}
	if s.VerificationAttempts <= 0 {
		s.VerificationAttempts = d.VerificationAttempts
	}
	if s.AppName == "" {
		s.AppName = d.AppName
	}
	return s
}
