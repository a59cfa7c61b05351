package utils

import (
	"math"
	"time"

	"cadence-support/models"
)

// LicenseSummary is the licensing block shown on the company page
type LicenseSummary struct {
	PlanID               string `json:"plan_id"`
	PlanName             string `json:"plan_name"`
	NumberOfLicenses     int    `json:"number_of_licenses"`
	UsedLicenses         int64  `json:"used_licenses"`
	IsSubscriptionActive bool   `json:"is_subscription_active"`
	IsTrialActive        bool   `json:"is_trial_active"`
	TrialDaysLeft        int    `json:"trial_days_left"`
}

// TrialDaysLeft reports the whole days remaining in a trial as of now. A
// partially elapsed day still counts, and an expired or absent trial is 0.
func TrialDaysLeft(validUntil *time.Time, now time.Time) int {
	if validUntil == nil {
		return 0
	}
	remaining := validUntil.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// BuildLicenseSummary assembles the license view for one company. The trial
// flag is recomputed against the deadline rather than trusted from the row,
// so an expired trial never shows as active.
func BuildLicenseSummary(company *models.Company, usedLicenses int64, now time.Time) LicenseSummary {
	daysLeft := TrialDaysLeft(company.TrialValidUntil, now)
	return LicenseSummary{
		PlanID:               company.PlanID,
		PlanName:             company.PlanName,
		NumberOfLicenses:     company.NumberOfLicenses,
		UsedLicenses:         usedLicenses,
		IsSubscriptionActive: company.IsSubscriptionActive,
		IsTrialActive:        company.IsTrialActive && daysLeft > 0,
		TrialDaysLeft:        daysLeft,
	}
}
