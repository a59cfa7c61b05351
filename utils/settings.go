package utils

import (
	"cadence-support/models"
)

// settingLevelRank orders setting scopes from least to most specific
var settingLevelRank = map[string]int{
	models.SettingLevelAdmin:         0,
	models.SettingLevelSubDepartment: 1,
	models.SettingLevelUser:          2,
}

// MergeSettings resolves the effective values of one setting category from
// its scoped rows. Less specific levels apply first, so a sub-department
// value overrides the company-wide one key by key, and a user value
// overrides both. Rows with an unknown level are ignored.
func MergeSettings(groups []models.SettingGroup) map[string]interface{} {
	ordered := make([]models.SettingGroup, 0, len(groups))
	for _, g := range groups {
		if _, ok := settingLevelRank[g.Level]; ok {
			ordered = append(ordered, g)
		}
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && settingLevelRank[ordered[j].Level] < settingLevelRank[ordered[j-1].Level]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	merged := make(map[string]interface{})
	for _, g := range ordered {
		for key, value := range g.Values {
			merged[key] = value
		}
	}
	return merged
}
