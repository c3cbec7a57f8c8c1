package entity

// Setting keys used by the raffle domain.
const (
	SettingFreeEntryEnabled = "free_entry_enabled"
	SettingResultsPublic    = "results_public"
	SettingFundTarget       = "fund_target"
)

type Setting struct {
	Base

	Key         string `gorm:"unique"`
	Value       string
	Description string
}
