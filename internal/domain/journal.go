package domain

import "time"

// JournalEntry is a free-form trading journal note, optionally linked to
// a derived trade and an account.
type JournalEntry struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	TradeRef       string    `json:"tradeRef,omitempty"`
	AccountID      string    `json:"accountId,omitempty"`
	Title          string    `json:"title"`
	StrategyTag    string    `json:"strategyTag"`
	Mood           string    `json:"mood"`
	Mistakes       string    `json:"mistakes"`
	Lessons        string    `json:"lessons"`
	ScreenshotURLs []string  `json:"screenshotUrls"`
	CustomTags     []string  `json:"customTags"`
}

// JournalEntryUpsert creates a new entry when ID is empty, otherwise
// replaces the entry's editable fields.
type JournalEntryUpsert struct {
	ID             string   `json:"id,omitempty"`
	TradeRef       string   `json:"tradeRef,omitempty"`
	AccountID      string   `json:"accountId,omitempty"`
	Title          string   `json:"title"`
	StrategyTag    string   `json:"strategyTag"`
	Mood           string   `json:"mood"`
	Mistakes       string   `json:"mistakes"`
	Lessons        string   `json:"lessons"`
	ScreenshotURLs []string `json:"screenshotUrls"`
	CustomTags     []string `json:"customTags"`
}
