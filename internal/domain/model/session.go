package model

import "time"

// Stage is the conversational state of a single chat.
type Stage string

const (
	StageMainMenu            Stage = "main_menu"
	StageAwaitingDescription Stage = "awaiting_description"
	StagePromptShown         Stage = "prompt_shown"
	StageAwaitingRefinement  Stage = "awaiting_refinement"
)

// Category selects which system prompt the backend uses.
type Category string

const (
	CategoryImage Category = "image"
	CategoryCode  Category = "code"
	CategoryVideo Category = "video"
	CategoryText  Category = "text"
)

// Categories in menu order.
var Categories = []Category{CategoryImage, CategoryCode, CategoryVideo, CategoryText}

// ParseCategory validates raw callback data.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryImage, CategoryCode, CategoryVideo, CategoryText:
		return Category(s), true
	}
	return "", false
}

// Session is the per-chat conversational context. It is never persisted;
// entries are evicted after an idle timeout to bound memory.
type Session struct {
	ChatID       int64
	Stage        Stage
	Category     Category
	LastPrompt   string
	Description  string
	LastActivity time.Time
}

// NewSession creates a fresh session at the main menu.
func NewSession(chatID int64) *Session {
	return &Session{
		ChatID:       chatID,
		Stage:        StageMainMenu,
		LastActivity: time.Now(),
	}
}

// Touch refreshes the idle-eviction clock.
func (s *Session) Touch() {
	s.LastActivity = time.Now()
}

// HistoryEntry is a capped, truncated record of a generated prompt.
type HistoryEntry struct {
	Category  Category  `json:"category"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

// PreviewLimit bounds how much of a generated prompt the history keeps.
const PreviewLimit = 200

// NewHistoryEntry truncates the prompt to PreviewLimit runes.
func NewHistoryEntry(category Category, prompt string) HistoryEntry {
	r := []rune(prompt)
	preview := prompt
	if len(r) > PreviewLimit {
		preview = string(r[:PreviewLimit]) + "…"
	}
	return HistoryEntry{Category: category, Preview: preview, CreatedAt: time.Now()}
}
