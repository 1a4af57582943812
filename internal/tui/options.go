package tui

import "github.com/atotto/clipboard"

// CardConfig controls how much of each card is shown when collapsed.
type CardConfig struct {
	TitleLimit int
	TagsLimit  int
}

type Option func(*Model)

// ClipboardFunc writes text to the system clipboard.
type ClipboardFunc func(string) error

func DefaultCardConfig() CardConfig {
	return CardConfig{
		TitleLimit: 40,
		TagsLimit:  3,
	}
}

func WithCardConfig(cfg CardConfig) Option {
	return func(m *Model) {
		if cfg.TitleLimit > 0 {
			m.cards.TitleLimit = cfg.TitleLimit
		}
		if cfg.TagsLimit >= 0 {
			m.cards.TagsLimit = cfg.TagsLimit
		}
	}
}

func WithClipboard(fn ClipboardFunc) Option {
	return func(m *Model) {
		if fn != nil {
			m.copyText = fn
		}
	}
}

func WithTitle(title string) Option {
	return func(m *Model) {
		if title != "" {
			m.title = title
		}
	}
}

func systemClipboard(text string) error {
	return clipboard.WriteAll(text)
}
