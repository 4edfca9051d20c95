// internal/telegram/doc.go

// Package telegram delivers scan results to a Telegram chat via the Bot API.
package telegram

import "github.com/user/commentwatch/internal/types"

// Compile-time interface checks.
var _ types.Notifier = (*Announcer)(nil)
