package notify

import (
	"fmt"
	"strings"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"script-tty/internal/config"
)

const maxMessageLen = 4000

// Notifier sends a single message to every configured chat when a
// recording session ends. It holds no per-session state beyond the bot
// client itself, unlike the teacher's interactive remote-control bridge:
// this is a one-shot fire-and-forget sink, not a command channel.
type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
}

// New returns nil, nil when Telegram notification isn't configured, so
// callers can treat a nil *Notifier as "do nothing".
func New(cfg *config.Config) (*Notifier, error) {
	if cfg == nil || cfg.TelegramBotToken == "" || len(cfg.TelegramChatIDs) == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("notify: telegram bot init: %w", err)
	}
	return &Notifier{bot: bot, chatIDs: cfg.TelegramChatIDs}, nil
}

// SessionEnded formats the final screen content captured by a
// ScreenReader and sends it to every configured chat. Errors from
// individual sends are collected but do not stop the remaining sends.
func (n *Notifier) SessionEnded(command string, screen string) error {
	if n == nil {
		return nil
	}
	header := fmt.Sprintf("session finished: %s\n\n", command)
	var errs []string
	for _, chatID := range n.chatIDs {
		if err := n.send(chatID, header, screen); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (n *Notifier) send(chatID int64, header, screen string) error {
	if screen == "" {
		return n.sendPlain(chatID, strings.TrimSpace(header))
	}
	if needsMonospace(screen) {
		return n.sendHTML(chatID, header+"<pre>"+htmlEscapeForPre(screen)+"</pre>")
	}
	body := header + formatMarkdownToTelegramHTML(screen)
	return n.sendHTML(chatID, body)
}

func (n *Notifier) sendPlain(chatID int64, text string) error {
	for _, chunk := range splitAtSafeBoundary(text, maxMessageLen) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if _, err := n.bot.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (n *Notifier) sendHTML(chatID int64, html string) error {
	for _, chunk := range splitAtSafeBoundary(html, maxMessageLen) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := n.bot.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

// needsMonospace reports whether the screen is likely a TUI/ASCII-art
// layout (box-drawing glyphs, heavy indentation, aligned columns) that
// would be mangled by markdown conversion and reads better verbatim.
func needsMonospace(s string) bool {
	boxGlyphs := 0
	leadingSpaceLines := 0
	lines := strings.Split(s, "\n")
	if len(lines) == 0 {
		return false
	}
	for _, line := range lines {
		for _, r := range line {
			if unicode.Is(unicode.So, r) || (r >= 0x2500 && r <= 0x257F) {
				boxGlyphs++
			}
		}
		if strings.HasPrefix(line, "  ") {
			leadingSpaceLines++
		}
	}
	return boxGlyphs > 4 || leadingSpaceLines*2 > len(lines)
}

func htmlEscapeForPre(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
