package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"ServerDesk/entity"
	"ServerDesk/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
)

type Core interface {
	Dispatch(ctx context.Context, kind entity.CommandKind, tenantID, channelID, profileID string) entity.Lines
}

type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
	adminId     int64
	core        Core
}

func NewTgBot(botName, apiKey string, adminId int64, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		adminId:     adminId,
		botUsername: botName,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %w", err)
	}
	tgBot.api = api

	return tgBot, nil
}

func (t *TgBot) SetCore(core Core) {
	t.core = core
}

// Start polls for updates and blocks until the updater stops.
func (t *TgBot) Start() error {

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		// If an error is returned by a handler, log it and continue going.
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewMessage(isCommand, t.handleCommand))

	err := updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	t.log.Info("telegram bot started", slog.String("username", t.botUsername))

	// Idle, to keep updates coming in, and avoid bot stopping.
	updater.Idle()

	return nil
}

func isCommand(msg *tgbotapi.Message) bool {
	return strings.HasPrefix(msg.Text, "/")
}

// handleCommand maps a group message onto a dispatch: the chat is the tenant,
// the forum topic (or the chat itself) is the channel.
func (t *TgBot) handleCommand(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if t.core == nil {
		t.log.Warn("core not initialized")
		return nil
	}

	msg := ctx.EffectiveMessage
	cmd, ok := parseCommand(msg.Text, t.botUsername)
	if !ok {
		return nil
	}

	chatID := msg.Chat.Id
	tenantID := strconv.FormatInt(chatID, 10)
	channelID := tenantID
	var threadID int64
	if msg.IsTopicMessage && msg.MessageThreadId != 0 {
		threadID = msg.MessageThreadId
		channelID = strconv.FormatInt(threadID, 10)
	}

	lines := t.core.Dispatch(context.Background(), cmd.kind, tenantID, channelID, cmd.profileID)
	if len(lines) == 0 {
		return nil
	}

	for _, line := range lines {
		t.htmlResponse(chatID, threadID, line)
	}
	return nil
}

// SendMessage delivers a plain message to the admin chat.
func (t *TgBot) SendMessage(msg string) {

	t.plainResponse(t.adminId, msg)
}

func (t *TgBot) htmlResponse(chatId, threadId int64, line string) {
	text := toHTML(line)
	if strings.TrimSpace(text) == "" {
		return
	}
	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode:       "HTML",
		MessageThreadId: threadId,
	})
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
			slog.Int64("thread", threadId),
		).Error("sending reply", sl.Err(err))
	}
}

func (t *TgBot) plainResponse(chatId int64, text string) {

	sanitized := sanitize(text)

	if sanitized != "" {
		_, err := t.api.SendMessage(chatId, sanitized, &tgbotapi.SendMessageOpts{
			ParseMode: "MarkdownV2",
		})
		if err != nil {
			t.log.With(
				slog.Int64("id", chatId),
			).Warn("sending message", sl.Err(err))
			_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
			if err != nil {
				t.log.With(
					slog.Int64("id", chatId),
				).Error("sending safe message", sl.Err(err))
			}
		}
	} else {
		t.log.With(
			slog.Int64("id", chatId),
		).Debug("empty message")
	}
}
