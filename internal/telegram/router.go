package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cropdoc/internal/diagnosis"
	"cropdoc/internal/i18n"
	"cropdoc/internal/pipeline"
	"cropdoc/internal/store"
)

type Router struct {
	Bot   *tgbotapi.BotAPI
	Pipe  *pipeline.Pipeline
	Crops *store.CropRepo

	// Lang is the reply language for all chats (per-chat preference is
	// a front-end concern the web UI owns).
	Lang string

	// DefaultMode is used until a chat switches with /mode.
	DefaultMode diagnosis.Mode
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.handleCommand(cid, upd.Message)
		return
	}
	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
		return
	}
}

func (r *Router) handleCommand(cid int64, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		r.send(cid, r.t("start"))
	case "crops":
		r.sendCropKeyboard(cid)
	case "mode":
		arg := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
		switch diagnosis.Mode(arg) {
		case diagnosis.ModeOnline:
			setMode(cid, diagnosis.ModeOnline)
			r.send(cid, r.t("mode_online"))
		case diagnosis.ModeOffline:
			setMode(cid, diagnosis.ModeOffline)
			r.send(cid, r.t("mode_offline"))
		default:
			r.send(cid, "/mode online | /mode offline")
		}
	default:
		r.send(cid, r.t("unknown_command"))
	}
}

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	cid := cb.Message.Chat.ID
	data := cb.Data
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, ""))

	if id, ok := strings.CutPrefix(data, "crop:"); ok {
		cropID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			r.send(cid, r.t("error"))
			return
		}
		setCrop(cid, cropID)
		r.send(cid, r.t("crop_selected"))
	}
}

func (r *Router) mode(cid int64) diagnosis.Mode {
	if m, ok := getMode(cid); ok {
		return m
	}
	return r.DefaultMode
}

func (r *Router) t(key string) string { return i18n.T(r.Lang, key) }

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = r.Bot.Send(msg)
}
