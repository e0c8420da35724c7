package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (r *Router) sendCropKeyboard(cid int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	crops, err := r.Crops.ListCrops(ctx)
	if err != nil {
		r.sendError(cid, fmt.Errorf("list crops: %w", err))
		return
	}
	if len(crops) == 0 {
		r.send(cid, r.t("error"))
		return
	}

	// Two buttons per row keeps names readable on small screens.
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range crops {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Name, fmt.Sprintf("crop:%d", c.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	msg := tgbotapi.NewMessage(cid, r.t("choose_crop"))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = r.Bot.Send(msg)
}
