package telegram

import (
	"sync"

	"cropdoc/internal/diagnosis"
)

// Per-chat selections. The bot is stateless beyond these two maps;
// restarting it just asks the farmer to pick a crop again.
var (
	chatCrop sync.Map // chatID -> int64 crop id
	chatMode sync.Map // chatID -> diagnosis.Mode
)

func setCrop(chatID, cropID int64) { chatCrop.Store(chatID, cropID) }

func getCrop(chatID int64) (int64, bool) {
	if v, ok := chatCrop.Load(chatID); ok {
		id, _ := v.(int64)
		return id, id != 0
	}
	return 0, false
}

func setMode(chatID int64, m diagnosis.Mode) { chatMode.Store(chatID, m) }

func getMode(chatID int64) (diagnosis.Mode, bool) {
	if v, ok := chatMode.Load(chatID); ok {
		m, _ := v.(diagnosis.Mode)
		return m, m != ""
	}
	return "", false
}
