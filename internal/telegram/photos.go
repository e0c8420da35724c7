package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cropdoc/internal/pipeline"
	"cropdoc/internal/util"
)

var httpc = &http.Client{Timeout: 60 * time.Second}

func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID

	cropID, ok := getCrop(cid)
	if !ok {
		r.send(cid, r.t("need_crop"))
		return
	}

	r.send(cid, r.t("analyzing"))

	ph := msg.Photo[len(msg.Photo)-1]
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.sendError(cid, err)
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	imgBytes, err := download(url)
	if err != nil {
		r.sendError(cid, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	result, err := r.Pipe.Diagnose(ctx, pipeline.DiagnoseRequest{
		Image:  util.MakeDataURL(util.PickMIME("", imgBytes), imgBytes),
		CropID: cropID,
		Mode:   r.mode(cid),
		UserID: cid,
	})
	if err != nil {
		r.sendError(cid, err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🌱 %s: %s\n", r.t("diagnosis"), result.Disease.Name)
	fmt.Fprintf(&b, "%s: %.0f%%\n", r.t("confidence"), result.Confidence*100)
	if result.Disease.Symptoms != "" {
		b.WriteString(result.Disease.Symptoms + "\n")
	}
	if len(result.Treatments.Organic) > 0 {
		b.WriteString("\n" + r.t("organic") + ":\n")
		for _, t := range result.Treatments.Organic {
			b.WriteString("• " + t + "\n")
		}
	}
	if len(result.Treatments.Chemical) > 0 {
		b.WriteString("\n" + r.t("chemical") + ":\n")
		for _, t := range result.Treatments.Chemical {
			b.WriteString("• " + t + "\n")
		}
	}
	r.send(cid, b.String())
}

func (r *Router) sendError(chatID int64, err error) {
	r.send(chatID, r.t("error")+"\n"+err.Error())
}

func download(url string) ([]byte, error) {
	resp, err := httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}
