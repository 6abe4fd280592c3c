package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nelson200402/Educacion/internal/dialog"
)

func (b *Bot) startAskAI(ctx context.Context, chatID int64) {
	b.clearPrevStep(ctx, chatID)
	if _, _, err := b.profile(ctx, chatID); err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	b.setState(ctx, chatID, dialog.StateAskAI, dialog.Payload{})
	b.ask(chatID, "💬 Escribe tu pregunta sobre cómo estudiar.", false)
}

func (b *Bot) handleAskAI(ctx context.Context, chatID int64, question string) {
	if question == "" {
		b.ask(chatID, "La pregunta no puede estar vacía.", false)
		return
	}
	profileID, actx, err := b.profile(ctx, chatID)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.Debug("chat action", "err", err)
	}

	rec, err := b.ai.Recommend(actx, profileID, question)
	if err != nil {
		b.fail(ctx, chatID, err)
		return
	}
	_ = b.states.Reset(ctx, chatID)

	text := strings.TrimSpace(rec.Text)
	if text == "" {
		text = "La IA no devolvió una recomendación."
	}
	b.send(tgbotapi.NewMessage(chatID, clip("🤖 "+text)))
}
