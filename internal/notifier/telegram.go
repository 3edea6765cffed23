// Package notifier adapta o bot do Telegram à interface de envio que o
// ciclo de verificação consome.
package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier envia mensagens HTML via API do Telegram
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramNotifier cria um novo notificador sobre o bot dado
func NewTelegramNotifier(bot *tgbotapi.BotAPI) *TelegramNotifier {
	return &TelegramNotifier{bot: bot}
}

// Send envia o texto para o chat indicado. Erros de entrega (chat
// bloqueado, destinatário inválido) voltam para o chamador decidir
func (n *TelegramNotifier) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("erro ao enviar mensagem para %d: %w", chatID, err)
	}
	return nil
}
