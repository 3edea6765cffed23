package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bot-jogos/internal/models"
	"bot-jogos/internal/provider"
)

// mainMenuKeyboard é o menu principal aberto pelo /menu
func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 My wishlist", "menu:list"),
			tgbotapi.NewInlineKeyboardButtonData("🔍 Search game", "menu:search"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌍 Region", "menu:region"),
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", "menu:help"),
		),
	)
}

// regionKeyboard lista as regiões suportadas
func regionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇸 United States", "region:"+models.RegionUS),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇪🇺 Europe", "region:"+models.RegionEU),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇯🇵 Japan", "region:"+models.RegionJP),
		),
	)
}

// searchResultsKeyboard monta um botão por resultado de busca. O callback
// carrega o índice dentro da sessão do usuário, não o ID da fonte, para
// caber no limite de 64 bytes do callback_data
func searchResultsKeyboard(results []provider.GameInfo) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(results))
	for i, game := range results {
		label := game.Title
		if game.PriceCents != nil {
			label = fmt.Sprintf("%s — %s", game.Title, models.FormatPrice(game.PriceCents, game.Currency))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(truncateLabel(label, 60), fmt.Sprintf("add:%d", i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// thresholdKeyboard oferece definir o preço alvo logo após adicionar
func thresholdKeyboard(itemID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Set target price", fmt.Sprintf("threshold:%d", itemID)),
		),
	)
}

// truncateLabel corta rótulos longos de botão
func truncateLabel(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-1]) + "…"
}
