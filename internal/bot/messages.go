package bot

import (
	"fmt"
	"strings"

	"bot-jogos/internal/database"
	"bot-jogos/internal/models"
)

const helpText = `🎮 <b>Nintendo Deals Bot</b>

Track Nintendo Switch game prices on DekuDeals and get notified when they drop below your target.

<b>Commands:</b>

/add &lt;title&gt; — search a game and add it to your wishlist
/list — show your wishlist
/setthreshold &lt;number&gt; &lt;price&gt; — set a target price for game number from /list
/remove &lt;number&gt; — remove a game from your wishlist
/region — choose your store region (us, eu, jp)
/history — your recent price alerts
/menu — open the menu
/donate — support the bot and get extra wishlist slots
/help — this message`

const donateText = `💜 <b>Support Nintendo Deals Bot</b>

The bot is free for up to %d games. Supporters get +5 wishlist slots for 6 months per donation.

Contact @nintendodealsbot_support to donate.`

// escapeHTML escapa caracteres especiais do HTML
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// regionDisplayName retorna o nome exibido da região
func regionDisplayName(region string) string {
	switch region {
	case models.RegionUS:
		return "🇺🇸 United States"
	case models.RegionEU:
		return "🇪🇺 Europe"
	case models.RegionJP:
		return "🇯🇵 Japan"
	}
	return strings.ToUpper(region)
}

// renderWishlist monta o texto do /list com numeração estável por ordem
// de inclusão, a mesma usada por /remove e /setthreshold
func renderWishlist(items []database.WishlistGame) string {
	if len(items) == 0 {
		return "📋 Your wishlist is empty. Use /add <title> to track a game."
	}

	var b strings.Builder
	b.WriteString("📋 <b>Your wishlist:</b>\n\n")

	for i, wg := range items {
		b.WriteString(fmt.Sprintf("%d. <b>%s</b>\n", i+1, escapeHTML(wg.Game.Title)))
		b.WriteString(fmt.Sprintf("   💰 %s", models.FormatPrice(wg.Game.LastPriceCents, wg.Game.Currency)))

		if wg.Game.DiscountPercent != nil && *wg.Game.DiscountPercent > 0 {
			b.WriteString(fmt.Sprintf(" (%d%% off", *wg.Game.DiscountPercent))
			if wg.Game.OriginalCents != nil {
				b.WriteString(fmt.Sprintf(", was %s", models.FormatPrice(wg.Game.OriginalCents, wg.Game.Currency)))
			}
			b.WriteString(")")
		}
		b.WriteString("\n")

		if wg.Item.DesiredPriceCents != nil {
			b.WriteString(fmt.Sprintf("   🎯 Target: %s\n", models.FormatPrice(wg.Item.DesiredPriceCents, wg.Game.Currency)))
		}

		if wg.Game.LastChecked != nil {
			b.WriteString(fmt.Sprintf("   🕐 Checked: %s\n", wg.Game.LastChecked.Format("2006-01-02 15:04")))
		} else {
			b.WriteString("   🕐 Checked: never\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Use /setthreshold <number> <price> to set a target price.")
	return b.String()
}

// renderHistory monta o texto do /history
func renderHistory(items []database.NotificationGame) string {
	if len(items) == 0 {
		return "📭 No price alerts yet."
	}

	var b strings.Builder
	b.WriteString("🔔 <b>Your recent alerts:</b>\n\n")

	for _, ng := range items {
		price := ng.Notification.PriceCents
		b.WriteString(fmt.Sprintf("• <b>%s</b> at %s — %s\n",
			escapeHTML(ng.Game.Title),
			models.FormatPrice(&price, ng.Game.Currency),
			ng.Notification.SentAt.Format("2006-01-02"),
		))
	}
	return b.String()
}
