package bot

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bot-jogos/internal/database"
	"bot-jogos/internal/entitlement"
	"bot-jogos/internal/models"
	"bot-jogos/internal/provider"
	"bot-jogos/internal/session"
)

// handler agrupa as dependências dos comandos do bot
type handler struct {
	bot      *tgbotapi.BotAPI
	db       *database.DB
	provider provider.PriceProvider
	sessions *session.Store
	limits   *entitlement.Service
}

// Listen consome as atualizações do Telegram até o contexto ser
// cancelado. Deve ser chamado em uma goroutine própria
func Listen(ctx context.Context, botAPI *tgbotapi.BotAPI, db *database.DB, prov provider.PriceProvider, sessions *session.Store, limits *entitlement.Service) {
	h := &handler{
		bot:      botAPI,
		db:       db,
		provider: prov,
		sessions: sessions,
		limits:   limits,
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			botAPI.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			switch {
			case update.CallbackQuery != nil:
				h.handleCallback(ctx, update.CallbackQuery)
			case update.Message != nil:
				h.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (h *handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := h.db.GetOrCreateUser(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		slog.Error("erro ao carregar usuário", slog.Int64("telegram_id", msg.From.ID), slog.String("error", err.Error()))
		h.sendPlain(msg.Chat.ID, "❌ Something went wrong, please try again.")
		return
	}

	if !msg.IsCommand() {
		h.handleFreeText(ctx, msg, user)
		return
	}

	switch msg.Command() {
	case "start", "help":
		h.sendHTML(msg.Chat.ID, helpText)
	case "menu":
		reply := tgbotapi.NewMessage(msg.Chat.ID, "What would you like to do?")
		reply.ReplyMarkup = mainMenuKeyboard()
		h.send(reply)
	case "region":
		h.handleRegion(msg.Chat.ID, user)
	case "donate":
		h.sendHTML(msg.Chat.ID, fmt.Sprintf(donateText, h.limits.Base()))
	case "add":
		h.handleAdd(ctx, msg, user)
	case "list":
		h.handleList(ctx, msg.Chat.ID, user)
	case "remove":
		h.handleRemove(ctx, msg, user)
	case "setthreshold":
		h.handleSetThreshold(ctx, msg, user)
	case "history":
		h.handleHistory(ctx, msg.Chat.ID, user)
	default:
		h.sendPlain(msg.Chat.ID, "Unknown command. Use /help to see the available commands.")
	}
}

// handleFreeText trata mensagens que não são comandos. A única entrada
// esperada é o valor de preço alvo pedido pelo botão "Set target price"
func (h *handler) handleFreeText(ctx context.Context, msg *tgbotapi.Message, user *models.User) {
	sess, ok := h.sessions.Get(user.TelegramID)
	if !ok || sess.PendingThresholdItem == 0 {
		return
	}

	cents, err := parsePriceCents(msg.Text)
	if err != nil {
		h.sendPlain(msg.Chat.ID, "❌ Invalid price. Send a positive number, e.g. 19.99")
		return
	}

	if err := h.db.SetDesiredPrice(ctx, sess.PendingThresholdItem, cents); err != nil {
		slog.Error("erro ao definir preço alvo", slog.String("error", err.Error()))
		h.sendPlain(msg.Chat.ID, "❌ Could not save the target price, please try again.")
		return
	}

	sess.PendingThresholdItem = 0
	h.sessions.Put(user.TelegramID, sess)

	h.sendPlain(msg.Chat.ID, fmt.Sprintf("✅ Target price set: %s. You will be notified when the price drops to it.",
		models.FormatPrice(&cents, models.RegionCurrency(user.Region))))
}

func (h *handler) handleRegion(chatID int64, user *models.User) {
	reply := tgbotapi.NewMessage(chatID, fmt.Sprintf("Your current region: %s\n\nChoose a region:", regionDisplayName(user.Region)))
	reply.ReplyMarkup = regionKeyboard()
	h.send(reply)
}

func (h *handler) handleAdd(ctx context.Context, msg *tgbotapi.Message, user *models.User) {
	query := strings.TrimSpace(msg.CommandArguments())
	if query == "" {
		h.sendPlain(msg.Chat.ID, "Usage: /add <game title>\n\nExample: /add hollow knight")
		return
	}

	results, err := h.provider.Search(ctx, query, user.Region)
	if err != nil {
		slog.Error("erro na busca", slog.String("query", query), slog.String("error", err.Error()))
		h.sendPlain(msg.Chat.ID, "❌ Search failed, please try again in a moment.")
		return
	}

	if len(results) == 0 {
		h.sendPlain(msg.Chat.ID, fmt.Sprintf("🔍 No games found for \"%s\".", query))
		return
	}

	sess, _ := h.sessions.Get(user.TelegramID)
	sess.Results = results
	h.sessions.Put(user.TelegramID, sess)

	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("🔍 Results for \"%s\" — tap a game to add it:", query))
	reply.ReplyMarkup = searchResultsKeyboard(results)
	h.send(reply)
}

func (h *handler) handleList(ctx context.Context, chatID int64, user *models.User) {
	items, err := h.db.WishlistForUser(ctx, user.ID)
	if err != nil {
		slog.Error("erro ao listar wishlist", slog.String("error", err.Error()))
		h.sendPlain(chatID, "❌ Could not load your wishlist, please try again.")
		return
	}
	h.sendHTML(chatID, renderWishlist(items))
}

func (h *handler) handleRemove(ctx context.Context, msg *tgbotapi.Message, user *models.User) {
	index, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.sendPlain(msg.Chat.ID, "Usage: /remove <number>\n\nThe number is the position shown by /list.")
		return
	}

	items, err := h.db.WishlistForUser(ctx, user.ID)
	if err != nil {
		slog.Error("erro ao carregar wishlist", slog.String("error", err.Error()))
		h.sendPlain(msg.Chat.ID, "❌ Could not load your wishlist, please try again.")
		return
	}

	if index < 1 || index > len(items) {
		h.sendPlain(msg.Chat.ID, "❌ Invalid game number. Check /list.")
		return
	}

	target := items[index-1]
	if err := h.db.RemoveWishlistItem(ctx, target.Item.ID); err != nil {
		slog.Error("erro ao remover da wishlist", slog.String("error", err.Error()))
		h.sendPlain(msg.Chat.ID, "❌ Could not remove the game, please try again.")
		return
	}

	h.sendPlain(msg.Chat.ID, fmt.Sprintf("✅ Removed from wishlist: %s", target.Game.Title))
}

func (h *handler) handleSetThreshold(ctx context.Context, msg *tgbotapi.Message, user *models.User) {
	parts := strings.Fields(msg.CommandArguments())
	if len(parts) != 2 {
		h.sendPlain(msg.Chat.ID, "Usage: /setthreshold <number> <price>\n\nExample: /setthreshold 1 19.99")
		return
	}

	index, err := strconv.Atoi(parts[0])
	if err != nil {
		h.sendPlain(msg.Chat.ID, "❌ Invalid game number. Check /list.")
		return
	}

	cents, err := parsePriceCents(parts[1])
	if err != nil {
		h.sendPlain(msg.Chat.ID, "❌ Invalid price. Use a positive number, e.g. 19.99")
		return
	}

	items, err := h.db.WishlistForUser(ctx, user.ID)
	if err != nil {
		slog.Error("erro ao carregar wishlist", slog.String("error", err.Error()))
		h.sendPlain(msg.Chat.ID, "❌ Could not load your wishlist, please try again.")
		return
	}

	if index < 1 || index > len(items) {
		h.sendPlain(msg.Chat.ID, "❌ Invalid game number. Check /list.")
		return
	}

	target := items[index-1]
	if err := h.db.SetDesiredPrice(ctx, target.Item.ID, cents); err != nil {
		slog.Error("erro ao definir preço alvo", slog.String("error", err.Error()))
		h.sendPlain(msg.Chat.ID, "❌ Could not save the target price, please try again.")
		return
	}

	h.sendPlain(msg.Chat.ID, fmt.Sprintf("✅ Target price for %s set: %s",
		target.Game.Title, models.FormatPrice(&cents, target.Game.Currency)))
}

func (h *handler) handleHistory(ctx context.Context, chatID int64, user *models.User) {
	items, err := h.db.RecentNotifications(ctx, user.ID, 10)
	if err != nil {
		slog.Error("erro ao carregar notificações", slog.String("error", err.Error()))
		h.sendPlain(chatID, "❌ Could not load your alerts, please try again.")
		return
	}
	h.sendHTML(chatID, renderHistory(items))
}

func (h *handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Confirma o recebimento para o Telegram parar o spinner do botão
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		slog.Warn("erro ao confirmar callback", slog.String("error", err.Error()))
	}

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	user, err := h.db.GetOrCreateUser(ctx, cb.From.ID, cb.From.UserName)
	if err != nil {
		slog.Error("erro ao carregar usuário", slog.Int64("telegram_id", cb.From.ID), slog.String("error", err.Error()))
		return
	}

	action, arg, _ := strings.Cut(cb.Data, ":")
	switch action {
	case "menu":
		h.handleMenuAction(ctx, chatID, user, arg)
	case "region":
		h.handleRegionChoice(ctx, chatID, user, arg)
	case "add":
		h.handleAddChoice(ctx, chatID, user, arg)
	case "threshold":
		h.handleThresholdPrompt(chatID, user, arg)
	}
}

func (h *handler) handleMenuAction(ctx context.Context, chatID int64, user *models.User, action string) {
	switch action {
	case "list":
		h.handleList(ctx, chatID, user)
	case "search":
		h.sendPlain(chatID, "Send /add <game title> to search. Example: /add mario kart")
	case "region":
		h.handleRegion(chatID, user)
	case "help":
		h.sendHTML(chatID, helpText)
	}
}

func (h *handler) handleRegionChoice(ctx context.Context, chatID int64, user *models.User, region string) {
	if !models.ValidRegion(region) {
		return
	}
	if err := h.db.UpdateUserRegion(ctx, user.ID, region); err != nil {
		slog.Error("erro ao atualizar região", slog.String("error", err.Error()))
		h.sendPlain(chatID, "❌ Could not update your region, please try again.")
		return
	}
	h.sendPlain(chatID, fmt.Sprintf("✅ Region set to %s", regionDisplayName(region)))
}

// handleAddChoice efetiva a adição de um resultado de busca à wishlist.
// O jogo é deduplicado pelo source_id: se outro usuário já o cadastrou,
// o registro existente é reaproveitado
func (h *handler) handleAddChoice(ctx context.Context, chatID int64, user *models.User, arg string) {
	sess, ok := h.sessions.Get(user.TelegramID)
	if !ok || len(sess.Results) == 0 {
		h.sendPlain(chatID, "⏰ This search expired. Send /add <title> to search again.")
		return
	}

	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 || index >= len(sess.Results) {
		return
	}
	info := sess.Results[index]

	usage, err := h.limits.Check(ctx, user.ID)
	if err != nil {
		slog.Error("erro ao consultar limite", slog.String("error", err.Error()))
		h.sendPlain(chatID, "❌ Something went wrong, please try again.")
		return
	}
	if !usage.CanAddMore {
		h.sendPlain(chatID, fmt.Sprintf("🚫 You reached your wishlist limit (%d games). Remove a game with /remove or see /donate for extra slots.", usage.Limit))
		return
	}

	game, err := h.db.GetGameBySourceID(ctx, info.SourceID)
	if err != nil {
		slog.Error("erro ao buscar jogo", slog.String("error", err.Error()))
		h.sendPlain(chatID, "❌ Something went wrong, please try again.")
		return
	}
	if game == nil {
		game = &models.Game{
			SourceID:        info.SourceID,
			Title:           info.Title,
			Platform:        info.Platform,
			LastPriceCents:  info.PriceCents,
			OriginalCents:   info.OriginalCents,
			DiscountPercent: info.DiscountPercent,
			Currency:        info.Currency,
		}
		if err := h.db.CreateGame(ctx, game); err != nil {
			slog.Error("erro ao cadastrar jogo", slog.String("error", err.Error()))
			h.sendPlain(chatID, "❌ Something went wrong, please try again.")
			return
		}
	}

	existing, err := h.db.FindWishlistItem(ctx, user.ID, game.ID)
	if err != nil {
		slog.Error("erro ao consultar wishlist", slog.String("error", err.Error()))
		h.sendPlain(chatID, "❌ Something went wrong, please try again.")
		return
	}
	if existing != nil {
		h.sendPlain(chatID, fmt.Sprintf("ℹ️ %s is already in your wishlist.", game.Title))
		return
	}

	if err := h.db.AddToWishlist(ctx, user.ID, game.ID); err != nil {
		slog.Error("erro ao adicionar à wishlist", slog.String("error", err.Error()))
		h.sendPlain(chatID, "❌ Could not add the game, please try again.")
		return
	}

	item, err := h.db.FindWishlistItem(ctx, user.ID, game.ID)
	if err != nil || item == nil {
		h.sendPlain(chatID, fmt.Sprintf("✅ %s added to your wishlist!", game.Title))
		return
	}

	reply := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ %s added to your wishlist! Current price: %s",
		game.Title, models.FormatPrice(game.LastPriceCents, game.Currency)))
	reply.ReplyMarkup = thresholdKeyboard(item.ID)
	h.send(reply)
}

func (h *handler) handleThresholdPrompt(chatID int64, user *models.User, arg string) {
	itemID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || itemID <= 0 {
		return
	}

	sess, _ := h.sessions.Get(user.TelegramID)
	sess.PendingThresholdItem = itemID
	h.sessions.Put(user.TelegramID, sess)

	h.sendPlain(chatID, "🎯 Send the target price as a number, e.g. 19.99")
}

// sendHTML envia uma mensagem com parse mode HTML, repetindo sem
// formatação se o Telegram rejeitar o markup
func (h *handler) sendHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := h.bot.Send(msg); err != nil {
		slog.Warn("erro ao enviar mensagem HTML, tentando sem formatação", slog.String("error", err.Error()))
		msg.ParseMode = ""
		h.send(msg)
	}
}

func (h *handler) sendPlain(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *handler) send(msg tgbotapi.MessageConfig) {
	if _, err := h.bot.Send(msg); err != nil {
		slog.Error("erro ao enviar mensagem", slog.Int64("chat_id", msg.ChatID), slog.String("error", err.Error()))
	}
}

// parsePriceCents converte a entrada do usuário ("19.99") em centavos
func parsePriceCents(input string) (int64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(input, ",", ".")), 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("preço inválido: %q", input)
	}
	return int64(math.Round(value * 100)), nil
}
