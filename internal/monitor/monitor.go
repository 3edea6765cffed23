package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"bot-jogos/internal/metrics"
	"bot-jogos/internal/models"
	"bot-jogos/internal/provider"
)

// A varredura sempre consulta a fonte na região canônica do catálogo;
// a região preferida do usuário vale para a busca e para a moeda exibida
const sweepRegion = models.RegionUS

// Store é o recorte do banco de dados que o ciclo de verificação consome
type Store interface {
	GamesWithWishlist(ctx context.Context) ([]models.Game, error)
	WishlistEntriesByGame(ctx context.Context, gameID int64) ([]models.WishlistEntry, error)
	RecordCheck(ctx context.Context, gameID int64, snap models.PriceSnapshot) error
	RecordNotification(ctx context.Context, itemID, userID, gameID, priceCents int64, rule string) error
}

// Notifier envia uma mensagem HTML para o chat de um usuário
type Notifier interface {
	Send(chatID int64, text string) error
}

// Monitor executa a varredura periódica de preços: consulta a fonte para
// cada jogo acompanhado, persiste o novo estado e notifica os usuários
// cujos alvos foram atingidos
type Monitor struct {
	store        Store
	provider     provider.PriceProvider
	notifier     Notifier
	metrics      *metrics.Collector
	interval     time.Duration
	fetchTimeout time.Duration

	// Garante que duas varreduras nunca rodem ao mesmo tempo
	running sync.Mutex

	mu        sync.Mutex
	lastSweep time.Time
}

// New cria uma nova instância do monitor. Todas as dependências são
// injetadas na construção; não há inicialização em duas fases
func New(store Store, prov provider.PriceProvider, notifier Notifier, collector *metrics.Collector, interval, fetchTimeout time.Duration) *Monitor {
	return &Monitor{
		store:        store,
		provider:     prov,
		notifier:     notifier,
		metrics:      collector,
		interval:     interval,
		fetchTimeout: fetchTimeout,
	}
}

// Start roda a varredura imediatamente e depois a cada intervalo, até o
// contexto ser cancelado. Deve ser chamado em uma goroutine própria
func (m *Monitor) Start(ctx context.Context) {
	slog.Info("monitor iniciado", slog.Duration("interval", m.interval))

	if err := m.RunCycle(ctx); err != nil {
		slog.Error("varredura abortada", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor encerrado")
			return
		case <-ticker.C:
			if err := m.RunCycle(ctx); err != nil {
				slog.Error("varredura abortada", slog.String("error", err.Error()))
			}
		}
	}
}

// LastSweep retorna o horário da última varredura concluída (zero se
// nenhuma terminou ainda). Usado pelo endpoint de health
func (m *Monitor) LastSweep() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSweep
}

// RunCycle executa uma varredura completa. Falhas de consulta ou de envio
// são isoladas por jogo e por usuário; apenas erros do banco abortam o
// ciclo, que será repetido no próximo disparo do ticker
func (m *Monitor) RunCycle(ctx context.Context) error {
	if !m.running.TryLock() {
		slog.Warn("varredura anterior ainda em andamento, pulando disparo")
		return nil
	}
	defer m.running.Unlock()

	start := time.Now()

	games, err := m.store.GamesWithWishlist(ctx)
	if err != nil {
		return fmt.Errorf("erro ao enumerar jogos acompanhados: %w", err)
	}

	slog.Info("varredura iniciada", slog.Int("games", len(games)))

	for _, game := range games {
		// Encerramento entre jogos é seguro: cada atualização já foi
		// persistida como unidade própria
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := m.checkGame(ctx, game); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.lastSweep = time.Now()
	m.mu.Unlock()
	m.metrics.RecordSweep(time.Since(start))

	slog.Info("varredura concluída",
		slog.Int("games", len(games)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// checkGame verifica um único jogo: consulta o preço, persiste o novo
// estado e dispara as notificações. Retorna erro apenas para falhas do
// banco; falhas da fonte são registradas e engolidas
func (m *Monitor) checkGame(ctx context.Context, game models.Game) error {
	lookupCtx, cancel := context.WithTimeout(ctx, m.fetchTimeout)
	defer cancel()

	info, err := m.provider.Lookup(lookupCtx, game.SourceID, sweepRegion)
	if err != nil {
		m.metrics.RecordLookupFailure()
		if errors.Is(err, provider.ErrGameNotFound) {
			slog.Warn("jogo não encontrado na fonte",
				slog.String("source_id", game.SourceID),
				slog.String("title", game.Title),
			)
		} else {
			slog.Warn("erro ao consultar preço",
				slog.String("source_id", game.SourceID),
				slog.String("title", game.Title),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
	m.metrics.RecordLookupSuccess()

	snap := models.PriceSnapshot{
		PriceCents:      info.PriceCents,
		OriginalCents:   info.OriginalCents,
		DiscountPercent: info.DiscountPercent,
		Currency:        info.Currency,
		CheckedAt:       time.Now().UTC(),
	}
	if err := m.store.RecordCheck(ctx, game.ID, snap); err != nil {
		return fmt.Errorf("erro ao persistir verificação do jogo %d: %w", game.ID, err)
	}

	// Sem preço atual não há o que avaliar: o matcher nunca é invocado
	// com preço nulo
	if snap.PriceCents == nil {
		return nil
	}

	entries, err := m.store.WishlistEntriesByGame(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("erro ao buscar assinantes do jogo %d: %w", game.ID, err)
	}

	matches := MatchAlerts(*snap.PriceCents, snap.Currency, entries)
	for _, match := range matches {
		if err := m.dispatch(ctx, game, snap, match); err != nil {
			return err
		}
	}

	return nil
}

// dispatch envia uma notificação e, somente após o envio confirmado,
// avança a marca d'água e grava o registro. Falha de envio deixa a marca
// d'água intacta para que o próximo ciclo tente de novo
func (m *Monitor) dispatch(ctx context.Context, game models.Game, snap models.PriceSnapshot, match Match) error {
	text := renderAlert(game, snap, match)

	if err := m.notifier.Send(match.Entry.User.TelegramID, text); err != nil {
		m.metrics.RecordNotificationFailure()
		slog.Error("erro ao enviar notificação",
			slog.Int64("telegram_id", match.Entry.User.TelegramID),
			slog.String("title", game.Title),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := m.store.RecordNotification(ctx, match.Entry.Item.ID, match.Entry.User.ID, game.ID, match.NewWatermarkCents, match.Reason); err != nil {
		return fmt.Errorf("erro ao registrar notificação do item %d: %w", match.Entry.Item.ID, err)
	}

	m.metrics.RecordNotificationSent()
	slog.Info("notificação enviada",
		slog.Int64("telegram_id", match.Entry.User.TelegramID),
		slog.String("title", game.Title),
		slog.Int64("price_cents", match.NewWatermarkCents),
	)
	return nil
}

// renderAlert monta o texto HTML da notificação com título, preço novo,
// motivo e o link do jogo na fonte
func renderAlert(game models.Game, snap models.PriceSnapshot, match Match) string {
	text := fmt.Sprintf(
		"🎉 <b>Game discount!</b>\n\n"+
			"🎮 <b>%s</b>\n"+
			"💰 New price: %s\n"+
			"📊 %s\n\n"+
			"🔗 Check on DekuDeals: https://www.dekudeals.com/items/%s",
		escapeHTML(game.Title),
		models.FormatPrice(snap.PriceCents, snap.Currency),
		match.Reason,
		game.SourceID,
	)
	return text
}

// escapeHTML escapa os caracteres especiais do parse mode HTML do Telegram
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}
