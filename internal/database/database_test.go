package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bot-jogos/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("erro ao abrir banco de teste: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreateGame(t *testing.T, db *DB, sourceID, title string) *models.Game {
	t.Helper()
	game := &models.Game{SourceID: sourceID, Title: title, Platform: "switch", Currency: "USD"}
	if err := db.CreateGame(context.Background(), game); err != nil {
		t.Fatalf("erro ao criar jogo: %v", err)
	}
	return game
}

func TestGetOrCreateUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, err := db.GetOrCreateUser(ctx, 42, "alice")
	if err != nil {
		t.Fatalf("erro ao criar usuário: %v", err)
	}
	if user.Region != models.RegionUS {
		t.Errorf("região padrão = %q, esperado us", user.Region)
	}

	again, err := db.GetOrCreateUser(ctx, 42, "alice")
	if err != nil {
		t.Fatalf("erro ao buscar usuário existente: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("usuário duplicado: IDs %d e %d", user.ID, again.ID)
	}
}

func TestUpdateUserRegion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, _ := db.GetOrCreateUser(ctx, 42, "alice")

	if err := db.UpdateUserRegion(ctx, user.ID, models.RegionJP); err != nil {
		t.Fatalf("erro ao atualizar região: %v", err)
	}
	updated, _ := db.GetUserByID(ctx, user.ID)
	if updated.Region != models.RegionJP {
		t.Errorf("região = %q, esperado jp", updated.Region)
	}

	if err := db.UpdateUserRegion(ctx, user.ID, "br"); err == nil {
		t.Error("região inválida deve ser rejeitada")
	}
}

func TestActiveBonusSlots(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now()

	user, _ := db.GetOrCreateUser(ctx, 42, "alice")

	// Compra vigente e compra expirada: só a primeira conta
	if err := db.AddPremiumPurchase(ctx, user.ID, 5, now.Add(30*24*time.Hour)); err != nil {
		t.Fatalf("erro ao registrar compra: %v", err)
	}
	if err := db.AddPremiumPurchase(ctx, user.ID, 10, now.Add(-time.Hour)); err != nil {
		t.Fatalf("erro ao registrar compra expirada: %v", err)
	}

	bonus, err := db.ActiveBonusSlots(ctx, user.ID, now)
	if err != nil {
		t.Fatalf("erro ao somar bônus: %v", err)
	}
	if bonus != 5 {
		t.Errorf("bônus ativo = %d, esperado 5", bonus)
	}
}

func TestGameDedupBySourceID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created := mustCreateGame(t, db, "hollow-knight", "Hollow Knight")

	found, err := db.GetGameBySourceID(ctx, "hollow-knight")
	if err != nil {
		t.Fatalf("erro ao buscar jogo: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("jogo não encontrado pelo source_id")
	}

	dup := &models.Game{SourceID: "hollow-knight", Title: "Hollow Knight", Platform: "switch"}
	if err := db.CreateGame(ctx, dup); err == nil {
		t.Error("source_id duplicado deve ser rejeitado pelo banco")
	}
}

func TestGamesWithWishlist(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice, _ := db.GetOrCreateUser(ctx, 1, "alice")
	bob, _ := db.GetOrCreateUser(ctx, 2, "bob")

	tracked := mustCreateGame(t, db, "tracked", "Tracked Game")
	mustCreateGame(t, db, "ignored", "Ignored Game")

	// Dois usuários no mesmo jogo: o jogo aparece uma única vez
	if err := db.AddToWishlist(ctx, alice.ID, tracked.ID); err != nil {
		t.Fatalf("erro ao adicionar à wishlist: %v", err)
	}
	if err := db.AddToWishlist(ctx, bob.ID, tracked.ID); err != nil {
		t.Fatalf("erro ao adicionar à wishlist: %v", err)
	}

	games, err := db.GamesWithWishlist(ctx)
	if err != nil {
		t.Fatalf("erro ao enumerar jogos: %v", err)
	}
	if len(games) != 1 || games[0].SourceID != "tracked" {
		t.Fatalf("esperado apenas o jogo acompanhado, recebido %+v", games)
	}
}

func TestWishlistLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, _ := db.GetOrCreateUser(ctx, 1, "alice")
	game := mustCreateGame(t, db, "celeste", "Celeste")

	if err := db.AddToWishlist(ctx, user.ID, game.ID); err != nil {
		t.Fatalf("erro ao adicionar: %v", err)
	}

	item, err := db.FindWishlistItem(ctx, user.ID, game.ID)
	if err != nil || item == nil {
		t.Fatalf("item não encontrado: %v", err)
	}
	if item.DesiredPriceCents != nil || item.LastNotifiedCents != nil {
		t.Error("item novo deve nascer sem alvo e sem marca d'água")
	}

	// O par (usuário, jogo) é único
	if err := db.AddToWishlist(ctx, user.ID, game.ID); err == nil {
		t.Error("item duplicado deve ser rejeitado pelo banco")
	}

	if err := db.SetDesiredPrice(ctx, item.ID, 1999); err != nil {
		t.Fatalf("erro ao definir alvo: %v", err)
	}
	item, _ = db.FindWishlistItem(ctx, user.ID, game.ID)
	if item.DesiredPriceCents == nil || *item.DesiredPriceCents != 1999 {
		t.Errorf("alvo = %v, esperado 1999", item.DesiredPriceCents)
	}

	count, err := db.CountWishlistItems(ctx, user.ID)
	if err != nil || count != 1 {
		t.Fatalf("contagem = %d (%v), esperado 1", count, err)
	}

	if err := db.RemoveWishlistItem(ctx, item.ID); err != nil {
		t.Fatalf("erro ao remover: %v", err)
	}
	count, _ = db.CountWishlistItems(ctx, user.ID)
	if count != 0 {
		t.Errorf("contagem após remoção = %d, esperado 0", count)
	}
}

func TestRecordCheck(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	game := mustCreateGame(t, db, "celeste", "Celeste")

	price := int64(1999)
	original := int64(2499)
	discount := int64(20)
	checkedAt := time.Now().UTC().Truncate(time.Second)

	snap := models.PriceSnapshot{
		PriceCents:      &price,
		OriginalCents:   &original,
		DiscountPercent: &discount,
		Currency:        "USD",
		CheckedAt:       checkedAt,
	}
	if err := db.RecordCheck(ctx, game.ID, snap); err != nil {
		t.Fatalf("erro ao persistir verificação: %v", err)
	}

	updated, _ := db.GetGameByID(ctx, game.ID)
	if updated.LastPriceCents == nil || *updated.LastPriceCents != 1999 {
		t.Errorf("preço = %v, esperado 1999", updated.LastPriceCents)
	}
	if updated.OriginalCents == nil || *updated.OriginalCents != 2499 {
		t.Errorf("preço original = %v, esperado 2499", updated.OriginalCents)
	}
	if updated.LastChecked == nil {
		t.Error("last_checked deve ser preenchido")
	}

	history, err := db.RecentPriceHistory(ctx, game.ID, 10)
	if err != nil {
		t.Fatalf("erro ao ler histórico: %v", err)
	}
	if len(history) != 1 || history[0].PriceCents != 1999 {
		t.Fatalf("histórico inesperado: %+v", history)
	}
}

func TestRecordCheckWithoutPrice(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	game := mustCreateGame(t, db, "unreleased", "Unreleased Game")

	snap := models.PriceSnapshot{Currency: "USD", CheckedAt: time.Now().UTC()}
	if err := db.RecordCheck(ctx, game.ID, snap); err != nil {
		t.Fatalf("erro ao persistir verificação sem preço: %v", err)
	}

	// Sem preço atual não há linha de histórico
	history, _ := db.RecentPriceHistory(ctx, game.ID, 10)
	if len(history) != 0 {
		t.Fatalf("histórico deve ficar vazio, recebido %+v", history)
	}

	updated, _ := db.GetGameByID(ctx, game.ID)
	if updated.LastPriceCents != nil {
		t.Errorf("preço deve permanecer nulo, recebido %d", *updated.LastPriceCents)
	}
	if updated.LastChecked == nil {
		t.Error("last_checked deve ser preenchido mesmo sem preço")
	}
}

func TestRecordNotification(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, _ := db.GetOrCreateUser(ctx, 1, "alice")
	game := mustCreateGame(t, db, "celeste", "Celeste")
	db.AddToWishlist(ctx, user.ID, game.ID)
	item, _ := db.FindWishlistItem(ctx, user.ID, game.ID)

	if err := db.RecordNotification(ctx, item.ID, user.ID, game.ID, 1700, "Price dropped to $17.00 (desired: $18.00)"); err != nil {
		t.Fatalf("erro ao registrar notificação: %v", err)
	}

	// Marca d'água avança junto com o registro
	item, _ = db.FindWishlistItem(ctx, user.ID, game.ID)
	if item.LastNotifiedCents == nil || *item.LastNotifiedCents != 1700 {
		t.Errorf("marca d'água = %v, esperado 1700", item.LastNotifiedCents)
	}

	recent, err := db.RecentNotifications(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("erro ao ler notificações: %v", err)
	}
	if len(recent) != 1 || recent[0].Notification.PriceCents != 1700 || recent[0].Game.Title != "Celeste" {
		t.Fatalf("notificações inesperadas: %+v", recent)
	}
}

func TestWishlistEntriesByGame(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice, _ := db.GetOrCreateUser(ctx, 1, "alice")
	bob, _ := db.GetOrCreateUser(ctx, 2, "bob")
	game := mustCreateGame(t, db, "celeste", "Celeste")

	db.AddToWishlist(ctx, alice.ID, game.ID)
	db.AddToWishlist(ctx, bob.ID, game.ID)

	entries, err := db.WishlistEntriesByGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("erro ao buscar assinantes: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("esperados 2 assinantes, recebidos %d", len(entries))
	}
	if entries[0].User.TelegramID != 1 || entries[1].User.TelegramID != 2 {
		t.Errorf("assinantes fora de ordem: %+v", entries)
	}
}
