package provider

import (
	"context"
	"errors"
)

// ErrGameNotFound indica que a fonte não conhece (ou removeu) o jogo
var ErrGameNotFound = errors.New("jogo não encontrado na fonte")

// GameInfo contém os dados de um jogo retornados pela fonte de preços.
// Campos de preço são ponteiros: nil significa valor ausente na página
type GameInfo struct {
	SourceID        string
	Title           string
	Platform        string
	PriceCents      *int64
	OriginalCents   *int64
	DiscountPercent *int64
	Currency        string
	URL             string
}

// PriceProvider define a interface das fontes de preço
type PriceProvider interface {
	// Lookup busca os dados atuais de um jogo. Retorna ErrGameNotFound
	// quando a fonte não conhece o ID; qualquer erro (inclusive timeout)
	// deve ser tratado pelo chamador como "pular e tentar no próximo ciclo"
	Lookup(ctx context.Context, sourceID, region string) (*GameInfo, error)

	// Search busca jogos pelo título, limitado aos primeiros resultados
	Search(ctx context.Context, query, region string) ([]GameInfo, error)
}
