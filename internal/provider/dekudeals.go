package provider

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	dekuBaseURL = "https://www.dekudeals.com"
	dekuItemURL = dekuBaseURL + "/items"

	// Máximo de resultados retornados por busca
	maxSearchResults = 10
)

// regionCurrencies mapeia a região preferida para a moeda esperada
var regionCurrencies = map[string]string{
	"us": "USD",
	"eu": "EUR",
	"jp": "JPY",
}

// DekuDealsProvider implementa PriceProvider raspando as páginas do DekuDeals
type DekuDealsProvider struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

// NewDekuDealsProvider cria uma nova instância do provider do DekuDeals.
// O limiter espaça as requisições para não sobrecarregar o site durante
// a varredura (uma requisição a cada 2 segundos)
func NewDekuDealsProvider(timeout time.Duration) *DekuDealsProvider {
	return &DekuDealsProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		baseURL: dekuBaseURL,
	}
}

// Lookup busca os dados atuais de um jogo na página do item
func (p *DekuDealsProvider) Lookup(ctx context.Context, sourceID, region string) (*GameInfo, error) {
	doc, status, err := p.fetch(ctx, fmt.Sprintf("%s/items/%s?country=%s", p.baseURL, url.PathEscape(sourceID), regionParam(region)))
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || status == http.StatusGone {
		return nil, ErrGameNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("status code inesperado do DekuDeals: %d", status)
	}

	info := &GameInfo{
		SourceID: sourceID,
		Platform: "switch",
		Currency: currencyFor(region),
		URL:      fmt.Sprintf("%s/%s", dekuItemURL, sourceID),
	}

	info.Title = strings.TrimSpace(doc.Find("h1.item-title").First().Text())
	if info.Title == "" {
		// Página sem título é página de erro disfarçada
		return nil, ErrGameNotFound
	}

	container := doc.Find("div.price-container").First()
	info.PriceCents = parsePriceCents(container.Find("span.price-current").First().Text())
	info.OriginalCents = parsePriceCents(container.Find("span.price-original").First().Text())
	info.DiscountPercent = parseDiscount(container.Find("span.price-discount").First().Text())

	return info, nil
}

// Search busca jogos pelo título na página de busca do DekuDeals
func (p *DekuDealsProvider) Search(ctx context.Context, query, region string) ([]GameInfo, error) {
	params := url.Values{}
	params.Set("term", query)
	params.Set("country", regionParam(region))

	doc, status, err := p.fetch(ctx, p.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("status code inesperado do DekuDeals: %d", status)
	}

	return parseSearchResults(doc, region), nil
}

// fetch executa uma requisição GET respeitando o rate limit e retorna o
// documento parseado junto com o status HTTP
func (p *DekuDealsProvider) fetch(ctx context.Context, rawURL string) (*goquery.Document, int, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("erro ao parsear HTML: %w", err)
	}
	return doc, resp.StatusCode, nil
}

// parseSearchResults extrai os jogos da página de busca
func parseSearchResults(doc *goquery.Document, region string) []GameInfo {
	var games []GameInfo

	doc.Find("div.item-grid-item").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(games) >= maxSearchResults {
			return false
		}

		link := s.Find("a.item-grid-item-name").First()
		title := strings.TrimSpace(link.Text())
		href, ok := link.Attr("href")
		if title == "" || !ok {
			return true
		}

		// O source_id é o último segmento do caminho /items/<id>
		parts := strings.Split(strings.TrimSuffix(href, "/"), "/")
		sourceID := parts[len(parts)-1]
		if sourceID == "" {
			return true
		}

		info := GameInfo{
			SourceID: sourceID,
			Title:    title,
			Platform: "switch",
			Currency: currencyFor(region),
			URL:      dekuBaseURL + href,
		}

		price := s.Find("span.price").First()
		info.PriceCents = parsePriceCents(price.Find("span.price-current").First().Text())
		info.OriginalCents = parsePriceCents(price.Find("span.price-original").First().Text())
		info.DiscountPercent = parseDiscount(price.Find("span.price-discount").First().Text())

		games = append(games, info)
		return true
	})

	return games
}

// parsePriceCents converte um texto de preço ("$59.99", "¥6,500") em
// centavos. Retorna nil quando o texto não contém um preço válido
func parsePriceCents(text string) *int64 {
	cleaned := strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", ",", "", " ", " ").Replace(text)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return nil
	}
	cents := int64(math.Round(value * 100))
	return &cents
}

// parseDiscount converte um texto de desconto ("-30%") em percentual
func parseDiscount(text string) *int64 {
	cleaned := strings.NewReplacer("%", "", "-", "").Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return nil
	}
	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || value < 0 || value > 100 {
		return nil
	}
	return &value
}

// regionParam normaliza a região para o parâmetro aceito pelo site
func regionParam(region string) string {
	if _, ok := regionCurrencies[region]; ok {
		return region
	}
	return "us"
}

// currencyFor retorna a moeda da região, com fallback para USD
func currencyFor(region string) string {
	if c, ok := regionCurrencies[region]; ok {
		return c
	}
	return "USD"
}
