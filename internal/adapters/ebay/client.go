package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// client.go — búsqueda de piezas usadas en el Browse API de eBay.
//
// Una búsqueda por pieza: query textual + categoría + filter de condición.
// Se capea a una página de 200 resultados ordenados por precio; para
// percentiles de valor de desguace no hace falta más.

const (
	productionBaseURL = "https://api.ebay.com/buy/browse/v1"
	sandboxBaseURL    = "https://api.sandbox.ebay.com/buy/browse/v1"

	searchLimit    = 200
	requestTimeout = 8 * time.Second

	// Browse API permite 5000 calls/día para apps nuevas: 2/s con burst
	// corto queda muy por debajo y evita throttling en scans concurrentes.
	searchRatePerSec = 2
	searchBurst      = 3
)

// searchResponse es la porción del item_summary/search que consumimos.
type searchResponse struct {
	ItemSummaries []itemSummary `json:"itemSummaries"`
	Total         int           `json:"total"`
}

type itemSummary struct {
	ItemID          string           `json:"itemId"`
	Title           string           `json:"title"`
	Price           money            `json:"price"`
	ShippingOptions []shippingOption `json:"shippingOptions"`
}

type money struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type shippingOption struct {
	ShippingCost money `json:"shippingCost"`
}

// Config son las credenciales y el entorno del marketplace.
type Config struct {
	ClientID     string
	ClientSecret string
	Sandbox      bool
	// BaseURL y TokenURL solo se sobreescriben en tests.
	BaseURL  string
	TokenURL string
}

// Client busca piezas usadas en eBay. Implementa ports.PartSearcher.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient crea el cliente del Browse API con OAuth2 y rate limiting.
func NewClient(ctx context.Context, cfg Config) *Client {
	baseURL := cfg.BaseURL
	tokenURL := cfg.TokenURL
	if baseURL == "" {
		if cfg.Sandbox {
			baseURL = sandboxBaseURL
		} else {
			baseURL = productionBaseURL
		}
	}
	if tokenURL == "" {
		if cfg.Sandbox {
			tokenURL = sandboxTokenURL
		} else {
			tokenURL = productionTokenURL
		}
	}

	httpClient := newAuthClient(ctx, cfg.ClientID, cfg.ClientSecret, tokenURL)
	httpClient.Timeout = requestTimeout

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		limiter: rate.NewLimiter(searchRatePerSec, searchBurst),
	}
}

// Search busca listings activos de una pieza para el vehículo dado.
// Items sin precio parseable se descartan en silencio.
func (c *Client) Search(ctx context.Context, vehicle domain.Vehicle, part domain.PartQuery) ([]domain.Listing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("ebay.Search: rate limiter: %w", err)
	}

	query := BuildQuery(vehicle, part)
	params := url.Values{
		"q":            {query},
		"category_ids": {part.CategoryID},
		"filter":       {buildFilter(part.MinPrice)},
		"sort":         {"price"},
		"limit":        {strconv.Itoa(searchLimit)},
	}

	endpoint := c.baseURL + "/item_summary/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ebay.Search: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ebay.Search: %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ebay.Search: %q: status %d: %s", query, resp.StatusCode, string(body))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("ebay.Search: decode: %w", err)
	}

	listings := mapListings(decoded.ItemSummaries)
	slog.Debug("ebay search", "query", query, "total", decoded.Total, "usable", len(listings))
	return listings, nil
}

// mapListings convierte los item summaries en listings de dominio.
// El shipping toma la primera opción; ausente cuenta como $0.
func mapListings(items []itemSummary) []domain.Listing {
	listings := make([]domain.Listing, 0, len(items))
	for _, item := range items {
		price, err := strconv.ParseFloat(item.Price.Value, 64)
		if err != nil {
			continue
		}
		var shipping float64
		if len(item.ShippingOptions) > 0 {
			shipping, _ = strconv.ParseFloat(item.ShippingOptions[0].ShippingCost.Value, 64)
		}
		listings = append(listings, domain.Listing{
			ItemID:   item.ItemID,
			Title:    item.Title,
			Price:    price,
			Shipping: shipping,
		})
	}
	return listings
}
