package ebay_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phxauto/phoenixbid/internal/adapters/ebay"
	"github.com/phxauto/phoenixbid/internal/domain"
)

const searchFixture = `{
	"total": 3,
	"itemSummaries": [
		{
			"itemId": "v1|111|0",
			"title": "Engine Assembly 3.5L",
			"price": {"value": "1250.00", "currency": "USD"},
			"shippingOptions": [{"shippingCost": {"value": "150.00", "currency": "USD"}}]
		},
		{
			"itemId": "v1|222|0",
			"title": "Engine Motor 3.5 V6",
			"price": {"value": "980.50", "currency": "USD"}
		},
		{
			"itemId": "v1|333|0",
			"title": "Broken listing",
			"price": {"value": "not-a-number", "currency": "USD"}
		}
	]
}`

func newTestServer(t *testing.T, searchHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "test-token", "token_type": "Bearer", "expires_in": 7200}`))
	})
	mux.HandleFunc("/item_summary/search", searchHandler)
	return httptest.NewServer(mux)
}

func newTestClient(ctx context.Context, srv *httptest.Server) *ebay.Client {
	return ebay.NewClient(ctx, ebay.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/oauth2/token",
	})
}

func TestSearch_Success(t *testing.T) {
	var gotQuery, gotAuth string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "33615", r.URL.Query().Get("category_ids"))
		assert.Equal(t, "price", r.URL.Query().Get("sort"))
		assert.Equal(t, "200", r.URL.Query().Get("limit"))
		assert.Contains(t, r.URL.Query().Get("filter"), "conditionIds:{3000}")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchFixture))
	})
	defer srv.Close()

	client := newTestClient(context.Background(), srv)
	vehicle := domain.Vehicle{Year: "2018", Make: "HONDA", Model: "Accord", EngineDisplacementL: 3.5}
	listings, err := client.Search(context.Background(), vehicle, domain.PartQuery{SearchTerm: "engine", CategoryID: "33615"})

	require.NoError(t, err)
	assert.Equal(t, "2018 HONDA Accord 3.5L engine", gotQuery)
	assert.Equal(t, "Bearer test-token", gotAuth)

	// El item con precio no parseable se descarta
	require.Len(t, listings, 2)
	assert.Equal(t, 1250.00, listings[0].Price)
	assert.Equal(t, 150.00, listings[0].Shipping)
	assert.Equal(t, 1400.00, listings[0].Total())
	assert.Equal(t, 980.50, listings[1].Price)
	assert.Zero(t, listings[1].Shipping)
}

func TestSearch_MinPriceInFilter(t *testing.T) {
	var gotFilter string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total": 0, "itemSummaries": []}`))
	})
	defer srv.Close()

	client := newTestClient(context.Background(), srv)
	_, err := client.Search(context.Background(), domain.Vehicle{Year: "2018", Make: "HONDA", Model: "Accord"},
		domain.PartQuery{SearchTerm: "engine", CategoryID: "33615", MinPrice: 500})

	require.NoError(t, err)
	assert.Contains(t, gotFilter, "price:[500..],priceCurrency:USD")
}

func TestSearch_EmptyResults(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total": 0}`))
	})
	defer srv.Close()

	client := newTestClient(context.Background(), srv)
	listings, err := client.Search(context.Background(), domain.Vehicle{Year: "2018", Make: "HONDA", Model: "Accord"},
		domain.PartQuery{SearchTerm: "engine"})

	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestSearch_ServerError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors": [{"message": "bad category"}]}`, http.StatusBadRequest)
	})
	defer srv.Close()

	client := newTestClient(context.Background(), srv)
	_, err := client.Search(context.Background(), domain.Vehicle{Year: "2018", Make: "HONDA", Model: "Accord"},
		domain.PartQuery{SearchTerm: "engine"})

	assert.ErrorContains(t, err, "status 400")
}
