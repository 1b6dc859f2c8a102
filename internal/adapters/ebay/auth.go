package ebay

import (
	"context"
	"net/http"

	"golang.org/x/oauth2/clientcredentials"
)

// auth.go — OAuth2 client credentials contra el identity service de eBay.
//
// El token de aplicación expira cada ~2 horas; el TokenSource lo cachea y
// renueva solo, así que cada búsqueda usa un token vigente sin pedir uno
// nuevo por request.

const (
	productionTokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	sandboxTokenURL    = "https://api.sandbox.ebay.com/identity/v1/oauth2/token"

	browseScope = "https://api.ebay.com/oauth/api_scope"
)

// newAuthClient devuelve un *http.Client que inyecta y renueva el bearer
// token de aplicación en cada request.
func newAuthClient(ctx context.Context, clientID, clientSecret, tokenURL string) *http.Client {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{browseScope},
	}
	return cfg.Client(ctx)
}
