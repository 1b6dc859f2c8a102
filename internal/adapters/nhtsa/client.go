package nhtsa

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// nhtsa.go — decoder de VIN contra el servicio vPIC de la NHTSA.
//
// El API es público y sin auth, pero lento bajo carga: tres intentos con
// timeout creciente por intento (15s/25s/35s) en vez de un timeout fijo.

const defaultBaseURL = "https://vpic.nhtsa.dot.gov/api"

const (
	decodeAttempts  = 3
	baseTimeout     = 15 * time.Second
	timeoutStep     = 10 * time.Second
	vinMinLength    = 11
	engineCodeIndex = 7 // octavo carácter del VIN
)

// decodeResponse es la envoltura del endpoint decodevin: un array plano de
// pares variable/valor, no un objeto estructurado.
type decodeResponse struct {
	Results []struct {
		Variable string `json:"Variable"`
		Value    string `json:"Value"`
	} `json:"Results"`
}

// Client decodifica VINs contra vPIC. Implementa ports.VehicleDecoder.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient crea el decoder. baseURL vacío usa el endpoint de producción.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    resty.New(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Decode consulta vPIC y mapea la respuesta a un Vehicle. Error si tras los
// reintentos no hay respuesta o si faltan make/model/year.
func (c *Client) Decode(ctx context.Context, vin string) (domain.Vehicle, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if len(vin) < vinMinLength {
		return domain.Vehicle{}, fmt.Errorf("nhtsa.Decode: VIN %q demasiado corto", vin)
	}

	url := fmt.Sprintf("%s/vehicles/decodevin/%s?format=json", c.baseURL, vin)

	var decoded decodeResponse
	var lastErr error
	for attempt := 1; attempt <= decodeAttempts; attempt++ {
		timeout := baseTimeout + time.Duration(attempt-1)*timeoutStep
		slog.Debug("decoding VIN", "vin", vin, "attempt", attempt, "timeout", timeout)

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := c.http.R().
			SetContext(attemptCtx).
			SetResult(&decoded).
			ForceContentType("application/json").
			Get(url)
		cancel()

		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return domain.Vehicle{}, fmt.Errorf("nhtsa.Decode: %w", ctx.Err())
			}
			continue
		}
		if resp.StatusCode() != 200 {
			lastErr = fmt.Errorf("status %d", resp.StatusCode())
			continue
		}

		vehicle := mapResults(vin, decoded)
		if !vehicle.Complete() {
			return domain.Vehicle{}, fmt.Errorf("nhtsa.Decode: vPIC no devolvió make/model/year para %s", vin)
		}
		return vehicle, nil
	}
	return domain.Vehicle{}, fmt.Errorf("nhtsa.Decode: agotados %d intentos: %w", decodeAttempts, lastErr)
}

// mapResults convierte el array variable/valor de vPIC en un Vehicle.
// Valores "null" (literal, así los manda vPIC) cuentan como ausentes.
func mapResults(vin string, decoded decodeResponse) domain.Vehicle {
	v := domain.Vehicle{VIN: vin}
	if len(vin) > engineCodeIndex {
		v.EngineCode = string(vin[engineCodeIndex])
	}

	for _, r := range decoded.Results {
		value := strings.TrimSpace(r.Value)
		if value == "" || value == "null" {
			continue
		}
		switch r.Variable {
		case "Make":
			v.Make = value
		case "Model":
			v.Model = value
		case "Model Year":
			v.Year = value
		case "Trim":
			v.Trim = value
		case "Displacement (L)":
			if l, err := strconv.ParseFloat(value, 64); err == nil {
				v.EngineDisplacementL = roundTenth(l)
			}
		case "Displacement (CC)":
			// Solo si (L) no vino antes: litros es la fuente preferida
			if v.EngineDisplacementL == 0 {
				if cc, err := strconv.ParseFloat(value, 64); err == nil {
					v.EngineDisplacementL = roundTenth(cc / 1000)
				}
			}
		case "Engine Number of Cylinders":
			v.EngineCylinders = value
		case "Engine Configuration":
			v.EngineConfiguration = value
		case "Fuel Type - Primary":
			v.FuelType = value
		case "Drive Type":
			v.DriveType = value
		case "Transmission Style":
			v.TransmissionStyle = value
		case "Body Class":
			v.BodyClass = value
		case "Doors":
			v.Doors = value
		}
	}
	return v
}

func roundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}
