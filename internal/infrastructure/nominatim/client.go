package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/photomap-service/internal/config"
	"github.com/photomap-service/internal/domain"
	"github.com/photomap-service/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	zoom       int
	logger     *zap.Logger
}

// NewNominatimClient создает новый клиент для Nominatim reverse geocoding API
func NewNominatimClient(cfg *config.NominatimConfig, logger *zap.Logger) repository.GeocoderRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		zoom:      cfg.Zoom,
		logger:    logger,
	}
}

// ReverseGeocode запрашивает у Nominatim адрес по координатам.
// Любая ошибка возвращается как *domain.ProviderError с кодом причины.
func (c *client) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.ReverseGeocodeResponse, error) {
	reqURL := fmt.Sprintf("%s/reverse?format=json&lat=%s&lon=%s&zoom=%d",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%v", lat)),
		url.QueryEscape(fmt.Sprintf("%v", lon)),
		c.zoom,
	)

	c.logger.Debug("Calling Nominatim reverse API",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Int("zoom", c.zoom))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, domain.NewProviderError(domain.ProviderCodeUnknown, fmt.Sprintf("failed to create request: %v", err))
	}

	// Nominatim требует идентифицирующий User-Agent
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, domain.NewProviderError(domain.ProviderCodeNetworkError, "request timed out")
		}
		return nil, domain.NewProviderError(domain.ProviderCodeNetworkError, fmt.Sprintf("failed to execute request: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Nominatim API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, domain.NewProviderError(domain.ProviderCodeHTTPStatus,
			fmt.Sprintf("nominatim API error: status %d", resp.StatusCode))
	}

	var geocodeResp domain.ReverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geocodeResp); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, domain.NewProviderError(domain.ProviderCodeInvalidResponse,
			fmt.Sprintf("failed to decode response: %v", err))
	}

	c.logger.Debug("Nominatim reverse API call successful",
		zap.String("display_name", geocodeResp.DisplayName))

	return &geocodeResp, nil
}
