// Package geocode resolves free-text postal addresses to coordinates and a
// canonical formatted address via the external geocoding service.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"house_marketplace_backend/platform/apperr"
	"house_marketplace_backend/platform/config"
	"house_marketplace_backend/platform/logger"
)

const statusZeroResults = "ZERO_RESULTS"

// A formatted address echoing this marker means the upstream service was fed
// a malformed address and stitched the literal into its answer.
const undefinedMarker = "undefined"

type Service struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *logger.Logger
}

func NewService(cfg config.GeocodeConfig, log *logger.Logger) *Service {
	return &Service{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: cfg.GetGeocodeAPIURL(),
		apiKey:  cfg.GetGeocodeAPIKey(),
		log:     log,
	}
}

// Resolve issues a single geocode request for the address. Unresolvable
// addresses (zero results, or an echoed "undefined" marker) are a validation
// failure, not a partial success. Transport failures are not retried.
func (s *Service) Resolve(ctx context.Context, address string) (Result, error) {
	params := url.Values{}
	params.Add("address", address)
	params.Add("key", s.apiKey)

	reqURL := fmt.Sprintf("%s?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "failed to build geocode request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("geocode request failed", "error", err)
		return Result{}, apperr.Wrap(apperr.KindUnavailable, "geocoding service unavailable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("geocode upstream error", "status", resp.StatusCode)
		return Result{}, apperr.Unavailable("geocoding service unavailable")
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		s.log.Error("failed to decode geocode payload", "error", err)
		return Result{}, apperr.Wrap(apperr.KindUnavailable, "geocoding service unavailable", err)
	}

	var result Result
	if len(payload.Results) > 0 {
		result.Lat = payload.Results[0].Geometry.Location.Lat
		result.Lng = payload.Results[0].Geometry.Location.Lng
	}

	resolved := ""
	if payload.Status != statusZeroResults && len(payload.Results) > 0 {
		resolved = payload.Results[0].FormattedAddress
	}

	if resolved == "" || strings.Contains(resolved, undefinedMarker) {
		return Result{}, apperr.Validation("invalid address")
	}

	result.Address = resolved
	return result, nil
}
