package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"house_marketplace_backend/platform/apperr"
	"house_marketplace_backend/platform/logger"
)

type testConfig struct {
	url string
}

func (c testConfig) GetGeocodeAPIURL() string { return c.url }
func (c testConfig) GetGeocodeAPIKey() string { return "test-key" }

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewService(testConfig{url: server.URL}, logger.New("development"))
}

func TestResolve_Success(t *testing.T) {
	var gotAddress string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		if r.URL.Query().Get("key") == "" {
			t.Error("expected api key on geocode request")
		}
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Kerkstraat 1, 1017 GA Amsterdam, Netherlands",
				"geometry": {"location": {"lat": 52.3629, "lng": 4.8897}}
			}]
		}`))
	})

	result, err := svc.Resolve(context.Background(), "Kerkstraat 1 Amsterdam")
	if err != nil {
		t.Fatalf("expected resolve to succeed, got %v", err)
	}

	if gotAddress != "Kerkstraat 1 Amsterdam" {
		t.Fatalf("expected address to be forwarded verbatim, got %q", gotAddress)
	}
	if result.Lat != 52.3629 || result.Lng != 4.8897 {
		t.Fatalf("unexpected coordinates: %+v", result)
	}
	if result.Address != "Kerkstraat 1, 1017 GA Amsterdam, Netherlands" {
		t.Fatalf("unexpected formatted address: %q", result.Address)
	}
}

func TestResolve_ZeroResultsIsValidationError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	_, err := svc.Resolve(context.Background(), "xyzzy")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for unresolvable address, got %v", err)
	}
}

func TestResolve_UndefinedMarkerIsValidationError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "undefined, Amsterdam, Netherlands",
				"geometry": {"location": {"lat": 52.0, "lng": 4.0}}
			}]
		}`))
	})

	_, err := svc.Resolve(context.Background(), "undefined")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for echoed undefined marker, got %v", err)
	}
}

func TestResolve_UpstreamErrorIsUnavailable(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.Resolve(context.Background(), "Kerkstraat 1 Amsterdam")
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error for upstream failure, got %v", err)
	}
}

func TestResolve_MalformedPayloadIsUnavailable(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OK", "results": [`))
	})

	_, err := svc.Resolve(context.Background(), "Kerkstraat 1 Amsterdam")
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error for malformed payload, got %v", err)
	}
}
