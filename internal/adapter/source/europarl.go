// Package source provides document source adapters: the EU Parliament
// OpenData API client and an offline CSV directory reader.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"parlwatch/internal/domain"
	"parlwatch/internal/logger"
)

var srcLog = logger.New("source")

// EuroParlSource fetches plenary documents from the EU Parliament
// OpenData API.
type EuroParlSource struct {
	baseURL    string
	endpoint   string
	maxRetries int
	limiter    *rate.Limiter
	client     *http.Client
}

// NewEuroParlSource creates a source. rps bounds the request rate;
// zero or negative disables limiting.
func NewEuroParlSource(baseURL, endpoint string, timeout time.Duration, maxRetries int, rps float64) *EuroParlSource {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &EuroParlSource{
		baseURL:    baseURL,
		endpoint:   endpoint,
		maxRetries: maxRetries,
		limiter:    limiter,
		client:     &http.Client{Timeout: timeout},
	}
}

// FetchYear returns up to limit plenary documents for a calendar year.
func (s *EuroParlSource) FetchYear(ctx context.Context, year int, limit int) ([]domain.Record, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("format", "json")
	return s.fetch(ctx, params)
}

// FetchByDate returns the documents published on the given day.
func (s *EuroParlSource) FetchByDate(ctx context.Context, date time.Time) ([]domain.Record, error) {
	params := url.Values{}
	params.Set("date", date.Format("2006-01-02"))
	params.Set("format", "json")
	return s.fetch(ctx, params)
}

// FetchDocument returns the full content of a single document.
func (s *EuroParlSource) FetchDocument(ctx context.Context, id string) (domain.Record, error) {
	body, err := s.get(ctx, s.baseURL+s.endpoint+"/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	var rec domain.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return rec, nil
}

func (s *EuroParlSource) fetch(ctx context.Context, params url.Values) ([]domain.Record, error) {
	body, err := s.get(ctx, s.baseURL+s.endpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}
	s.enrich(ctx, records)
	srcLog.Info("fetched documents", "count", len(records))
	return records, nil
}

// enrich fills in the full content of listing stubs: records that carry
// an id but no content field. A failed detail fetch keeps the stub so
// one bad document does not sink the whole fetch.
func (s *EuroParlSource) enrich(ctx context.Context, records []domain.Record) {
	for _, rec := range records {
		if hasContent(rec) {
			continue
		}
		id, ok := rec.StringField("id")
		if !ok || id == "" {
			continue
		}
		full, err := s.FetchDocument(ctx, id)
		if err != nil {
			srcLog.Warn("failed to fetch document content", "id", id, "err", err)
			continue
		}
		for k, v := range full {
			if _, exists := rec[k]; !exists {
				rec[k] = v
			}
		}
	}
}

func hasContent(rec domain.Record) bool {
	for _, field := range []string{"content", "text"} {
		if s, ok := rec.StringField(field); ok && s != "" {
			return true
		}
	}
	return false
}

// get performs a rate-limited GET with bounded retries. Retries back
// off linearly; the last error is returned once attempts are exhausted.
func (s *EuroParlSource) get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	attempts := s.maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		if attempt > 0 {
			srcLog.Warn("retrying request", "url", rawURL, "attempt", attempt, "err", lastErr)
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
			// Client errors won't heal on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, lastErr
			}
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

// decodeRecords accepts either a bare JSON array or an envelope object
// with a data/documents/results array, which is how the upstream API
// pages its payloads.
func decodeRecords(body []byte) ([]domain.Record, error) {
	var records []domain.Record
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	for _, field := range []string{"data", "documents", "results", "items"} {
		raw, ok := envelope[field]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("failed to decode %s field: %w", field, err)
		}
		return records, nil
	}
	return nil, fmt.Errorf("response carries no document array")
}
