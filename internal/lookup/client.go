package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"shelf/internal/collection"
)

const DefaultEndpoint = "https://api.upcitemdb.com/prod/trial/lookup"

// maxResponseBytes caps the body read from the lookup service.
const maxResponseBytes = 1 << 20

var (
	// ErrNotFound means the service answered and has no product for the
	// barcode.
	ErrNotFound = errors.New("no product found for barcode")
	// ErrLookupFailed means the service could not give an answer.
	ErrLookupFailed = errors.New("product lookup failed")
)

// FailedError carries the cause of a lookup that could not determine
// whether a product exists.
type FailedError struct {
	Barcode string
	Err     error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Barcode, e.Err)
}

func (e *FailedError) Unwrap() []error {
	return []error{ErrLookupFailed, e.Err}
}

// Result is the best-effort partial item built from the first candidate.
type Result struct {
	Name     string
	Notes    string
	ImageRef string
	Barcode  string
}

// Item returns the pre-filled item for the add form.
func (r Result) Item() collection.Item {
	item := collection.NewItem(r.Name).WithBarcode(r.Barcode)
	item.Notes = r.Notes
	item.ImageRef = r.ImageRef
	return item
}

// Lookuper resolves a barcode to a partial item.
type Lookuper interface {
	Lookup(ctx context.Context, barcode string) (Result, error)
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client queries a UPC database over HTTP. Each Lookup is a single attempt;
// retry policy belongs to the caller. Consecutive failures open a circuit
// breaker so that later lookups fail fast with ErrLookupFailed.
type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *zap.Logger
}

var _ Lookuper = (*Client)(nil)

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    newBreaker(),
		log:        log.Named("lookup"),
	}
}

func newBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "upc-lookup",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// A caller walking away is not a sign the service is down.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

type response struct {
	Items []candidate `json:"items"`
}

type candidate struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

func (c *Client) Lookup(ctx context.Context, barcode string) (Result, error) {
	requestID := uuid.NewString()
	log := c.log.With(zap.String("barcode", barcode), zap.String("request_id", requestID))

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, barcode, requestID)
	})
	if err != nil {
		log.Warn("lookup failed", zap.Error(err))
		return Result{}, &FailedError{Barcode: barcode, Err: err}
	}

	resp := out.(*response)
	if len(resp.Items) == 0 {
		log.Info("no product for barcode")
		return Result{}, ErrNotFound
	}

	first := resp.Items[0]
	result := Result{
		Name:    NormalizeName(first.Title),
		Notes:   first.Description,
		Barcode: barcode,
	}
	if len(first.Images) > 0 {
		result.ImageRef = first.Images[0]
	}
	log.Debug("product found", zap.String("name", result.Name))
	return result, nil
}

func (c *Client) fetch(ctx context.Context, barcode, requestID string) (*response, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("upc", barcode)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", maxResponseBytes)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &decoded, nil
}
