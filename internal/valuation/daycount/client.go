package daycount

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"main/internal/domain/entity/bond"
	"main/internal/domain/interfaces"
)

const defaultClientTimeout = 5 * time.Second

// Client is the remote-backed YearFractionProvider variant: it delegates to an
// authoritative day-count service over HTTP. Callers choose between Client and
// LocalProvider at wiring time; the engine treats both identically.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ interfaces.YearFractionProvider = (*Client)(nil)

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultClientTimeout},
	}
}

type yearFractionResponse struct {
	YearFraction float64 `json:"yearFraction"`
}

func (c *Client) YearFraction(ctx context.Context, start, end time.Time, convention bond.DayCount) (float64, error) {
	query := url.Values{}
	query.Set("start", start.Format("2006-01-02"))
	query.Set("end", end.Format("2006-01-02"))
	query.Set("convention", convention.String())

	endpoint := fmt.Sprintf("%s/year-fraction?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build day count request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call day count service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("day count service returned status %d", resp.StatusCode)
	}

	var body yearFractionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode day count response: %w", err)
	}
	return body.YearFraction, nil
}
