package distance

import (
	"context"
	"depot-analysis/internal/ports"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type googleValue struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type googleMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string      `json:"status"`
			Distance googleValue `json:"distance"`
			Duration googleValue `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// fetchRow retrieves one origin row from the Distance Matrix endpoint.
// The returned slice is aligned with destinations.
func (g *GoogleDistanceProvider) fetchRow(
	ctx context.Context,
	origin string,
	destinations []string,
	opts ports.TravelOptions,
) ([]ports.DistanceResult, error) {
	if len(destinations) == 0 {
		return nil, nil
	}

	endpoint := g.baseURL + "/maps/api/distancematrix/json"

	resp, err := g.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("origins", origin)
		q.Set("destinations", strings.Join(destinations, "|"))
		if opts.Mode != "" {
			q.Set("mode", opts.Mode)
		}
		if opts.Units != "" {
			q.Set("units", opts.Units)
		}
		if opts.Region != "" {
			q.Set("region", opts.Region)
		}
		q.Set("key", g.apiKey)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr googleMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode distance matrix response: %w", err)
	}

	if mr.Status != ports.StatusOK {
		if mr.ErrorMessage != "" {
			return nil, fmt.Errorf("distance matrix status %s: %s", mr.Status, mr.ErrorMessage)
		}
		return nil, fmt.Errorf("distance matrix status %s", mr.Status)
	}

	if len(mr.Rows) != 1 {
		return nil, fmt.Errorf("expected 1 origin row; got %d", len(mr.Rows))
	}
	elems := mr.Rows[0].Elements
	if len(elems) != len(destinations) {
		return nil, fmt.Errorf(
			"row length does not match destinations: elements=%d destinations=%d",
			len(elems), len(destinations),
		)
	}

	out := make([]ports.DistanceResult, len(destinations))
	for i, e := range elems {
		if e.Status != ports.StatusOK {
			out[i] = ports.DistanceResult{Status: e.Status}
			continue
		}
		out[i] = ports.DistanceResult{
			DistanceMeters:  int(e.Distance.Value),
			DurationSeconds: int(e.Duration.Value),
			Status:          ports.StatusOK,
		}
	}

	return out, nil
}
