package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/dart-scoreboard/internal/match"
)

const defaultTimeout = 10 * time.Second

// APIClient is the REST client of the match backend.
type APIClient struct {
	httpClient   *http.Client
	cachedClient *http.Client
	BaseURL      string
}

// Ensure APIClient implements the BackendClient interface.
var _ BackendClient = (*APIClient)(nil)

// NewClient creates a backend client. The checkout table GET is answered from
// an in-memory HTTP cache for checkoutTTL.
func NewClient(baseURL string, checkoutTTL time.Duration) *APIClient {
	return &APIClient{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		cachedClient: newCachedClient(http.DefaultTransport, defaultTimeout, checkoutTTL),
		BaseURL:      baseURL,
	}
}

// GetMatch fetches the current snapshot of a match.
func (c *APIClient) GetMatch(ctx context.Context, matchID string) (*match.Match, error) {
	body, err := c.do(ctx, c.httpClient, http.MethodGet, "/api/matches/"+url.PathEscape(matchID), nil)
	if err != nil {
		return nil, err
	}
	var m match.Match
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("failed to decode match %s: %w", matchID, err)
	}
	log.Debug("Fetched match from backend", "matchID", matchID, "status", m.Status)
	return &m, nil
}

// FetchCheckouts downloads the raw checkout table.
func (c *APIClient) FetchCheckouts(ctx context.Context) ([]byte, error) {
	return c.do(ctx, c.cachedClient, http.MethodGet, "/api/checkouts", nil)
}

// SubmitTurn records a new turn.
func (c *APIClient) SubmitTurn(ctx context.Context, matchID string, turn Turn) error {
	turn = turn.WithRequestID()
	_, err := c.do(ctx, c.httpClient, http.MethodPost, "/api/matches/"+url.PathEscape(matchID)+"/turns", turn)
	if err == nil {
		log.Info("Submitted turn", "matchID", matchID, "requestID", turn.RequestID, "player", turn.PlayerID, "score", turn.Score)
	}
	return err
}

// UpdateTurn corrects an existing turn. The request id is part of the path.
func (c *APIClient) UpdateTurn(ctx context.Context, matchID string, turn Turn) error {
	turn = turn.WithRequestID()
	path := "/api/matches/" + url.PathEscape(matchID) + "/turns/" + url.PathEscape(turn.RequestID)
	_, err := c.do(ctx, c.httpClient, http.MethodPut, path, turn)
	return err
}

// DeleteTurn removes a player's turn.
func (c *APIClient) DeleteTurn(ctx context.Context, matchID string, key TurnKey) error {
	path := fmt.Sprintf("/api/matches/%s/turns/%d/%d/%d/%s",
		url.PathEscape(matchID), key.SetNumber, key.LegNumber, key.RoundNumber, url.PathEscape(key.PlayerID))
	_, err := c.do(ctx, c.httpClient, http.MethodDelete, path, nil)
	return err
}

// ResetMatch clears every turn of a match.
func (c *APIClient) ResetMatch(ctx context.Context, matchID string) error {
	_, err := c.do(ctx, c.httpClient, http.MethodPost, "/api/matches/"+url.PathEscape(matchID)+"/reset", nil)
	return err
}

func (c *APIClient) DeleteMatch(ctx context.Context, matchID string) error {
	_, err := c.do(ctx, c.httpClient, http.MethodDelete, "/api/matches/"+url.PathEscape(matchID), nil)
	return err
}

func (c *APIClient) do(ctx context.Context, client *http.Client, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		log.Error("Backend returned an error", "method", method, "path", path, "status", resp.StatusCode)
		return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..." + strconv.Itoa(len(s)-n) + " more bytes"
}
