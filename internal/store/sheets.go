package store

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	defaultSheetsBaseURL = "https://sheets.googleapis.com/v4"
	defaultTokenURL      = "https://oauth2.googleapis.com/token"
	sheetsScope          = "https://www.googleapis.com/auth/spreadsheets"
	jwtBearerGrantType   = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// Tokens are refreshed a minute before Google says they expire.
	tokenExpiryMargin = time.Minute
)

// SheetsClient implements Store against the Google Sheets REST API,
// authenticating with a service-account key via the OAuth JWT-assertion
// grant.
type SheetsClient struct {
	spreadsheetID string
	accountEmail  string
	privateKey    *rsa.PrivateKey
	baseURL       string
	tokenURL      string
	httpClient    *http.Client
	logger        *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type SheetsConfig struct {
	SpreadsheetID       string
	ServiceAccountEmail string
	PrivateKeyPEM       []byte
	BaseURL             string
	TokenURL            string
	Timeout             time.Duration
}

func NewSheetsClient(config SheetsConfig, logger *zap.Logger) (*SheetsClient, error) {
	if config.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	if config.ServiceAccountEmail == "" {
		return nil, errors.New("service account email is required")
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(config.PrivateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultSheetsBaseURL
	}
	tokenURL := config.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &SheetsClient{
		spreadsheetID: config.SpreadsheetID,
		accountEmail:  config.ServiceAccountEmail,
		privateKey:    privateKey,
		baseURL:       baseURL,
		tokenURL:      tokenURL,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
	}, nil
}

func (client *SheetsClient) Append(ctx context.Context, sheet string, row Row) error {
	payload, err := json.Marshal(map[string][][]string{"values": {row}})
	if err != nil {
		return fmt.Errorf("marshal append payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		client.baseURL, client.spreadsheetID, url.PathEscape(sheet))
	if _, err := client.do(ctx, http.MethodPost, endpoint, payload); err != nil {
		return fmt.Errorf("append to sheet %q: %w", sheet, err)
	}
	return nil
}

func (client *SheetsClient) Rows(ctx context.Context, sheet string) ([]Row, error) {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s",
		client.baseURL, client.spreadsheetID, url.PathEscape(sheet))
	body, err := client.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %q: %w", sheet, err)
	}

	var parsed struct {
		Values [][]string `json:"values"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode sheet %q values: %w", sheet, err)
	}
	rows := make([]Row, 0, len(parsed.Values))
	for _, cells := range parsed.Values {
		rows = append(rows, Row(cells))
	}
	return rows, nil
}

func (client *SheetsClient) do(ctx context.Context, method string, endpoint string, payload []byte) ([]byte, error) {
	token, err := client.token(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build sheets request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("send sheets request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read sheets response: %w", err)
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("sheets API status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// token returns a cached access token, exchanging a freshly signed RS256
// assertion for a new one when the cache is empty or near expiry.
func (client *SheetsClient) token(ctx context.Context) (string, error) {
	client.mu.Lock()
	defer client.mu.Unlock()

	now := time.Now()
	if client.accessToken != "" && now.Before(client.tokenExpiry.Add(-tokenExpiryMargin)) {
		return client.accessToken, nil
	}

	assertion, err := client.signAssertion(now)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrantType)
	form.Set("assertion", assertion)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("exchange service account token: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &grant); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if grant.AccessToken == "" {
		return "", errors.New("token endpoint returned an empty access token")
	}

	client.accessToken = grant.AccessToken
	client.tokenExpiry = now.Add(time.Duration(grant.ExpiresIn) * time.Second)
	client.logger.Debug("refreshed sheets access token",
		zap.Time("expires_at", client.tokenExpiry))
	return client.accessToken, nil
}

func (client *SheetsClient) signAssertion(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss":   client.accountEmail,
		"scope": sheetsScope,
		"aud":   client.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(client.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign service account assertion: %w", err)
	}
	return assertion, nil
}
