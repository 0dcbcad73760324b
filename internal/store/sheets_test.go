package store

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func testPrivateKeyPEM(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func newTestSheetsClient(t *testing.T, apiHandler http.HandlerFunc) (*SheetsClient, *int) {
	t.Helper()
	tokenExchanges := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(writer http.ResponseWriter, request *http.Request) {
		tokenExchanges++
		if grant := request.FormValue("grant_type"); grant != jwtBearerGrantType {
			t.Fatalf("unexpected grant type %q", grant)
		}
		if request.FormValue("assertion") == "" {
			t.Fatal("expected a signed assertion")
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"access_token":"test-token","expires_in":3600}`))
	})
	mux.HandleFunc("/", apiHandler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewSheetsClient(SheetsConfig{
		SpreadsheetID:       "sheet-id",
		ServiceAccountEmail: "bot@example.iam.gserviceaccount.com",
		PrivateKeyPEM:       testPrivateKeyPEM(t),
		BaseURL:             server.URL,
		TokenURL:            server.URL + "/token",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("new sheets client: %v", err)
	}
	return client, &tokenExchanges
}

func TestSheetsAppendSendsRowWithBearerToken(t *testing.T) {
	var capturedPath string
	var capturedValues [][]string
	client, _ := newTestSheetsClient(t, func(writer http.ResponseWriter, request *http.Request) {
		capturedPath = request.URL.Path
		if auth := request.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Fatalf("unexpected auth header %q", auth)
		}
		var payload struct {
			Values [][]string `json:"values"`
		}
		if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
			t.Fatalf("decode append payload: %v", err)
		}
		capturedValues = payload.Values
		writer.Write([]byte(`{}`))
	})

	row := Row{"2025-06-18", "12:30:00", "2025-06-17", "Lunch", "サラダ"}
	if err := client.Append(context.Background(), "食事", row); err != nil {
		t.Fatalf("append: %v", err)
	}
	if capturedPath != "/spreadsheets/sheet-id/values/食事:append" {
		t.Fatalf("unexpected append path %q", capturedPath)
	}
	if len(capturedValues) != 1 || capturedValues[0][3] != "Lunch" {
		t.Fatalf("row not forwarded faithfully: %v", capturedValues)
	}
}

func TestSheetsRowsFetchAndTokenReuse(t *testing.T) {
	client, tokenExchanges := newTestSheetsClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"values":[["2025-06-18","08:00:00","2025-06-18","Breakfast","卵","500","20","15","60","0.5","2.0","100","3","2"]]}`))
	})

	ctx := context.Background()
	rows, err := client.Rows(ctx, "食事")
	if err != nil {
		t.Fatalf("fetch rows: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != MealRowWidth {
		t.Fatalf("expected one 14-cell row, got %v", rows)
	}

	if _, err := client.Rows(ctx, "食事"); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if *tokenExchanges != 1 {
		t.Fatalf("expected the cached token to be reused, got %d exchanges", *tokenExchanges)
	}
}

func TestSheetsSurfacesAPIFailures(t *testing.T) {
	client, _ := newTestSheetsClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusForbidden)
		writer.Write([]byte("permission denied"))
	})
	if err := client.Append(context.Background(), "食事", Row{"a"}); err == nil {
		t.Fatal("expected an error from a 403 response")
	}
}
