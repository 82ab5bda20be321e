package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	ctxutil "sedeges/ms_hojas_ruta/internal/infrastructure/context"
	httpclient "sedeges/ms_hojas_ruta/internal/infrastructure/http"
)

func newTestStorage(t *testing.T, endpoint string) *Storage {
	t.Helper()
	storage, err := NewStorage(context.Background(), Config{
		Bucket:       "sedeges-backups",
		Region:       "us-east-1",
		Endpoint:     endpoint,
		AccessKey:    "test",
		SecretKey:    "test",
		UsePathStyle: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return storage
}

func TestStorage_Put(t *testing.T) {
	var method, path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage := newTestStorage(t, server.URL)
	dump := "-- ms_hojas_ruta backup v1\n"
	if err := storage.Put(context.Background(), "backups/x.sql", strings.NewReader(dump), int64(len(dump))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if method != http.MethodPut {
		t.Errorf("expected PUT, got %s", method)
	}
	if path != "/sedeges-backups/backups/x.sql" {
		t.Errorf("unexpected object path %s", path)
	}
	if !strings.Contains(body, "ms_hojas_ruta backup") {
		t.Errorf("expected dump in request body, got %q", body)
	}
}

func TestStorage_Put_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	storage := newTestStorage(t, server.URL)
	if err := storage.Put(context.Background(), "k", strings.NewReader("x"), 1); err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestStorage_PresignGet(t *testing.T) {
	storage := newTestStorage(t, "http://localhost:4566")

	raw, err := storage.PresignGet(context.Background(), "backups/x.sql", 15*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid URL %q: %v", raw, err)
	}
	if u.Path != "/sedeges-backups/backups/x.sql" {
		t.Errorf("unexpected path %s", u.Path)
	}
	if u.Query().Get("X-Amz-Expires") != "900" {
		t.Errorf("expected 900s expiry, got %q", u.Query().Get("X-Amz-Expires"))
	}
}

func TestStorage_Ping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "bucket reachable", status: http.StatusOK},
		{name: "bucket missing", status: http.StatusNotFound, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var method, path string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				method = r.Method
				path = r.URL.Path
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := newTestStorage(t, server.URL).Ping(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if method != http.MethodHead || strings.TrimSuffix(path, "/") != "/sedeges-backups" {
				t.Errorf("expected HEAD /sedeges-backups, got %s %s", method, path)
			}
		})
	}
}

func TestStorage_Put_ForwardsCorrelationID(t *testing.T) {
	var correlation string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlation = r.Header.Get(httpclient.CorrelationHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage, err := NewStorage(context.Background(), Config{
		Bucket:       "sedeges-backups",
		Region:       "us-east-1",
		Endpoint:     server.URL,
		AccessKey:    "test",
		SecretKey:    "test",
		UsePathStyle: true,
		HTTPClient:   httpclient.NewClient(&httpclient.ClientConfig{Timeout: 5 * time.Second}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := ctxutil.WithCorrelationID(context.Background(), "corr-42")
	if err := storage.Put(ctx, "backups/x.sql", strings.NewReader("x"), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if correlation != "corr-42" {
		t.Errorf("expected correlation header corr-42, got %q", correlation)
	}
}
