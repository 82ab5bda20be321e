package admin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appbackup "sedeges/ms_hojas_ruta/internal/application/backup"
	corebackup "sedeges/ms_hojas_ruta/internal/core/backup"
	"sedeges/ms_hojas_ruta/internal/testutil"
)

func dumper(content string) *testutil.MockDumper {
	return &testutil.MockDumper{
		DumpFunc: func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, content)
			return err
		},
	}
}

func multipartRequest(t *testing.T, field, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "respaldo.sql")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	io.WriteString(part, content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/restore", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_Backup_Stored(t *testing.T) {
	service := appbackup.NewService(dumper("-- dump"), &testutil.MockStorage{}, appbackup.Options{Prefix: "backups/"}, testutil.NewNullLogger())
	h := NewHandler(service, 1<<20, testutil.NewNullLogger())

	w := httptest.NewRecorder()
	h.Backup(w, httptest.NewRequest(http.MethodPost, "/admin/backup", nil))

	var archivo corebackup.Archivo
	testutil.ReadJSONResponse(t, w, http.StatusCreated, &archivo)
	if !strings.HasPrefix(archivo.Key, "backups/ms_hojas_ruta-") || archivo.URL == "" {
		t.Errorf("unexpected archivo %+v", archivo)
	}
}

func TestHandler_Backup_Streamed(t *testing.T) {
	service := appbackup.NewService(dumper("-- dump\n"), nil, appbackup.Options{}, testutil.NewNullLogger())
	h := NewHandler(service, 1<<20, testutil.NewNullLogger())

	w := httptest.NewRecorder()
	h.Backup(w, httptest.NewRequest(http.MethodPost, "/admin/backup", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/sql" {
		t.Errorf("expected application/sql, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, `attachment; filename="ms_hojas_ruta-`) {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	if w.Body.String() != "-- dump\n" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestHandler_Restore(t *testing.T) {
	tests := []struct {
		name           string
		restoreErr     error
		field          string
		maxUpload      int64
		expectedStatus int
	}{
		{name: "valid dump", field: "archivo", maxUpload: 1 << 20, expectedStatus: http.StatusOK},
		{name: "invalid dump", field: "archivo", maxUpload: 1 << 20, restoreErr: fmt.Errorf("%w: missing header", corebackup.ErrInvalidDump), expectedStatus: http.StatusBadRequest},
		{name: "database failure", field: "archivo", maxUpload: 1 << 20, restoreErr: fmt.Errorf("begin tx: refused"), expectedStatus: http.StatusInternalServerError},
		{name: "missing field", field: "otro", maxUpload: 1 << 20, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received string
			d := &testutil.MockDumper{
				RestoreFunc: func(_ context.Context, r io.Reader) error {
					b, _ := io.ReadAll(r)
					received = string(b)
					return tt.restoreErr
				},
			}
			service := appbackup.NewService(d, nil, appbackup.Options{}, testutil.NewNullLogger())
			h := NewHandler(service, tt.maxUpload, testutil.NewNullLogger())

			w := httptest.NewRecorder()
			h.Restore(w, multipartRequest(t, tt.field, "-- ms_hojas_ruta backup v1\n"))

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus == http.StatusOK && received != "-- ms_hojas_ruta backup v1\n" {
				t.Errorf("expected uploaded dump passed to restore, got %q", received)
			}
		})
	}
}

func TestHandler_Restore_NotMultipart(t *testing.T) {
	service := appbackup.NewService(&testutil.MockDumper{}, nil, appbackup.Options{}, testutil.NewNullLogger())
	h := NewHandler(service, 1<<20, testutil.NewNullLogger())

	w := httptest.NewRecorder()
	h.Restore(w, httptest.NewRequest(http.MethodPost, "/admin/restore", strings.NewReader("plain")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
