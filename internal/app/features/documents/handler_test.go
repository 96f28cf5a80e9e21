package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/dalemusser/docuvault/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	blobs, err := storage.NewLocal(storage.LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/uploads",
	})
	if err != nil {
		t.Fatalf("storage.NewLocal() error = %v", err)
	}

	h := NewHandler(db, blobs, zap.NewNop())
	return h, Routes(h)
}

// uploadFile posts a multipart upload and returns the decoded response.
func uploadFile(t *testing.T, router http.Handler, filename, content, folderPath string, fields map[string]string) (DocumentResponse, int) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", "text/plain")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	io.WriteString(part, content)

	mw.WriteField("folderPath", folderPath)
	if _, ok := fields["uploadedBy"]; !ok {
		mw.WriteField("uploadedBy", "user-1")
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp DocumentResponse
	if rec.Code == http.StatusCreated {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode upload response: %v", err)
		}
	}
	return resp, rec.Code
}

func listDocuments(t *testing.T, router http.Handler, folderPath string) []DocumentResponse {
	t.Helper()

	target := "/"
	if folderPath != "" {
		target = "/?folderPath=" + url.QueryEscape(folderPath)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var docs []DocumentResponse
	if err := json.NewDecoder(rec.Body).Decode(&docs); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	return docs
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Upload(t *testing.T) {
	_, router := newTestHandler(t)

	t.Run("successful upload to root", func(t *testing.T) {
		resp, code := uploadFile(t, router, "notes.txt", "hello", "", map[string]string{
			"description": "Some notes",
		})
		if code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", code, http.StatusCreated)
		}
		if resp.ID == "" {
			t.Error("response id should not be empty")
		}
		if resp.Name != "notes.txt" {
			t.Errorf("name = %q, want notes.txt", resp.Name)
		}
		if resp.FolderPath != "" {
			t.Errorf("folderPath = %q, want root", resp.FolderPath)
		}
		if resp.Size != "5 B" {
			t.Errorf("size = %q, want 5 B", resp.Size)
		}
		if resp.FileURL == "" {
			t.Error("fileUrl should not be empty")
		}
		if resp.DownloadCount != 0 {
			t.Errorf("downloadCount = %d, want 0", resp.DownloadCount)
		}
	})

	t.Run("upload into folder with supplied name", func(t *testing.T) {
		resp, code := uploadFile(t, router, "raw-export.txt", "data", "finance/reports", map[string]string{
			"name":     "Q3 Export",
			"isPublic": "true",
		})
		if code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", code, http.StatusCreated)
		}
		if resp.Name != "Q3 Export" {
			t.Errorf("name = %q, want supplied display name", resp.Name)
		}
		if resp.FolderPath != "finance/reports" {
			t.Errorf("folderPath = %q, want finance/reports", resp.FolderPath)
		}
		if !resp.IsPublic {
			t.Error("isPublic should be true")
		}
	})

	t.Run("missing file field", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("uploadedBy", "user-1")
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("missing uploadedBy", func(t *testing.T) {
		_, code := uploadFile(t, router, "x.txt", "x", "", map[string]string{
			"uploadedBy": "",
		})
		if code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", code, http.StatusBadRequest)
		}
	})

	t.Run("invalid folder path", func(t *testing.T) {
		_, code := uploadFile(t, router, "x.txt", "x", "/bad/", nil)
		if code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", code, http.StatusBadRequest)
		}
	})
}

func TestHandler_List(t *testing.T) {
	_, router := newTestHandler(t)

	uploadFile(t, router, "root-a.txt", "a", "", nil)
	uploadFile(t, router, "root-b.txt", "b", "", nil)
	uploadFile(t, router, "policy.txt", "p", "hr/policies", nil)
	uploadFile(t, router, "old-policy.txt", "q", "hr/policies/2024", nil)

	t.Run("omitted folderPath lists root only", func(t *testing.T) {
		docs := listDocuments(t, router, "")
		if len(docs) != 2 {
			t.Errorf("root count = %d, want 2", len(docs))
		}
	})

	t.Run("exact match excludes descendants", func(t *testing.T) {
		docs := listDocuments(t, router, "hr/policies")
		if len(docs) != 1 {
			t.Fatalf("hr/policies count = %d, want 1", len(docs))
		}
		if docs[0].Name != "policy.txt" {
			t.Errorf("name = %q, want policy.txt", docs[0].Name)
		}
	})

	t.Run("empty folder yields empty list", func(t *testing.T) {
		docs := listDocuments(t, router, "nowhere")
		if len(docs) != 0 {
			t.Errorf("count = %d, want 0", len(docs))
		}
	})
}

func TestHandler_CreateFolder(t *testing.T) {
	_, router := newTestHandler(t)

	t.Run("create", func(t *testing.T) {
		rec := postJSON(t, router, "/folders", map[string]string{
			"folderName": "legal",
			"createdBy":  "user-1",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var resp FolderResponse
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp.Path != "legal" {
			t.Errorf("path = %q, want legal", resp.Path)
		}
		if resp.DocumentCount != 0 {
			t.Errorf("documentCount = %d, want 0", resp.DocumentCount)
		}
	})

	t.Run("duplicate path conflicts", func(t *testing.T) {
		rec := postJSON(t, router, "/folders", map[string]string{
			"folderName": "legal",
			"createdBy":  "user-2",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
		}
	})

	t.Run("missing createdBy", func(t *testing.T) {
		rec := postJSON(t, router, "/folders", map[string]string{
			"folderName": "orphans",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("invalid paths rejected", func(t *testing.T) {
		for _, bad := range []string{"", "/legal", "legal/", "a//b", " padded"} {
			rec := postJSON(t, router, "/folders", map[string]string{
				"folderName": bad,
				"createdBy":  "user-1",
			})
			if rec.Code != http.StatusBadRequest {
				t.Errorf("folderName %q status = %d, want %d", bad, rec.Code, http.StatusBadRequest)
			}
		}
	})
}

func TestHandler_ListFolders(t *testing.T) {
	_, router := newTestHandler(t)

	// An explicitly created folder with no documents.
	postJSON(t, router, "/folders", map[string]string{
		"folderName": "legal",
		"createdBy":  "user-1",
	})

	// Documents implying finance and finance/reports.
	uploadFile(t, router, "summary.txt", "s", "finance/reports", nil)
	uploadFile(t, router, "budget.txt", "b", "finance", nil)
	uploadFile(t, router, "root.txt", "r", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/folders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var folders []FolderResponse
	if err := json.NewDecoder(rec.Body).Decode(&folders); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	counts := map[string]int64{}
	for _, f := range folders {
		counts[f.Path] = f.DocumentCount
	}

	if len(folders) != 3 {
		t.Errorf("folder count = %d, want 3 (%v)", len(folders), counts)
	}
	if got, ok := counts["legal"]; !ok || got != 0 {
		t.Errorf("legal count = %d (present %v), want 0", got, ok)
	}
	if counts["finance"] != 1 {
		t.Errorf("finance count = %d, want 1 (exact match only)", counts["finance"])
	}
	if counts["finance/reports"] != 1 {
		t.Errorf("finance/reports count = %d, want 1", counts["finance/reports"])
	}
}

func TestHandler_Move(t *testing.T) {
	_, router := newTestHandler(t)

	docA, _ := uploadFile(t, router, "a.txt", "a", "inbox", nil)
	docB, _ := uploadFile(t, router, "b.txt", "b", "inbox", nil)

	t.Run("batch move", func(t *testing.T) {
		rec := postJSON(t, router, "/move", map[string]any{
			"documentIds":  []string{docA.ID, docB.ID},
			"targetFolder": "archive",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var resp map[string]int64
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp["movedCount"] != 2 {
			t.Errorf("movedCount = %d, want 2", resp["movedCount"])
		}

		if got := listDocuments(t, router, "inbox"); len(got) != 0 {
			t.Errorf("inbox count after move = %d, want 0", len(got))
		}
		if got := listDocuments(t, router, "archive"); len(got) != 2 {
			t.Errorf("archive count after move = %d, want 2", len(got))
		}
	})

	t.Run("same-folder move is idempotent", func(t *testing.T) {
		rec := postJSON(t, router, "/move", map[string]any{
			"documentIds":  []string{docA.ID},
			"targetFolder": "archive",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var resp map[string]int64
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp["movedCount"] != 1 {
			t.Errorf("movedCount = %d, want 1", resp["movedCount"])
		}
		if got := listDocuments(t, router, "archive"); len(got) != 2 {
			t.Errorf("archive count = %d, want 2 (unchanged)", len(got))
		}
	})

	t.Run("stale id reduces moved count", func(t *testing.T) {
		rec := postJSON(t, router, "/move", map[string]any{
			"documentIds":  []string{docA.ID, "bbbbbbbbbbbbbbbbbbbbbbbb"},
			"targetFolder": "",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var resp map[string]int64
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp["movedCount"] != 1 {
			t.Errorf("movedCount = %d, want 1", resp["movedCount"])
		}
	})

	t.Run("empty selection rejected", func(t *testing.T) {
		rec := postJSON(t, router, "/move", map[string]any{
			"documentIds":  []string{},
			"targetFolder": "archive",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("malformed id rejected", func(t *testing.T) {
		rec := postJSON(t, router, "/move", map[string]any{
			"documentIds":  []string{"not-an-id"},
			"targetFolder": "archive",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestHandler_Download(t *testing.T) {
	_, router := newTestHandler(t)

	doc, _ := uploadFile(t, router, "popular.txt", "content", "", nil)

	for want := int64(1); want <= 2; want++ {
		req := httptest.NewRequest(http.MethodGet, "/download?id="+doc.ID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var resp DocumentResponse
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp.DownloadCount != want {
			t.Errorf("downloadCount = %d, want %d", resp.DownloadCount, want)
		}
	}

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/download?id=aaaaaaaaaaaaaaaaaaaaaaaa", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestHandler_Delete(t *testing.T) {
	_, router := newTestHandler(t)

	doc, _ := uploadFile(t, router, "todelete.txt", "x", "", nil)

	req := httptest.NewRequest(http.MethodDelete, "/"+doc.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	if got := listDocuments(t, router, ""); len(got) != 0 {
		t.Errorf("root count after delete = %d, want 0", len(got))
	}

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/aaaaaaaaaaaaaaaaaaaaaaaa", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestFileTypeCategory(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/png", "image"},
		{"video/mp4", "video"},
		{"audio/mpeg", "audio"},
		{"application/pdf", "pdf"},
		{"application/vnd.ms-excel", "spreadsheet"},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "spreadsheet"},
		{"application/msword", "document"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "document"},
		{"application/vnd.ms-powerpoint", "presentation"},
		{"application/vnd.openxmlformats-officedocument.presentationml.presentation", "presentation"},
		{"application/zip", "archive"},
		{"text/plain", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			got := FileTypeCategory(tt.contentType)
			if got != tt.want {
				t.Errorf("FileTypeCategory(%q) = %q, want %q", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 << 20, "5.0 MB"},
		{3 << 30, "3.0 GB"},
	}

	for _, tt := range tests {
		got := FormatFileSize(tt.bytes)
		if got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
