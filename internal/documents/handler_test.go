package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/bootstrap"
	"docvault-backend/internal/realtime"
	"docvault-backend/internal/shared/config"
)

func buildApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

type authedUser struct {
	ID    string
	Token string
}

func registerUser(t *testing.T, router *gin.Engine, username, role string) authedUser {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, resp.Code, resp.Body.String())
	}
	var out struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return authedUser{ID: out.User.ID, Token: out.AccessToken}
}

func uploadFile(t *testing.T, router *gin.Engine, token, fileName, contentType, processType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	url := "/api/v1/documents/upload"
	if processType != "" {
		url += "?type=" + processType
	}
	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type documentDto struct {
	ID               string   `json:"id"`
	FileName         string   `json:"fileName"`
	ContentType      string   `json:"contentType"`
	FileSize         int64    `json:"fileSize"`
	IsProcessed      bool     `json:"isProcessed"`
	AnalysisResult   *string  `json:"analysisResult"`
	UserID           string   `json:"userId"`
	ValidationErrors []string `json:"validationErrors"`
}

type collectingSubscriber struct {
	events chan realtime.Event
}

func (s *collectingSubscriber) Send(event realtime.Event) error {
	s.events <- event
	return nil
}

func TestUploadStoreAndDownloadRoundTrip(t *testing.T) {
	app := buildApp(t)
	user := registerUser(t, app.Router, "carol", "User")

	sub := &collectingSubscriber{events: make(chan realtime.Event, 4)}
	app.Hub.Subscribe(sub)

	content := []byte("quarterly figures\nrevenue up\n")
	resp := uploadFile(t, app.Router, user.Token, "notes.txt", "text/plain", "", content)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created documentDto
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if created.ID == "" || created.FileName != "notes.txt" || created.FileSize != int64(len(content)) {
		t.Fatalf("unexpected document: %+v", created)
	}
	if created.IsProcessed {
		t.Fatal("plain upload must stay unprocessed")
	}

	// The ingestion pushed exactly one live event.
	select {
	case evt := <-sub.events:
		if evt.Type != "ReceiveLog" {
			t.Fatalf("expected ReceiveLog event, got %q", evt.Type)
		}
	default:
		t.Fatal("expected a live event after upload")
	}

	// And the same event is durable and queryable.
	reqLogs := httptest.NewRequest(http.MethodGet, "/api/v1/eventlogs", nil)
	reqLogs.Header.Set("Authorization", "Bearer "+user.Token)
	respLogs := httptest.NewRecorder()
	app.Router.ServeHTTP(respLogs, reqLogs)
	if respLogs.Code != http.StatusOK {
		t.Fatalf("eventlogs: expected 200, got %d", respLogs.Code)
	}
	var logs []struct {
		EventType   string `json:"eventType"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(respLogs.Body).Decode(&logs); err != nil {
		t.Fatalf("decode eventlogs: %v", err)
	}
	uploads := 0
	for _, l := range logs {
		if l.EventType == "Document Upload" {
			uploads++
			if !strings.Contains(l.Description, "notes.txt") {
				t.Fatalf("event description missing file name: %q", l.Description)
			}
		}
	}
	if uploads != 1 {
		t.Fatalf("expected exactly one Document Upload event, got %d", uploads)
	}

	// Listing shows the document.
	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	reqList.Header.Set("Authorization", "Bearer "+user.Token)
	respList := httptest.NewRecorder()
	app.Router.ServeHTTP(respList, reqList)
	if respList.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", respList.Code)
	}
	var listed []documentDto
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("expected the uploaded document in the list, got %+v", listed)
	}

	// Download returns byte-identical content.
	reqDl := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.ID+"/download", nil)
	reqDl.Header.Set("Authorization", "Bearer "+user.Token)
	respDl := httptest.NewRecorder()
	app.Router.ServeHTTP(respDl, reqDl)
	if respDl.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", respDl.Code)
	}
	if !bytes.Equal(respDl.Body.Bytes(), content) {
		t.Fatalf("downloaded bytes differ from uploaded bytes")
	}
}

func TestBulkImportRequiresAdmin(t *testing.T) {
	app := buildApp(t)
	user := registerUser(t, app.Router, "dave", "User")

	csv := "Username,Email,Password,Role\nnewuser,new@example.com,pw123456,User\n"
	resp := uploadFile(t, app.Router, user.Token, "users.csv", "text/csv", "BulkImport", []byte(csv))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.Code, resp.Body.String())
	}

	// No accounts were created by the rejected import.
	all, err := app.UsersRepo.List(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	for _, u := range all {
		if u.Username == "newuser" {
			t.Fatal("rejected import must not create accounts")
		}
	}
}

func TestBulkImportAsAdmin(t *testing.T) {
	app := buildApp(t)
	admin := registerUser(t, app.Router, "root", "Admin")

	csv := "Username,Email,Password,Role\n" +
		"alice,alice@example.com,password123,User\n" +
		"bob,bob@example.com,,Admin\n"
	resp := uploadFile(t, app.Router, admin.Token, "users.csv", "text/csv", "BulkImport", []byte(csv))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created documentDto
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if !created.IsProcessed {
		t.Fatal("bulk import upload must be marked processed")
	}
	if created.AnalysisResult == nil || *created.AnalysisResult != "Processed: 1 success, 1 failed." {
		t.Fatalf("unexpected summary: %v", created.AnalysisResult)
	}
	if len(created.ValidationErrors) != 1 || created.ValidationErrors[0] != "Line 3: Missing required fields." {
		t.Fatalf("unexpected validation errors: %v", created.ValidationErrors)
	}

	// The valid row became a working account.
	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "password123"})
	reqLogin := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	reqLogin.Header.Set("Content-Type", "application/json")
	respLogin := httptest.NewRecorder()
	app.Router.ServeHTTP(respLogin, reqLogin)
	if respLogin.Code != http.StatusOK {
		t.Fatalf("imported user login: expected 200, got %d", respLogin.Code)
	}
}

func TestAnalyzeUploadUsesMockWithoutAPIKey(t *testing.T) {
	app := buildApp(t)
	user := registerUser(t, app.Router, "erin", "User")

	resp := uploadFile(t, app.Router, user.Token, "invoice_2024.pdf", "application/pdf", "Analyze", []byte("%PDF-1.4 not a real pdf"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created documentDto
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if !created.IsProcessed || created.AnalysisResult == nil {
		t.Fatalf("expected processed document with analysis, got %+v", created)
	}

	var result struct {
		DocumentType string `json:"documentType"`
		InvoiceData  *struct {
			InvoiceNumber string `json:"invoiceNumber"`
		} `json:"invoiceData"`
	}
	if err := json.Unmarshal([]byte(*created.AnalysisResult), &result); err != nil {
		t.Fatalf("analysis result is not valid JSON: %v", err)
	}
	if result.DocumentType != "Invoice" {
		t.Fatalf("expected Invoice for an invoice-named file, got %q", result.DocumentType)
	}
	if result.InvoiceData == nil || result.InvoiceData.InvoiceNumber == "" {
		t.Fatal("expected a populated invoiceNumber")
	}
}

func TestDeleteIsOwnerOnly(t *testing.T) {
	app := buildApp(t)
	owner := registerUser(t, app.Router, "frank", "User")
	other := registerUser(t, app.Router, "grace", "User")

	content := []byte("private notes")
	resp := uploadFile(t, app.Router, owner.Token, "private.txt", "text/plain", "", content)
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.Code)
	}
	var created documentDto
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}

	reqDel := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+created.ID, nil)
	reqDel.Header.Set("Authorization", "Bearer "+other.Token)
	respDel := httptest.NewRecorder()
	app.Router.ServeHTTP(respDel, reqDel)
	if respDel.Code != http.StatusForbidden {
		t.Fatalf("cross-owner delete: expected 403, got %d", respDel.Code)
	}

	// Record and bytes are untouched.
	reqDl := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.ID+"/download", nil)
	reqDl.Header.Set("Authorization", "Bearer "+owner.Token)
	respDl := httptest.NewRecorder()
	app.Router.ServeHTTP(respDl, reqDl)
	if respDl.Code != http.StatusOK {
		t.Fatalf("download after failed delete: expected 200, got %d", respDl.Code)
	}
	if !bytes.Equal(respDl.Body.Bytes(), content) {
		t.Fatal("stored bytes changed after rejected delete")
	}

	// The owner can delete.
	reqDelOwn := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+created.ID, nil)
	reqDelOwn.Header.Set("Authorization", "Bearer "+owner.Token)
	respDelOwn := httptest.NewRecorder()
	app.Router.ServeHTTP(respDelOwn, reqDelOwn)
	if respDelOwn.Code != http.StatusNoContent {
		t.Fatalf("owner delete: expected 204, got %d", respDelOwn.Code)
	}

	reqGone := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.ID+"/download", nil)
	reqGone.Header.Set("Authorization", "Bearer "+owner.Token)
	respGone := httptest.NewRecorder()
	app.Router.ServeHTTP(respGone, reqGone)
	if respGone.Code != http.StatusNotFound {
		t.Fatalf("download after delete: expected 404, got %d", respGone.Code)
	}
}
