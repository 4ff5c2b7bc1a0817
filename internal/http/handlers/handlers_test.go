package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villa-claudia/docs-portal/internal/auth"
	"github.com/villa-claudia/docs-portal/internal/booking"
	"github.com/villa-claudia/docs-portal/internal/domain"
	"github.com/villa-claudia/docs-portal/internal/http/handlers"
	"github.com/villa-claudia/docs-portal/internal/mailer"
	"github.com/villa-claudia/docs-portal/internal/upload"
	"github.com/villa-claudia/docs-portal/pkg/config"
	"github.com/villa-claudia/docs-portal/pkg/events"
)

// ---------- Mocks ----------

type mockMailer struct {
	sent    []*mailer.Message
	sendErr error
}

func (m *mockMailer) Send(_ context.Context, msg *mailer.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockBookingClient struct {
	bookings map[string]*domain.Booking
	hasDocs  map[string]bool
}

func newMockBookingClient() *mockBookingClient {
	return &mockBookingClient{
		bookings: make(map[string]*domain.Booking),
		hasDocs:  make(map[string]bool),
	}
}

func (m *mockBookingClient) Get(_ context.Context, id string) (*domain.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return nil, booking.ErrNotFound
}

func (m *mockBookingClient) ListUpcoming(_ context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range m.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBookingClient) HasDocuments(_ context.Context, id string) (bool, error) {
	return m.hasDocs[id], nil
}

type mockScheduler struct {
	result *domain.ReminderResult
	err    error
	runs   int
}

func (m *mockScheduler) Run(_ context.Context) (*domain.ReminderResult, error) {
	m.runs++
	return m.result, m.err
}

// ---------- Test setup ----------

const schedulerKey = "test-scheduler-key"

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Scheduler.APIKey = schedulerKey
	cfg.Admin.Email = "admin@villa-claudia.eu"
	cfg.Admin.Password = "hunter2"
	cfg.Admin.PasswordHash = ""
	return cfg
}

func setupServer(t *testing.T) (*httptest.Server, *mockMailer, *mockBookingClient, *mockScheduler) {
	t.Helper()

	m := &mockMailer{}
	bookings := newMockBookingClient()
	sched := &mockScheduler{result: &domain.ReminderResult{Processed: 2, Sent: 1, Failed: 1}}
	cfg := testConfig()

	uploads := upload.NewService(m, events.NewNoopBus(), cfg.Admin.Email, cfg.Upload)
	magicLinks := auth.NewMagicLinkService(m, events.NewNoopBus(), cfg.Server.BaseURL, cfg.Auth)

	h := handlers.New(uploads, sched, magicLinks, bookings, nil, nil, cfg)

	r := chi.NewRouter()
	r.Mount("/v1", h.Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, m, bookings, sched
}

// ---------- Booking lookup ----------

func TestGetBooking(t *testing.T) {
	srv, _, bookings, _ := setupServer(t)

	bookings.bookings["870"] = &domain.Booking{
		ID:          "870",
		GuestName:   "John Doe",
		GuestEmail:  "john@example.com",
		CheckInDate: "2025-05-11",
		Status:      "confirmed",
	}

	t.Run("valid secure id", func(t *testing.T) {
		resp := get(t, srv.URL+"/v1/booking?id=8702025051120250518", http.StatusOK)
		defer resp.Body.Close()

		var b domain.Booking
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
		assert.Equal(t, "870", b.ID)
		assert.Equal(t, "John Doe", b.GuestName)
	})

	t.Run("missing id", func(t *testing.T) {
		get(t, srv.URL+"/v1/booking", http.StatusBadRequest)
	})

	t.Run("malformed secure id", func(t *testing.T) {
		get(t, srv.URL+"/v1/booking?id=not-digits", http.StatusBadRequest)
	})

	t.Run("unknown booking", func(t *testing.T) {
		get(t, srv.URL+"/v1/booking?id=99920250511", http.StatusNotFound)
	})
}

// ---------- Upload ----------

type filePart struct {
	name        string
	contentType string
	content     []byte
}

func buildUploadBody(t *testing.T, fields map[string]string, files []filePart) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.name))
		hdr.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postUpload(t *testing.T, url string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, body)
	require.NoError(t, err)
	return resp
}

func TestUpload_Success(t *testing.T) {
	srv, m, _, _ := setupServer(t)

	md0, _ := json.Marshal(domain.FileMetadata{TravelerIndex: 0, TravelerName: "John Doe", DocumentType: domain.DocPassport, DocumentNumber: "P123"})
	travelers, _ := json.Marshal([]domain.Traveler{{Name: "John Doe", DocumentType: domain.DocPassport, DocumentNumber: "P123"}})

	body, ct := buildUploadBody(t,
		map[string]string{
			"bookingId":       "870",
			"guestName":       "John Doe",
			"email":           "john@example.com",
			"travelers":       string(travelers),
			"fileMetadata[0]": string(md0),
		},
		[]filePart{{name: "passport.jpg", contentType: "image/jpeg", content: []byte("jpeg-bytes")}},
	)

	resp := postUpload(t, srv.URL+"/v1/upload", body, ct)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Success bool                      `json:"success"`
		Message string                    `json:"message"`
		Files   []domain.UploadedFileInfo `json:"files"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, "Files uploaded successfully", result.Message)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "John Doe", result.Files[0].TravelerName)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "admin@villa-claudia.eu", m.sent[0].ToEmail)
	require.Len(t, m.sent[0].Attachments, 1)
	assert.Equal(t, []byte("jpeg-bytes"), m.sent[0].Attachments[0].Content)
}

func TestUpload_ValidationFailures(t *testing.T) {
	srv, m, _, _ := setupServer(t)

	tests := []struct {
		name   string
		fields map[string]string
		files  []filePart
	}{
		{
			name:   "missing booking id",
			fields: map[string]string{"guestName": "John"},
			files:  []filePart{{name: "a.jpg", contentType: "image/jpeg", content: []byte("x")}},
		},
		{
			name:   "missing guest name",
			fields: map[string]string{"bookingId": "870"},
			files:  []filePart{{name: "a.jpg", contentType: "image/jpeg", content: []byte("x")}},
		},
		{
			name:   "no files",
			fields: map[string]string{"bookingId": "870", "guestName": "John"},
		},
		{
			name:   "unsupported file type",
			fields: map[string]string{"bookingId": "870", "guestName": "John"},
			files:  []filePart{{name: "notes.txt", contentType: "text/plain", content: []byte("x")}},
		},
		{
			name:   "one bad file fails the batch",
			fields: map[string]string{"bookingId": "870", "guestName": "John"},
			files: []filePart{
				{name: "a.jpg", contentType: "image/jpeg", content: []byte("x")},
				{name: "notes.txt", contentType: "text/plain", content: []byte("x")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := buildUploadBody(t, tt.fields, tt.files)
			resp := postUpload(t, srv.URL+"/v1/upload", body, ct)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var e struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.NotEmpty(t, e.Error)
		})
	}

	assert.Empty(t, m.sent, "no email may be sent for rejected uploads")
}

func TestUpload_NoDeduplication(t *testing.T) {
	srv, m, _, _ := setupServer(t)

	for i := 0; i < 2; i++ {
		body, ct := buildUploadBody(t,
			map[string]string{"bookingId": "870", "guestName": "John"},
			[]filePart{{name: "a.jpg", contentType: "image/jpeg", content: []byte("x")}},
		)
		resp := postUpload(t, srv.URL+"/v1/upload", body, ct)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Len(t, m.sent, 2, "identical submissions produce independent notifications")
}

func TestUpload_MailFailureStillSucceeds(t *testing.T) {
	srv, m, _, _ := setupServer(t)
	m.sendErr = errors.New("smtp down")

	body, ct := buildUploadBody(t,
		map[string]string{"bookingId": "870", "guestName": "John"},
		[]filePart{{name: "a.jpg", contentType: "image/jpeg", content: []byte("x")}},
	)
	resp := postUpload(t, srv.URL+"/v1/upload", body, ct)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "mail failure must not surface to the guest")
}

// ---------- Magic link ----------

func TestAuth_RequestAndVerify(t *testing.T) {
	srv, m, _, _ := setupServer(t)

	resp := postJSON(t, srv.URL+"/v1/auth/request-link",
		map[string]string{"email": "john@example.com", "bookingId": "870", "name": "John"},
		http.StatusOK)
	resp.Body.Close()

	require.Len(t, m.sent, 1)
	assert.Equal(t, "john@example.com", m.sent[0].ToEmail)

	// Issue a token directly and verify through the endpoint.
	cfg := testConfig()
	token, err := auth.IssueToken("john@example.com", "870", "John", cfg.Auth.JWTSecret, time.Hour)
	require.NoError(t, err)

	verifyResp := postJSON(t, srv.URL+"/v1/auth/verify", map[string]string{"token": token}, http.StatusOK)
	defer verifyResp.Body.Close()

	var result struct {
		Success bool `json:"success"`
		User    struct {
			Email     string `json:"email"`
			BookingID string `json:"bookingId"`
			Name      string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(verifyResp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, "john@example.com", result.User.Email)
	assert.Equal(t, "870", result.User.BookingID)
}

func TestAuth_RequestLink_MissingFields(t *testing.T) {
	srv, _, _, _ := setupServer(t)

	postJSON(t, srv.URL+"/v1/auth/request-link", map[string]string{"email": "a@b.com"}, http.StatusBadRequest).Body.Close()
	postJSON(t, srv.URL+"/v1/auth/request-link", map[string]string{"bookingId": "870"}, http.StatusBadRequest).Body.Close()
}

func TestAuth_Verify_BadToken(t *testing.T) {
	srv, _, _, _ := setupServer(t)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"empty token", "", http.StatusBadRequest},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postJSON(t, srv.URL+"/v1/auth/verify", map[string]string{"token": tt.token}, tt.status).Body.Close()
		})
	}
}

func TestAuth_Verify_ExpiredToken(t *testing.T) {
	srv, _, _, _ := setupServer(t)

	token, err := auth.IssueToken("a@b.com", "870", "A", testConfig().Auth.JWTSecret, -time.Hour)
	require.NoError(t, err)

	postJSON(t, srv.URL+"/v1/auth/verify", map[string]string{"token": token}, http.StatusUnauthorized).Body.Close()
}

// ---------- Scheduler trigger ----------

func TestScheduler_RequiresBearer(t *testing.T) {
	srv, _, _, sched := setupServer(t)

	// No token
	resp, err := http.Post(srv.URL+"/v1/scheduler/document-reminders", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Wrong token
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/scheduler/document-reminders", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Equal(t, 0, sched.runs)
}

func TestScheduler_Trigger(t *testing.T) {
	srv, _, _, sched := setupServer(t)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/scheduler/document-reminders", nil)
	req.Header.Set("Authorization", "Bearer "+schedulerKey)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Success   bool `json:"success"`
		Processed int  `json:"processed"`
		Sent      int  `json:"sent"`
		Failed    int  `json:"failed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, sched.runs)
}

// ---------- Admin ----------

func TestAdminLogin(t *testing.T) {
	srv, _, _, _ := setupServer(t)

	postJSON(t, srv.URL+"/v1/admin/login", map[string]string{"password": "hunter2"}, http.StatusOK).Body.Close()
	postJSON(t, srv.URL+"/v1/admin/login", map[string]string{"password": "wrong"}, http.StatusUnauthorized).Body.Close()
	postJSON(t, srv.URL+"/v1/admin/login", map[string]string{}, http.StatusUnauthorized).Body.Close()
}

func TestAdmin_UpcomingBookings(t *testing.T) {
	srv, _, bookings, _ := setupServer(t)

	bookings.bookings["870"] = &domain.Booking{ID: "870", GuestName: "John", CheckInDate: "2025-05-11"}
	bookings.hasDocs["870"] = true

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/admin/bookings/upcoming", nil)
	req.Header.Set("Authorization", "Bearer "+schedulerKey)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []domain.UpcomingBooking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.True(t, out[0].HasUploadedDocuments)
}

func TestAdmin_RoutesRequireBearer(t *testing.T) {
	srv, _, _, _ := setupServer(t)

	for _, path := range []string{"/v1/admin/bookings/upcoming", "/v1/admin/reminders", "/v1/admin/reminders/export"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

// ---------- Helpers ----------

func postJSON(t *testing.T, url string, data interface{}, expectedStatus int) *http.Response {
	t.Helper()

	b, err := json.Marshal(data)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode, "POST %s", url)
	return resp
}

func get(t *testing.T, url string, expectedStatus int) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode, "GET %s", url)
	return resp
}
