package candidateapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/Abraxas-365/bolsa/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/bolsa/pkg/httpx"
	"github.com/Abraxas-365/bolsa/pkg/iam/auth"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/pkg/upload"
	"github.com/Abraxas-365/bolsa/recruitment/candidate"
	"github.com/Abraxas-365/bolsa/recruitment/candidate/candidatesrv"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCandidates map[kernel.CandidateID]candidate.Candidate

func (m memCandidates) GetByID(_ context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	c, ok := m[id]
	if !ok {
		return nil, candidate.ErrCandidateNotFound()
	}
	return &c, nil
}

func (m memCandidates) Upsert(_ context.Context, c *candidate.Candidate) error {
	m[c.ID] = *c
	return nil
}

func (m memCandidates) UpdateCV(_ context.Context, c *candidate.Candidate) error {
	m[c.ID] = *c
	return nil
}

type okPDF struct{}

func (okPDF) CheckPDF([]byte) error { return nil }

var pdfBytes = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\n%%EOF")

type testEnv struct {
	app       *fiber.App
	repo      memCandidates
	files     *fsxmem.FileSystem
	candidate string
	recruiter string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := memCandidates{}
	files := fsxmem.New("https://files.bolsa.pe")
	svc := candidatesrv.NewCandidateService(repo, files, upload.NewValidator(okPDF{}))

	cfg := auth.DefaultConfig()
	cfg.SecretKey = "test-secret"
	tokens := auth.NewJWTService(cfg)
	candidateToken, err := tokens.GenerateAccessToken(auth.Subject{UserID: "cand-1", Email: "ana@mail.pe", Role: kernel.RoleCandidate})
	require.NoError(t, err)
	recruiterToken, err := tokens.GenerateAccessToken(auth.Subject{UserID: "rec-1", CompanyID: "comp-1", Role: kernel.RoleRecruiter})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler, BodyLimit: 10 << 20})
	RegisterRoutes(app, NewHandlers(svc), auth.NewUnifiedAuthMiddleware(tokens))
	return &testEnv{app: app, repo: repo, files: files, candidate: candidateToken, recruiter: recruiterToken}
}

func (e *testEnv) send(t *testing.T, req *http.Request, token string) (int, map[string]any) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func profileRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/me/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func cvRequest(t *testing.T, fileName, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if data != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/me/cv", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestProfileLifecycle(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.send(t, httptest.NewRequest(http.MethodGet, "/api/me/profile", nil), env.candidate)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, candidate.CodeCandidateNotFound, body["code"])

	status, body = env.send(t, profileRequest(`{"firstName":"Ana","lastName":"Quispe","phone":"987654321","location":"Lima"}`), env.candidate)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["profileComplete"])
	assert.Equal(t, []any{"cv"}, body["missing"])
	assert.Equal(t, "ana@mail.pe", body["email"])

	status, body = env.send(t, cvRequest(t, "cv.pdf", "application/pdf", pdfBytes), env.candidate)
	require.Equal(t, http.StatusCreated, status)
	assert.Contains(t, body["url"], "https://files.bolsa.pe/")
	assert.Len(t, env.files.Paths(), 1)

	status, body = env.send(t, httptest.NewRequest(http.MethodGet, "/api/me/profile", nil), env.candidate)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["profileComplete"])
}

func TestUploadCV_BeforeProfile(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.send(t, cvRequest(t, "cv.pdf", "application/pdf", pdfBytes), env.candidate)
	require.Equal(t, http.StatusCreated, status)

	stored, ok := env.repo["cand-1"]
	require.True(t, ok)
	assert.Equal(t, kernel.Email("ana@mail.pe"), stored.Email)
	assert.True(t, stored.HasCV())
}

func TestUpdateProfile_Rejections(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.send(t, profileRequest(`{"firstName":"Ana"}`), env.candidate)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, httpx.CodeInvalidRequest, body["code"])

	status, body = env.send(t, profileRequest(`{"firstName":"Ana","lastName":"Quispe","phone":"abc"}`), env.candidate)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, candidate.CodeInvalidPhone, body["code"])

	status, _ = env.send(t, profileRequest(`{"firstName":"Ana","lastName":"Quispe"}`), env.recruiter)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.send(t, profileRequest(`{"firstName":"Ana","lastName":"Quispe"}`), "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Empty(t, env.repo)
}

func TestUploadCV_Rejections(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		req      *http.Request
		wantCode string
	}{
		{"missing file", cvRequest(t, "", "", nil), httpx.CodeInvalidRequest},
		{"image", cvRequest(t, "cv.png", "image/png", append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)), upload.CodeTypeNotAllowed},
		{"too large", cvRequest(t, "cv.pdf", "application/pdf", append(append([]byte{}, pdfBytes...), make([]byte, upload.MaxFileSize)...)), upload.CodeFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.send(t, tt.req, env.candidate)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
	assert.Empty(t, env.files.Paths())
}
