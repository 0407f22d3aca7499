package user

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockprep/config"
	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/middleware"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/service"
	"github.com/lshigami/mockprep/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSubmissions struct {
	gotUser  uint
	gotMedia service.MediaFile
	gotReq   dto.SubmitMediaRequest
	err      error
}

func (s *stubSubmissions) result() (*dto.SubmissionResultDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SubmissionResultDTO{Score: 0.5, ScorePercent: 50}, nil
}

func (s *stubSubmissions) SubmitMCQ(ctx context.Context, userID uint, req dto.SubmitMCQRequest) (*dto.SubmissionResultDTO, error) {
	s.gotUser = userID
	return s.result()
}

func (s *stubSubmissions) SubmitText(ctx context.Context, userID uint, req dto.SubmitTextRequest) (*dto.SubmissionResultDTO, error) {
	s.gotUser = userID
	return s.result()
}

func (s *stubSubmissions) SubmitVoice(ctx context.Context, userID uint, req dto.SubmitMediaRequest, media service.MediaFile) (*dto.SubmissionResultDTO, error) {
	s.gotUser, s.gotReq, s.gotMedia = userID, req, media
	return s.result()
}

func (s *stubSubmissions) SubmitVideo(ctx context.Context, userID uint, req dto.SubmitMediaRequest, media service.MediaFile) (*dto.SubmissionResultDTO, error) {
	s.gotUser, s.gotReq, s.gotMedia = userID, req, media
	return s.result()
}

type stubResults struct{}

func (stubResults) GetResults(ctx context.Context, userID uint) (*dto.ResultsDTO, error) {
	return &dto.ResultsDTO{UserID: userID, Sessions: []dto.TestSessionDTO{}}, nil
}

func (stubResults) GetNextDifficulty(ctx context.Context, userID uint) (*dto.NextDifficultyDTO, error) {
	return &dto.NextDifficultyDTO{UserID: userID, NextDifficulty: "easy"}, nil
}

func (stubResults) GetSession(ctx context.Context, sessionID, requesterID uint, admin bool) (*dto.TestSessionDTO, error) {
	if sessionID != 11 {
		return nil, apperr.NotFoundf("test session %d not found", sessionID)
	}
	if requesterID != 7 && !admin {
		return nil, apperr.Forbiddenf("session %d belongs to another user", sessionID)
	}
	return &dto.TestSessionDTO{ID: sessionID, UserID: 7}, nil
}

type stubProfiles struct {
	gotReq dto.UpdateProfileRequest
}

func (s *stubProfiles) GetProfile(ctx context.Context, userID uint) (*dto.UserResponseDTO, error) {
	return &dto.UserResponseDTO{ID: userID, Name: "Ada"}, nil
}

func (s *stubProfiles) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*dto.UserResponseDTO, error) {
	s.gotReq = req
	resp := &dto.UserResponseDTO{ID: userID, Name: "Ada"}
	if req.Name != nil {
		resp.Name = *req.Name
	}
	return resp, nil
}

func testConfig(maxUpload int64) *config.Config {
	return &config.Config{
		JWT:   config.JWT{Secret: "ctrl-secret", Expiration: time.Hour},
		Media: config.Media{MaxUploadBytes: maxUpload},
	}
}

func newProfileRouter(cfg *config.Config, profiles service.ProfileService) *gin.Engine {
	r := gin.New()
	pc := NewProfileController(profiles)
	authed := r.Group("/api/v1", middleware.Auth(cfg))
	authed.GET("/users/:id/profile", pc.GetProfile)
	authed.PUT("/users/:id/profile", pc.UpdateProfile)
	return r
}

func newRouter(cfg *config.Config, subs service.SubmissionService) *gin.Engine {
	r := gin.New()
	sc := NewSubmissionController(subs, cfg)
	rc := NewResultController(stubResults{})

	authed := r.Group("/api/v1", middleware.Auth(cfg))
	authed.POST("/submit/mcq", sc.SubmitMCQ)
	authed.POST("/submit/voice", sc.SubmitVoice)
	authed.POST("/submit/video", sc.SubmitVideo)
	authed.GET("/results/:userId", rc.GetResults)
	authed.GET("/next-difficulty/:userId", rc.GetNextDifficulty)
	authed.GET("/sessions/:id", rc.GetSession)
	return r
}

func authHeader(t *testing.T, cfg *config.Config, id uint, role model.UserRole) string {
	t.Helper()
	signed, err := token.Generate(&model.User{ID: id, Role: role}, cfg.JWT.Secret, cfg.JWT.Expiration)
	require.NoError(t, err)
	return "Bearer " + signed
}

func multipartBody(t *testing.T, field, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestSubmitMCQ_UsesTokenUser(t *testing.T) {
	cfg := testConfig(0)
	subs := &stubSubmissions{}
	r := newRouter(cfg, subs)

	body := `{"course_id":3,"difficulty":"easy","answers":[{"question_id":1,"response":"B"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submit/mcq", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, cfg, 21, model.RoleStudent))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, uint(21), subs.gotUser)

	var res dto.SubmissionResultDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 50.0, res.ScorePercent)
}

func TestSubmitMCQ_BadBody(t *testing.T) {
	cfg := testConfig(0)
	r := newRouter(cfg, &stubSubmissions{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submit/mcq", strings.NewReader(`{"course_id":3}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, cfg, 21, model.RoleStudent))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitVoice_PassesUpload(t *testing.T) {
	cfg := testConfig(1 << 20)
	subs := &stubSubmissions{}
	r := newRouter(cfg, subs)

	body, contentType := multipartBody(t, "audio", "answer.webm", []byte("webm-bytes"), map[string]string{
		"course_id": "4", "difficulty": "medium", "question_id": "9",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submit/voice", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", authHeader(t, cfg, 5, model.RoleStudent))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "webm-bytes", string(subs.gotMedia.Data))
	assert.Equal(t, "answer.webm", subs.gotMedia.Filename)
	assert.Equal(t, uint(4), subs.gotReq.CourseID)
	assert.Equal(t, "medium", subs.gotReq.Difficulty)
	require.NotNil(t, subs.gotReq.QuestionID)
	assert.Equal(t, uint(9), *subs.gotReq.QuestionID)
}

func TestSubmitVideo_MissingFileReachesService(t *testing.T) {
	cfg := testConfig(1 << 20)
	subs := &stubSubmissions{err: apperr.Validationf("video file is required")}
	r := newRouter(cfg, subs)

	body, contentType := multipartBody(t, "", "", nil, map[string]string{"course_id": "4", "difficulty": "easy"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submit/video", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", authHeader(t, cfg, 5, model.RoleStudent))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, subs.gotMedia.Data)
	assert.Contains(t, w.Body.String(), "video file is required")
}

func TestSubmitVideo_TooLarge(t *testing.T) {
	cfg := testConfig(64)
	subs := &stubSubmissions{}
	r := newRouter(cfg, subs)

	body, contentType := multipartBody(t, "video", "big.mp4", bytes.Repeat([]byte{1}, 4096), map[string]string{"course_id": "4", "difficulty": "easy"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submit/video", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", authHeader(t, cfg, 5, model.RoleStudent))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, subs.gotUser)
}

func TestSubmitVoice_ExternalFailureIsBadGateway(t *testing.T) {
	cfg := testConfig(1 << 20)
	subs := &stubSubmissions{err: apperr.New(apperr.External, "transcription timed out")}
	r := newRouter(cfg, subs)

	body, contentType := multipartBody(t, "audio", "a.wav", []byte("RIFF"), map[string]string{"course_id": "4", "difficulty": "easy"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submit/voice", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", authHeader(t, cfg, 5, model.RoleStudent))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestResults_OwnerOrAdmin(t *testing.T) {
	cfg := testConfig(0)
	r := newRouter(cfg, &stubSubmissions{})

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"own results", "/api/v1/results/7", authHeader(t, cfg, 7, model.RoleStudent), http.StatusOK},
		{"someone else", "/api/v1/results/8", authHeader(t, cfg, 7, model.RoleStudent), http.StatusForbidden},
		{"admin", "/api/v1/results/8", authHeader(t, cfg, 1, model.RoleAdmin), http.StatusOK},
		{"bad id", "/api/v1/results/abc", authHeader(t, cfg, 7, model.RoleStudent), http.StatusBadRequest},
		{"no token", "/api/v1/next-difficulty/7", "", http.StatusUnauthorized},
		{"own prediction", "/api/v1/next-difficulty/7", authHeader(t, cfg, 7, model.RoleStudent), http.StatusOK},
		{"own session", "/api/v1/sessions/11", authHeader(t, cfg, 7, model.RoleStudent), http.StatusOK},
		{"session of someone else", "/api/v1/sessions/11", authHeader(t, cfg, 8, model.RoleStudent), http.StatusForbidden},
		{"session as admin", "/api/v1/sessions/11", authHeader(t, cfg, 1, model.RoleAdmin), http.StatusOK},
		{"unknown session", "/api/v1/sessions/12", authHeader(t, cfg, 7, model.RoleStudent), http.StatusNotFound},
		{"session without token", "/api/v1/sessions/11", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestProfile_OwnerOrAdmin(t *testing.T) {
	cfg := testConfig(0)
	profiles := &stubProfiles{}
	r := newProfileRouter(cfg, profiles)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		header string
		want   int
	}{
		{"read own", http.MethodGet, "/api/v1/users/7/profile", "", authHeader(t, cfg, 7, model.RoleStudent), http.StatusOK},
		{"read other", http.MethodGet, "/api/v1/users/8/profile", "", authHeader(t, cfg, 7, model.RoleStudent), http.StatusForbidden},
		{"admin edits other", http.MethodPut, "/api/v1/users/8/profile", `{"name":"Bob"}`, authHeader(t, cfg, 1, model.RoleAdmin), http.StatusOK},
		{"edit other", http.MethodPut, "/api/v1/users/8/profile", `{"name":"Bob"}`, authHeader(t, cfg, 7, model.RoleStudent), http.StatusForbidden},
		{"bad avatar", http.MethodPut, "/api/v1/users/7/profile", `{"avatar_url":"not a url"}`, authHeader(t, cfg, 7, model.RoleStudent), http.StatusBadRequest},
		{"no token", http.MethodGet, "/api/v1/users/7/profile", "", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestUpdateProfile_PassesFields(t *testing.T) {
	cfg := testConfig(0)
	profiles := &stubProfiles{}
	r := newProfileRouter(cfg, profiles)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/7/profile",
		strings.NewReader(`{"name":"Ada L.","avatar_url":"https://cdn.example.com/a.png"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, cfg, 7, model.RoleStudent))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, profiles.gotReq.AvatarURL)
	assert.Equal(t, "https://cdn.example.com/a.png", *profiles.gotReq.AvatarURL)

	var got dto.UserResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Ada L.", got.Name)
}

func TestServeMedia_OwnerOnly(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "voice", "7", "2024-05-01")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.webm"), []byte("webm-bytes"), 0o644))

	cfg := testConfig(0)
	cfg.Storage.LocalPath = root
	mc := NewMediaController(cfg)
	r := gin.New()
	r.GET("/uploads/*key", middleware.Auth(cfg), mc.ServeMedia)

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"owner", "/uploads/voice/7/2024-05-01/a.webm", authHeader(t, cfg, 7, model.RoleStudent), http.StatusOK},
		{"other user", "/uploads/voice/7/2024-05-01/a.webm", authHeader(t, cfg, 8, model.RoleStudent), http.StatusForbidden},
		{"admin", "/uploads/voice/7/2024-05-01/a.webm", authHeader(t, cfg, 1, model.RoleAdmin), http.StatusOK},
		{"no token", "/uploads/voice/7/2024-05-01/a.webm", "", http.StatusUnauthorized},
		{"missing file", "/uploads/voice/7/2024-05-01/b.webm", authHeader(t, cfg, 7, model.RoleStudent), http.StatusNotFound},
		{"not an object key", "/uploads/voice/7", authHeader(t, cfg, 7, model.RoleStudent), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "webm-bytes", w.Body.String())
			}
		})
	}
}
