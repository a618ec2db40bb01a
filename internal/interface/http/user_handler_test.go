package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	userapp "github.com/driveup/account-service/internal/application"
	"github.com/driveup/account-service/internal/infrastructure/memstore"
	handlers "github.com/driveup/account-service/internal/interface/http"
	"github.com/driveup/account-service/internal/interface/middleware"
	"github.com/driveup/account-service/internal/router"
	"github.com/driveup/account-service/internal/router/modules"
	"github.com/driveup/account-service/pkg/helpers"
	"github.com/driveup/account-service/pkg/validation"
)

func newTestServer(t *testing.T) (http.Handler, *memstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	store := memstore.New("test-bucket")
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	jwt := helpers.NewJWTManager("test-secret", 24*time.Hour)
	svc := userapp.NewService(store, jwt, logger, nil)
	h := handlers.NewUserHandler(svc, logger)

	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware())
	reg := router.NewRegistry(engine)
	reg.Add(modules.NewUserModule(h))
	reg.RegisterAll()
	return engine, store
}

func doJSON(t *testing.T, ts http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewBuffer(b)
	} else {
		buf = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	return rr
}

func doUpload(t *testing.T, ts http.Handler, email, filename string, payload []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if email != "" {
		require.NoError(t, w.WriteField("email", email))
	}
	if payload != nil {
		fw, err := w.CreateFormFile("profile_pic", filename)
		require.NoError(t, err)
		_, err = fw.Write(payload)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, _ := http.NewRequest("POST", "/api/profile-picture", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestCheckUserMissingEmail(t *testing.T) {
	ts, _ := newTestServer(t)
	rr := doJSON(t, ts, "GET", "/api/user/check", nil, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Email parameter is required", decode(t, rr)["error"])
}

func TestRegisterMissingFields(t *testing.T) {
	ts, _ := newTestServer(t)

	rr := doJSON(t, ts, "POST", "/api/register", map[string]string{"email": "a@x.com"}, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Email and ID token are required", decode(t, rr)["error"])

	rr = doJSON(t, ts, "POST", "/api/register", map[string]string{"password": "tok1"}, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginMissingFields(t *testing.T) {
	ts, _ := newTestServer(t)
	rr := doJSON(t, ts, "POST", "/api/login/google", map[string]string{"email": "a@x.com"}, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Email and ID token are required", decode(t, rr)["error"])
}

func TestLoginUnknownUser(t *testing.T) {
	ts, _ := newTestServer(t)
	rr := doJSON(t, ts, "POST", "/api/login/google", map[string]string{"email": "nobody@x.com", "idToken": "tok"}, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "User not found or authentication failed", decode(t, rr)["error"])
}

func TestUploadRequiresBearer(t *testing.T) {
	ts, _ := newTestServer(t)

	// Valid payload, no header: rejected before the body is considered.
	rr := doUpload(t, ts, "a@x.com", "pic.png", []byte{1, 2, 3}, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Missing or invalid Authorization header", decode(t, rr)["error"])

	// Malformed scheme.
	rr = doUpload(t, ts, "a@x.com", "pic.png", []byte{1, 2, 3}, map[string]string{"Authorization": "Token abc"})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUploadValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	auth := map[string]string{"Authorization": "Bearer whatever"}

	rr := doUpload(t, ts, "", "pic.png", []byte{1}, auth)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Email is required", decode(t, rr)["error"])

	rr = doUpload(t, ts, "a@x.com", "pic.png", nil, auth)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "No file uploaded", decode(t, rr)["error"])
}

// Full lifecycle: register, check, login without avatar, upload, login with avatar.
func TestAccountLifecycle(t *testing.T) {
	ts, store := newTestServer(t)

	// Unknown email does not exist.
	rr := doJSON(t, ts, "GET", "/api/user/check?email=a@x.com", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, false, decode(t, rr)["exists"])

	// Register.
	rr = doJSON(t, ts, "POST", "/api/register", map[string]string{
		"email":    "a@x.com",
		"fullName": "A",
		"password": "tok1",
		"googleId": "g-1",
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	require.Equal(t, "User registered successfully", body["message"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	userInfo, _ := body["userInfo"].(map[string]any)
	require.Equal(t, "a@x.com", userInfo["email"])
	require.Equal(t, "A", userInfo["name"])
	require.Equal(t, "g-1", userInfo["googleId"])

	// Now it exists.
	rr = doJSON(t, ts, "GET", "/api/user/check?email=a@x.com", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, true, decode(t, rr)["exists"])

	// Login before any avatar: profilePicUrl is null.
	rr = doJSON(t, ts, "POST", "/api/login/google", map[string]string{"email": "a@x.com", "idToken": "tok2"}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body = decode(t, rr)
	require.Equal(t, "Login successful", body["message"])
	require.NotEmpty(t, body["token"])
	require.Nil(t, body["profilePicUrl"])

	// Upload a small PNG-ish payload.
	payload := []byte{0x89, 'P', 'N', 'G', 1, 2, 3, 4, 5, 6}
	rr = doUpload(t, ts, "a@x.com", "pic.png", payload, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rr.Code)
	body = decode(t, rr)
	require.Equal(t, "Profile picture uploaded successfully", body["message"])
	url, _ := body["profilePicUrl"].(string)
	require.NotEmpty(t, url)
	require.Equal(t, store.PublicURL("a@x.com/profilePic.png"), url)

	// The stored object is byte-for-byte what was uploaded, as image/png.
	stored, err := store.Get(context.Background(), "a@x.com/profilePic.png")
	require.NoError(t, err)
	require.Equal(t, payload, stored)
	ct, _ := store.ContentType("a@x.com/profilePic.png")
	require.Equal(t, "image/png", ct)

	// Login again: profilePicUrl is now resolved.
	rr = doJSON(t, ts, "POST", "/api/login/google", map[string]string{"email": "a@x.com", "idToken": "tok3"}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body = decode(t, rr)
	require.Equal(t, url, body["profilePicUrl"])
}

func TestRegisterTwiceLastWriteWins(t *testing.T) {
	ts, _ := newTestServer(t)

	rr := doJSON(t, ts, "POST", "/api/register", map[string]string{"email": "a@x.com", "fullName": "A", "password": "tok1"}, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, ts, "POST", "/api/register", map[string]string{"email": "a@x.com", "fullName": "Anna", "password": "tok2"}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	userInfo, _ := decode(t, rr)["userInfo"].(map[string]any)
	require.Equal(t, "Anna", userInfo["name"])

	rr = doJSON(t, ts, "GET", "/api/user/check?email=a@x.com", nil, nil)
	require.Equal(t, true, decode(t, rr)["exists"])
}

func TestMalformedJSONPayload(t *testing.T) {
	ts, _ := newTestServer(t)
	req, _ := http.NewRequest("POST", "/api/register", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
