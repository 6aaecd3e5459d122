package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sujalbistaa/messmate/internal/models"
	"github.com/sujalbistaa/messmate/internal/store"
)

type fakeHost struct {
	url string
	err error
}

func (f *fakeHost) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testApp struct {
	router *gin.Engine
	store  *store.Store
	clock  *fakeClock
	images *fakeHost
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Post{}))

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	postStore := store.NewWithClock(db, clock.Now)
	images := &fakeHost{url: "https://img.example/menu.jpg"}

	router := gin.New()
	env := &Env{Store: postStore, Hotels: postStore, Images: images}
	SetupRoutes(router, env, "")

	return &testApp{router: router, store: postStore, clock: clock, images: images}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func createPostRequest(t *testing.T, username, hotelName string, withImage bool) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("username", username))
	require.NoError(t, writer.WriteField("hotelName", hotelName))
	if withImage {
		part, err := writer.CreateFormFile("image", "menu.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("not really a jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestCreatePost(t *testing.T) {
	app := newTestApp(t)

	w := app.do(createPostRequest(t, "sujal", "Hotel Annapurna", true))
	require.Equal(t, http.StatusCreated, w.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "sujal", post.Username)
	assert.Equal(t, "Hotel Annapurna", post.HotelName)
	assert.Equal(t, "https://img.example/menu.jpg", post.ImageURL)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestCreatePostMissingImage(t *testing.T) {
	app := newTestApp(t)

	w := app.do(createPostRequest(t, "sujal", "Hotel Annapurna", false))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "image is required")
}

func TestCreatePostBlankUsername(t *testing.T) {
	app := newTestApp(t)

	w := app.do(createPostRequest(t, "   ", "Hotel Annapurna", true))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username is required")

	// The failed create must not have persisted anything.
	posts, err := app.store.ListAll(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestCreatePostImageHostFailure(t *testing.T) {
	app := newTestApp(t)
	app.images.err = errors.New("quota exceeded")

	w := app.do(createPostRequest(t, "sujal", "Hotel Annapurna", true))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
	// Provider detail stays in the logs, not in the response.
	assert.NotContains(t, body["error"], "quota")
}

func TestCreatePostRateLimited(t *testing.T) {
	app := newTestApp(t)

	first := app.do(createPostRequest(t, "sujal", "Annapurna", true))
	require.Equal(t, http.StatusCreated, first.Code)
	second := app.do(createPostRequest(t, "sujal", "Annapurna", true))
	require.Equal(t, http.StatusCreated, second.Code)

	third := app.do(createPostRequest(t, "sujal", "Annapurna", true))
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
}

func TestGetPostsNewestFirst(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	_, err := app.store.Create(ctx, "u1", "Annapurna", "https://img.example/1.jpg")
	require.NoError(t, err)
	app.clock.Advance(time.Second)
	_, err = app.store.Create(ctx, "u2", "Everest", "https://img.example/2.jpg")
	require.NoError(t, err)

	w := app.do(httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var posts []models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "u2", posts[0].Username)
	assert.Equal(t, "u1", posts[1].Username)
}

func TestGetPostsExcludesExpired(t *testing.T) {
	app := newTestApp(t)

	_, err := app.store.Create(context.Background(), "u1", "Annapurna", "https://img.example/1.jpg")
	require.NoError(t, err)
	app.clock.Advance(store.TTL + time.Second)

	w := app.do(httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetPostsByHotel(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	_, err := app.store.Create(ctx, "u1", "Hotel Annapurna", "https://img.example/1.jpg")
	require.NoError(t, err)
	_, err = app.store.Create(ctx, "u2", "Everest View", "https://img.example/2.jpg")
	require.NoError(t, err)

	// Lower-case query against a mixed-case stored name, URL-encoded space.
	w := app.do(httptest.NewRequest(http.MethodGet, "/api/posts/hotel/hotel%20annapurna", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var posts []models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Hotel Annapurna", posts[0].HotelName)
}

func TestGetHotels(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	for _, hotel := range []string{"Annapurna", "Everest", "Annapurna"} {
		_, err := app.store.Create(ctx, "u", hotel, "https://img.example/1.jpg")
		require.NoError(t, err)
	}

	w := app.do(httptest.NewRequest(http.MethodGet, "/api/posts/hotels/list", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var hotels []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hotels))
	assert.ElementsMatch(t, []string{"Annapurna", "Everest"}, hotels)
}
