package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/anonto42/info-blog/backend/internal/router"
	"github.com/anonto42/info-blog/backend/internal/scraper"
	"github.com/anonto42/info-blog/backend/internal/testutil"
	"github.com/anonto42/info-blog/backend/pkg/metrics"
	"github.com/anonto42/info-blog/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendActivationCode(_ context.Context, email, code string, isPassword bool) error {
	args := m.Called(email, code, isPassword)
	return args.Error(0)
}

type stubScraper struct {
	headlines []scraper.Headline
	err       error
}

func (s stubScraper) Headlines(context.Context) ([]scraper.Headline, error) {
	return s.headlines, s.err
}

type testServer struct {
	e      *echo.Echo
	db     *gorm.DB
	mailer *mockMailer
}

func newTestServer(t *testing.T, src stubScraper) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	m := &mockMailer{}
	e := echo.New()
	require.NoError(t, router.SetupRoutes(e, router.Dependencies{
		DB:            db,
		Tokens:        repositories.NewGormTokenRepository(db),
		Store:         store,
		Mailer:        m,
		Scraper:       src,
		Metrics:       metrics.New(),
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		AuthRateLimit: 1000,
		Categories:    []string{"News", "Sport"},
	}))
	return &testServer{e: e, db: db, mailer: m}
}

func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// register signs up email and returns the mailed activation code.
func (s *testServer) register(t *testing.T, email, password string) string {
	t.Helper()
	var code string
	s.mailer.On("SendActivationCode", email, mock.Anything, false).
		Run(func(args mock.Arguments) { code = args.String(1) }).
		Return(nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/account/register", echo.Map{
		"email": email, "password": password, "password_confirm": password,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, code, 20)
	return code
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/account/login", echo.Map{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	decode(t, rec, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func (s *testServer) activeUser(t *testing.T, email string) string {
	t.Helper()
	code := s.register(t, email, "secret1")
	rec := s.do(http.MethodGet, "/api/v1/account/activate/"+code, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	return s.login(t, email, "secret1")
}

type postBody struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	} `json:"category"`
	Like     []map[string]interface{} `json:"like"`
	Rating   []map[string]interface{} `json:"rating"`
	Images   []struct{ Image string }  `json:"images"`
	Comments []commentBody             `json:"comments"`
}

type commentBody struct {
	ID       uint          `json:"id"`
	Text     string        `json:"text"`
	Post     uint          `json:"post"`
	Parent   *uint         `json:"parent"`
	Children []commentBody `json:"children"`
}

func (s *testServer) createPost(t *testing.T, token, title string) postBody {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/posts", echo.Map{"title": title, "text": "body of " + title, "category": 1}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p postBody
	decode(t, rec, &p)
	return p
}

func TestRegisterAndActivate(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	code := s.register(t, "a@b.com", "secret1")

	var user models.User
	require.NoError(t, s.db.Where("email = ?", "a@b.com").First(&user).Error)
	assert.False(t, user.IsActive)
	assert.Equal(t, code, user.ActivationCode)

	rec := s.do(http.MethodGet, "/api/v1/account/activate/"+code, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/account/activate/"+code, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, s.db.Where("email = ?", "a@b.com").First(&user).Error)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.ActivationCode)
	s.mailer.AssertExpectations(t)
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	s := newTestServer(t, stubScraper{})

	rec := s.do(http.MethodPost, "/api/v1/account/register", echo.Map{
		"email": "a@b.com", "password": "secret1", "password_confirm": "secret2",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match")

	var count int64
	require.NoError(t, s.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
	s.mailer.AssertNotCalled(t, "SendActivationCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterRollsBackWhenMailFails(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	s.mailer.On("SendActivationCode", "a@b.com", mock.Anything, false).Return(errors.New("smtp down")).Once()

	rec := s.do(http.MethodPost, "/api/v1/account/register", echo.Map{
		"email": "a@b.com", "password": "secret1", "password_confirm": "secret1",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var count int64
	require.NoError(t, s.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	s.register(t, "a@b.com", "secret1")

	rec := s.do(http.MethodPost, "/api/v1/account/register", echo.Map{
		"email": "a@b.com", "password": "secret1", "password_confirm": "secret1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginRequiresActiveAccount(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	s.register(t, "a@b.com", "secret1")

	rec := s.do(http.MethodPost, "/api/v1/account/login", echo.Map{"email": "a@b.com", "password": "secret1"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unable to log in with provided credentials")
}

func TestLogoutRevokesTokens(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	token := s.activeUser(t, "a@b.com")

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/posts", nil, token).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/account/logout", nil, token).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/posts", nil, token).Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t, stubScraper{})

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/posts", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/likes", nil, "garbage").Code)

	rec := s.do(http.MethodGet, "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []models.Category
	decode(t, rec, &categories)
	assert.Len(t, categories, 2)
}

func TestForgotPasswordFlow(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	s.activeUser(t, "a@b.com")

	var code string
	s.mailer.On("SendActivationCode", "a@b.com", mock.Anything, true).
		Run(func(args mock.Arguments) { code = args.String(1) }).
		Return(nil).Once()

	rec := s.do(http.MethodGet, "/api/v1/account/forgot-password?email=a@b.com", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, code)

	rec = s.do(http.MethodGet, "/api/v1/account/forgot-password?email=nobody@b.com", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	complete := func(email, code, pw, confirm string) *httptest.ResponseRecorder {
		return s.do(http.MethodPost, "/api/v1/account/forgot-password-complete", echo.Map{
			"email": email, "activation_code": code, "password": pw, "password_confirmation": confirm,
		}, "")
	}

	rec = complete("nobody@b.com", code, "newpass1", "newpass1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User with given email does not exists")

	rec = complete("a@b.com", "wrongcode", "newpass1", "newpass1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wrong activation code")

	rec = complete("a@b.com", code, "newpass1", "newpass2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match")

	rec = complete("a@b.com", code, "newpass1", "newpass1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	s.login(t, "a@b.com", "newpass1")
	rec = s.do(http.MethodPost, "/api/v1/account/login", echo.Map{"email": "a@b.com", "password": "secret1"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostLifecycleAndPermissions(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	alice := s.activeUser(t, "alice@b.com")
	bob := s.activeUser(t, "bob@b.com")

	p := s.createPost(t, alice, "Hello")
	assert.Equal(t, "alice@b.com", p.Author)
	assert.Equal(t, "News", p.Category.Name)
	assert.Empty(t, p.Comments)

	path := "/api/v1/posts/" + strconv.Itoa(int(p.ID))
	update := echo.Map{"title": "Hijacked", "text": "x", "category": 1}
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, path, update, bob).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, path, nil, bob).Code)

	rec := s.do(http.MethodPatch, path, echo.Map{"title": "Hello again"}, alice)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var patched postBody
	decode(t, rec, &patched)
	assert.Equal(t, "Hello again", patched.Title)
	assert.Equal(t, "body of Hello", patched.Text)

	rec = s.do(http.MethodPut, path, echo.Map{"title": "Replaced", "text": "new", "category": 2}, alice)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var replaced postBody
	decode(t, rec, &replaced)
	assert.Equal(t, "Sport", replaced.Category.Name)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, path, echo.Map{"title": "x", "text": "y", "category": 99}, alice).Code)

	rec = s.do(http.MethodGet, "/api/v1/posts/own", nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)
	var own []postBody
	decode(t, rec, &own)
	assert.Empty(t, own)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, path, nil, alice).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, nil, alice).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/posts/abc", nil, alice).Code)
}

func TestPostListingQueries(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	token := s.activeUser(t, "a@b.com")
	s.createPost(t, token, "banana")
	s.createPost(t, token, "apple")

	list := func(path string) []string {
		rec := s.do(http.MethodGet, path, nil, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var posts []postBody
		decode(t, rec, &posts)
		out := []string{}
		for _, p := range posts {
			out = append(out, p.Title)
		}
		return out
	}

	assert.Equal(t, []string{"banana", "apple"}, list("/api/v1/posts"))
	assert.Equal(t, []string{"banana", "apple"}, list("/api/v1/posts?days=0"))
	assert.Equal(t, []string{"apple", "banana"}, list("/api/v1/posts/sort?filter=A-Z"))
	assert.Equal(t, []string{"banana", "apple"}, list("/api/v1/posts/sort?filter=bogus"))
	assert.Equal(t, []string{"apple"}, list("/api/v1/posts/search?q=APP"))
	assert.Equal(t, []string{"apple"}, list("/api/v1/posts?page=2&limit=1"))
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/posts?days=ten", nil, token).Code)
}

func (s *testServer) postWithImage(t *testing.T, token, filename, partType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "With image"))
	require.NoError(t, w.WriteField("text", "pictures"))
	require.NoError(t, w.WriteField("category", "1"))
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", partType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Token "+token)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func TestPostWithUploadedImages(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	token := s.activeUser(t, "a@b.com")

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	rec := s.postWithImage(t, token, "pic.png", "image/png", png)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p postBody
	decode(t, rec, &p)
	require.Len(t, p.Images, 1)
	assert.True(t, strings.HasPrefix(p.Images[0].Image, "http://example.com/media/"), p.Images[0].Image)

	mediaPath := strings.TrimPrefix(p.Images[0].Image, "http://example.com")
	assert.True(t, strings.HasSuffix(mediaPath, ".png"), mediaPath)
	rec = s.do(http.MethodGet, mediaPath, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, png, rec.Body.Bytes())
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))

	rec = s.do(http.MethodGet, "/api/v1/add-image", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var images []map[string]interface{}
	decode(t, rec, &images)
	assert.Len(t, images, 1)
}

func TestUploadedImageNameCannotChooseServedType(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	token := s.activeUser(t, "a@b.com")

	gifHTML := []byte("GIF89a<html><script>alert(document.cookie)</script></html>")
	rec := s.postWithImage(t, token, "evil.html", "text/html", gifHTML)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p postBody
	decode(t, rec, &p)
	require.Len(t, p.Images, 1)
	mediaPath := strings.TrimPrefix(p.Images[0].Image, "http://example.com")
	assert.True(t, strings.HasSuffix(mediaPath, ".gif"), mediaPath)

	rec = s.do(http.MethodGet, mediaPath, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/gif", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))

	rec = s.postWithImage(t, token, "page.png", "image/png", []byte("<html><body>hi</body></html>"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleLikeEndpoint(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	token := s.activeUser(t, "a@b.com")
	p := s.createPost(t, token, "Likeable")

	var like struct {
		ID   uint `json:"id"`
		Post uint `json:"post"`
		Like bool `json:"like"`
	}
	rec := s.do(http.MethodPost, "/api/v1/likes", echo.Map{"post": p.ID}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &like)
	assert.True(t, like.Like)

	rec = s.do(http.MethodGet, "/api/v1/posts/"+strconv.Itoa(int(p.ID)), nil, token)
	var detail postBody
	decode(t, rec, &detail)
	assert.Len(t, detail.Like, 1)

	rec = s.do(http.MethodPost, "/api/v1/likes", echo.Map{"post": p.ID}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &like)
	assert.False(t, like.Like)

	rec = s.do(http.MethodGet, "/api/v1/posts/"+strconv.Itoa(int(p.ID)), nil, token)
	decode(t, rec, &detail)
	assert.Empty(t, detail.Like)

	rec = s.do(http.MethodGet, "/api/v1/likes?post="+strconv.Itoa(int(p.ID)), nil, token)
	var likes []map[string]interface{}
	decode(t, rec, &likes)
	assert.Len(t, likes, 1)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/v1/likes", echo.Map{"post": 999}, token).Code)
}

func TestFavoritesAreListedPerUser(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	alice := s.activeUser(t, "alice@b.com")
	bob := s.activeUser(t, "bob@b.com")
	p := s.createPost(t, alice, "Fav")

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/favorites", echo.Map{"post": p.ID}, alice).Code)

	var favs []map[string]interface{}
	decode(t, s.do(http.MethodGet, "/api/v1/favorites", nil, alice), &favs)
	require.Len(t, favs, 1)
	assert.Equal(t, true, favs[0]["favorite"])

	decode(t, s.do(http.MethodGet, "/api/v1/favorites", nil, bob), &favs)
	assert.Empty(t, favs)
}

func TestRatingValidation(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	token := s.activeUser(t, "a@b.com")
	p := s.createPost(t, token, "Rated")

	for _, bad := range []int{6, -1} {
		rec := s.do(http.MethodPost, "/api/v1/ratings", echo.Map{"post": p.ID, "rating": bad}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/ratings", echo.Map{"post": p.ID}, token).Code)

	var count int64
	require.NoError(t, s.db.Model(&models.Rating{}).Count(&count).Error)
	assert.Zero(t, count)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/ratings", echo.Map{"post": p.ID, "rating": 3}, token).Code)
	rec := s.do(http.MethodPost, "/api/v1/ratings", echo.Map{"post": p.ID, "rating": 0}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var rating struct {
		Rating int `json:"rating"`
	}
	decode(t, rec, &rating)
	assert.Equal(t, 0, rating.Rating)

	require.NoError(t, s.db.Model(&models.Rating{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCommentThread(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	alice := s.activeUser(t, "alice@b.com")
	bob := s.activeUser(t, "bob@b.com")
	p := s.createPost(t, alice, "Discuss")
	other := s.createPost(t, alice, "Elsewhere")

	create := func(text string, parent *uint) commentBody {
		body := echo.Map{"post": p.ID, "text": text}
		if parent != nil {
			body["parent"] = *parent
		}
		rec := s.do(http.MethodPost, "/api/v1/comment", body, bob)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var c commentBody
		decode(t, rec, &c)
		return c
	}
	a := create("A", nil)
	b := create("B", &a.ID)
	create("C", &b.ID)

	rec := s.do(http.MethodGet, "/api/v1/comment?post="+strconv.Itoa(int(p.ID)), nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)
	var roots []commentBody
	decode(t, rec, &roots)
	require.Len(t, roots, 1)
	assert.Equal(t, "A", roots[0].Text)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "B", roots[0].Children[0].Text)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "C", roots[0].Children[0].Children[0].Text)

	var detail postBody
	decode(t, s.do(http.MethodGet, "/api/v1/posts/"+strconv.Itoa(int(p.ID)), nil, bob), &detail)
	require.Len(t, detail.Comments, 1)
	assert.Len(t, detail.Comments[0].Children, 1)

	rec = s.do(http.MethodPost, "/api/v1/comment", echo.Map{"post": other.ID, "text": "x", "parent": a.ID}, bob)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Parent comment belongs to another post")

	commentPath := "/api/v1/comment/" + strconv.Itoa(int(a.ID))
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, commentPath, echo.Map{"text": "edited"}, alice).Code)

	rec = s.do(http.MethodPatch, commentPath, echo.Map{"text": "edited"}, bob)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var edited commentBody
	decode(t, rec, &edited)
	assert.Equal(t, "edited", edited.Text)
	assert.Len(t, edited.Children, 1)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, commentPath, nil, bob).Code)
	var count int64
	require.NoError(t, s.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestParsEndpoint(t *testing.T) {
	s := newTestServer(t, stubScraper{headlines: []scraper.Headline{{Title: "Goal"}}})
	rec := s.do(http.MethodGet, "/api/v1/pars", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"title":"Goal"}]`, rec.Body.String())

	failing := newTestServer(t, stubScraper{err: errors.New("timeout")})
	assert.Equal(t, http.StatusBadGateway, failing.do(http.MethodGet, "/api/v1/pars", nil, "").Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, stubScraper{})
	rec := s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
