package admin

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio/auth"
	"portfolio/cache"
	"portfolio/database"
	"portfolio/models"
	"portfolio/storage"
	"portfolio/store"
	"portfolio/views"
)

const (
	testEmail    = "owner@example.com"
	testPassword = "password123"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// the dashboard loads collections in parallel; keep one shared in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.Tables()...))
	return db
}

type testEnv struct {
	db     *gorm.DB
	auth   *auth.Service
	pages  *cache.PageCache
	module *AdminModule
	router *gin.Engine
}

func setupTestEnv(t *testing.T, uploader *storage.Uploader) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	env := &testEnv{
		db:    db,
		auth:  auth.NewService(db),
		pages: cache.NewPageCache(time.Minute),
	}
	env.module = NewAdminModule(env.auth, store.New(db, store.RoleAuthenticated), uploader, env.pages)
	env.router = setupTestRouter(env.module)
	return env
}

func setupTestRouter(adminModule *AdminModule) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cookieStore := cookie.NewStore([]byte("secret"))
	router.Use(sessions.Sessions("test-session", cookieStore))
	views.Load(router)
	adminModule.RegisterRoutes(router)
	return router
}

func createTestUser(t *testing.T, env *testEnv) models.User {
	t.Helper()
	require.NoError(t, env.auth.EnsureAdmin(context.Background(), testEmail, testPassword))
	var user models.User
	require.NoError(t, env.db.Where("email = ?", testEmail).First(&user).Error)
	return user
}

func (env *testEnv) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) get(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	return env.do(req, cookies)
}

func (env *testEnv) postForm(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return env.do(req, cookies)
}

func login(t *testing.T, env *testEnv) []*http.Cookie {
	t.Helper()
	w := env.postForm("/login", url.Values{"email": {testEmail}, "password": {testPassword}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func createTestProject(t *testing.T, db *gorm.DB, title string, featured bool) models.Project {
	t.Helper()
	p := models.Project{
		Title:               title,
		Slug:                models.GenerateSlug(title),
		DescriptionMarkdown: "About " + title,
		TechStack:           []string{"Go"},
		Featured:            featured,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestDashboard_Tabs(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)
	createTestProject(t, env.db, "Visible Project", true)
	require.NoError(t, env.db.Create(&models.Message{Name: "Ada", Email: "ada@example.com", Message: "Hello from Ada"}).Error)

	w := env.get("/admin/dashboard", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), testEmail)
	assert.Contains(t, w.Body.String(), "No profile yet.")

	w = env.get("/admin/dashboard?tab=messages", cookies)
	assert.Contains(t, w.Body.String(), "Hello from Ada")

	w = env.get("/admin/dashboard?tab=projects", cookies)
	assert.Contains(t, w.Body.String(), "Visible Project")

	w = env.get("/admin/dashboard?tab=bogus", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No profile yet.")
}

func TestDashboard_FilterAndPagination(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)
	for i := 0; i < 7; i++ {
		createTestProject(t, env.db, "Project "+string(rune('A'+i)), i%2 == 0)
	}
	createTestProject(t, env.db, "Needle In Haystack", false)

	w := env.get("/admin/dashboard?tab=projects", cookies)
	assert.Contains(t, w.Body.String(), "Showing 1 to 6 of 8 projects")

	w = env.get("/admin/dashboard?tab=projects&page=2", cookies)
	assert.Contains(t, w.Body.String(), "Showing 7 to 8 of 8 projects")

	w = env.get("/admin/dashboard?tab=projects&page=9", cookies)
	assert.Contains(t, w.Body.String(), "Showing 7 to 8 of 8 projects", "page is clamped")

	w = env.get("/admin/dashboard?tab=projects&search=needle&page=2", cookies)
	assert.Contains(t, w.Body.String(), "Showing 1 to 1 of 1 projects", "a new search goes back to page 1")

	w = env.get("/admin/dashboard?tab=projects&featured=Featured+Only", cookies)
	assert.Contains(t, w.Body.String(), "Showing 1 to 4 of 4 projects")

	w = env.get("/admin/dashboard?tab=projects&search=nothing-matches", cookies)
	assert.Contains(t, w.Body.String(), "No projects")
}

func TestSaveProject_Create(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)
	env.pages.Set("/projects", cache.Page{Status: http.StatusOK, Body: []byte("stale")})

	w := env.postForm("/admin/projects", url.Values{
		"title":                {"My New App!"},
		"description_markdown": {"Built with **Go**"},
		"tech_stack":           {"Go", "Gin"},
		"work_type":            {"Personal"},
		"repo_url":             {""},
		"featured":             {"true"},
	}, cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard?tab=projects", w.Header().Get("Location"))
	assert.Equal(t, 0, env.pages.Len(), "page cache purged after a write")

	var saved models.Project
	require.NoError(t, env.db.First(&saved).Error)
	assert.Equal(t, "my-new-app", saved.Slug)
	assert.Equal(t, []string{"Go", "Gin"}, []string(saved.TechStack))
	assert.Equal(t, "Personal", models.Deref(saved.WorkType))
	assert.Nil(t, saved.RepoURL)
	assert.True(t, saved.Featured)
}

func TestSaveProject_ValidationKeepsDraft(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)

	w := env.postForm("/admin/projects", url.Values{
		"title":    {"Half Done"},
		"repo_url": {"not a url"},
	}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "description markdown is required")
	assert.Contains(t, w.Body.String(), "repo url must be a valid URL")
	assert.Contains(t, w.Body.String(), `value="Half Done"`)

	var n int64
	env.db.Model(&models.Project{}).Count(&n)
	assert.Equal(t, int64(0), n)
}

func TestSaveProject_TechActions(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)

	w := env.postForm("/admin/projects", url.Values{
		"title":      {"Tech"},
		"tech_stack": {"Go"},
		"new_tech":   {"  Rust  "},
		"add_tech":   {"1"},
	}, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="tech_stack" value="Go"`)
	assert.Contains(t, w.Body.String(), `name="tech_stack" value="Rust"`)

	w = env.postForm("/admin/projects", url.Values{
		"title":       {"Tech"},
		"tech_stack":  {"Go", "Rust"},
		"remove_tech": {"Go"},
	}, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `name="tech_stack" value="Go"`)
	assert.Contains(t, w.Body.String(), `name="tech_stack" value="Rust"`)

	var n int64
	env.db.Model(&models.Project{}).Count(&n)
	assert.Equal(t, int64(0), n, "tech actions never save")
}

func TestSaveProject_EnterAddsTech(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)

	w := env.postForm("/admin/projects", url.Values{
		"title":      {"Tech"},
		"tech_stack": {"Go"},
		"new_tech":   {"Rust"},
		"add_tech":   {"1"},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	enter := strings.Index(body, `name="add_tech" value="enter"`)
	remove := strings.Index(body, `name="remove_tech"`)
	require.NotEqual(t, -1, enter)
	assert.Less(t, enter, remove, "the add button is the form's default submit")

	// Enter in the tech input submits the default button and the new text.
	w = env.postForm("/admin/projects", url.Values{
		"title":      {"Tech"},
		"tech_stack": {"Go", "Rust"},
		"new_tech":   {"Docker"},
		"add_tech":   {"enter"},
	}, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	for _, tech := range []string{"Go", "Rust", "Docker"} {
		assert.Contains(t, body, `name="tech_stack" value="`+tech+`"`, tech)
	}

	var n int64
	env.db.Model(&models.Project{}).Count(&n)
	assert.Equal(t, int64(0), n)

	// Enter elsewhere with an empty tech input saves the project.
	w = env.postForm("/admin/projects", url.Values{
		"title":                {"Tech"},
		"description_markdown": {"d"},
		"tech_stack":           {"Go"},
		"new_tech":             {""},
		"add_tech":             {"enter"},
	}, cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	env.db.Model(&models.Project{}).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestSaveProject_SlugFollowsRenamedTitle(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)

	w := env.postForm("/admin/projects", url.Values{
		"title":    {"Foo"},
		"new_tech": {"Go"},
		"add_tech": {"1"},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="slug" value="foo"`)

	w = env.postForm("/admin/projects", url.Values{
		"title":                {"Bar Project"},
		"slug":                 {"foo"},
		"description_markdown": {"d"},
		"tech_stack":           {"Go"},
	}, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	var saved models.Project
	require.NoError(t, env.db.First(&saved).Error)
	assert.Equal(t, "Bar Project", saved.Title)
	assert.Equal(t, "bar-project", saved.Slug)
}

func TestSaveProject_Update(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)
	existing := createTestProject(t, env.db, "Old Title", true)

	w := env.get("/admin/projects/"+existing.ID, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Old Title"`)

	w = env.postForm("/admin/projects/"+existing.ID, url.Values{
		"title":                {"New Title"},
		"slug":                 {existing.Slug},
		"description_markdown": {"Updated"},
	}, cookies)
	assert.Equal(t, http.StatusFound, w.Code)

	var saved models.Project
	require.NoError(t, env.db.First(&saved, "id = ?", existing.ID).Error)
	assert.Equal(t, "New Title", saved.Title)
	assert.Equal(t, "old-title", saved.Slug, "slug does not follow the title while editing")
	assert.False(t, saved.Featured, "unchecked box clears featured")
	assert.Empty(t, saved.TechStack)
}

func TestProjectForm_NotFound(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)

	w := env.get("/admin/projects/does-not-exist", cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Record not found")

	w = env.get("/admin/projects/new", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "New Project")
}

func TestSaveExperience_CurrentClearsEndDate(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)

	w := env.postForm("/admin/experience", url.Values{
		"company":              {"Acme"},
		"role":                 {"Engineer"},
		"start_date":           {"2021-03-01"},
		"end_date":             {"2022-01-01"},
		"current":              {"true"},
		"description_markdown": {"- shipped"},
	}, cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard?tab=experience", w.Header().Get("Location"))

	var saved models.Experience
	require.NoError(t, env.db.First(&saved).Error)
	assert.Nil(t, saved.EndDate)
	assert.True(t, saved.Current())

	w = env.postForm("/admin/experience", url.Values{
		"company":              {"Acme"},
		"role":                 {"Engineer"},
		"start_date":           {"2021-03-01"},
		"end_date":             {"2020-01-01"},
		"description_markdown": {"- shipped"},
	}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "end date must not be before start date")

	w = env.postForm("/admin/experience", url.Values{
		"company":              {"Acme"},
		"role":                 {"Lead"},
		"start_date":           {"2023-01-01"},
		"end_date":             {"not-a-date"},
		"current":              {"true"},
		"description_markdown": {"- leading"},
	}, cookies)
	assert.Equal(t, http.StatusFound, w.Code, "the end date is ignored for a current position")
}

func TestSaveSkill(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)

	w := env.get("/admin/skills/new", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Intermediate", "new skills start at the default level")

	w = env.postForm("/admin/skills", url.Values{
		"name":             {"Go"},
		"category":         {"Languages"},
		"level":            {"4"},
		"years_experience": {"2.5"},
		"projects_used":    {"Portfolio, , CLI "},
	}, cookies)
	assert.Equal(t, http.StatusFound, w.Code)

	var saved models.Skill
	require.NoError(t, env.db.First(&saved).Error)
	assert.Equal(t, 4, saved.Level)
	require.NotNil(t, saved.YearsExperience)
	assert.Equal(t, 2.5, *saved.YearsExperience)
	assert.Equal(t, []string{"Portfolio", "CLI"}, []string(saved.ProjectsUsed))
	assert.Nil(t, saved.Description)

	w = env.postForm("/admin/skills", url.Values{"name": {"Bad"}, "category": {"Nope"}, "level": {"9"}}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "level must be between 1 and 5")

	w = env.postForm("/admin/skills", url.Values{"name": {"Bad"}, "level": {"abc"}}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid form data")
}

func TestSaveProfile_SingleRecord(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)

	form := url.Values{
		"name":       {"Ada Lovelace"},
		"headline":   {"Analyst"},
		"bio":        {"First programmer"},
		"github_url": {"https://github.com/ada"},
		"email":      {""},
	}
	w := env.postForm("/admin/profile", form, cookies)
	assert.Equal(t, http.StatusFound, w.Code)

	form.Set("headline", "Mathematician")
	w = env.postForm("/admin/profile", form, cookies)
	assert.Equal(t, http.StatusFound, w.Code)

	var profiles []models.Profile
	require.NoError(t, env.db.Find(&profiles).Error)
	require.Len(t, profiles, 1, "the second save updates the existing profile")
	assert.Equal(t, "Mathematician", profiles[0].Headline)
	assert.Nil(t, profiles[0].Email)

	w = env.get("/admin/profile", cookies)
	assert.Contains(t, w.Body.String(), `value="https://github.com/ada"`)
}

func TestDelete(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)
	project := createTestProject(t, env.db, "Doomed", false)
	other := createTestProject(t, env.db, "Survivor", false)

	deleteReq := func(path, accept string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("POST", path, nil)
		req.Header.Set("Accept", accept)
		return env.do(req, cookies)
	}

	w := deleteReq("/admin/delete/projects/"+project.ID, "application/json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Deleted"}`, w.Body.String())

	w = deleteReq("/admin/delete/projects/"+project.ID, "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = deleteReq("/admin/delete/widgets/"+other.ID, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid delete target"}`, w.Body.String())

	w = deleteReq("/admin/delete/projects/"+other.ID, "text/html")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard?tab=projects", w.Header().Get("Location"))

	var n int64
	env.db.Model(&models.Project{}).Count(&n)
	assert.Equal(t, int64(0), n)
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, data []byte) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	disk, err := storage.NewDiskStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	env := setupTestEnv(t, storage.NewUploader(disk, 1<<20))
	createTestUser(t, env)
	cookies := login(t, env)

	upload := func(filename string, data []byte) *httptest.ResponseRecorder {
		body, contentType := multipartUpload(t, filename, data)
		req, _ := http.NewRequest("POST", "/admin/uploads", body)
		req.Header.Set("Content-Type", contentType)
		return env.do(req, cookies)
	}

	w := upload("shot.png", pngBytes(t, 16, 9))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"url":"/uploads/projects/`)
	assert.Contains(t, w.Body.String(), "Recommended dimensions are 3840x2160px")

	w = upload("notes.txt", []byte("plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Only JPEG, PNG and WebP images are allowed"}`, w.Body.String())

	w = upload("huge.png", make([]byte, 2<<20))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Image is too large"}`, w.Body.String())
}

func TestUpload_NotConfigured(t *testing.T) {
	env := setupTestEnv(t, nil)
	createTestUser(t, env)
	cookies := login(t, env)

	body, contentType := multipartUpload(t, "shot.png", pngBytes(t, 4, 4))
	req, _ := http.NewRequest("POST", "/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := env.do(req, cookies)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
