package admin

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"portfolio/auth"
	"portfolio/cache"
	"portfolio/dashboard"
	"portfolio/forms"
	"portfolio/models"
	"portfolio/storage"
	"portfolio/store"
)

const (
	sessionUserID         = "user_id"
	sessionFilterSearch   = "filter_search"
	sessionFilterWorkType = "filter_work_type"
	sessionFilterFeatured = "filter_featured"
)

type AdminModule struct {
	auth     *auth.Service
	client   *store.Client
	uploader *storage.Uploader
	pages    *cache.PageCache
}

// NewAdminModule wires the dashboard. client must be allowed to write every
// content table; uploader may be nil when no bucket is configured.
func NewAdminModule(authService *auth.Service, client *store.Client, uploader *storage.Uploader, pages *cache.PageCache) *AdminModule {
	return &AdminModule{
		auth:     authService,
		client:   client,
		uploader: uploader,
		pages:    pages,
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", a.loginPage)
	router.POST("/login", a.loginPost)
	router.GET("/admin", a.adminRoot)
	router.GET("/admin/logout", a.logout)

	adminGroup := router.Group("/admin")
	adminGroup.Use(a.requireAuth)
	{
		adminGroup.GET("/dashboard", a.dashboard)
		adminGroup.GET("/events", a.events)

		adminGroup.GET("/profile", a.profileForm)
		adminGroup.POST("/profile", a.saveProfile)

		adminGroup.GET("/projects/new", a.projectForm)
		adminGroup.GET("/projects/:id", a.projectForm)
		adminGroup.POST("/projects", a.saveProject)
		adminGroup.POST("/projects/:id", a.saveProject)

		adminGroup.GET("/experience/new", a.experienceForm)
		adminGroup.GET("/experience/:id", a.experienceForm)
		adminGroup.POST("/experience", a.saveExperience)
		adminGroup.POST("/experience/:id", a.saveExperience)

		adminGroup.GET("/skills/new", a.skillForm)
		adminGroup.GET("/skills/:id", a.skillForm)
		adminGroup.POST("/skills", a.saveSkill)
		adminGroup.POST("/skills/:id", a.saveSkill)

		adminGroup.POST("/delete/:kind/:id", a.delete)
		adminGroup.POST("/uploads", a.upload)
	}
}

func (a *AdminModule) requireAuth(c *gin.Context) {
	session := sessions.Default(c)
	userID, _ := session.Get(sessionUserID).(string)

	if userID == "" {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	user, err := a.auth.User(c.Request.Context(), userID)
	if err != nil {
		slog.Info("dropping session of unknown user", "user_id", userID, "error", err)
		session.Clear()
		session.Save()
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	c.Set("user", user)
	c.Next()
}

func currentUser(c *gin.Context) models.User {
	user, _ := c.Get("user")
	u, _ := user.(models.User)
	return u
}

func (a *AdminModule) adminRoot(c *gin.Context) {
	session := sessions.Default(c)
	userID := session.Get(sessionUserID)

	if userID != nil {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

func (a *AdminModule) loginPage(c *gin.Context) {
	session := sessions.Default(c)
	userID := session.Get(sessionUserID)

	if userID != nil {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}

	c.HTML(http.StatusOK, "admin_login.html", gin.H{"Title": "Sign in", "Email": ""})
}

func (a *AdminModule) loginPost(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	gate := dashboard.NewGate(nil)
	user, err := gate.Login(c.Request.Context(), a.auth, email, password)
	if err != nil {
		status, msg := http.StatusUnauthorized, "Invalid login credentials"
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Error("sign in failed", "error", err)
			status, msg = http.StatusInternalServerError, "Something went wrong. Please try again."
		}
		c.HTML(status, "admin_login.html", gin.H{
			"Title": "Sign in",
			"Error": msg,
			"Email": email,
		})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserID, user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	if userID, ok := session.Get(sessionUserID).(string); ok {
		a.auth.SignOut(userID)
	}
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/login")
}

type dashboardQuery struct {
	Tab      string `form:"tab"`
	Search   string `form:"search"`
	WorkType string `form:"work_type"`
	Featured string `form:"featured"`
	Page     int    `form:"page"`
}

func (a *AdminModule) dashboard(c *gin.Context) {
	var q dashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		q = dashboardQuery{Tab: c.Query("tab")}
	}
	if !dashboard.IsTab(q.Tab) {
		q.Tab = dashboard.TabProfile
	}

	ws := dashboard.Load(c.Request.Context(), a.client)

	session := sessions.Default(c)
	ws.Filter = dashboard.ProjectFilter{
		Search:   sessionString(session, sessionFilterSearch),
		WorkType: sessionString(session, sessionFilterWorkType),
		Featured: sessionString(session, sessionFilterFeatured),
	}
	ws.SetPage(q.Page)
	if q.Tab == dashboard.TabProjects {
		if ws.SetFilter(dashboard.ProjectFilter{Search: q.Search, WorkType: q.WorkType, Featured: q.Featured}) {
			session.Set(sessionFilterSearch, ws.Filter.Search)
			session.Set(sessionFilterWorkType, ws.Filter.WorkType)
			session.Set(sessionFilterFeatured, ws.Filter.Featured)
			session.Save()
		}
	}

	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"Title":           "Dashboard",
		"User":            currentUser(c),
		"Tab":             q.Tab,
		"Tabs":            dashboard.Tabs,
		"Workspace":       ws,
		"Projects":        ws.ProjectsPage(),
		"Filter":          ws.Filter,
		"WorkTypes":       models.WorkTypes,
		"FeaturedOptions": dashboard.FeaturedOptions,
	})
}

func sessionString(session sessions.Session, key string) string {
	v, _ := session.Get(key).(string)
	return v
}

func dashboardURL(tab string) string {
	return "/admin/dashboard?tab=" + tab
}

func (a *AdminModule) renderError(c *gin.Context, status int, msg string) {
	c.HTML(status, "admin_error.html", gin.H{
		"Title": "Error",
		"Error": msg,
	})
}

// loadExisting returns the record named by the :id route parameter, nil when
// the route has none. It renders the error page and returns false when the
// record cannot be read.
func loadExisting[T models.Record](a *AdminModule, c *gin.Context) (*T, bool) {
	id := c.Param("id")
	if id == "" {
		return nil, true
	}
	row, err := store.Get[T](c.Request.Context(), a.client, id)
	if err != nil {
		if store.IsNotFound(err) {
			a.renderError(c, http.StatusNotFound, "Record not found")
		} else {
			slog.Error("load record", "table", (*new(T)).TableName(), "id", id, "error", err)
			a.renderError(c, http.StatusInternalServerError, "Failed to load record")
		}
		return nil, false
	}
	return &row, true
}

// submitted handles the outcome of a form submit: purge and redirect on
// success, otherwise re-render the form with the draft and the error.
func (a *AdminModule) submitted(c *gin.Context, err error, tab, template string, data gin.H) {
	if err == nil {
		a.pages.Purge()
		c.Redirect(http.StatusFound, dashboardURL(tab))
		return
	}

	status := http.StatusInternalServerError
	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		data["Errors"] = verr.Fields
		data["Error"] = "Please fix the highlighted fields."
	case store.IsPermissionDenied(err):
		status = http.StatusForbidden
		data["Error"] = "You do not have permission to save this record."
	case store.IsNotFound(err):
		status = http.StatusNotFound
		data["Error"] = "This record no longer exists."
	default:
		slog.Error("save failed", "tab", tab, "error", err)
		data["Error"] = "Failed to save. Please try again."
	}
	c.HTML(status, template, data)
}

func formData(title, action string, form any) gin.H {
	return gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form,
		"Errors": map[string]string{},
	}
}

func (a *AdminModule) profileForm(c *gin.Context) {
	form := forms.NewProfileForm(a.currentProfile(c))
	c.HTML(http.StatusOK, "admin_profile_form.html", formData("Profile", "/admin/profile", form))
}

func (a *AdminModule) currentProfile(c *gin.Context) *models.Profile {
	profile, err := store.Single[models.Profile](c.Request.Context(), a.client, store.Asc("created_at"))
	if err != nil {
		if !store.IsNotFound(err) {
			slog.Warn("load profile", "error", err)
		}
		return nil
	}
	return &profile
}

func (a *AdminModule) saveProfile(c *gin.Context) {
	form := forms.NewProfileForm(a.currentProfile(c))
	data := formData("Profile", "/admin/profile", form)

	var draft forms.ProfileDraft
	if err := c.ShouldBindWith(&draft, binding.Form); err != nil {
		data["Error"] = "Invalid form data"
		c.HTML(http.StatusBadRequest, "admin_profile_form.html", data)
		return
	}
	form.Draft = draft

	_, err := form.Submit(c.Request.Context(), a.client)
	a.submitted(c, err, dashboard.TabProfile, "admin_profile_form.html", data)
}

func projectAction(id string) string {
	if id == "" {
		return "/admin/projects"
	}
	return "/admin/projects/" + id
}

func (a *AdminModule) projectForm(c *gin.Context) {
	existing, ok := loadExisting[models.Project](a, c)
	if !ok {
		return
	}
	form := forms.NewProjectForm(existing)
	c.HTML(http.StatusOK, "admin_project_form.html", a.projectData(c, form))
}

func (a *AdminModule) projectData(c *gin.Context, form *forms.ProjectForm) gin.H {
	title := "New Project"
	if form.Editing() {
		title = "Edit Project"
	}
	data := formData(title, projectAction(c.Param("id")), form)
	data["WorkTypes"] = models.WorkTypes
	data["UploadsEnabled"] = a.uploader != nil
	return data
}

func (a *AdminModule) saveProject(c *gin.Context) {
	existing, ok := loadExisting[models.Project](a, c)
	if !ok {
		return
	}
	form := forms.NewProjectForm(existing)
	data := a.projectData(c, form)

	var draft forms.ProjectDraft
	if err := c.ShouldBindWith(&draft, binding.Form); err != nil {
		data["Error"] = "Invalid form data"
		c.HTML(http.StatusBadRequest, "admin_project_form.html", data)
		return
	}
	form.Draft = draft
	if !form.Editing() {
		form.SetTitle(form.Draft.Title)
	}

	// Enter in any field submits through the hidden add_tech=enter button;
	// it only adds a tag when the tech input has text.
	newTech := strings.TrimSpace(c.PostForm("new_tech"))
	switch action := c.PostForm("add_tech"); {
	case action == "1" || (action == "enter" && newTech != ""):
		form.AddTech(newTech)
		c.HTML(http.StatusOK, "admin_project_form.html", data)
		return
	case c.PostForm("remove_tech") != "":
		form.RemoveTech(c.PostForm("remove_tech"))
		c.HTML(http.StatusOK, "admin_project_form.html", data)
		return
	}

	_, err := form.Submit(c.Request.Context(), a.client)
	a.submitted(c, err, dashboard.TabProjects, "admin_project_form.html", data)
}

func experienceAction(id string) string {
	if id == "" {
		return "/admin/experience"
	}
	return "/admin/experience/" + id
}

func (a *AdminModule) experienceForm(c *gin.Context) {
	existing, ok := loadExisting[models.Experience](a, c)
	if !ok {
		return
	}
	form := forms.NewExperienceForm(existing)
	c.HTML(http.StatusOK, "admin_experience_form.html", experienceData(c, form))
}

func experienceData(c *gin.Context, form *forms.ExperienceForm) gin.H {
	title := "New Experience"
	if form.Editing() {
		title = "Edit Experience"
	}
	return formData(title, experienceAction(c.Param("id")), form)
}

func (a *AdminModule) saveExperience(c *gin.Context) {
	existing, ok := loadExisting[models.Experience](a, c)
	if !ok {
		return
	}
	form := forms.NewExperienceForm(existing)
	data := experienceData(c, form)

	var draft forms.ExperienceDraft
	if err := c.ShouldBindWith(&draft, binding.Form); err != nil {
		data["Error"] = "Invalid form data"
		c.HTML(http.StatusBadRequest, "admin_experience_form.html", data)
		return
	}
	form.Draft = draft
	form.SetCurrent(draft.Current)

	_, err := form.Submit(c.Request.Context(), a.client)
	a.submitted(c, err, dashboard.TabExperience, "admin_experience_form.html", data)
}

func skillAction(id string) string {
	if id == "" {
		return "/admin/skills"
	}
	return "/admin/skills/" + id
}

func (a *AdminModule) skillForm(c *gin.Context) {
	existing, ok := loadExisting[models.Skill](a, c)
	if !ok {
		return
	}
	form := forms.NewSkillForm(existing)
	c.HTML(http.StatusOK, "admin_skill_form.html", skillData(c, form))
}

func skillData(c *gin.Context, form *forms.SkillForm) gin.H {
	title := "New Skill"
	if form.Editing() {
		title = "Edit Skill"
	}
	data := formData(title, skillAction(c.Param("id")), form)
	data["Categories"] = models.SkillCategories
	data["YearsStep"] = strconv.FormatFloat(forms.YearsStep, 'f', -1, 64)
	data["MaxYears"] = forms.MaxYears
	return data
}

func (a *AdminModule) saveSkill(c *gin.Context) {
	existing, ok := loadExisting[models.Skill](a, c)
	if !ok {
		return
	}
	form := forms.NewSkillForm(existing)
	data := skillData(c, form)

	var draft forms.SkillDraft
	if err := c.ShouldBindWith(&draft, binding.Form); err != nil {
		data["Error"] = "Invalid form data"
		c.HTML(http.StatusBadRequest, "admin_skill_form.html", data)
		return
	}
	form.Draft = draft

	_, err := form.Submit(c.Request.Context(), a.client)
	a.submitted(c, err, dashboard.TabSkills, "admin_skill_form.html", data)
}

var kindTabs = map[string]string{
	models.TableProfiles:   dashboard.TabProfile,
	models.TableProjects:   dashboard.TabProjects,
	models.TableExperience: dashboard.TabExperience,
	models.TableSkills:     dashboard.TabSkills,
	models.TableMessages:   dashboard.TabMessages,
}

func (a *AdminModule) delete(c *gin.Context) {
	target, err := forms.ParseTarget(c.Param("kind"), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delete target"})
		return
	}

	if err := target.Delete(c.Request.Context(), a.client); err != nil {
		switch {
		case store.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		case store.IsPermissionDenied(err):
			c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		default:
			slog.Error("delete failed", "kind", target.Kind(), "id", target.ID(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
		}
		return
	}

	a.pages.Purge()

	if c.NegotiateFormat(binding.MIMEHTML, binding.MIMEJSON) == binding.MIMEJSON {
		c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
		return
	}
	c.Redirect(http.StatusFound, dashboardURL(kindTabs[target.Kind()]))
}

func (a *AdminModule) upload(c *gin.Context) {
	if a.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Uploads are not configured"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read file"})
		return
	}
	defer file.Close()

	// One byte past the limit is enough to reject an oversized file.
	data, err := io.ReadAll(io.LimitReader(file, a.uploader.MaxBytes()+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read file"})
		return
	}

	uploaded, err := a.uploader.Upload(c.Request.Context(), c.PostForm("folder"), data)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPEG, PNG and WebP images are allowed"})
		case errors.Is(err, storage.ErrTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image is too large"})
		case errors.Is(err, storage.ErrInvalidImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "File is not a valid image"})
		default:
			slog.Error("upload failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		}
		return
	}

	c.JSON(http.StatusOK, uploaded)
}
