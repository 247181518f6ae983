package site

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/models"
	"portfolio/store"
)

// Route is one public page listed in the sitemap.
type Route struct {
	Path     string
	Priority string
}

var Routes = []Route{
	{Path: "", Priority: "1.0"},
	{Path: "/projects", Priority: "0.8"},
	{Path: "/experience", Priority: "0.8"},
	{Path: "/skills", Priority: "0.8"},
	{Path: "/contact", Priority: "0.8"},
}

var (
	profileSource = store.Fallback[models.Profile]{
		Order:   []store.Order{store.Asc("created_at")},
		Default: []models.Profile{DefaultProfile},
	}
	projectsSource = store.Fallback[models.Project]{
		Order:   []store.Order{store.Desc("featured"), store.Desc("created_at")},
		Default: DefaultProjects,
	}
	experienceSource = store.Fallback[models.Experience]{
		Order:   []store.Order{store.Desc("start_date")},
		Default: DefaultExperience,
	}
	skillsSource = store.Fallback[models.Skill]{
		Order:   []store.Order{store.Asc("category"), store.Desc("level")},
		Default: DefaultSkills,
	}
)

// SiteModule serves the public read-only pages. Reads go through the
// anonymous store client and fall back to the built-in content.
type SiteModule struct {
	client  *store.Client
	siteURL string
	now     func() time.Time
}

func NewSiteModule(client *store.Client, siteURL string) *SiteModule {
	return &SiteModule{
		client:  client,
		siteURL: strings.TrimSuffix(siteURL, "/"),
		now:     time.Now,
	}
}

func (s *SiteModule) RegisterRoutes(router gin.IRouter) {
	router.GET("/", s.index)
	router.GET("/projects", s.projects)
	router.GET("/experience", s.experience)
	router.GET("/skills", s.skills)
	router.GET("/contact", s.contact)
	router.GET("/sitemap.xml", s.sitemap)
	router.GET("/robots.txt", s.robots)
}

func render(c *gin.Context, name, active, title string, data gin.H) {
	data["Active"] = active
	data["Title"] = title
	c.HTML(http.StatusOK, name, data)
}

func (s *SiteModule) index(c *gin.Context) {
	profile := profileSource.FetchOne(c.Request.Context(), s.client)
	render(c, "home.html", "home", "", gin.H{
		"Profile": profile,
	})
}

func (s *SiteModule) projects(c *gin.Context) {
	projects := projectsSource.Fetch(c.Request.Context(), s.client)
	render(c, "projects.html", "projects", "Projects", gin.H{
		"Projects": projects,
	})
}

func (s *SiteModule) experience(c *gin.Context) {
	experience := experienceSource.Fetch(c.Request.Context(), s.client)
	render(c, "experience.html", "experience", "Experience", gin.H{
		"Experience": experience,
	})
}

func (s *SiteModule) skills(c *gin.Context) {
	var q SkillQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		q = SkillQuery{}
	}
	q = q.normalized()

	all := MergeSkillDefaults(skillsSource.Fetch(c.Request.Context(), s.client), DefaultSkills)
	visible := SortSkills(FilterSkills(all, q.Category, q.ExpertOnly), q.Sort)

	render(c, "skills.html", "skills", "Skills", gin.H{
		"Query":      q,
		"Categories": Categories(all),
		"Groups":     GroupByCategory(visible),
		"Count":      len(visible),
		"Total":      len(all),
	})
}

func (s *SiteModule) contact(c *gin.Context) {
	profile := profileSource.FetchOne(c.Request.Context(), s.client)
	render(c, "contact.html", "contact", "Contact", gin.H{
		"Profile": profile,
	})
}

func (s *SiteModule) sitemap(c *gin.Context) {
	lastmod := s.now().UTC().Format(time.RFC3339)

	// Build sitemap XML
	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	for _, route := range Routes {
		sitemap.WriteString("  <url>\n")
		sitemap.WriteString("    <loc>" + s.siteURL + route.Path + "</loc>\n")
		sitemap.WriteString("    <lastmod>" + lastmod + "</lastmod>\n")
		sitemap.WriteString("    <changefreq>weekly</changefreq>\n")
		sitemap.WriteString("    <priority>" + route.Priority + "</priority>\n")
		sitemap.WriteString("  </url>\n")
	}

	sitemap.WriteString("</urlset>\n")

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, sitemap.String())
}

func (s *SiteModule) robots(c *gin.Context) {
	var robots strings.Builder
	robots.WriteString("User-agent: *\n")
	robots.WriteString("Allow: /\n")
	robots.WriteString("Disallow: /admin\n")
	robots.WriteString("\n")
	robots.WriteString("Sitemap: " + s.siteURL + "/sitemap.xml\n")
	robots.WriteString("Host: " + s.siteURL + "\n")

	c.String(http.StatusOK, robots.String())
}
