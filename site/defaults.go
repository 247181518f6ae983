package site

import (
	"time"

	"portfolio/models"
)

func str(s string) *string { return &s }

func years(v float64) *float64 { return &v }

var defaultsTime = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultProfile is shown on the home page until a profile is stored.
var DefaultProfile = models.Profile{
	Name:        "Aean Gabrielle Tayawa",
	Headline:    "Full Stack Developer",
	Bio:         "Passionate developer specializing in modern web technologies, IoT solutions, and scalable applications. Building innovative solutions with React, Next.js, and cutting-edge technologies.",
	GithubURL:   str("https://github.com"),
	LinkedinURL: str("https://linkedin.com"),
	Email:       str("hello@aean.dev"),
}

var DefaultProjects = []models.Project{
	{
		ID:                  "1",
		Title:               "Smart IoT Dashboard",
		Slug:                "smart-iot-dashboard",
		DescriptionMarkdown: "A comprehensive IoT monitoring and control system built with modern web technologies. This project features real-time data visualization, device management, automated alerts, and a responsive dashboard that works across all devices. Built with React, Node.js, and MQTT for seamless communication with IoT sensors and actuators.",
		TechStack:           []string{"React", "Node.js", "TypeScript", "MQTT", "MongoDB"},
		RepoURL:             str("https://github.com"),
		LiveURL:             str("https://example.com"),
		WorkType:            str("Personal"),
		Featured:            true,
		CreatedAt:           defaultsTime,
		UpdatedAt:           defaultsTime,
	},
	{
		ID:                  "2",
		Title:               "E-Commerce Platform",
		Slug:                "ecommerce-platform",
		DescriptionMarkdown: "Full-featured e-commerce solution with modern UI and robust backend. Includes user authentication, product catalog, shopping cart, payment processing with Stripe, order management, and admin dashboard. Features include real-time inventory tracking, customer reviews, wishlist functionality, and comprehensive analytics dashboard.",
		TechStack:           []string{"Next.js", "TypeScript", "PostgreSQL", "Stripe"},
		RepoURL:             str("https://github.com"),
		LiveURL:             str("https://example.com"),
		WorkType:            str("Client"),
		Featured:            true,
		CreatedAt:           defaultsTime,
		UpdatedAt:           defaultsTime,
	},
}

var DefaultExperience = []models.Experience{
	{
		ID:        "1",
		Company:   "TechCorp Solutions",
		Role:      "Senior Full Stack Developer",
		StartDate: "2022-01-01",
		DescriptionMarkdown: `## Key Responsibilities
- Lead development of customer-facing web applications
- Architect and implement scalable backend services
- Mentor junior developers and conduct code reviews
- Collaborate with product team on feature planning

## Achievements
- Reduced application load time by 40% through optimization
- Led migration to microservices architecture
- Implemented CI/CD pipeline reducing deployment time by 60%`,
		CreatedAt: defaultsTime,
		UpdatedAt: defaultsTime,
	},
	{
		ID:        "2",
		Company:   "Innovation Labs",
		Role:      "Full Stack Developer",
		StartDate: "2020-06-01",
		EndDate:   str("2021-12-31"),
		DescriptionMarkdown: `## Key Responsibilities
- Developed IoT solutions for smart home applications
- Built RESTful APIs and real-time communication systems
- Implemented responsive web interfaces
- Integrated with various IoT protocols (MQTT, CoAP)

## Projects
- Smart home automation system
- Environmental monitoring dashboard
- Mobile companion applications`,
		CreatedAt: defaultsTime,
		UpdatedAt: defaultsTime,
	},
}

func defaultSkill(id, name, category string, level int, yrs float64, description string, projects ...string) models.Skill {
	return models.Skill{
		ID:              id,
		Name:            name,
		Category:        category,
		Level:           level,
		YearsExperience: years(yrs),
		Description:     str(description),
		ProjectsUsed:    projects,
		LastUsed:        str("2024"),
		CreatedAt:       defaultsTime,
		UpdatedAt:       defaultsTime,
	}
}

// DefaultSkills also supplies the extended metadata merged into stored
// skills of the same name.
var DefaultSkills = []models.Skill{
	defaultSkill("1", "JavaScript", "Languages", 5, 4, "Core language for web development, used in both frontend and backend projects.", "Smart IoT Dashboard", "E-Commerce Platform", "Portfolio Website"),
	defaultSkill("2", "TypeScript", "Languages", 5, 3, "Strongly typed JavaScript for scalable applications and better developer experience.", "Next.js Portfolio", "Enterprise Dashboard"),
	defaultSkill("3", "Python", "Languages", 4, 3, "Versatile language for backend development, data analysis, and automation scripts.", "Data Processing Pipeline", "API Backend"),
	defaultSkill("4", "React", "Frontend", 5, 4, "Primary frontend framework for building interactive user interfaces and SPAs.", "Smart IoT Dashboard", "E-Commerce Platform", "Admin Panel"),
	defaultSkill("5", "Next.js", "Frontend", 5, 2, "Full-stack React framework for production-ready applications with SSR and SSG.", "Portfolio Website", "Client Landing Pages"),
	defaultSkill("6", "Tailwind CSS", "Frontend", 4, 2, "Utility-first CSS framework for rapid UI development and consistent design systems.", "Portfolio Website", "Dashboard UI"),
	defaultSkill("7", "Node.js", "Backend", 5, 4, "JavaScript runtime for building scalable server-side applications and APIs.", "E-Commerce API", "IoT Data Server", "Microservices"),
	defaultSkill("8", "PostgreSQL", "Backend", 4, 3, "Advanced relational database for complex data relationships and transactions.", "E-Commerce Platform", "User Management System"),
	defaultSkill("9", "Docker", "DevOps", 4, 2, "Containerization platform for consistent deployment across environments.", "Microservices Architecture", "Development Environment"),
	defaultSkill("10", "AWS", "DevOps", 3, 1, "Cloud platform for hosting, storage, and various managed services.", "Static Site Hosting", "File Storage"),
	defaultSkill("11", "Arduino", "IoT", 4, 3, "Microcontroller platform for IoT projects and hardware prototyping.", "Smart Home System", "Sensor Networks"),
	defaultSkill("12", "MQTT", "IoT", 4, 2, "Lightweight messaging protocol for IoT device communication.", "Smart IoT Dashboard", "Device Monitoring"),
}
