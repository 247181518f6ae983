package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/email"
	"portfolio/models"
	"portfolio/ratelimit"
	"portfolio/store"
)

var (
	ErrMissingFields = errors.New("missing required field")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrSaveFailed    = errors.New("failed to save message")
)

// emailPattern only requires something@something.something.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const notifyTimeout = 10 * time.Second

// Request is the body of POST /api/contact.
type Request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Normalize trims every field, lower-cases the email and checks that
// nothing is missing and the email looks like an address.
func (r Request) Normalize() (models.Message, error) {
	msg := models.Message{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.ToLower(strings.TrimSpace(r.Email)),
		Message: strings.TrimSpace(r.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return models.Message{}, ErrMissingFields
	}
	if !emailPattern.MatchString(msg.Email) {
		return models.Message{}, ErrInvalidEmail
	}
	return msg, nil
}

// Pipeline validates a contact submission, notifies the owner and stores
// the message.
type Pipeline struct {
	public   *store.Client
	service  *store.Client
	notifier email.Notifier
}

// NewPipeline writes with public and, when public is refused by a
// row-level policy, retries once with service. service and notifier may be nil.
func NewPipeline(public, service *store.Client, notifier email.Notifier) *Pipeline {
	return &Pipeline{public: public, service: service, notifier: notifier}
}

// Submit returns the stored row. Notification failures are logged only.
func (p *Pipeline) Submit(ctx context.Context, req Request) (models.Message, error) {
	msg, err := req.Normalize()
	if err != nil {
		return models.Message{}, err
	}

	if p.notifier != nil {
		nctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		if err := p.notifier.SendContactMessage(nctx, msg); err != nil {
			slog.Error("failed to send email notification", "error", err)
		}
		cancel()
	}

	row := msg
	err = store.Insert(ctx, p.public, &row)
	if err != nil && store.IsPermissionDenied(err) && p.service != nil {
		slog.Info("insert refused by row-level policy, retrying with service role", "table", models.TableMessages)
		row = msg
		err = store.Insert(ctx, p.service, &row)
	}
	if err != nil {
		slog.Error("failed to save message", "error", err)
		return models.Message{}, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return row, nil
}

type Handler struct {
	pipeline *Pipeline
	limiter  *ratelimit.FixedWindowLimiter
}

// NewHandler serves the pipeline. limiter may be nil.
func NewHandler(pipeline *Pipeline, limiter *ratelimit.FixedWindowLimiter) *Handler {
	return &Handler{pipeline: pipeline, limiter: limiter}
}

// RegisterRoutes mounts POST /contact and its preflight on group.
func (h *Handler) RegisterRoutes(group gin.IRouter) {
	group.OPTIONS("/contact", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	group.POST("/contact", recoverInternal, ratelimit.Middleware(h.limiter, "contact"), h.submit)
}

func recoverInternal(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("contact handler panic", "panic", r)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}()
	c.Next()
}

func (h *Handler) submit(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("invalid contact request", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	msg, err := h.pipeline.Submit(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
	case errors.Is(err, ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
	case errors.Is(err, ErrSaveFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Message sent successfully",
			"data":    msg,
		})
	}
}
