package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/dashboard"
	"portfolio/models"
)

var keepAliveInterval = 25 * time.Second

// events streams session changes to an open dashboard. The connection's gate
// is subscribed to the auth broker for as long as the client stays connected
// and the stream ends with a signed_out event when the user signs out
// anywhere.
func (a *AdminModule) events(c *gin.Context) {
	user := currentUser(c)
	signedOut := make(chan struct{}, 1)

	gate := dashboard.NewGate(&user)
	gate.OnChange = func(state dashboard.State, _ models.User) {
		if state == dashboard.Unauthenticated {
			select {
			case signedOut <- struct{}{}:
			default:
			}
		}
	}
	gate.Mount(a.auth)
	defer gate.Unmount()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.SSEvent("session", gin.H{"state": gate.State().String(), "user_id": user.ID})
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-signedOut:
			c.SSEvent("signed_out", gin.H{"user_id": user.ID})
			c.Writer.Flush()
			return
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
