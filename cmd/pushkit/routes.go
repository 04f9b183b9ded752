package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pushkit/pushkit/errors"
	"github.com/pushkit/pushkit/sse"
)

// registerRoutes wires the streaming endpoint and the publish API.
func registerRoutes(r *gin.Engine, hub *sse.Hub) {
	r.GET("/events", sse.GinHandler(hub))

	api := r.Group("/api/v1")
	api.POST("/publish", handlePublish(hub))
	api.POST("/publish/channel/:channel", handlePublishTargeted("channel", hub.SendToChannel))
	api.POST("/publish/client/:client", handlePublishTargeted("client", hub.SendToClient))
	api.POST("/publish/browser/:browser", handlePublishTargeted("browser", hub.SendToBrowser))
	api.POST("/publish/batch", handlePublishBatch(hub))
	api.PUT("/init", handleUpdateInit(hub))
	api.DELETE("/init", handleDropInit(hub))
}

// sendOptionsFromQuery maps the optional event and id query parameters to
// per-publish options.
func sendOptionsFromQuery(c *gin.Context) []sse.SendOption {
	var opts []sse.SendOption
	if name := c.Query("event"); name != "" {
		opts = append(opts, sse.WithEvent(name))
	}
	if id := c.Query("id"); id != "" {
		opts = append(opts, sse.WithID(id))
	}
	return opts
}

func bindPayload(c *gin.Context) (any, bool) {
	var payload any
	if err := c.ShouldBindJSON(&payload); err != nil {
		appErr := errors.InvalidInput("body", "request body must be valid JSON")
		c.JSON(http.StatusBadRequest, appErr.ToResponse())
		return nil, false
	}
	return payload, true
}

func publishError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.JSON(http.StatusUnprocessableEntity, appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, errors.Internal(err).ToResponse())
}

func handlePublish(hub *sse.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := bindPayload(c)
		if !ok {
			return
		}
		if err := hub.Send(payload, sendOptionsFromQuery(c)...); err != nil {
			publishError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "published"})
	}
}

func handlePublishTargeted(param string, send func(string, any, ...sse.SendOption) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		target := c.Param(param)
		if target == "" {
			c.JSON(http.StatusBadRequest, errors.MissingField(param).ToResponse())
			return
		}
		payload, ok := bindPayload(c)
		if !ok {
			return
		}
		if err := send(target, payload, sendOptionsFromQuery(c)...); err != nil {
			publishError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "published", param: target})
	}
}

func handlePublishBatch(hub *sse.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []any
		if err := c.ShouldBindJSON(&items); err != nil {
			appErr := errors.InvalidInput("body", "request body must be a JSON array")
			c.JSON(http.StatusBadRequest, appErr.ToResponse())
			return
		}
		if err := hub.Serialize(items); err != nil {
			publishError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "published", "count": len(items)})
	}
}

func handleUpdateInit(hub *sse.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var snapshot []any
		if err := c.ShouldBindJSON(&snapshot); err != nil {
			appErr := errors.InvalidInput("body", "snapshot must be a JSON array")
			c.JSON(http.StatusBadRequest, appErr.ToResponse())
			return
		}
		hub.UpdateInit(snapshot)
		c.JSON(http.StatusOK, gin.H{"status": "updated", "count": len(snapshot)})
	}
}

func handleDropInit(hub *sse.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.DropInit()
		c.JSON(http.StatusOK, gin.H{"status": "dropped"})
	}
}
