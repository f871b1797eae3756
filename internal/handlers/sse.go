package handlers

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/tracim/tracim-api/internal/middleware"
	"github.com/tracim/tracim-api/internal/services"
	"github.com/tracim/tracim-api/internal/sse"
)

type SSEHandler struct {
	hub   *sse.Hub
	authz AuthorizationInterface
}

func NewSSEHandler(hub *sse.Hub, authz AuthorizationInterface) *SSEHandler {
	return &SSEHandler{hub: hub, authz: authz}
}

// Connect opens the event stream for one workspace. The client can widen
// its subscription later via Subscribe.
func (h *SSEHandler) Connect(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}

	if err := h.authz.CheckWorkspaceAction(c.Request.Context(), user, workspaceID, services.ActionRead); err != nil {
		respondError(c, err)
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:         clientID,
		UserID:     user.ID,
		Workspaces: map[int64]bool{workspaceID: true},
		Send:       make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *SSEHandler) Subscribe(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}

	if err := h.authz.CheckWorkspaceAction(c.Request.Context(), user, workspaceID, services.ActionRead); err != nil {
		respondError(c, err)
		return
	}

	h.hub.SubscribeToWorkspace(clientID, workspaceID)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("subscribed to workspace %d", workspaceID),
	})
}

func (h *SSEHandler) Unsubscribe(c *drift.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	workspaceID, ok := paramID(c, "workspaceId")
	if !ok {
		return
	}

	h.hub.UnsubscribeFromWorkspace(clientID, workspaceID)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("unsubscribed from workspace %d", workspaceID),
	})
}
