package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/yhinai/clippy/internal/agent"
	"github.com/yhinai/clippy/pkg/api"
)

const maxImageBytes = 10 << 20

// AgentHandler handles the agent endpoints.
type AgentHandler struct {
	Agent *agent.Agent
}

// Message handles POST /v1/agent/message, the core orchestration entry point.
func (h *AgentHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req api.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "message must not be empty")
		return
	}

	actx := api.AgentContext{}
	if req.Context != nil {
		actx = *req.Context
	}

	reply, err := h.Agent.ProcessMessage(r.Context(), req.Message, actx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "agent_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, api.MessageResponse{
		Response:  reply.Text,
		ToolCalls: reply.ClientCalls,
	})
}

// Vision handles POST /v1/agent/vision. The request body is the raw image.
func (h *AgentHandler) Vision(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "image body must not be empty")
		return
	}

	text, err := h.Agent.ProcessVision(r.Context(), body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "agent_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, api.VisionResponse{Response: text})
}

// Reflect handles POST /v1/agent/reflect.
func (h *AgentHandler) Reflect(w http.ResponseWriter, r *http.Request) {
	persona, err := h.Agent.Reflect(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "agent_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, api.ReflectResponse{Persona: persona})
}
