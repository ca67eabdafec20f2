package controller

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"lost-london-agent/internal/dto"
	"lost-london-agent/internal/pkg/serverutils"
	"lost-london-agent/internal/service"
	"lost-london-agent/pkg/guide/dispatch"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Completions(ctx *fiber.Ctx) error
	Respond(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type chatController struct {
	guideService service.IGuideService
}

func NewChatController(guideService service.IGuideService) IChatController {
	return &chatController{
		guideService: guideService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat/completions", c.Completions)
	r.Post("/chat/respond", c.Respond)
	r.Get("/health", c.Health)
}

// Completions is the OpenAI-compatible surface the voice front-end calls.
// The reply is streamed back word by word as SSE chunks.
func (c *chatController) Completions(ctx *fiber.Ctx) error {
	var req dto.ChatCompletionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// Last user message is the live utterance.
	var userMsg string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			userMsg = req.Messages[i].Content
			break
		}
	}

	sessionId, hints := parseCustomSessionId(req.CustomSessionId)

	text, err := c.guideService.Respond(ctx.Context(), sessionId, userMsg, hints)
	if err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	msgId := uuid.NewString()
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		streamWordChunks(w, msgId, text)
	}))
	return nil
}

// Respond is the plain JSON surface for non-voice clients.
func (c *chatController) Respond(ctx *fiber.Ctx) error {
	var req dto.RespondRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	hints := dispatch.IdentityHints{UserName: req.UserName, UserId: req.UserId}
	text, err := c.guideService.Respond(ctx.Context(), req.SessionId, req.Query, hints)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", dto.RespondResponse{
		SessionId: req.SessionId,
		Text:      text,
	}))
}

func (c *chatController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok", "agent": "VIC - Lost London"})
}

// parseCustomSessionId splits the voice widget's "firstName|sessionId"
// encoding. Either part may be empty; a missing session id means a fresh
// anonymous session.
func parseCustomSessionId(raw string) (string, dispatch.IdentityHints) {
	if raw == "" {
		return "", dispatch.IdentityHints{}
	}
	if !strings.Contains(raw, "|") {
		return raw, dispatch.IdentityHints{}
	}

	parts := strings.Split(raw, "|")
	hints := dispatch.IdentityHints{UserName: parts[0]}
	sessionId := ""
	if len(parts) > 1 {
		sessionId = parts[1]
		hints.UserId = parts[1]
	}
	return sessionId, hints
}

// streamWordChunks writes the reply as OpenAI-style SSE deltas, one word per
// chunk, then the stop chunk and the [DONE] marker.
func streamWordChunks(w *bufio.Writer, msgId, content string) {
	words := strings.Split(content, " ")
	for i, word := range words {
		delta := word
		if i < len(words)-1 {
			delta += " "
		}
		chunk := dto.ChatCompletionChunk{
			Id:     msgId,
			Object: "chat.completion.chunk",
			Choices: []dto.ChatChunkChoice{
				{Delta: dto.ChatChunkDelta{Content: delta}},
			},
		}
		writeChunk(w, chunk)
	}

	stop := "stop"
	writeChunk(w, dto.ChatCompletionChunk{
		Id:     msgId,
		Object: "chat.completion.chunk",
		Choices: []dto.ChatChunkChoice{
			{FinishReason: &stop},
		},
	})
	fmt.Fprint(w, "data: [DONE]\n\n")
	w.Flush()
}

func writeChunk(w *bufio.Writer, chunk dto.ChatCompletionChunk) {
	data, err := json.Marshal(chunk)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	w.Flush()
}
