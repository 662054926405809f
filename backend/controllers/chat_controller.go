package controllers

import (
	"log"
	"strings"

	"quizhub/backend/config"
	"quizhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	openai "github.com/sashabaranov/go-openai"
)

// maxHistoryTurns caps how much prior conversation is forwarded upstream.
const maxHistoryTurns = 5

const platformKnowledge = `QuizHub is an online quiz and learning platform.
Users browse courses and quizzes grouped into categories, take quizzes with a
per-quiz time limit, and pass by reaching the quiz's passing score (a
percentage). Passing a quiz issues a certificate with a unique code that can
be downloaded as a PDF from the certificates page. Some quizzes are premium
and are unlocked by purchasing them through the checkout page.`

const chatSystemPrompt = "You are the QuizHub assistant. Answer questions about using the platform, keep replies short and factual, and do not invent features. Platform knowledge:\n" + platformKnowledge

type ChatController struct {
	Cfg *config.Config
	AI  *openai.Client
}

func NewChatController(cfg *config.Config) *ChatController {
	return &ChatController{
		Cfg: cfg,
		AI:  openai.NewClient(cfg.OpenAIKey),
	}
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatInput struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history"`
}

// Chat forwards the user's message plus recent history to the generation
// service under the fixed system prompt.
func (cc *ChatController) Chat(c *fiber.Ctx) error {
	var input ChatInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.Message) == "" {
		return utils.BadRequest(c, "Message is required")
	}

	history := input.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: chatSystemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: input.Message,
	})

	resp, err := cc.AI.CreateChatCompletion(c.Context(), openai.ChatCompletionRequest{
		Model:       openai.GPT4oMini,
		Temperature: 0.2,
		Messages:    messages,
	})
	if err != nil {
		log.Printf("chat completion: %v", err)
		return utils.ServiceUnavailable(c, "Chat service unavailable")
	}
	if len(resp.Choices) == 0 {
		log.Printf("chat completion: empty response")
		return utils.ServiceUnavailable(c, "Chat service unavailable")
	}

	return c.JSON(fiber.Map{
		"reply": resp.Choices[0].Message.Content,
	})
}
