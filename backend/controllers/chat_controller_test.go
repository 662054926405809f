package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestChatRequiresAuth(t *testing.T) {
	resp, _ := doJSON(t, "POST", "/api/chat", map[string]string{
		"message": "How do certificates work?",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	userToken := registerUser(t, "Chatter", "chatter@example.com")

	resp, result := doJSON(t, "POST", "/api/chat", map[string]string{
		"message": "",
	}, userToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Message is required", result["message"])

	resp, _ = doJSON(t, "POST", "/api/chat", map[string]string{
		"message": "   ",
	}, userToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
