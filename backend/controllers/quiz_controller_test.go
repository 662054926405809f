package controllers_test

import (
	"fmt"
	"testing"

	"quizhub/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestQuizHidesCorrectAnswers(t *testing.T) {
	adminToken := registerAdmin(t, "Quiz Admin", "quizadmin@example.com")
	quizID := createQuiz(t, adminToken, "Hidden Answers", 50, twoQuestionSet())

	resp, result := doJSON(t, "GET", fmt.Sprintf("/api/quizzes/%d", quizID), nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	questions := result["questions"].([]interface{})
	assert.Len(t, questions, 2)
	for _, q := range questions {
		question := q.(map[string]interface{})
		assert.NotContains(t, question, "correct_answer")
		assert.Len(t, question["options"], 2)
	}
}

func TestSubmitAllCorrect(t *testing.T) {
	adminToken := registerAdmin(t, "Submit Admin", "submitadmin@example.com")
	userToken := registerUser(t, "Submitter", "submitter@example.com")
	quizID := createQuiz(t, adminToken, "All Correct", 50, twoQuestionSet())

	resp, result := doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/submit", quizID),
		map[string]interface{}{"answers": []int{0, 1}}, userToken)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, result["passed"])
	assert.Equal(t, float64(100), result["score"])
	assert.NotEmpty(t, result["certificateId"])
	assert.Regexp(t, `^CERT-\d{4}-[0-9A-F]{8}$`, result["certificateId"])
}

func TestSubmitHalfCorrect(t *testing.T) {
	adminToken := registerAdmin(t, "Half Admin", "halfadmin@example.com")
	userToken := registerUser(t, "Half Submitter", "halfsubmitter@example.com")
	quizID := createQuiz(t, adminToken, "Half Correct", 80, twoQuestionSet())

	resp, result := doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/submit", quizID),
		map[string]interface{}{"answers": []int{0, 0}}, userToken)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, result["passed"])
	assert.Equal(t, float64(50), result["score"])
	assert.Nil(t, result["certificateId"])
}

func TestSubmitCertificateIdempotent(t *testing.T) {
	adminToken := registerAdmin(t, "Idem Admin", "idemadmin@example.com")
	userToken := registerUser(t, "Repeat Submitter", "repeat@example.com")
	quizID := createQuiz(t, adminToken, "Repeat Pass", 50, twoQuestionSet())

	_, first := doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/submit", quizID),
		map[string]interface{}{"answers": []int{0, 1}}, userToken)
	_, second := doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/submit", quizID),
		map[string]interface{}{"answers": []int{0, 1}}, userToken)

	assert.NotEmpty(t, first["certificateId"])
	assert.Equal(t, first["certificateId"], second["certificateId"])

	var count int64
	db.Model(&models.Certificate{}).Where("code = ?", first["certificateId"]).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitShortAndOutOfRangeAnswers(t *testing.T) {
	adminToken := registerAdmin(t, "Range Admin", "rangeadmin@example.com")
	userToken := registerUser(t, "Range Submitter", "range@example.com")
	quizID := createQuiz(t, adminToken, "Sparse Answers", 90, twoQuestionSet())

	// One missing slot, one out-of-range index: both score as misses.
	resp, result := doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/submit", quizID),
		map[string]interface{}{"answers": []int{7}}, userToken)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), result["score"])
	assert.Equal(t, false, result["passed"])
}

func TestSubmitAnswersNotArray(t *testing.T) {
	adminToken := registerAdmin(t, "Array Admin", "arrayadmin@example.com")
	userToken := registerUser(t, "Array Submitter", "array@example.com")
	quizID := createQuiz(t, adminToken, "Bad Payload", 50, twoQuestionSet())

	resp, _ := doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/submit", quizID),
		map[string]interface{}{"answers": "0,1"}, userToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/submit", quizID),
		map[string]interface{}{}, userToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitUnknownQuiz(t *testing.T) {
	userToken := registerUser(t, "Lost Submitter", "lost@example.com")

	resp, _ := doJSON(t, "POST", "/api/quizzes/999999/submit",
		map[string]interface{}{"answers": []int{0}}, userToken)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmitZeroQuestionQuiz(t *testing.T) {
	adminToken := registerAdmin(t, "Zero Admin", "zeroadmin@example.com")
	userToken := registerUser(t, "Zero Submitter", "zero@example.com")
	quizID := createQuiz(t, adminToken, "Soon Empty", 50, twoQuestionSet())

	// Replace the question set with an empty one.
	resp, _ := doJSON(t, "PUT", fmt.Sprintf("/api/quizzes/%d", quizID),
		map[string]interface{}{"questions": []map[string]interface{}{}}, adminToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, result := doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/submit", quizID),
		map[string]interface{}{"answers": []int{}}, userToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Quiz has no questions", result["message"])
}

func TestUpdateQuizReplacesQuestions(t *testing.T) {
	adminToken := registerAdmin(t, "Replace Admin", "replaceadmin@example.com")
	quizID := createQuiz(t, adminToken, "Replace Me", 50, twoQuestionSet())

	resp, result := doJSON(t, "PUT", fmt.Sprintf("/api/quizzes/%d", quizID),
		map[string]interface{}{
			"title": "Replaced",
			"questions": []map[string]interface{}{
				{
					"text":           "Capital of France?",
					"options":        []string{"Paris", "Rome", "Berlin"},
					"correct_answer": 0,
				},
			},
		}, adminToken)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	quiz := result["quiz"].(map[string]interface{})
	assert.Equal(t, "Replaced", quiz["title"])
	assert.Len(t, quiz["questions"], 1)

	var count int64
	db.Model(&models.Question{}).Where("quiz_id = ?", quizID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateQuizRejectsBadCorrectAnswer(t *testing.T) {
	adminToken := registerAdmin(t, "BadIdx Admin", "badidx@example.com")
	quizID := createQuiz(t, adminToken, "Bad Index", 50, twoQuestionSet())

	resp, result := doJSON(t, "PUT", fmt.Sprintf("/api/quizzes/%d", quizID),
		map[string]interface{}{
			"questions": []map[string]interface{}{
				{
					"text":           "Broken question",
					"options":        []string{"a", "b"},
					"correct_answer": 5,
				},
			},
		}, adminToken)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, result["errors"])
}

func TestDeleteQuizCascadesQuestionsButKeepsCertificates(t *testing.T) {
	adminToken := registerAdmin(t, "Cascade Admin", "cascadeadmin@example.com")
	userToken := registerUser(t, "Cascade Submitter", "cascade@example.com")
	quizID := createQuiz(t, adminToken, "Cascade Quiz", 50, twoQuestionSet())

	_, submit := doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/submit", quizID),
		map[string]interface{}{"answers": []int{0, 1}}, userToken)
	code := submit["certificateId"].(string)

	resp, _ := doJSON(t, "DELETE", fmt.Sprintf("/api/quizzes/%d", quizID), nil, adminToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var questionCount int64
	db.Unscoped().Model(&models.Question{}).Where("quiz_id = ?", quizID).Count(&questionCount)
	assert.Equal(t, int64(0), questionCount)

	resp, _ = doJSON(t, "GET", fmt.Sprintf("/api/quizzes/%d", quizID), nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// The issued certificate survives the quiz.
	resp, cert := doJSON(t, "GET", "/api/certificates/"+code, nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, code, cert["code"])
}
