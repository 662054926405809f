package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"quizhub/backend/config"
	"quizhub/backend/models"
	"quizhub/backend/routes"
	"quizhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
)

func TestMain(m *testing.M) {
	cfg = &config.Config{
		JWTSecret:           "testsecret",
		Env:                 "development",
		ClientURL:           "http://localhost:3000",
		StripeWebhookSecret: "whsec_testsecret",
	}

	var err error
	db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	if err := utils.Migrate(db); err != nil {
		panic(err)
	}

	app = fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler(cfg),
	})
	routes.SetupRoutes(app, db, cfg)

	os.Exit(m.Run())
}

// doJSON performs a JSON request against the test app, optionally
// authenticated, and decodes the response body into a map.
func doJSON(t *testing.T, method, target string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}

	var result map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	json.Unmarshal(raw, &result)
	return resp, result
}

// registerUser creates a user through the API and returns its token.
func registerUser(t *testing.T, name, email string) string {
	t.Helper()

	resp, result := doJSON(t, "POST", "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
	}, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}

	token, _ := result["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no token in response", email)
	}
	return token
}

// registerAdmin creates a user and promotes it to admin. The role check runs
// against the stored user, so the original token stays valid.
func registerAdmin(t *testing.T, name, email string) string {
	t.Helper()

	token := registerUser(t, name, email)
	if err := db.Model(&models.User{}).Where("email = ?", email).
		Update("role", "admin").Error; err != nil {
		t.Fatalf("promote %s: %v", email, err)
	}
	return token
}

// createQuiz creates a quiz with the given questions via the admin API and
// returns its id.
func createQuiz(t *testing.T, adminToken string, title string, passingScore float64, questions []map[string]interface{}) uint {
	t.Helper()

	var category models.TestCategory
	if err := db.FirstOrCreate(&category, models.TestCategory{Name: "General"}).Error; err != nil {
		t.Fatalf("category: %v", err)
	}

	resp, result := doJSON(t, "POST", "/api/quizzes", map[string]interface{}{
		"title":         title,
		"passing_score": passingScore,
		"total_points":  100,
		"time_limit":    30,
		"category_id":   category.ID,
		"questions":     questions,
	}, adminToken)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("create quiz %q: status %d body %v", title, resp.StatusCode, result)
	}

	quiz := result["quiz"].(map[string]interface{})
	return uint(quiz["id"].(float64))
}

// twoQuestionSet is the worked scoring example: correct indices [0, 1].
func twoQuestionSet() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"text":           "What is 2 + 2?",
			"options":        []string{"4", "5"},
			"correct_answer": 0,
		},
		{
			"text":           "What is 3 * 3?",
			"options":        []string{"6", "9"},
			"correct_answer": 1,
		},
	}
}
