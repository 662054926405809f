package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"quizhub/backend/config"
	"quizhub/backend/middleware"
	"quizhub/backend/models"
	"quizhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuizController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuizController(db *gorm.DB, cfg *config.Config) *QuizController {
	return &QuizController{DB: db, Cfg: cfg}
}

type QuestionInput struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
	Explanation   string   `json:"explanation"`
}

type QuizInput struct {
	Title        string          `json:"title" validate:"required"`
	Description  string          `json:"description"`
	PassingScore float64         `json:"passing_score" validate:"gte=0,lte=100"`
	TotalPoints  int             `json:"total_points" validate:"gte=0"`
	TimeLimit    int             `json:"time_limit" validate:"gte=0"`
	CategoryID   uint            `json:"category_id" validate:"required"`
	Questions    []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type SubmitInput struct {
	Answers []int `json:"answers"`
}

// questionView strips the correct answer before a question leaves the API.
func questionView(q models.Question) fiber.Map {
	var options []string
	json.Unmarshal([]byte(q.Options), &options)

	return fiber.Map{
		"id":          q.ID,
		"text":        q.Text,
		"options":     options,
		"explanation": q.Explanation,
		"position":    q.Position,
	}
}

func quizView(quiz models.Quiz) fiber.Map {
	questions := make([]fiber.Map, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, questionView(q))
	}

	return fiber.Map{
		"id":            quiz.ID,
		"title":         quiz.Title,
		"description":   quiz.Description,
		"passing_score": quiz.PassingScore,
		"total_points":  quiz.TotalPoints,
		"time_limit":    quiz.TimeLimit,
		"category_id":   quiz.CategoryID,
		"creator_id":    quiz.CreatorID,
		"questions":     questions,
	}
}

// buildQuestions validates answer indices against their option lists and
// returns the rows to persist.
func buildQuestions(inputs []QuestionInput) ([]models.Question, []utils.FieldError) {
	questions := make([]models.Question, 0, len(inputs))
	for i, q := range inputs {
		if q.CorrectAnswer >= len(q.Options) {
			return nil, []utils.FieldError{{
				Field:   "questions[" + strconv.Itoa(i) + "].correct_answer",
				Message: "must reference an existing option",
			}}
		}

		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return nil, []utils.FieldError{{
				Field:   "questions[" + strconv.Itoa(i) + "].options",
				Message: "is invalid",
			}}
		}

		questions = append(questions, models.Question{
			Text:          q.Text,
			Options:       string(optionsJSON),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Position:      i,
		})
	}
	return questions, nil
}

func (qc *QuizController) ListQuizzes(c *fiber.Ctx) error {
	var quizzes []models.Quiz
	if err := qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Find(&quizzes).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(quizzes))
	for _, quiz := range quizzes {
		result = append(result, fiber.Map{
			"id":            quiz.ID,
			"title":         quiz.Title,
			"description":   quiz.Description,
			"passing_score": quiz.PassingScore,
			"time_limit":    quiz.TimeLimit,
			"category_id":   quiz.CategoryID,
			"questions":     len(quiz.Questions),
		})
	}

	return c.JSON(result)
}

func (qc *QuizController) GetQuiz(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var quiz models.Quiz
	if err := qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(quizView(quiz))
}

func (qc *QuizController) CreateQuiz(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationFailed(c, errs)
	}

	questions, errs := buildQuestions(input.Questions)
	if errs != nil {
		return utils.ValidationFailed(c, errs)
	}

	quiz := models.Quiz{
		Title:        input.Title,
		Description:  input.Description,
		PassingScore: input.PassingScore,
		TotalPoints:  input.TotalPoints,
		TimeLimit:    input.TimeLimit,
		CategoryID:   input.CategoryID,
		CreatorID:    user.ID,
		Questions:    questions,
	}

	if err := qc.DB.Create(&quiz).Error; err != nil {
		return utils.InternalServerError(c, "Could not create quiz")
	}

	return c.JSON(fiber.Map{
		"message": "Quiz created",
		"quiz":    quizView(quiz),
	})
}

// UpdateQuiz replaces the quiz fields and its whole question collection in a
// single transaction, so a failure cannot leave a quiz without questions.
func (qc *QuizController) UpdateQuiz(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var input struct {
		Title        string          `json:"title"`
		Description  string          `json:"description"`
		PassingScore *float64        `json:"passing_score"`
		TotalPoints  *int            `json:"total_points"`
		TimeLimit    *int            `json:"time_limit"`
		CategoryID   uint            `json:"category_id"`
		Questions    []QuestionInput `json:"questions"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	// Update fields
	if input.Title != "" {
		quiz.Title = input.Title
	}
	if input.Description != "" {
		quiz.Description = input.Description
	}
	if input.PassingScore != nil {
		quiz.PassingScore = *input.PassingScore
	}
	if input.TotalPoints != nil {
		quiz.TotalPoints = *input.TotalPoints
	}
	if input.TimeLimit != nil {
		quiz.TimeLimit = *input.TimeLimit
	}
	if input.CategoryID != 0 {
		quiz.CategoryID = input.CategoryID
	}

	var questions []models.Question
	if input.Questions != nil {
		for i, q := range input.Questions {
			if errs := utils.ValidateStruct(q); errs != nil {
				for j := range errs {
					errs[j].Field = "questions[" + strconv.Itoa(i) + "]." + errs[j].Field
				}
				return utils.ValidationFailed(c, errs)
			}
		}
		var errs []utils.FieldError
		questions, errs = buildQuestions(input.Questions)
		if errs != nil {
			return utils.ValidationFailed(c, errs)
		}
	}

	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&quiz).Error; err != nil {
			return err
		}
		if input.Questions == nil {
			return nil
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].QuizID = quiz.ID
		}
		return tx.Create(&questions).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not update quiz")
	}

	if input.Questions != nil {
		quiz.Questions = questions
	} else if err := qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&quiz, quiz.ID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"message": "Quiz updated",
		"quiz":    quizView(quiz),
	})
}

// DeleteQuiz removes the quiz and its questions. Certificates issued against
// the quiz keep their quiz reference and stay retrievable.
func (qc *QuizController) DeleteQuiz(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete quiz")
	}

	return c.JSON(fiber.Map{
		"message": "Quiz deleted",
	})
}

// SubmitQuiz scores an answer sheet against the quiz questions by position
// and issues a certificate on a pass. A repeat passing submission reuses the
// certificate already issued for this user and quiz.
func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var quiz models.Quiz
	if err := qc.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var input SubmitInput
	if err := c.BodyParser(&input); err != nil || input.Answers == nil {
		return utils.BadRequest(c, "Answers must be an array")
	}

	if len(quiz.Questions) == 0 {
		return utils.BadRequest(c, "Quiz has no questions")
	}

	// Score by position; missing or out-of-range answers simply do not match.
	correct := 0
	for i, q := range quiz.Questions {
		if i < len(input.Answers) && input.Answers[i] == q.CorrectAnswer {
			correct++
		}
	}

	score := float64(correct) / float64(len(quiz.Questions)) * 100
	passed := score >= quiz.PassingScore

	var certificateID interface{}
	if passed {
		cert := models.Certificate{UserID: user.ID, QuizID: quiz.ID}
		err := qc.DB.Where("user_id = ? AND quiz_id = ?", user.ID, quiz.ID).
			Attrs(models.Certificate{
				CategoryID: quiz.CategoryID,
				Score:      score,
				IssuedAt:   time.Now(),
				Code:       utils.NewCertificateCode(time.Now()),
			}).
			FirstOrCreate(&cert).Error
		if err != nil {
			return utils.InternalServerError(c, "Could not issue certificate")
		}
		certificateID = cert.Code
	}

	return c.JSON(fiber.Map{
		"passed":        passed,
		"score":         score,
		"certificateId": certificateID,
	})
}
