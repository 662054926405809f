package routes

import (
	"quizhub/backend/config"
	"quizhub/backend/controllers"
	"quizhub/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(db, cfg)
	adminMiddleware := middleware.AdminMiddleware()

	// Category routes
	categoryController := controllers.NewCategoryController(db, cfg)
	categories := app.Group("/api/categories")
	categories.Get("/", categoryController.ListCategories)
	categories.Get("/:id", categoryController.GetCategory)
	categories.Post("/", authMiddleware, adminMiddleware, categoryController.CreateCategory)
	categories.Put("/:id", authMiddleware, adminMiddleware, categoryController.UpdateCategory)
	categories.Delete("/:id", authMiddleware, adminMiddleware, categoryController.DeleteCategory)

	// Course routes
	courseController := controllers.NewCourseController(db, cfg)
	courses := app.Group("/api/courses")
	courses.Get("/", courseController.ListCourses)
	courses.Get("/:id", courseController.GetCourse)
	courses.Post("/", authMiddleware, adminMiddleware, courseController.CreateCourse)
	courses.Put("/:id", authMiddleware, adminMiddleware, courseController.UpdateCourse)
	courses.Delete("/:id", authMiddleware, adminMiddleware, courseController.DeleteCourse)

	// Quiz routes
	quizController := controllers.NewQuizController(db, cfg)
	quizzes := app.Group("/api/quizzes")
	quizzes.Get("/", quizController.ListQuizzes)
	quizzes.Get("/:id", quizController.GetQuiz)
	quizzes.Post("/", authMiddleware, adminMiddleware, quizController.CreateQuiz)
	quizzes.Put("/:id", authMiddleware, adminMiddleware, quizController.UpdateQuiz)
	quizzes.Delete("/:id", authMiddleware, adminMiddleware, quizController.DeleteQuiz)
	quizzes.Post("/:id/submit", authMiddleware, quizController.SubmitQuiz)

	// Certificate routes (public, keyed by certificate code)
	certificateController := controllers.NewCertificateController(db, cfg)
	certificates := app.Group("/api/certificates")
	certificates.Get("/:code", certificateController.GetCertificate)
	certificates.Get("/:code/download", certificateController.DownloadCertificate)

	// Payment routes. The webhook handler reads the raw body itself and must
	// stay outside any body-transforming middleware.
	paymentController := controllers.NewPaymentController(db, cfg)
	payments := app.Group("/api/payments")
	payments.Post("/checkout", authMiddleware, paymentController.CreateCheckoutSession)
	payments.Post("/webhook", paymentController.HandleWebhook)

	// Chat routes
	chatController := controllers.NewChatController(cfg)
	app.Post("/api/chat", authMiddleware, chatController.Chat)
}
