package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"quizhub/backend/config"
	"quizhub/backend/middleware"
	"quizhub/backend/models"
	"quizhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"
	"gorm.io/gorm"
)

// Placeholder price until per-quiz pricing lands: $9.99 in cents.
const quizPriceCents = 999

type PaymentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewPaymentController(db *gorm.DB, cfg *config.Config) *PaymentController {
	return &PaymentController{DB: db, Cfg: cfg}
}

// InitStripe configures the process-wide Stripe client key. Called once at
// startup.
func InitStripe(cfg *config.Config) {
	stripe.Key = cfg.StripeSecretKey
}

type CheckoutInput struct {
	QuizID uint `json:"quizId"`
}

// CreateCheckoutSession opens a hosted checkout session for one quiz and
// returns its URL.
func (pc *PaymentController) CreateCheckoutSession(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input CheckoutInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.QuizID == 0 {
		return utils.BadRequest(c, "quizId is required")
	}

	var quiz models.Quiz
	if err := pc.DB.First(&quiz, input.QuizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Quiz access: " + quiz.Title),
				},
				UnitAmount: stripe.Int64(quizPriceCents),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(pc.Cfg.ClientURL + "/payment/success"),
		CancelURL:  stripe.String(pc.Cfg.ClientURL + "/payment/cancel"),
	}
	params.AddMetadata("userId", strconv.Itoa(int(user.ID)))
	params.AddMetadata("quizId", strconv.Itoa(int(quiz.ID)))

	s, err := session.New(params)
	if err != nil {
		log.Printf("stripe checkout session: %v", err)
		return utils.ServiceUnavailable(c, "Payment provider unavailable")
	}

	return c.JSON(fiber.Map{
		"url": s.URL,
	})
}

// HandleWebhook verifies the provider signature against the raw request body
// and reconciles checkout completions into quiz entitlements. Once the
// signature checks out the response is always 200 {received:true}; grant
// failures are logged, not surfaced, so the provider does not retry.
func (pc *PaymentController) HandleWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	event, err := webhook.ConstructEvent(payload, c.Get("Stripe-Signature"), pc.Cfg.StripeWebhookSecret)
	if err != nil {
		return utils.BadRequest(c, "Webhook signature verification failed")
	}

	if event.Type == stripe.EventTypeCheckoutSessionCompleted {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("webhook payload parse: %v", err)
		} else {
			pc.grantEntitlement(sess.Metadata["userId"], sess.Metadata["quizId"])
		}
	}

	return c.JSON(fiber.Map{
		"received": true,
	})
}

// grantEntitlement appends the quiz to the user's purchased set. The unique
// (user_id, quiz_id) index makes a repeat delivery a no-op.
func (pc *PaymentController) grantEntitlement(userIDStr, quizIDStr string) {
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		log.Printf("webhook metadata: invalid userId %q", userIDStr)
		return
	}
	quizID, err := strconv.Atoi(quizIDStr)
	if err != nil {
		log.Printf("webhook metadata: invalid quizId %q", quizIDStr)
		return
	}

	purchase := models.Purchase{UserID: uint(userID), QuizID: uint(quizID)}
	if err := pc.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		FirstOrCreate(&purchase).Error; err != nil {
		log.Printf("webhook entitlement grant: %v", err)
	}
}
