package handlers

import (
	"fmt"
	"math"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"gorm.io/gorm"

	"github.com/shopthebarber/marketplace-api/internal/config"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/httpresp"
	"github.com/shopthebarber/marketplace-api/internal/middleware"
	"github.com/shopthebarber/marketplace-api/internal/models"
	"github.com/shopthebarber/marketplace-api/internal/usecase/fees"
)

const flatShipping = 5.00

// centsOf converts a euro amount to cents. Rounding matters: 19.99*100 is
// 1998.9999... in float64 and plain truncation would lose a cent.
func centsOf(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ======================================================
// HANDLER
// ======================================================

type CheckoutHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewCheckoutHandler(db *gorm.DB, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{db: db, config: cfg}
}

// ======================================================
// REQUESTS
// ======================================================

type BookingCheckoutRequest struct {
	BookingID  string `json:"booking_id" binding:"required"`
	SuccessURL string `json:"success_url" binding:"required"`
	CancelURL  string `json:"cancel_url" binding:"required"`
}

type CartCheckoutRequest struct {
	SuccessURL string `json:"success_url" binding:"required"`
	CancelURL  string `json:"cancel_url" binding:"required"`
}

// ======================================================
// BOOKING CHECKOUT
// ======================================================

func (h *CheckoutHandler) CheckoutBooking(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req BookingCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var b models.Booking
	if err := h.db.First(&b, "id = ?", req.BookingID).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}
	if b.ClientID != userID {
		httperr.Forbidden(c, "not_your_booking", "You can only pay for your own bookings.")
		return
	}
	if b.PaymentStatus == "paid" {
		httperr.BadRequest(c, "already_paid", "This booking is already paid.")
		return
	}

	name := b.ServiceName
	if name == "" {
		name = "Barber Service"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("eur"),
					UnitAmount: stripe.Int64(centsOf(b.PriceAtBooking)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("type", "booking")
	params.AddMetadata("booking_id", b.ID)

	s, err := session.New(params)
	if err != nil {
		httperr.Internal(c, "checkout_failed", "Could not create checkout session.")
		return
	}

	httpresp.OK(c, gin.H{"session_id": s.ID, "url": s.URL})
}

// ======================================================
// CART CHECKOUT
// ======================================================

func (h *CheckoutHandler) CheckoutCart(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req CartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var items []models.CartItem
	if err := h.db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		httperr.Internal(c, "cart_unavailable", "Could not load cart.")
		return
	}
	if len(items) == 0 {
		httperr.BadRequest(c, "empty_cart", "Your cart is empty.")
		return
	}

	var subtotal float64
	orderItems := make([]models.OrderItem, 0, len(items))
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items)+1)

	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("eur"),
				UnitAmount: stripe.Int64(centsOf(item.Price)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.ProductName),
				},
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String("eur"),
			UnitAmount: stripe.Int64(centsOf(flatShipping)),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String("Shipping"),
			},
		},
		Quantity: stripe.Int64(1),
	})

	order := models.Order{
		UserID:         userID,
		Subtotal:       fees.Round2(subtotal),
		ShippingAmount: flatShipping,
		Total:          fees.Round2(subtotal + flatShipping),
		Items:          orderItems,
	}
	if err := h.db.Create(&order).Error; err != nil {
		httperr.Internal(c, "order_creation_failed", "Could not create order.")
		return
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems:  lineItems,
	}
	params.AddMetadata("type", "product")
	params.AddMetadata("order_id", order.ID)

	s, err := session.New(params)
	if err != nil {
		httperr.Internal(c, "checkout_failed", "Could not create checkout session.")
		return
	}

	if err := h.db.Model(&order).Update("stripe_checkout_session_id", s.ID).Error; err != nil {
		httperr.Internal(c, "order_update_failed",
			fmt.Sprintf("Order %s created but session link failed.", order.ID))
		return
	}

	httpresp.OK(c, gin.H{"session_id": s.ID, "url": s.URL, "order_id": order.ID})
}
