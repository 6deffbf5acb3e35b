package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
	orderdomain "github.com/slotlinelabs/slotline/internal/order/domain"
)

type checkoutContextQuery struct {
	BuyerID      string   `form:"buyer_id" binding:"required"`
	CartID       string   `form:"cart_id" binding:"required"`
	Reseller     bool     `form:"reseller"`
	ClientTotal  *int64   `form:"client_total"`
	ExchangeRate *float64 `form:"exchange_rate"`
}

type checkoutContextView struct {
	CartID string                `json:"cart_id"`
	Lines  []catalogdomain.Line  `json:"lines"`
	Prices []catalogdomain.Price `json:"prices"`
	Total  int64                 `json:"total"`
	Rate   float64               `json:"rate"`
}

// GetCheckoutContext
// GET /api/checkout/context
func (s *Server) GetCheckoutContext(c *gin.Context) {
	var q checkoutContextQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	buyerID, err := snowflake.ParseString(q.BuyerID)
	if err != nil {
		AbortWithError(c, orderdomain.ErrInvalidBuyer)
		return
	}
	cartID, err := snowflake.ParseString(q.CartID)
	if err != nil {
		AbortWithError(c, catalogdomain.ErrCartNotFound)
		return
	}

	cc, err := s.catalogSvc.BuildCheckoutContext(c.Request.Context(), catalogdomain.BuildCheckoutContextRequest{
		BuyerID:      buyerID,
		Reseller:     q.Reseller,
		CartID:       cartID,
		ClientTotal:  q.ClientTotal,
		ExchangeRate: q.ExchangeRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view := checkoutContextView{
		CartID: cc.CartID.String(),
		Lines:  cc.Lines,
		Total:  cc.Total,
		Rate:   cc.Rate,
	}
	for _, p := range cc.Prices {
		view.Prices = append(view.Prices, p)
	}
	respondData(c, view)
}

type processOrderRequest struct {
	ActingUser           string   `json:"acting_user" binding:"required"`
	Buyer                string   `json:"buyer" binding:"required"`
	CartID               string   `json:"cart_id" binding:"required"`
	Reseller             bool     `json:"reseller"`
	ClientTotal          *int64   `json:"client_total"`
	ExchangeRate         *float64 `json:"exchange_rate"`
	PaymentReference     string   `json:"payment_reference"`
	ProofFiles           []string `json:"proof_files"`
	PaymentMethod        string   `json:"payment_method" binding:"required"`
	RequiresVerification bool     `json:"requires_verification"`
}

// ProcessOrder
// POST /api/orders/:id/process
func (s *Server) ProcessOrder(c *gin.Context) {
	orderID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, orderdomain.ErrInvalidOrder)
		return
	}

	var req processOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	actingUser, err := snowflake.ParseString(req.ActingUser)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid acting_user"})
		return
	}
	buyerID, err := snowflake.ParseString(req.Buyer)
	if err != nil {
		AbortWithError(c, orderdomain.ErrInvalidBuyer)
		return
	}
	cartID, err := snowflake.ParseString(req.CartID)
	if err != nil {
		AbortWithError(c, catalogdomain.ErrCartNotFound)
		return
	}
	paymentMethodID, err := snowflake.ParseString(req.PaymentMethod)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid payment_method"})
		return
	}

	cc, err := s.catalogSvc.BuildCheckoutContext(c.Request.Context(), catalogdomain.BuildCheckoutContextRequest{
		BuyerID:      buyerID,
		Reseller:     req.Reseller,
		CartID:       cartID,
		ClientTotal:  req.ClientTotal,
		ExchangeRate: req.ExchangeRate,
	})
	if err != nil {
		s.metrics.OrdersProcessed.WithLabelValues("error").Inc()
		AbortWithError(c, err)
		return
	}

	result, err := s.orderSvc.ProcessOrder(c.Request.Context(), orderdomain.ProcessOrderRequest{
		OrderID:              orderID,
		ActingUserID:         actingUser,
		BuyerID:              buyerID,
		Checkout:             cc,
		PaymentReference:     req.PaymentReference,
		ProofFiles:           req.ProofFiles,
		PaymentMethodID:      paymentMethodID,
		CartID:               cartID,
		RequiresVerification: req.RequiresVerification,
	})
	if err != nil {
		s.metrics.OrdersProcessed.WithLabelValues("error").Inc()
		AbortWithError(c, err)
		return
	}

	s.metrics.OrdersProcessed.WithLabelValues("ok").Inc()
	s.metrics.SalesCreated.Add(float64(result.SalesCount))
	s.metrics.SalesPending.Add(float64(result.PendingCount))

	respondData(c, result)
}
