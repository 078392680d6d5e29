package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	reqdto "shop-order-engine/internal/handler/dto/request"
	resdto "shop-order-engine/internal/handler/dto/response"
	"shop-order-engine/internal/handler/httperr"
	"shop-order-engine/internal/handler/middleware"
	"shop-order-engine/internal/usecase/commands"
	"shop-order-engine/internal/usecase/queries"
)

type CouponHandler struct {
	cmds commands.CouponCommands
	q    queries.CouponQueries
}

func NewCouponHandler(cmds commands.CouponCommands, q queries.CouponQueries) *CouponHandler {
	return &CouponHandler{cmds: cmds, q: q}
}

// @Summary Validate coupon
// @Description Check whether a coupon is currently usable for the caller
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ValidateCouponRequest true "Validate coupon request"
// @Success 200 {object} resdto.CouponValidationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	var req reqdto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.ValidateCoupon(c.Request.Context(), userID, req)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponValidation(result))
}

// @Summary Get coupon
// @Description Get coupon details by code
// @Tags coupons
// @Produce json
// @Param code path string true "Coupon code"
// @Success 200 {object} resdto.CouponResponse
// @Failure 404 {object} map[string]string
// @Router /coupons/{code} [get]
func (h *CouponHandler) GetByCode(c *gin.Context) {
	view, err := h.q.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, queries.ErrCouponNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}

// @Summary List active coupons
// @Description List coupons currently open for use
// @Tags coupons
// @Produce json
// @Param limit query int false "Max items (default 20)"
// @Success 200 {array} resdto.CouponResponse
// @Failure 500 {object} map[string]string
// @Router /coupons [get]
func (h *CouponHandler) ListActive(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}

	items, err := h.q.ListActive(c.Request.Context(), limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": resdto.FromCouponList(items)})
}
