package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reqdto "shop-order-engine/internal/handler/dto/request"
	resdto "shop-order-engine/internal/handler/dto/response"
	"shop-order-engine/internal/handler/httperr"
	"shop-order-engine/internal/handler/middleware"
	"shop-order-engine/internal/usecase/commands"
	"shop-order-engine/internal/usecase/queries"
)

type CartHandler struct {
	cmds commands.CartCommands
	q    queries.CartQueries
}

func NewCartHandler(cmds commands.CartCommands, q queries.CartQueries) *CartHandler {
	return &CartHandler{cmds: cmds, q: q}
}

// @Summary Get cart
// @Description Get the current user's cart with a live subtotal
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartSummaryResponse
// @Failure 401 {object} map[string]string
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	summary, err := h.q.GetCart(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCartSummary(summary))
}

// @Summary Add or update cart item
// @Description Set the cart line for a variant to the given quantity; zero removes the line
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddCartItemRequest true "Add item request"
// @Success 201 {object} map[string]string
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	var req reqdto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	lineID, err := h.cmds.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCartVariantNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Variant not found or not available", nil)
		case errors.Is(err, commands.ErrInsufficientStock):
			httperr.AbortWithError(c, http.StatusConflict, err, "Requested quantity exceeds available stock", nil)
		case errors.Is(err, commands.ErrCartQuantityInvalid):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Quantity must not be negative", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	if lineID == uuid.Nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cart_line_id": lineID.String()})
}

// @Summary Update cart item
// @Description Set the quantity of one cart line
// @Tags cart
// @Accept json
// @Security BearerAuth
// @Param id path string true "Cart line ID"
// @Param request body reqdto.UpdateCartItemRequest true "Update request"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cart line ID format", nil)
		return
	}

	var req reqdto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if err := h.cmds.UpdateItemQuantity(c.Request.Context(), userID, lineID, req); err != nil {
		switch {
		case errors.Is(err, commands.ErrCartLineNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Cart line not found", nil)
		case errors.Is(err, commands.ErrCartQuantityInvalid):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Quantity must be positive", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Remove cart items
// @Description Remove specific lines from the cart
// @Tags cart
// @Accept json
// @Security BearerAuth
// @Param request body reqdto.RemoveCartItemsRequest true "Remove request"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /cart/items [delete]
func (h *CartHandler) RemoveItems(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	var req reqdto.RemoveCartItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if err := h.cmds.RemoveItems(c.Request.Context(), userID, req.CartLineIDs); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Clear cart
// @Description Remove every line from the cart
// @Tags cart
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string
// @Router /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	if err := h.cmds.ClearCart(c.Request.Context(), userID); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
