package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/service/orders"
)

const (
	defaultListSize = 1000
	maxListSize     = 1000
)

// OrdersHandler обслуживает REST-операции над заказами.
type OrdersHandler struct {
	svc    *orders.Service
	logger *log.Entry
}

// NewOrdersHandler создаёт handler поверх сервиса заказов.
func NewOrdersHandler(svc *orders.Service, logger *log.Entry) *OrdersHandler {
	if logger == nil {
		logger = log.WithField("component", "orders-handler")
	}
	return &OrdersHandler{svc: svc, logger: logger}
}

// createOrderRequest — тело POST /orders.
type createOrderRequest struct {
	Item   string  `json:"item" binding:"required" example:"Matcha Latte"`
	Price  float64 `json:"price" binding:"required,gt=0" example:"85.5"`
	Status string  `json:"status" binding:"omitempty,oneof=NEW PAID CANCELLED" example:"NEW"`
}

// updateStatusRequest — тело PATCH /orders/{id}.
type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=NEW PAID CANCELLED" example:"PAID"`
}

// List godoc
// @Summary      Список заказов
// @Description  Страница заказов, отсортированных от новых к старым, с опциональным поиском по item.
// @Tags         orders
// @Produce      json
// @Param        page  query  int     false  "номер страницы (с 1)"  default(1)
// @Param        size  query  int     false  "размер страницы"       default(1000)
// @Param        q     query  string  false  "поиск подстроки по item"
// @Success      200  {object}  orders.ListResult
// @Failure      500  {object}  errorResponse
// @Router       /orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), 1)
	size := parsePositiveInt(c.Query("size"), defaultListSize)
	if size > maxListSize {
		size = maxListSize
	}

	result, err := h.svc.List(page, size, c.Query("q"))
	if err != nil {
		h.logger.WithError(err).Error("failed to list orders")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary      Создать заказ
// @Description  Создаёт заказ. Повтор запроса с тем же Idempotency-Key возвращает уже созданный заказ.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request          body    createOrderRequest  true  "новый заказ"
// @Param        Idempotency-Key  header  string              false "ключ дедупликации повторов"
// @Success      201  {object}  domain.Order
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	order, err := h.svc.Create(orders.CreateInput{
		Item:   req.Item,
		Price:  req.Price,
		Status: domain.OrderStatus(req.Status),
	}, c.GetHeader("Idempotency-Key"))
	if err != nil {
		h.logger.WithError(err).Error("failed to create order")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// FindOne godoc
// @Summary      Заказ по ID
// @Tags         orders
// @Produce      json
// @Param        id  path  string  true  "ID заказа"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [get]
func (h *OrdersHandler) FindOne(c *gin.Context) {
	order, err := h.svc.FindOne(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary      Сменить статус заказа
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "ID заказа"
// @Param        request  body  updateStatusRequest  true  "новый статус"
// @Success      200  {object}  domain.Order
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [patch]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	order, err := h.svc.UpdateStatus(c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete godoc
// @Summary      Удалить заказ
// @Description  Удаляет заказ и возвращает его последнее состояние.
// @Tags         orders
// @Produce      json
// @Param        id  path  string  true  "ID заказа"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [delete]
func (h *OrdersHandler) Delete(c *gin.Context) {
	order, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func parsePositiveInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
