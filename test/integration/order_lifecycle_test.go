package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/service/orders"
	"github.com/vladislavdragonenkov/orders-api/internal/storage/memory"
	"github.com/vladislavdragonenkov/orders-api/internal/transport/httpapi"
)

// OrderLifecycleTestSuite тестирует полный жизненный цикл заказа через REST API.
type OrderLifecycleTestSuite struct {
	suite.Suite
	router *gin.Engine
	idx    domain.IdempotencyIndex
}

func (suite *OrderLifecycleTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	suite.idx = memory.NewIdempotencyIndex()
	svc := orders.NewService(memory.NewOrderRepository(), suite.idx,
		orders.WithLogger(logger))
	suite.router = httpapi.NewRouter(svc, nil, httpapi.RouterConfig{}, logger)
}

func (suite *OrderLifecycleTestSuite) request(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *OrderLifecycleTestSuite) decodeOrder(rec *httptest.ResponseRecorder) domain.Order {
	var order domain.Order
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &order))
	return order
}

// TestFullLifecycle проходит заказ от создания до удаления.
func (suite *OrderLifecycleTestSuite) TestFullLifecycle() {
	headers := map[string]string{"Idempotency-Key": "checkout-42"}

	// Создание.
	rec := suite.request(http.MethodPost, "/orders", `{"item":"Флэт Уайт","price":250}`, headers)
	suite.Require().Equal(http.StatusCreated, rec.Code)
	created := suite.decodeOrder(rec)
	suite.Require().Equal("250.00", created.Price)
	suite.Require().Equal(domain.OrderStatusNew, created.Status)

	// Повтор с тем же ключом не плодит дубликатов.
	rec = suite.request(http.MethodPost, "/orders", `{"item":"Флэт Уайт","price":250}`, headers)
	suite.Require().Equal(http.StatusCreated, rec.Code)
	suite.Require().Equal(created.ID, suite.decodeOrder(rec).ID)

	// Заказ виден в списке и находится поиском.
	rec = suite.request(http.MethodGet, "/orders?q=флэт", "", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var page orders.ListResult
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
	suite.Require().Equal(1, page.Total)

	// Оплата.
	rec = suite.request(http.MethodPatch, "/orders/"+created.ID, `{"status":"PAID"}`, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Require().Equal(domain.OrderStatusPaid, suite.decodeOrder(rec).Status)

	// Удаление возвращает последнее состояние заказа.
	rec = suite.request(http.MethodDelete, "/orders/"+created.ID, "", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	deleted := suite.decodeOrder(rec)
	suite.Require().Equal(created.ID, deleted.ID)
	suite.Require().Equal(domain.OrderStatusPaid, deleted.Status)

	rec = suite.request(http.MethodGet, "/orders/"+created.ID, "", nil)
	suite.Require().Equal(http.StatusNotFound, rec.Code)

	// После удаления ключ свободен и создаёт новый заказ.
	rec = suite.request(http.MethodPost, "/orders", `{"item":"Флэт Уайт","price":250}`, headers)
	suite.Require().Equal(http.StatusCreated, rec.Code)
	suite.Require().NotEqual(created.ID, suite.decodeOrder(rec).ID)
}

// TestDistinctKeysCreateDistinctOrders проверяет независимость ключей идемпотентности.
func (suite *OrderLifecycleTestSuite) TestDistinctKeysCreateDistinctOrders() {
	first := suite.request(http.MethodPost, "/orders", `{"item":"Капучино","price":200}`,
		map[string]string{"Idempotency-Key": "key-a"})
	second := suite.request(http.MethodPost, "/orders", `{"item":"Капучино","price":200}`,
		map[string]string{"Idempotency-Key": "key-b"})

	suite.Require().Equal(http.StatusCreated, first.Code)
	suite.Require().Equal(http.StatusCreated, second.Code)
	suite.Require().NotEqual(suite.decodeOrder(first).ID, suite.decodeOrder(second).ID)
}

// TestWithoutKeyEveryRequestCreates проверяет, что без ключа кэширования нет.
func (suite *OrderLifecycleTestSuite) TestWithoutKeyEveryRequestCreates() {
	for i := 0; i < 3; i++ {
		rec := suite.request(http.MethodPost, "/orders", `{"item":"Раф","price":300}`, nil)
		suite.Require().Equal(http.StatusCreated, rec.Code)
	}
	suite.Require().Equal(0, suite.idx.Len())

	rec := suite.request(http.MethodGet, "/orders", "", nil)
	var page orders.ListResult
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
	suite.Require().Equal(3, page.Total)
}

// TestPagination проверяет контракт пагинации на большом наборе.
func (suite *OrderLifecycleTestSuite) TestPagination() {
	for i := 0; i < 12; i++ {
		rec := suite.request(http.MethodPost, "/orders",
			fmt.Sprintf(`{"item":"Заказ %d","price":%d}`, i, i+1), nil)
		suite.Require().Equal(http.StatusCreated, rec.Code)
	}

	rec := suite.request(http.MethodGet, "/orders?page=3&size=5", "", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)

	var page orders.ListResult
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
	suite.Require().Equal(12, page.Total)
	suite.Require().Len(page.Data, 2)
}

func TestOrderLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}
