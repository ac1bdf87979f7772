package test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// Product describes stock held by OrderService.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Stock int
}

// OrderService is an in-memory order service speaking the REST API of the
// real one. It keeps one pending order per user and checks stock on redo.
type OrderService struct {
	server *httptest.Server

	mu          sync.Mutex
	orders      map[string]*model.Order
	products    map[string]*Product
	seq         int
	creates     int
	failStatus  int
	createDelay time.Duration
}

// NewOrderService starts the service; it stops with the test.
func NewOrderService(t testing.TB) *OrderService {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &OrderService{
		orders:   make(map[string]*model.Order),
		products: make(map[string]*Product),
	}

	r := gin.New()
	r.Use(s.faults)
	r.POST("/orders", s.create)
	r.GET("/orders/:id", s.get)
	r.PUT("/orders/:id/status", s.updateStatus)
	r.DELETE("/orders/:id", s.cancel)
	r.POST("/orders/:id/items", s.addItem)
	r.PUT("/orders/:id/items/:productId", s.updateItem)
	r.DELETE("/orders/:id/items/:productId", s.removeItem)
	r.DELETE("/orders/:id/items", s.clearItems)
	r.POST("/orders/:id/checkout", s.checkout)
	r.POST("/orders/:id/redo", s.redo)
	r.GET("/orders/user/:userId", s.listByUser)
	r.GET("/orders/user/:userId/cart", s.activeCart)

	s.server = httptest.NewServer(r)
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the base URL of the service.
func (s *OrderService) URL() string {
	return s.server.URL
}

// AddProduct registers or replaces a product.
func (s *OrderService) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.products[p.ID] = &cp
}

// Stock returns the available quantity of a product.
func (s *OrderService) Stock(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[productID]; ok {
		return p.Stock
	}
	return 0
}

// Seed stores an order as is and returns its identifier.
func (s *OrderService) Seed(order model.Order) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == "" {
		order.ID = s.nextID()
	}
	stored := order.Clone()
	s.orders[stored.ID] = stored
	return stored.ID
}

// Order returns a copy of a stored order.
func (s *OrderService) Order(id string) (*model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	return order.Clone(), ok
}

// SetStatus moves an order to status without any checks.
func (s *OrderService) SetStatus(id string, status model.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.orders[id]; ok {
		order.Status = status
	}
}

// Creates reports how many orders were created through the API.
func (s *OrderService) Creates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

// PendingCount reports how many PENDING orders a user holds.
func (s *OrderService) PendingCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, order := range s.orders {
		if order.UserID == userID && order.Status == model.OrderStatusPending {
			n++
		}
	}
	return n
}

// Fail answers every request with status until Recover is called.
func (s *OrderService) Fail(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// Recover stops injected failures.
func (s *OrderService) Recover() {
	s.Fail(0)
}

// SlowCreates delays order creation, widening race windows.
func (s *OrderService) SlowCreates(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createDelay = d
}

func (s *OrderService) faults(c *gin.Context) {
	s.mu.Lock()
	status := s.failStatus
	s.mu.Unlock()
	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.Next()
}

func (s *OrderService) create(c *gin.Context) {
	var req wireOrder
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	delay := s.createDelay
	s.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	order := req.toModel()
	order.ID = s.nextID()
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	s.orders[order.ID] = order
	s.creates++
	c.JSON(http.StatusCreated, fromModel(order))
}

func (s *OrderService) get(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, fromModel(order))
}

func (s *OrderService) updateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	next := model.OrderStatus(req.Status)
	if !model.CanTransition(order.Status, next) {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("cannot move order from %s to %s", order.Status, next)})
		return
	}
	order.Status = next
	order.UpdatedAt = time.Now().UTC()
	c.JSON(http.StatusOK, fromModel(order))
}

func (s *OrderService) cancel(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if order.Status != model.OrderStatusShipping {
		c.JSON(http.StatusOK, gin.H{"error": "Order can only be cancelled while it is shipping"})
		return
	}
	for _, item := range order.Items {
		if p, ok := s.products[item.ProductID]; ok {
			p.Stock += item.Quantity
		}
	}
	order.Status = model.OrderStatusCancelled
	order.UpdatedAt = time.Now().UTC()
	c.JSON(http.StatusOK, fromModel(order))
}

func (s *OrderService) addItem(c *gin.Context) {
	var req wireItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mutatePending(c, func(order *model.Order) {
		if i := indexOf(order, req.ProductID); i >= 0 {
			order.Items[i].Quantity += req.Quantity
			return
		}
		order.Items = append(order.Items, s.line(req.ProductID, req.Quantity))
	})
}

func (s *OrderService) updateItem(c *gin.Context) {
	var req wireItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	productID := c.Param("productId")
	s.mutatePending(c, func(order *model.Order) {
		i := indexOf(order, productID)
		switch {
		case i < 0:
			order.Items = append(order.Items, s.line(productID, req.Quantity))
		case req.Quantity <= 0:
			order.Items = append(order.Items[:i], order.Items[i+1:]...)
		default:
			order.Items[i].Quantity = req.Quantity
		}
	})
}

func (s *OrderService) removeItem(c *gin.Context) {
	productID := c.Param("productId")
	s.mutatePending(c, func(order *model.Order) {
		if i := indexOf(order, productID); i >= 0 {
			order.Items = append(order.Items[:i], order.Items[i+1:]...)
		}
	})
}

func (s *OrderService) clearItems(c *gin.Context) {
	s.mutatePending(c, func(order *model.Order) {
		order.Items = nil
	})
}

// mutatePending applies fn to a pending order. Orders that already left
// PENDING are returned unchanged.
func (s *OrderService) mutatePending(c *gin.Context, fn func(*model.Order)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if order.Status == model.OrderStatusPending {
		fn(order)
		order.UpdatedAt = time.Now().UTC()
	}
	c.JSON(http.StatusOK, fromModel(order))
}

func (s *OrderService) checkout(c *gin.Context) {
	var req struct {
		ShippingAddress string `json:"shippingAddress"`
		PaymentMethod   string `json:"paymentMethod"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if order.Status != model.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "order is not pending"})
		return
	}
	for _, item := range order.Items {
		if p, ok := s.products[item.ProductID]; ok {
			p.Stock -= item.Quantity
		}
	}
	now := time.Now().UTC()
	order.Status = model.OrderStatusProcessing
	order.ShippingAddress = req.ShippingAddress
	order.PaymentMethod = req.PaymentMethod
	order.OrderDate = &now
	order.UpdatedAt = now
	c.JSON(http.StatusOK, fromModel(order))
}

func (s *OrderService) redo(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	source, ok := s.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	var (
		lines      []model.OrderItem
		outOfStock = []string{}
		partial    = []string{}
	)
	for _, item := range source.Items {
		available := 0
		name := item.DisplayName()
		if p, ok := s.products[item.ProductID]; ok {
			available = p.Stock
			name = p.Name
		}
		switch {
		case available <= 0:
			outOfStock = append(outOfStock, fmt.Sprintf("'%s' is out of stock", name))
		case available < item.Quantity:
			partial = append(partial, fmt.Sprintf("'%s' has only %d available instead of %d", name, available, item.Quantity))
			lines = append(lines, s.line(item.ProductID, available))
		default:
			lines = append(lines, s.line(item.ProductID, item.Quantity))
		}
	}

	if len(lines) == 0 {
		c.JSON(http.StatusConflict, wireReport{
			Message:                 "None of the items could be added to your cart",
			OutOfStockProducts:      outOfStock,
			PartiallyFilledProducts: partial,
		})
		return
	}

	cart := s.pendingFor(source.UserID)
	if cart == nil {
		now := time.Now().UTC()
		cart = &model.Order{
			ID:              s.nextID(),
			UserID:          source.UserID,
			ShippingAddress: source.ShippingAddress,
			Status:          model.OrderStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		s.orders[cart.ID] = cart
	}
	for _, line := range lines {
		if i := indexOf(cart, line.ProductID); i >= 0 {
			cart.Items[i].Quantity += line.Quantity
			continue
		}
		cart.Items = append(cart.Items, line)
	}

	message := "All items were added to your cart"
	if len(outOfStock) > 0 || len(partial) > 0 {
		message = "Some items could not be added to your cart"
	}
	order := fromModel(cart)
	c.JSON(http.StatusOK, wireReport{
		Order:                   &order,
		Message:                 message,
		OutOfStockProducts:      outOfStock,
		PartiallyFilledProducts: partial,
	})
}

func (s *OrderService) listByUser(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if size <= 0 {
		size = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var owned []*model.Order
	for _, order := range s.orders {
		if order.UserID == c.Param("userId") {
			owned = append(owned, order)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	content := []wireOrder{}
	for i := page * size; i < len(owned) && i < (page+1)*size; i++ {
		content = append(content, fromModel(owned[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"content":       content,
		"number":        page,
		"size":          size,
		"totalElements": len(owned),
		"totalPages":    (len(owned) + size - 1) / size,
	})
}

func (s *OrderService) activeCart(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.pendingFor(c.Param("userId"))
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active cart"})
		return
	}
	c.JSON(http.StatusOK, fromModel(order))
}

func (s *OrderService) pendingFor(userID string) *model.Order {
	for _, order := range s.orders {
		if order.UserID == userID && order.Status == model.OrderStatusPending {
			return order
		}
	}
	return nil
}

func (s *OrderService) line(productID string, quantity int) model.OrderItem {
	item := model.OrderItem{ProductID: productID, Quantity: quantity}
	if p, ok := s.products[productID]; ok {
		price := p.Price
		item.UnitPrice = &price
		item.ProductName = p.Name
	}
	return item
}

func (s *OrderService) nextID() string {
	s.seq++
	return "order-" + strconv.Itoa(s.seq)
}

func indexOf(order *model.Order, productID string) int {
	for i, item := range order.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

type wireItem struct {
	ProductID   string   `json:"productId"`
	Quantity    int      `json:"quantity"`
	Price       *float64 `json:"price,omitempty"`
	ProductName string   `json:"productName,omitempty"`
}

type wireOrder struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	ShippingAddress string     `json:"shippingAddress"`
	Status          string     `json:"status"`
	Items           []wireItem `json:"items"`
	PaymentMethod   string     `json:"paymentMethod,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	OrderDate       *time.Time `json:"orderDate,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
	Removed         bool       `json:"removed"`
}

type wireReport struct {
	Order                   *wireOrder `json:"order"`
	Message                 string     `json:"message"`
	OutOfStockProducts      []string   `json:"outOfStockProducts"`
	PartiallyFilledProducts []string   `json:"partiallyFilledProducts"`
}

func (w wireOrder) toModel() *model.Order {
	order := &model.Order{
		UserID:          w.UserID,
		ShippingAddress: w.ShippingAddress,
		Status:          model.OrderStatus(w.Status),
		PaymentMethod:   w.PaymentMethod,
	}
	for _, item := range w.Items {
		line := model.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity, ProductName: item.ProductName}
		if item.Price != nil {
			price := decimal.NewFromFloat(*item.Price)
			line.UnitPrice = &price
		}
		order.Items = append(order.Items, line)
	}
	return order
}

func fromModel(order *model.Order) wireOrder {
	w := wireOrder{
		ID:              order.ID,
		UserID:          order.UserID,
		ShippingAddress: order.ShippingAddress,
		Status:          string(order.Status),
		Items:           []wireItem{},
		PaymentMethod:   order.PaymentMethod,
		OrderDate:       order.OrderDate,
		Removed:         order.Removed,
	}
	if !order.CreatedAt.IsZero() {
		created := order.CreatedAt
		w.CreatedAt = &created
	}
	if !order.UpdatedAt.IsZero() {
		updated := order.UpdatedAt
		w.UpdatedAt = &updated
	}
	for _, item := range order.Items {
		line := wireItem{ProductID: item.ProductID, Quantity: item.Quantity, ProductName: item.ProductName}
		if item.UnitPrice != nil {
			f := item.UnitPrice.InexactFloat64()
			line.Price = &f
		}
		w.Items = append(w.Items, line)
	}
	return w
}
