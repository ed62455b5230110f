package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"storefront/internal/domain"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("product not found in cart")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductFilter narrows ListProducts results. The zero value matches every
// product.
type ProductFilter struct {
	Category string // exact match when non-empty
	InStock  *bool  // true keeps stock > 0, false keeps stock <= 0, nil keeps all
}

// ProductUpdate is a partial patch for UpdateProduct. Nil fields leave the
// stored value untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
}

// OrderItemRequest names a product and quantity for checkout. Checkout takes
// these directly rather than reading the user's stored cart.
type OrderItemRequest struct {
	ProductID string
	Quantity  int
}

// Store defines the data access surface over the catalog, carts and orders.
type Store interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	AddProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveFromCart(ctx context.Context, userID, productID string) (*domain.Cart, error)
	CreateOrder(ctx context.Context, userID string, items []OrderItemRequest) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
}

// document is the persisted snapshot layout: the whole of it is rewritten to
// disk after every mutation.
type document struct {
	Products []domain.Product        `json:"products"`
	Orders   []domain.Order          `json:"orders"`
	Carts    map[string]*domain.Cart `json:"carts"`
}

type jsonStore struct {
	mu     sync.Mutex
	path   string
	doc    document
	lastID int64
}

// Open loads the snapshot at path. A missing or unreadable file resets the
// store to an empty document, which is persisted immediately; that is the
// only recovery path.
func Open(path string) (Store, error) {
	s := &jsonStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func emptyDocument() document {
	return document{
		Products: []domain.Product{},
		Orders:   []domain.Order{},
		Carts:    map[string]*domain.Cart{},
	}
}

func (s *jsonStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err == nil {
		var doc document
		if err := json.Unmarshal(raw, &doc); err == nil {
			// Hand-edited files may omit collections entirely.
			if doc.Products == nil {
				doc.Products = []domain.Product{}
			}
			if doc.Orders == nil {
				doc.Orders = []domain.Order{}
			}
			if doc.Carts == nil {
				doc.Carts = map[string]*domain.Cart{}
			}
			s.doc = doc
			return nil
		}
	}

	s.doc = emptyDocument()
	return s.save()
}

// save rewrites the whole document to disk. Callers must hold mu, except
// during Open before the store is shared.
func (s *jsonStore) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store document: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write store document: %w", err)
	}

	return nil
}

// nextID returns a millisecond timestamp rendered as a decimal string. Two
// calls within the same millisecond would collide, so the value is kept
// strictly increasing. Callers must hold mu.
func (s *jsonStore) nextID() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// findProduct returns a pointer into the product slice, or nil. Callers must
// hold mu and must not retain the pointer past the unlock.
func (s *jsonStore) findProduct(id string) *domain.Product {
	for i := range s.doc.Products {
		if s.doc.Products[i].ID == id {
			return &s.doc.Products[i]
		}
	}
	return nil
}

// ListProducts returns the products matching filter, preserving their
// relative order. There is no pagination.
func (s *jsonStore) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := []domain.Product{}
	for _, p := range s.doc.Products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.InStock != nil {
			if *filter.InStock && p.Stock <= 0 {
				continue
			}
			if !*filter.InStock && p.Stock > 0 {
				continue
			}
		}
		products = append(products, p)
	}

	return products, nil
}

// GetProduct retrieves a product by ID.
func (s *jsonStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		return nil, ErrProductNotFound
	}

	out := *p
	return &out, nil
}

// AddProduct assigns a fresh ID, appends the product to the catalog and
// persists. Duplicate names are permitted.
func (s *jsonStore) AddProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = s.nextID()
	s.doc.Products = append(s.doc.Products, product)

	if err := s.save(); err != nil {
		return nil, err
	}

	out := product
	return &out, nil
}

// UpdateProduct merges the non-nil fields of update over the stored product
// and persists.
func (s *jsonStore) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		return nil, ErrProductNotFound
	}

	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Stock != nil {
		p.Stock = *update.Stock
	}
	if update.Category != nil {
		p.Category = *update.Category
	}

	if err := s.save(); err != nil {
		return nil, err
	}

	out := *p
	return &out, nil
}

// DeleteProduct removes a product from the catalog and persists. Orders that
// reference the product keep their embedded snapshots.
func (s *jsonStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Products {
		if s.doc.Products[i].ID == id {
			s.doc.Products = append(s.doc.Products[:i], s.doc.Products[i+1:]...)
			return s.save()
		}
	}

	return ErrProductNotFound
}

// GetCart returns the user's cart, or a fresh empty cart when the user has
// none. The empty cart is not persisted.
func (s *jsonStore) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cart, ok := s.doc.Carts[userID]; ok {
		return cart.Clone(), nil
	}

	return domain.NewCart(), nil
}

// AddToCart adds quantity of a product to the user's cart, creating the cart
// on first use. An existing line for the product bumps its quantity but
// keeps the price captured when the line was first added.
func (s *jsonStore) AddToCart(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := s.findProduct(productID)
	if product == nil {
		return nil, fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
	}

	cart, ok := s.doc.Carts[userID]
	if !ok {
		cart = domain.NewCart()
		s.doc.Carts[userID] = cart
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		})
	}

	cart.RecalculateTotal()

	if err := s.save(); err != nil {
		return nil, err
	}

	return cart.Clone(), nil
}

// RemoveFromCart removes the line for productID from the user's cart and
// persists.
func (s *jsonStore) RemoveFromCart(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.doc.Carts[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrCartNotFound)
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("product %s: %w", productID, ErrCartItemNotFound)
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	cart.RecalculateTotal()

	if err := s.save(); err != nil {
		return nil, err
	}

	return cart.Clone(), nil
}

// CreateOrder creates an order from the given items, decrementing each
// product's stock. Checkout is two-phase: every line is validated against
// current stock before any decrement is applied, so a rejected order leaves
// no product mutated.
func (s *jsonStore) CreateOrder(ctx context.Context, userID string, items []OrderItemRequest) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check phase. Pending decrements are tracked so several lines for the
	// same product cannot oversell it.
	lines := make([]domain.OrderItem, 0, len(items))
	pending := map[string]int{}
	for _, item := range items {
		product := s.findProduct(item.ProductID)
		if product == nil {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrProductNotFound)
		}
		if product.Stock-pending[product.ID] < item.Quantity {
			return nil, fmt.Errorf("product %s: %w", product.ID, ErrInsufficientStock)
		}
		pending[product.ID] += item.Quantity

		lines = append(lines, domain.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
			Subtotal:  product.Price * float64(item.Quantity),
		})
	}

	// Commit phase.
	for id, quantity := range pending {
		s.findProduct(id).Stock -= quantity
	}

	order := domain.Order{
		ID:        s.nextID(),
		UserID:    userID,
		Items:     lines,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	for _, line := range lines {
		order.Total += line.Subtotal
	}

	s.doc.Orders = append(s.doc.Orders, order)

	if err := s.save(); err != nil {
		return nil, err
	}

	out := order
	return &out, nil
}

// ListOrders returns all orders placed by userID, in storage order.
func (s *jsonStore) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := []domain.Order{}
	for _, o := range s.doc.Orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}

	return orders, nil
}
