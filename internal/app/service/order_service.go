package service

import (
	"context"
	"errors"
	"math"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/repository"
	"github.com/dsaidov/mebelplaza-backend/pkg/itemkey"
	"github.com/dsaidov/mebelplaza-backend/pkg/logger"
	"github.com/dsaidov/mebelplaza-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidContact  = errors.New("customer name and phone are required")
	ErrOrderItemMissed = errors.New("cart references a product that no longer exists")
)

// CheckoutRequest carries the customer-facing fields of an order. Either
// UserID or SessionID identifies the buyer; guests only have a session.
type CheckoutRequest struct {
	Owner           string
	UserID          *uint
	SessionID       string
	Region          model.Region
	CustomerName    string
	CustomerPhone   string
	ShippingAddress string
	Comment         string
}

type OrderService interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*model.Order, error)
	CheckoutOneClick(ctx context.Context, req CheckoutRequest) (*model.Order, error)
	GetOrder(id uint) (*model.Order, error)
	GetOrdersForUser(userID uint) ([]model.Order, error)
	GetOrdersForSession(sessionID string) ([]model.Order, error)
	UpdateStatus(id uint, status model.OrderStatus) error
}

type orderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	stateRepo   repository.StateRepository
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	stateRepo repository.StateRepository,
) OrderService {
	return &orderService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		stateRepo:   stateRepo,
	}
}

// Checkout converts the owner's cart snapshot into a persisted order. Every
// cart key is resolved against the live catalog at this moment; unit prices
// are frozen into the order items so later price changes do not affect it.
// The cart is cleared only after the order transaction commits.
func (s *orderService) Checkout(ctx context.Context, req CheckoutRequest) (*model.Order, error) {
	if req.CustomerName == "" || req.CustomerPhone == "" {
		return nil, ErrInvalidContact
	}

	cart, err := s.stateRepo.LoadCart(ctx, req.Owner)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	logger.Info("Starting checkout", map[string]interface{}{
		"owner":      req.Owner,
		"region":     req.Region,
		"item_count": len(cart),
	})

	items, total, err := s.buildOrderItems(cart, req.Region)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		Number:          util.GenerateOrderNumber(),
		UserID:          req.UserID,
		SessionID:       req.SessionID,
		Region:          req.Region,
		Status:          model.OrderStatusPending,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Comment:         req.Comment,
		TotalAmount:     total,
		Items:           items,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.CreateInTx(tx, order)
	})
	if err != nil {
		logger.Error("Checkout transaction failed", err, map[string]interface{}{
			"owner": req.Owner,
		})
		return nil, err
	}

	if err := s.stateRepo.SaveCart(ctx, req.Owner, model.CartSnapshot{}); err != nil {
		logger.Warn("Order placed but cart was not cleared", map[string]interface{}{
			"owner":  req.Owner,
			"number": order.Number,
			"error":  err.Error(),
		})
	}

	logger.Info("Order placed", map[string]interface{}{
		"number":       order.Number,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.Items),
	})
	return order, nil
}

// CheckoutOneClick places an express order from the owner's one-click slot:
// a single item, no cart involved. The slot is cleared after the order is
// created.
func (s *orderService) CheckoutOneClick(ctx context.Context, req CheckoutRequest) (*model.Order, error) {
	if req.CustomerName == "" || req.CustomerPhone == "" {
		return nil, ErrInvalidContact
	}

	record, err := s.stateRepo.LoadOneClick(ctx, req.Owner)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrOneClickEmpty
	}

	cart := model.CartSnapshot{record.ID: record.Qty}
	items, total, err := s.buildOrderItems(cart, req.Region)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		Number:          util.GenerateOrderNumber(),
		UserID:          req.UserID,
		SessionID:       req.SessionID,
		Region:          req.Region,
		Status:          model.OrderStatusPending,
		OneClick:        true,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Comment:         req.Comment,
		TotalAmount:     total,
		Items:           items,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.CreateInTx(tx, order)
	})
	if err != nil {
		logger.Error("One-click checkout transaction failed", err, map[string]interface{}{
			"owner": req.Owner,
		})
		return nil, err
	}

	if err := s.stateRepo.SaveOneClick(ctx, req.Owner, nil); err != nil {
		logger.Warn("Express order placed but slot was not cleared", map[string]interface{}{
			"owner":  req.Owner,
			"number": order.Number,
			"error":  err.Error(),
		})
	}

	logger.Info("Express order placed", map[string]interface{}{
		"number":       order.Number,
		"total_amount": order.TotalAmount,
	})
	return order, nil
}

func (s *orderService) buildOrderItems(cart model.CartSnapshot, region model.Region) ([]model.OrderItem, float64, error) {
	items := make([]model.OrderItem, 0, len(cart))
	var total float64

	for raw, qty := range cart {
		key := itemkey.Parse(raw)

		product, err := s.productRepo.FindBySlug(key.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Checkout rejected: unknown product in cart", map[string]interface{}{
					"product_id": key.ProductID,
				})
				return nil, 0, ErrOrderItemMissed
			}
			return nil, 0, err
		}

		unitPrice := product.PriceIn(region)
		variantTitle := ""
		if !key.IsBase() {
			variant := product.VariantBySlug(key.VariantID)
			if variant == nil {
				logger.Warn("Checkout rejected: unknown variant in cart", map[string]interface{}{
					"product_id": key.ProductID,
					"variant_id": key.VariantID,
				})
				return nil, 0, ErrOrderItemMissed
			}
			unitPrice += variant.DeltaIn(region)
			variantTitle = variant.Title
		}

		items = append(items, model.OrderItem{
			ProductID:    product.ID,
			ProductSlug:  product.Slug,
			VariantID:    key.VariantID,
			Title:        product.Title,
			VariantTitle: variantTitle,
			Quantity:     qty,
			UnitPrice:    unitPrice,
		})
		total += unitPrice * float64(qty)
	}

	total = math.Round(total*100) / 100
	return items, total, nil
}

func (s *orderService) GetOrder(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrdersForUser(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetOrdersForSession(sessionID string) ([]model.Order, error) {
	return s.orderRepo.FindBySessionID(sessionID)
}

func (s *orderService) UpdateStatus(id uint, status model.OrderStatus) error {
	err := s.orderRepo.UpdateStatus(id, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	return err
}
