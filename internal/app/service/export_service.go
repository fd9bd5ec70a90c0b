package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/repository"
	"github.com/dsaidov/mebelplaza-backend/internal/storage"
	"github.com/dsaidov/mebelplaza-backend/pkg/itemkey"
	"github.com/dsaidov/mebelplaza-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var ErrStorageNotConfigured = errors.New("object storage is not configured")

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportService builds order reports for back-office use.
type ExportService interface {
	ExportOrders(ctx context.Context, from, to time.Time) (string, error)
}

type exportService struct {
	orderRepo repository.OrderRepository
	store     storage.ObjectStorage
}

func NewExportService(orderRepo repository.OrderRepository, store storage.ObjectStorage) ExportService {
	return &exportService{
		orderRepo: orderRepo,
		store:     store,
	}
}

// ExportOrders renders the orders placed in [from, to) into an xlsx workbook,
// uploads it to object storage and returns the file URL.
func (s *exportService) ExportOrders(ctx context.Context, from, to time.Time) (string, error) {
	if s.store == nil {
		return "", ErrStorageNotConfigured
	}

	orders, err := s.orderRepo.FindInRange(from, to)
	if err != nil {
		return "", err
	}

	logger.Info("Exporting orders", map[string]interface{}{
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
		"count": len(orders),
	})

	body, err := renderOrdersWorkbook(orders)
	if err != nil {
		logger.Error("Failed to render orders workbook", err)
		return "", err
	}

	key := fmt.Sprintf("exports/orders-%s-%s.xlsx",
		time.Now().Format("20060102"), uuid.New().String()[:8])
	url, err := s.store.Upload(ctx, key, xlsxContentType, body)
	if err != nil {
		logger.Error("Failed to upload orders workbook", err, map[string]interface{}{
			"key": key,
		})
		return "", err
	}

	logger.Info("Orders exported", map[string]interface{}{
		"key":    key,
		"orders": len(orders),
	})
	return url, nil
}

func renderOrdersWorkbook(orders []model.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Номер", "Дата", "Статус", "Регион", "Клиент", "Телефон",
		"Адрес", "Товар", "Количество", "Цена", "Сумма заказа",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, order := range orders {
		for _, item := range order.Items {
			values := []interface{}{
				order.Number,
				order.CreatedAt.Format("2006-01-02 15:04"),
				string(order.Status),
				string(order.Region),
				order.CustomerName,
				order.CustomerPhone,
				order.ShippingAddress,
				itemkey.Encode(item.ProductSlug, item.VariantID),
				item.Quantity,
				item.UnitPrice,
				order.TotalAmount,
			}
			for i, v := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
