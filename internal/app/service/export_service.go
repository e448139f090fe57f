package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ExportService renders admin data dumps as XLSX workbooks.
type ExportService interface {
	ExportProducts() (*bytes.Buffer, error)
	ExportOrders(filter repository.OrderFilter) (*bytes.Buffer, error)
}

type exportService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

func NewExportService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) ExportService {
	return &exportService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func (s *exportService) ExportProducts() (*bytes.Buffer, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"ID", "Name", "Price", "Stock", "Collection ID", "Published", "Created At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, product := range products {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), product.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), product.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), product.Price.String())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), product.Stock)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), product.CollectionID)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), product.Published)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), product.CreatedAt.Format(time.RFC3339))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render product export", err)
		return nil, err
	}

	logger.Info("Product export generated", map[string]interface{}{
		"rows": len(products),
	})
	return buf, nil
}

func (s *exportService) ExportOrders(filter repository.OrderFilter) (*bytes.Buffer, error) {
	// Exports ignore pagination and dump the whole filtered set.
	filter.Page = repository.PageRequest{PageNumber: 1, PageSize: 100000}

	orders, _, err := s.orderRepo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Order Number", "Email", "Status", "Total", "Items", "Paid At", "Created At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, order := range orders {
		row := i + 2
		paidAt := ""
		if order.PaidAt != nil {
			paidAt = order.PaidAt.Format(time.RFC3339)
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), order.OrderNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), order.Email)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), order.Status.Name)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), order.TotalAmount.String())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), len(order.Items))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), paidAt)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), order.CreatedAt.Format(time.RFC3339))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render order export", err)
		return nil, err
	}

	logger.Info("Order export generated", map[string]interface{}{
		"rows": len(orders),
	})
	return buf, nil
}
