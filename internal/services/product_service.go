package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shoeshop/internal/models"
	"shoeshop/internal/repositories"

	"github.com/tealeg/xlsx"
)

// ProductService handles the product catalog.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// GetAllProducts retrieves every product, unfiltered and unpaginated.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// CreateProduct stores a new product as submitted.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	publish(s.events, EventProductAdded, product)
	return nil
}

var exportHeaders = []string{
	"_id", "productName", "shoeType", "price", "rating",
	"description", "image", "color", "size",
}

// ExportCatalog writes every product to w as an xlsx workbook with a single
// "Products" sheet. List fields are joined with ", ".
func (s *ProductService) ExportCatalog(ctx context.Context, w io.Writer) error {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.ProductName)
		row.AddCell().SetString(p.ShoeType)
		row.AddCell().SetString(p.Price)
		row.AddCell().SetString(strconv.FormatFloat(p.Rating, 'f', -1, 64))
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(strings.Join(p.Image, ", "))
		row.AddCell().SetString(strings.Join(p.Color, ", "))
		row.AddCell().SetString(strings.Join(p.Size, ", "))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
