package service

import (
	"errors"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must be positive")
)

type ProductService interface {
	CreateProduct(product *model.Product) error
	GetProductByID(id uint) (*model.Product, error)
	ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
	SetSpecifications(productID uint, spec *model.ProductSpecifications) error
	SetDetails(productID uint, details *model.ProductDetails) error
	SetDownloadableContent(productID uint, content *model.DownloadableContent) error
}

type productService struct {
	productRepo    repository.ProductRepository
	collectionRepo repository.CollectionRepository
}

func NewProductService(productRepo repository.ProductRepository, collectionRepo repository.CollectionRepository) ProductService {
	return &productService{
		productRepo:    productRepo,
		collectionRepo: collectionRepo,
	}
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"name":          product.Name,
		"collection_id": product.CollectionID,
	})

	if !product.Price.IsPositive() {
		return ErrInvalidPrice
	}

	if _, err := s.collectionRepo.FindByID(product.CollectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollectionNotFound
		}
		return err
	}

	return s.productRepo.Create(product)
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) UpdateProduct(product *model.Product) error {
	if _, err := s.GetProductByID(product.ID); err != nil {
		return err
	}

	if !product.Price.IsPositive() {
		return ErrInvalidPrice
	}

	if _, err := s.collectionRepo.FindByID(product.CollectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollectionNotFound
		}
		return err
	}

	return s.productRepo.Update(product)
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.GetProductByID(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

func (s *productService) SetSpecifications(productID uint, spec *model.ProductSpecifications) error {
	if _, err := s.GetProductByID(productID); err != nil {
		return err
	}
	spec.ProductID = productID
	return s.productRepo.UpsertSpecifications(spec)
}

func (s *productService) SetDetails(productID uint, details *model.ProductDetails) error {
	if _, err := s.GetProductByID(productID); err != nil {
		return err
	}
	details.ProductID = productID
	return s.productRepo.UpsertDetails(details)
}

func (s *productService) SetDownloadableContent(productID uint, content *model.DownloadableContent) error {
	if _, err := s.GetProductByID(productID); err != nil {
		return err
	}
	content.ProductID = productID
	return s.productRepo.UpsertDownloadableContent(content)
}
