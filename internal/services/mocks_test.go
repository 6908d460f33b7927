package services_test

import (
	"context"

	"vitrina/internal/models"
	"vitrina/internal/repositories"
	"vitrina/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter repositories.ProductFilter, page, pageSize int) ([]models.ProductListing, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	items, _ := args.Get(0).([]models.ProductListing)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *MockProductRepository) GetInAction(ctx context.Context, limit int) ([]models.Product, error) {
	args := m.Called(ctx, limit)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByName(ctx context.Context, name string) (*models.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTaxonomyRepository is a mock implementation of repositories.TaxonomyRepository
type MockTaxonomyRepository struct {
	mock.Mock
}

func (m *MockTaxonomyRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *MockTaxonomyRepository) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockTaxonomyRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockTaxonomyRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockTaxonomyRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockTaxonomyRepository) DeleteCategory(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTaxonomyRepository) ListCreators(ctx context.Context) ([]models.Creator, error) {
	args := m.Called(ctx)
	creators, _ := args.Get(0).([]models.Creator)
	return creators, args.Error(1)
}

func (m *MockTaxonomyRepository) GetCreatorByID(ctx context.Context, id uint) (*models.Creator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Creator), args.Error(1)
}

func (m *MockTaxonomyRepository) CreateCreator(ctx context.Context, creator *models.Creator) error {
	return m.Called(ctx, creator).Error(0)
}

func (m *MockTaxonomyRepository) UpdateCreator(ctx context.Context, creator *models.Creator) error {
	return m.Called(ctx, creator).Error(0)
}

func (m *MockTaxonomyRepository) DeleteCreator(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Increment(ctx context.Context, userID, productID uint, delta int) error {
	return m.Called(ctx, userID, productID, delta).Error(0)
}

func (m *MockCartRepository) Adjust(ctx context.Context, userID, productID uint, delta int) error {
	return m.Called(ctx, userID, productID, delta).Error(0)
}

func (m *MockCartRepository) Remove(ctx context.Context, userID, productID uint) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *MockCartRepository) TotalQuantity(ctx context.Context, userID uint) (int, bool, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockCartRepository) Lines(ctx context.Context, userID uint) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]models.CartItem)
	return items, args.Error(1)
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) EnsureExists(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockCityRepository is a mock implementation of repositories.CityRepository
type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) GetAll(ctx context.Context) ([]models.City, error) {
	args := m.Called(ctx)
	cities, _ := args.Get(0).([]models.City)
	return cities, args.Error(1)
}

func (m *MockCityRepository) GetByName(ctx context.Context, name string) (*models.City, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.City), args.Error(1)
}

func (m *MockCityRepository) Create(ctx context.Context, city *models.City) error {
	return m.Called(ctx, city).Error(0)
}

func (m *MockCityRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(upload *services.ImageUpload) (string, error) {
	args := m.Called(upload)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Remove(name string) error {
	return m.Called(name).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type MockWeatherLookup struct {
	mock.Mock
}

func (m *MockWeatherLookup) Current(ctx context.Context, city string) (*models.Weather, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Weather), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CheckoutURL(ctx context.Context, req services.CheckoutRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
