package controllers_test

import (
	"context"

	"github.com/AdamWiercioch95/Boardgame-Shop/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Mock CatalogService ---

type mockCatalogService struct {
	listFn            func(ctx context.Context, filter models.BoardgameFilter) ([]models.BoardgameView, models.PageMeta, error)
	getFn             func(ctx context.Context, id uuid.UUID) (*models.BoardgameDetail, error)
	createFn          func(ctx context.Context, req *models.BoardgameRequest) (*models.BoardgameView, error)
	updateFn          func(ctx context.Context, id uuid.UUID, req *models.BoardgameRequest) (*models.BoardgameView, error)
	deleteFn          func(ctx context.Context, id uuid.UUID) error
	listCategoriesFn  func(ctx context.Context) ([]models.Category, error)
	createCategoryFn  func(ctx context.Context, name string) (*models.Category, error)
	listPublishersFn  func(ctx context.Context) ([]models.Publisher, error)
	createPublisherFn func(ctx context.Context, name string) (*models.Publisher, error)
}

func (m *mockCatalogService) ListBoardgames(ctx context.Context, filter models.BoardgameFilter) ([]models.BoardgameView, models.PageMeta, error) {
	return m.listFn(ctx, filter)
}
func (m *mockCatalogService) GetBoardgame(ctx context.Context, id uuid.UUID) (*models.BoardgameDetail, error) {
	return m.getFn(ctx, id)
}
func (m *mockCatalogService) CreateBoardgame(ctx context.Context, req *models.BoardgameRequest) (*models.BoardgameView, error) {
	return m.createFn(ctx, req)
}
func (m *mockCatalogService) UpdateBoardgame(ctx context.Context, id uuid.UUID, req *models.BoardgameRequest) (*models.BoardgameView, error) {
	return m.updateFn(ctx, id, req)
}
func (m *mockCatalogService) DeleteBoardgame(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}
func (m *mockCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return m.listCategoriesFn(ctx)
}
func (m *mockCatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	return m.createCategoryFn(ctx, name)
}
func (m *mockCatalogService) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	return m.listPublishersFn(ctx)
}
func (m *mockCatalogService) CreatePublisher(ctx context.Context, name string) (*models.Publisher, error) {
	return m.createPublisherFn(ctx, name)
}

// --- Mock CartService ---

type mockCartService struct {
	getFn    func(ctx context.Context, userID uuid.UUID) (*models.CartView, error)
	addFn    func(ctx context.Context, userID, boardgameID uuid.UUID) (*models.CartView, error)
	removeFn func(ctx context.Context, userID, boardgameID uuid.UUID) (*models.CartView, error)
}

func (m *mockCartService) GetOrCreateCart(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	return &models.Cart{ID: uuid.New(), UserID: userID}, nil
}
func (m *mockCartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.CartView, error) {
	return m.getFn(ctx, userID)
}
func (m *mockCartService) AddItem(ctx context.Context, userID, boardgameID uuid.UUID) (*models.CartView, error) {
	return m.addFn(ctx, userID, boardgameID)
}
func (m *mockCartService) RemoveItem(ctx context.Context, userID, boardgameID uuid.UUID) (*models.CartView, error) {
	return m.removeFn(ctx, userID, boardgameID)
}
func (m *mockCartService) ListLines(context.Context, *models.Cart) ([]models.PricedLine, error) {
	return nil, nil
}
func (m *mockCartService) Total(context.Context, *models.Cart) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// --- Mock OrderService ---

type mockOrderService struct {
	placeFn   func(ctx context.Context, userID uuid.UUID) (*models.CheckoutResult, error)
	listFn    func(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.OrderView, models.PageMeta, error)
	getFn     func(ctx context.Context, userID, orderID uuid.UUID) (*models.OrderView, error)
	listAllFn func(ctx context.Context, page, limit int) ([]models.OrderView, models.PageMeta, error)
}

func (m *mockOrderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.CheckoutResult, error) {
	return m.placeFn(ctx, userID)
}
func (m *mockOrderService) ListOrders(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.OrderView, models.PageMeta, error) {
	return m.listFn(ctx, userID, page, limit)
}
func (m *mockOrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.OrderView, error) {
	return m.getFn(ctx, userID, orderID)
}
func (m *mockOrderService) ListAllOrders(ctx context.Context, page, limit int) ([]models.OrderView, models.PageMeta, error) {
	return m.listAllFn(ctx, page, limit)
}

// --- Mock ReviewService ---

type mockReviewService struct {
	addFn     func(ctx context.Context, userID, boardgameID uuid.UUID, req *models.ReviewRequest) (*models.Review, error)
	updateFn  func(ctx context.Context, userID, reviewID uuid.UUID, req *models.ReviewRequest) (*models.Review, error)
	deleteFn  func(ctx context.Context, userID, reviewID uuid.UUID) error
	getFn     func(ctx context.Context, reviewID uuid.UUID) (*models.Review, error)
	listFn    func(ctx context.Context, boardgameID uuid.UUID, page, limit int) ([]models.Review, models.PageMeta, error)
	mineFn    func(ctx context.Context, userID, boardgameID uuid.UUID) (*models.Review, error)
	averageFn func(ctx context.Context, boardgameID uuid.UUID) (models.RatingSummary, error)
}

func (m *mockReviewService) AddReview(ctx context.Context, userID, boardgameID uuid.UUID, req *models.ReviewRequest) (*models.Review, error) {
	return m.addFn(ctx, userID, boardgameID, req)
}
func (m *mockReviewService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req *models.ReviewRequest) (*models.Review, error) {
	return m.updateFn(ctx, userID, reviewID, req)
}
func (m *mockReviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	return m.deleteFn(ctx, userID, reviewID)
}
func (m *mockReviewService) GetReview(ctx context.Context, reviewID uuid.UUID) (*models.Review, error) {
	return m.getFn(ctx, reviewID)
}
func (m *mockReviewService) ListReviews(ctx context.Context, boardgameID uuid.UUID, page, limit int) ([]models.Review, models.PageMeta, error) {
	return m.listFn(ctx, boardgameID, page, limit)
}
func (m *mockReviewService) GetUserReview(ctx context.Context, userID, boardgameID uuid.UUID) (*models.Review, error) {
	return m.mineFn(ctx, userID, boardgameID)
}
func (m *mockReviewService) AverageRating(ctx context.Context, boardgameID uuid.UUID) (models.RatingSummary, error) {
	return m.averageFn(ctx, boardgameID)
}
