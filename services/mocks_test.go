package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AdamWiercioch95/Boardgame-Shop/cache"
	"github.com/AdamWiercioch95/Boardgame-Shop/models"
	"github.com/AdamWiercioch95/Boardgame-Shop/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memStore backs every mock repository so cart and order mocks see the
// same lines.
type memStore struct {
	mu         sync.Mutex
	boardgames map[uuid.UUID]*models.Boardgame
	publishers map[uuid.UUID]*models.Publisher
	categories map[uuid.UUID]*models.Category
	carts      map[uuid.UUID]*models.Cart
	lines      map[uuid.UUID][]*models.CartLine
	orders     []*models.Order
	reviews    map[uuid.UUID]*models.Review

	findCalls    int
	findHook     func(ctx context.Context) error
	placeErr     error
	createErr    error
	deleteErr    error
	skipPreCheck bool
}

func newMemStore() *memStore {
	return &memStore{
		boardgames: map[uuid.UUID]*models.Boardgame{},
		publishers: map[uuid.UUID]*models.Publisher{},
		categories: map[uuid.UUID]*models.Category{},
		carts:      map[uuid.UUID]*models.Cart{},
		lines:      map[uuid.UUID][]*models.CartLine{},
		reviews:    map[uuid.UUID]*models.Review{},
	}
}

func (s *memStore) addBoardgame(name, price string) *models.Boardgame {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &models.Boardgame{ID: uuid.New(), Name: name, Price: decimal.RequireFromString(price)}
	s.boardgames[b.ID] = b
	return b
}

func (s *memStore) setPrice(id uuid.UUID, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boardgames[id].Price = decimal.RequireFromString(price)
}

func (s *memStore) cartLines(userID uuid.UUID) []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return nil
	}
	out := make([]models.CartLine, 0)
	for _, l := range s.lines[cart.ID] {
		out = append(out, *l)
	}
	return out
}

// --- carts ---

type memCartRepo struct{ s *memStore }

func (r *memCartRepo) GetOrCreate(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cart, ok := r.s.carts[userID]
	if !ok {
		cart = &models.Cart{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
		r.s.carts[userID] = cart
	}
	c := *cart
	return &c, nil
}

func (r *memCartRepo) AddLine(_ context.Context, cartID, boardgameID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.boardgames[boardgameID]; !ok {
		return repository.ErrBoardgameNotFound
	}
	for _, l := range r.s.lines[cartID] {
		if l.BoardgameID == boardgameID {
			l.Quantity++
			return nil
		}
	}
	r.s.lines[cartID] = append(r.s.lines[cartID], &models.CartLine{
		ID: uuid.New(), CartID: cartID, BoardgameID: boardgameID, Quantity: 1, CreatedAt: time.Now(),
	})
	return nil
}

func (r *memCartRepo) RemoveLine(_ context.Context, cartID, boardgameID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lines := r.s.lines[cartID]
	for i, l := range lines {
		if l.BoardgameID != boardgameID {
			continue
		}
		if l.Quantity > 1 {
			l.Quantity--
			return l.Quantity, nil
		}
		r.s.lines[cartID] = append(lines[:i], lines[i+1:]...)
		return 0, nil
	}
	return 0, repository.ErrLineNotFound
}

func (r *memCartRepo) priced(cartID uuid.UUID) []models.PricedLine {
	out := []models.PricedLine{}
	for _, l := range r.s.lines[cartID] {
		b := r.s.boardgames[l.BoardgameID]
		out = append(out, models.PricedLine{
			ID: l.ID, BoardgameID: l.BoardgameID, Name: b.Name, Quantity: l.Quantity, Price: b.Price,
		})
	}
	return out
}

func (r *memCartRepo) ListLines(_ context.Context, cartID uuid.UUID) ([]models.PricedLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.priced(cartID), nil
}

func (r *memCartRepo) Total(_ context.Context, cartID uuid.UUID) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, l := range r.priced(cartID) {
		total = total.Add(models.LineSubtotal(l.Price, l.Quantity))
	}
	return total.Round(2), nil
}

// --- orders ---

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) PlaceFromCart(_ context.Context, cartID uuid.UUID) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.placeErr != nil {
		return nil, r.s.placeErr
	}

	var cart *models.Cart
	for _, c := range r.s.carts {
		if c.ID == cartID {
			cart = c
		}
	}
	if cart == nil {
		return nil, gorm.ErrRecordNotFound
	}

	lines := (&memCartRepo{s: r.s}).priced(cartID)
	if len(lines) == 0 {
		return nil, repository.ErrEmptyCart
	}

	order := &models.Order{ID: uuid.New(), UserID: cart.UserID, CreatedAt: time.Now()}
	for _, l := range lines {
		order.Lines = append(order.Lines, models.OrderLine{
			ID: uuid.New(), OrderID: order.ID, BoardgameID: l.BoardgameID, Quantity: l.Quantity, UnitPrice: l.Price,
		})
	}
	r.s.orders = append(r.s.orders, order)
	delete(r.s.lines, cartID)
	return order, nil
}

// withCurrent copies an order and attaches current boardgame rows.
func (r *memOrderRepo) withCurrent(o *models.Order) models.Order {
	c := *o
	c.Lines = make([]models.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		l.Boardgame = *r.s.boardgames[l.BoardgameID]
		c.Lines[i] = l
	}
	return c
}

func (r *memOrderRepo) FindByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Order
	for i := len(r.s.orders) - 1; i >= 0; i-- {
		if r.s.orders[i].UserID == userID {
			out = append(out, r.withCurrent(r.s.orders[i]))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) FindByIDForUser(_ context.Context, id, userID uuid.UUID) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.ID == id && o.UserID == userID {
			c := r.withCurrent(o)
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOrderRepo) FindAll(_ context.Context, _, _ int) ([]models.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Order
	for _, o := range r.s.orders {
		out = append(out, r.withCurrent(o))
	}
	return out, int64(len(out)), nil
}

// --- catalog ---

type memBoardgameRepo struct{ s *memStore }

func (r *memBoardgameRepo) List(_ context.Context, _ models.BoardgameFilter) ([]models.Boardgame, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Boardgame
	for _, b := range r.s.boardgames {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

// FindByID runs findHook outside the store lock, so a hook may block or
// call back into other mocks.
func (r *memBoardgameRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Boardgame, error) {
	r.s.mu.Lock()
	r.s.findCalls++
	hook := r.s.findHook
	r.s.mu.Unlock()
	if hook != nil {
		if err := hook(ctx); err != nil {
			return nil, err
		}
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.boardgames[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *b
	return &c, nil
}

func (r *memBoardgameRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.boardgames[id]
	return ok, nil
}

func (r *memBoardgameRepo) Create(_ context.Context, b *models.Boardgame) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = uuid.New()
	c := *b
	r.s.boardgames[b.ID] = &c
	return nil
}

func (r *memBoardgameRepo) Update(_ context.Context, b *models.Boardgame) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.boardgames[b.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *b
	r.s.boardgames[b.ID] = &c
	return nil
}

func (r *memBoardgameRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.deleteErr != nil {
		return r.s.deleteErr
	}
	if _, ok := r.s.boardgames[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.boardgames, id)
	return nil
}

type memCategoryRepo struct{ s *memStore }

func (r *memCategoryRepo) List(_ context.Context) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Category
	for _, c := range r.s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCategoryRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Category
	for _, id := range ids {
		if c, ok := r.s.categories[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCategoryRepo) Create(_ context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return repository.ErrDuplicateName
		}
	}
	c.ID = uuid.New()
	cc := *c
	r.s.categories[c.ID] = &cc
	return nil
}

type memPublisherRepo struct{ s *memStore }

func (r *memPublisherRepo) List(_ context.Context) ([]models.Publisher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Publisher
	for _, p := range r.s.publishers {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPublisherRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Publisher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.publishers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *p
	return &c, nil
}

func (r *memPublisherRepo) Create(_ context.Context, p *models.Publisher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.publishers {
		if existing.Name == p.Name {
			return repository.ErrDuplicateName
		}
	}
	p.ID = uuid.New()
	c := *p
	r.s.publishers[p.ID] = &c
	return nil
}

// --- reviews ---

type memReviewRepo struct{ s *memStore }

func (r *memReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createErr != nil {
		return r.s.createErr
	}
	for _, existing := range r.s.reviews {
		if existing.UserID == review.UserID && existing.BoardgameID == review.BoardgameID {
			return repository.ErrDuplicateReview
		}
	}
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	c := *review
	r.s.reviews[review.ID] = &c
	return nil
}

func (r *memReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review, ok := r.s.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *review
	return &c, nil
}

func (r *memReviewRepo) FindByUserAndBoardgame(_ context.Context, userID, boardgameID uuid.UUID) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.skipPreCheck {
		for _, review := range r.s.reviews {
			if review.UserID == userID && review.BoardgameID == boardgameID {
				c := *review
				return &c, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memReviewRepo) ListByBoardgame(_ context.Context, boardgameID uuid.UUID, _, _ int) ([]models.Review, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Review
	for _, review := range r.s.reviews {
		if review.BoardgameID == boardgameID {
			out = append(out, *review)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *memReviewRepo) Update(_ context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.reviews[review.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Rating = review.Rating
	existing.Comment = review.Comment
	return nil
}

func (r *memReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

func (r *memReviewRepo) RatingStats(_ context.Context, boardgameID uuid.UUID) (int64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count, sum int64
	for _, review := range r.s.reviews {
		if review.BoardgameID == boardgameID {
			count++
			sum += int64(review.Rating)
		}
	}
	return count, sum, nil
}

// --- collaborators ---

type memCache struct {
	mu          sync.Mutex
	items       map[uuid.UUID]models.BoardgameDetail
	versions    map[uuid.UUID]int64
	invalidated []uuid.UUID
}

func newMemCache() *memCache {
	return &memCache{
		items:    map[uuid.UUID]models.BoardgameDetail{},
		versions: map[uuid.UUID]int64{},
	}
}

func (c *memCache) cached(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[id]
	return ok
}

func (c *memCache) Version(_ context.Context, id uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[id], nil
}

func (c *memCache) GetBoardgame(_ context.Context, id uuid.UUID) (*models.BoardgameDetail, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.items[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &d, nil
}

func (c *memCache) SetBoardgame(_ context.Context, d *models.BoardgameDetail, version int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[d.ID] != version {
		return cache.ErrStaleVersion
	}
	c.items[d.ID] = *d
	return nil
}

func (c *memCache) InvalidateBoardgame(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	c.versions[id]++
	c.invalidated = append(c.invalidated, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.OrderPlacedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, evt models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
	values map[string]float64
	err    error
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{counts: map[string]int{}, values: map[string]float64{}}
}

func (m *countingMetrics) IsEnabled() bool { return true }

func (m *countingMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[name]++
	return m.err
}

func (m *countingMetrics) RecordLatency(_ context.Context, name string, _ time.Duration, _ map[string]string) error {
	return m.RecordCount(context.Background(), name, nil)
}

func (m *countingMetrics) RecordValue(_ context.Context, name string, value float64, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[name]++
	m.values[name] += value
	return m.err
}

func (m *countingMetrics) value(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[name]
}

func (m *countingMetrics) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}
