package storage

import (
	"sync"
	"time"

	"github.com/abhijitkayal/safar-hub-sub001/models"
	"github.com/abhijitkayal/safar-hub-sub001/services"
)

// MemoryBookingStore is a mutex-guarded in-memory services.BookingStore.
// It backs tests and local development without Postgres. The per-listing
// mutexes give WithListingLock the same serialization the gorm store gets
// from row locks.
type MemoryBookingStore struct {
	mu           sync.Mutex
	listingLocks map[uint]*sync.Mutex
	listings     map[uint]*models.Listing
	bookings     map[uint]*models.Booking
	nextID       uint
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{
		listingLocks: make(map[uint]*sync.Mutex),
		listings:     make(map[uint]*models.Listing),
		bookings:     make(map[uint]*models.Booking),
	}
}

// AddListing registers a listing (with its options) for subsequent calls.
func (s *MemoryBookingStore) AddListing(listing *models.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[listing.ID] = listing
}

func (s *MemoryBookingStore) GetListing(id uint) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listings[id], nil
}

func (s *MemoryBookingStore) GetBooking(id uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	if listing, ok := s.listings[b.ListingID]; ok {
		copied.Listing = listing
	}
	return &copied, nil
}

func (s *MemoryBookingStore) ListOverlapping(listingID uint, start, end time.Time) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.ListingID != listingID || b.Status == models.BookingStatusCancelled {
			continue
		}
		if start.Before(b.EndDate) && b.StartDate.Before(end) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *MemoryBookingStore) CreateBooking(b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *MemoryBookingStore) SaveBooking(b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *b
	copied.Listing = nil
	s.bookings[b.ID] = &copied
	return nil
}

func (s *MemoryBookingStore) WithListingLock(listingID uint, fn func(tx services.BookingStore, listing *models.Listing) error) error {
	s.mu.Lock()
	lock, ok := s.listingLocks[listingID]
	if !ok {
		lock = &sync.Mutex{}
		s.listingLocks[listingID] = lock
	}
	listing := s.listings[listingID]
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(s, listing)
}

// MemoryOrderStore is a mutex-guarded in-memory services.OrderStore.
// Transaction serializes on a single store-wide mutex; good enough for
// tests, where atomicity matters more than parallelism.
type MemoryOrderStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	orders   map[uint]*models.Order
	products map[uint]*models.Product
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{
		orders:   make(map[uint]*models.Order),
		products: make(map[uint]*models.Product),
	}
}

func (s *MemoryOrderStore) AddOrder(o *models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *o
	copied.Items = append([]models.OrderItem(nil), o.Items...)
	s.orders[o.ID] = &copied
}

func (s *MemoryOrderStore) AddProduct(p *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	copied.Variants = append([]models.ProductVariant(nil), p.Variants...)
	s.products[p.ID] = &copied
}

func (s *MemoryOrderStore) GetOrder(id uint) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	copied.Items = append([]models.OrderItem(nil), o.Items...)
	return &copied, nil
}

func (s *MemoryOrderStore) SaveOrder(o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *o
	copied.Items = append([]models.OrderItem(nil), o.Items...)
	s.orders[o.ID] = &copied
	return nil
}

func (s *MemoryOrderStore) GetProduct(id uint) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	copied.Variants = append([]models.ProductVariant(nil), p.Variants...)
	return &copied, nil
}

func (s *MemoryOrderStore) SaveProduct(p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	copied.Variants = append([]models.ProductVariant(nil), p.Variants...)
	s.products[p.ID] = &copied
	return nil
}

func (s *MemoryOrderStore) Transaction(fn func(tx services.OrderStore) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}
