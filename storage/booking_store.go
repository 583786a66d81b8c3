package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abhijitkayal/safar-hub-sub001/models"
	"github.com/abhijitkayal/safar-hub-sub001/services"
)

// GormBookingStore implements services.BookingStore over Postgres.
// WithListingLock serializes admissions per listing with a SELECT ... FOR
// UPDATE on the listing row inside a transaction; admissions on different
// listings do not contend.
type GormBookingStore struct {
	db *gorm.DB
}

func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{db: db}
}

func (s *GormBookingStore) GetListing(id uint) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Preload("Options").First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *GormBookingStore) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Preload("Listing").Preload("Listing.Options").First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *GormBookingStore) ListOverlapping(listingID uint, start, end time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.
		Where("listing_id = ? AND status <> ? AND start_date < ? AND end_date > ?",
			listingID, models.BookingStatusCancelled, end, start).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *GormBookingStore) CreateBooking(b *models.Booking) error {
	return s.db.Create(b).Error
}

func (s *GormBookingStore) SaveBooking(b *models.Booking) error {
	return s.db.Save(b).Error
}

func (s *GormBookingStore) WithListingLock(listingID uint, fn func(tx services.BookingStore, listing *models.Listing) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Options").
			First(&listing, listingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fn(&GormBookingStore{db: tx}, nil)
		}
		if err != nil {
			return err
		}
		return fn(&GormBookingStore{db: tx}, &listing)
	})
}
