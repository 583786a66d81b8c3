package storage

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abhijitkayal/safar-hub-sub001/models"
	"github.com/abhijitkayal/safar-hub-sub001/services"
)

// GormOrderStore implements services.OrderStore over Postgres. Products are
// loaded with a row lock inside transactions so concurrent restocks of the
// same product serialize.
type GormOrderStore struct {
	db   *gorm.DB
	inTx bool
}

func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

func (s *GormOrderStore) GetOrder(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *GormOrderStore) SaveOrder(o *models.Order) error {
	return s.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
}

func (s *GormOrderStore) GetProduct(id uint) (*models.Product, error) {
	q := s.db
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product models.Product
	err := q.Preload("Variants").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *GormOrderStore) SaveProduct(p *models.Product) error {
	return s.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
}

func (s *GormOrderStore) Transaction(fn func(tx services.OrderStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormOrderStore{db: tx, inTx: true})
	})
}
