package storage

import (
	"errors"

	"backlink-radar/models"

	"gorm.io/gorm"
)

// BacklinkStore is the persistence contract required by the import and
// aggregation services: atomic per-record append plus a consistent full read.
type BacklinkStore interface {
	Append(link *models.Backlink) error
	All() ([]models.Backlink, error)
}

// GapStore persists gap opportunities for dedup across analyses.
type GapStore interface {
	Exists(linkingDomain string) (bool, error)
	Append(gap *models.GapLink) error
}

// GormBacklinkStore backs BacklinkStore with the postgres database.
type GormBacklinkStore struct {
	DB *gorm.DB
}

func (s *GormBacklinkStore) Append(link *models.Backlink) error {
	return s.DB.Create(link).Error
}

func (s *GormBacklinkStore) All() ([]models.Backlink, error) {
	var links []models.Backlink
	if err := s.DB.Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// GormGapStore backs GapStore with the postgres database.
type GormGapStore struct {
	DB *gorm.DB
}

func (s *GormGapStore) Exists(linkingDomain string) (bool, error) {
	var gap models.GapLink
	err := s.DB.Where("linking_domain = ?", linkingDomain).First(&gap).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (s *GormGapStore) Append(gap *models.GapLink) error {
	return s.DB.Create(gap).Error
}
