package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	driverdomain "github.com/haulaware/driverpay/internal/driver/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() driverdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, driver *driverdomain.Driver) error {
	return db.WithContext(ctx).Create(driver).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*driverdomain.Driver, error) {
	var driver driverdomain.Driver
	err := db.WithContext(ctx).Where("id = ?", id).First(&driver).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &driver, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*driverdomain.Driver, error) {
	var driver driverdomain.Driver
	err := db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&driver).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &driver, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB) ([]driverdomain.Driver, error) {
	var drivers []driverdomain.Driver
	err := db.WithContext(ctx).Where("active = ?", true).Order("id ASC").Find(&drivers).Error
	return drivers, err
}
