package domain

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type Customer struct {
	bun.BaseModel `bun:"table:customers"`

	ID        string    `bun:"id,pk" json:"id"`
	FirstName string    `bun:"first_name,notnull" json:"firstName"`
	LastName  string    `bun:"last_name,notnull" json:"lastName"`
	Email     string    `bun:"email,notnull" json:"email"`
	Phone     int64     `bun:"phone,notnull" json:"phone"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (c *Customer) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	return stamp(&c.ID, &c.CreatedAt)
}

func (c *Customer) AfterScanRow(ctx context.Context) error {
	c.CreatedAt = c.CreatedAt.UTC()
	return nil
}

type Vehicle struct {
	bun.BaseModel `bun:"table:vehicles"`

	ID        string    `bun:"id,pk" json:"id"`
	VIN       string    `bun:"vin,notnull" json:"vin"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (v *Vehicle) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	return stamp(&v.ID, &v.CreatedAt)
}

func (v *Vehicle) AfterScanRow(ctx context.Context) error {
	v.CreatedAt = v.CreatedAt.UTC()
	return nil
}

type Location struct {
	bun.BaseModel `bun:"table:locations"`

	ID        string    `bun:"id,pk" json:"id"`
	Line1     string    `bun:"line1,notnull" json:"line1"`
	Line2     string    `bun:"line2" json:"line2,omitempty"`
	City      string    `bun:"city,notnull" json:"city"`
	State     string    `bun:"state,notnull" json:"state"`
	ZipCode   string    `bun:"zip_code,notnull" json:"zipCode"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (l *Location) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	return stamp(&l.ID, &l.CreatedAt)
}

func (l *Location) AfterScanRow(ctx context.Context) error {
	l.CreatedAt = l.CreatedAt.UTC()
	return nil
}

func stamp(id *string, createdAt *time.Time) error {
	if *id == "" {
		v, err := newID()
		if err != nil {
			return err
		}
		*id = v
	}
	if createdAt.IsZero() {
		*createdAt = now()
	}
	return nil
}
