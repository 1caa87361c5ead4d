package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Render is the record of one labeled image.
type Render struct {
	ID        string    `gorm:"primarykey" csv:"id"`
	CreatedAt time.Time `csv:"created_at"`
	UpdatedAt time.Time `csv:"-"`

	Input  string `gorm:"not null;default:''" csv:"input"`
	Output string `gorm:"not null;default:''" csv:"output"`
	Format string `gorm:"not null;default:''" csv:"format"`
	Text   string `gorm:"not null;default:''" csv:"text"`
	Anchor string `gorm:"not null;default:''" csv:"anchor"`
	Font   string `gorm:"not null;default:''" csv:"font"`

	Width       int `gorm:"not null;default:0" csv:"width"`
	Height      int `gorm:"not null;default:0" csv:"height"`
	LabelWidth  int `gorm:"not null;default:0" csv:"label_width"`
	LabelHeight int `gorm:"not null;default:0" csv:"label_height"`
	X           int `gorm:"not null;default:0" csv:"x"`
	Y           int `gorm:"not null;default:0" csv:"y"`

	Uploaded bool `gorm:"not null;default:false" csv:"uploaded"`
}

func (s *Store) GetRender(ctx context.Context, id string) (*Render, error) {
	var v Render
	if err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: failed to get render %s: %w", id, err)
	}
	return &v, nil
}

func (s *Store) SetRender(ctx context.Context, v *Render) error {
	if err := s.db.WithContext(ctx).Save(v).Error; err != nil {
		return fmt.Errorf("storage: failed to set render %s: %w", v.ID, err)
	}
	return nil
}

func (s *Store) DeleteRender(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&Render{ID: id}, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("storage: failed to delete render %s: %w", id, err)
	}
	return nil
}

func (s *Store) ListRenders(ctx context.Context, page, size int, orderBy string, filter ...Filter) ([]*Render, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * size
	vs := []*Render{}

	q := s.db.WithContext(ctx).Offset(offset).Limit(size)
	for _, f := range filter {
		q = q.Where(f.Query, f.Args...)
	}
	if orderBy != "" {
		q = q.Order(orderBy)
	}
	if err := q.Find(&vs).Error; err != nil {
		return nil, fmt.Errorf("storage: failed to list renders: %w", err)
	}
	return vs, nil
}
