package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"gorm.io/gorm"
)

// ErrNotOpen reports that a terminal transition found the thread already
// closed; the row predicate, not a prior read, is the authority.
var ErrNotOpen = errors.New("enquiry is no longer open")

type EnquiryRepository interface {
	// FindOrCreate upserts the thread row for its key; created reports whether
	// this call brought the thread into existence.
	FindOrCreate(ctx context.Context, enq *model.Enquiry) (created bool, err error)
	FindByKey(ctx context.Context, key string) (*model.Enquiry, error)
	ListByTailor(ctx context.Context, tailorID string) ([]model.Enquiry, error)
	AppendMessage(ctx context.Context, key string, msg *model.Message) error
	ListMessages(ctx context.Context, key string) ([]model.Message, error)
	LastMessage(ctx context.Context, key string) (*model.Message, error)
	// Reject and Accept apply the terminal transition and its side effects in a
	// single transaction; either everything commits or nothing does.
	Reject(ctx context.Context, key string, msg *model.Message) error
	Accept(ctx context.Context, key string, order *model.Order, msg *model.Message) error
	SetDB(db *gorm.DB)
}

type enquiryRepository struct {
	db *gorm.DB
}

func NewEnquiryRepository(db *gorm.DB) EnquiryRepository {
	return &enquiryRepository{db: db}
}

func (r *enquiryRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *enquiryRepository) FindOrCreate(ctx context.Context, enq *model.Enquiry) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	if enq.Status == "" {
		enq.Status = model.EnquiryStatusOpen
	}
	if enq.LastUpdated.IsZero() {
		enq.LastUpdated = time.Now()
	}
	res := r.db.WithContext(ctx).
		Where("thread_key = ?", enq.Key).
		FirstOrCreate(enq)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *enquiryRepository) FindByKey(ctx context.Context, key string) (*model.Enquiry, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var enq model.Enquiry
	if err := r.db.WithContext(ctx).First(&enq, "thread_key = ?", key).Error; err != nil {
		return nil, err
	}
	return &enq, nil
}

func (r *enquiryRepository) ListByTailor(ctx context.Context, tailorID string) ([]model.Enquiry, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Enquiry
	if err := r.db.WithContext(ctx).
		Where("tailor_id = ?", tailorID).
		Order("last_updated DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// AppendMessage inserts the message as its own row and bumps the thread's
// last_updated. Inserts never rewrite earlier messages, so concurrent senders
// cannot lose each other's appends.
func (r *enquiryRepository) AppendMessage(ctx context.Context, key string, msg *model.Message) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	msg.ThreadKey = key
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Enquiry{}).
			Where("thread_key = ?", key).
			Update("last_updated", time.Now()).Error
	})
}

func (r *enquiryRepository) ListMessages(ctx context.Context, key string) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("thread_key = ?", key).
		Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *enquiryRepository) LastMessage(ctx context.Context, key string) (*model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msg model.Message
	err := r.db.WithContext(ctx).
		Where("thread_key = ?", key).
		Order("id DESC").
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *enquiryRepository) Reject(ctx context.Context, key string, msg *model.Message) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	msg.ThreadKey = key
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Enquiry{}).
			Where("thread_key = ? AND status = ?", key, model.EnquiryStatusOpen).
			Updates(map[string]interface{}{
				"status":       model.EnquiryStatusRejected,
				"last_updated": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		// A concurrent accept/reject got there first; roll the message back.
		if res.RowsAffected == 0 {
			return ErrNotOpen
		}
		return nil
	})
}

func (r *enquiryRepository) Accept(ctx context.Context, key string, order *model.Order, msg *model.Message) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	msg.ThreadKey = key
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Enquiry{}).
			Where("thread_key = ? AND status = ?", key, model.EnquiryStatusOpen).
			Updates(map[string]interface{}{
				"status":       model.EnquiryStatusAccepted,
				"last_updated": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		// Losing a concurrent accept rolls back the order and message too.
		if res.RowsAffected == 0 {
			return ErrNotOpen
		}
		return nil
	})
}
