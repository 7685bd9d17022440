package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"inputdash/internal/cache"
	"inputdash/internal/classify"
	dom "inputdash/internal/domain"
	"inputdash/internal/repo"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound     = errors.New("input not found")
	ErrInvalidOrder = errors.New("invalid order")
	ErrEmptyText    = errors.New("text must not be empty")
)

type InputService struct {
	repo       repo.InputRepo
	cache      *cache.InputCache
	classifier classify.Classifier
	log        *zap.Logger
	sf         singleflight.Group
}

// NewInputService creates an InputService. If c is nil, caching is disabled.
func NewInputService(r repo.InputRepo, c *cache.InputCache, cl classify.Classifier, log *zap.Logger) *InputService {
	if cl == nil {
		cl = classify.Keyword{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &InputService{repo: r, cache: c, classifier: cl, log: log}
}

// Create classifies text and stores it as a new open input.
func (s *InputService) Create(ctx context.Context, userID int64, text string) (dom.Input, error) {
	if strings.TrimSpace(text) == "" {
		return dom.Input{}, ErrEmptyText
	}
	c, err := s.classifier.Classify(ctx, text, "")
	if err != nil {
		return dom.Input{}, err
	}
	in, err := s.repo.Create(ctx, dom.Input{
		UserID:   userID,
		Text:     text,
		Category: c.Category,
		Intent:   c.Intent,
		Severity: c.Severity,
		Source:   c.Source,
		Status:   dom.StatusOpen,
	})
	if err != nil {
		return dom.Input{}, err
	}
	s.invalidateCache(ctx, userID)
	return in, nil
}

func (s *InputService) Get(ctx context.Context, userID, id int64) (dom.Input, error) {
	in, err := s.repo.GetByID(ctx, userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return dom.Input{}, ErrNotFound
	}
	return in, err
}

// List returns the user's live inputs in the requested order.
func (s *InputService) List(ctx context.Context, userID int64, order dom.ListOrder) ([]dom.Input, error) {
	if order == "" {
		order = dom.OrderDashboard
	}
	if !order.Valid() {
		return nil, ErrInvalidOrder
	}
	if s.cache == nil {
		return s.repo.List(ctx, userID, order)
	}
	gen, err := s.cache.Generation(ctx, userID)
	if err != nil {
		s.log.Debug("input cache generation read failed", zap.Error(err))
		return s.repo.List(ctx, userID, order)
	}
	key := "list:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(gen, 10) + ":" + string(order)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, userID, gen, order); err == nil && list != nil {
			return list, nil
		} else if err != nil {
			s.log.Debug("input cache read failed", zap.Error(err))
		}
		list, err := s.repo.List(ctx, userID, order)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetList(ctx, userID, gen, order, list); err != nil {
			s.log.Debug("input cache write failed", zap.Error(err))
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Input), nil
}

// Update applies a partial update. A new text triggers re-classification:
// explicitly provided fields win, the rest come from the classifier, and the
// current source is the classifier's source hint.
func (s *InputService) Update(ctx context.Context, userID, id int64, patch dom.InputPatch) (dom.Input, error) {
	in, err := s.Get(ctx, userID, id)
	if err != nil {
		return dom.Input{}, err
	}

	if patch.Text != nil {
		if strings.TrimSpace(*patch.Text) == "" {
			return dom.Input{}, ErrEmptyText
		}
		in.Text = *patch.Text
		hint := in.Source
		if patch.Source != nil {
			hint = *patch.Source
		}
		c, err := s.classifier.Classify(ctx, in.Text, hint)
		if err != nil {
			return dom.Input{}, err
		}
		in.Category = pick(patch.Category, c.Category)
		in.Intent = pick(patch.Intent, c.Intent)
		in.Severity = pick(patch.Severity, c.Severity)
		in.Source = pick(patch.Source, c.Source)
	} else {
		in.Category = pick(patch.Category, in.Category)
		in.Intent = pick(patch.Intent, in.Intent)
		in.Severity = pick(patch.Severity, in.Severity)
		in.Source = pick(patch.Source, in.Source)
	}
	in.Status = pick(patch.Status, in.Status)

	out, err := s.repo.Update(ctx, in)
	if errors.Is(err, repo.ErrNotFound) {
		return dom.Input{}, ErrNotFound
	}
	if err != nil {
		return dom.Input{}, err
	}
	s.invalidateCache(ctx, userID)
	return out, nil
}

// Delete soft-deletes the input.
func (s *InputService) Delete(ctx context.Context, userID, id int64) error {
	err := s.repo.SoftDelete(ctx, userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *InputService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.log.Warn("input cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func pick[T any](override *T, fallback T) T {
	if override != nil {
		return *override
	}
	return fallback
}
