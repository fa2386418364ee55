package services

import (
	"context"
	"time"

	"registrobo/dto"
	"registrobo/metrics"
	"registrobo/model"
)

type boMetrics struct {
	metrics *metrics.Metrics
	svc     BOService
}

// NewBOServiceWithMetrics wraps svc so every call is counted and timed.
func NewBOServiceWithMetrics(svc BOService, m *metrics.Metrics) BOService {
	return &boMetrics{metrics: m, svc: svc}
}

func (m *boMetrics) Create(ctx context.Context, policialID uint, req dto.CreateBORequest) (bo *model.BO, err error) {
	defer func(s time.Time) {
		m.metrics.ObserveCall("Create", s, err)
		if err == nil {
			m.metrics.BOCreated()
		}
	}(time.Now())
	return m.svc.Create(ctx, policialID, req)
}

func (m *boMetrics) List(ctx context.Context) (bos []model.BO, err error) {
	defer func(s time.Time) {
		m.metrics.ObserveCall("List", s, err)
	}(time.Now())
	return m.svc.List(ctx)
}

func (m *boMetrics) Get(ctx context.Context, id uint) (bo *model.BO, err error) {
	defer func(s time.Time) {
		m.metrics.ObserveCall("Get", s, err)
	}(time.Now())
	return m.svc.Get(ctx, id)
}
