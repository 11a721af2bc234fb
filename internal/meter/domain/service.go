package domain

import (
	"context"
	"errors"
)

type InstallMeterRequest struct {
	ConsumerID string
}

type RecordReadingRequest struct {
	MeterID string
	Reading int64
}

type SetHealthRequest struct {
	MeterID string
	Health  string
}

type Service interface {
	Install(context.Context, InstallMeterRequest) (Meter, error)
	RecordReading(context.Context, RecordReadingRequest) (Meter, error)
	SetHealth(context.Context, SetHealthRequest) (Meter, error)
	GetByID(ctx context.Context, id string) (Meter, error)
	ListByConsumer(ctx context.Context, consumerID string) ([]Meter, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidReading = errors.New("invalid_reading")
	ErrInvalidHealth  = errors.New("invalid_health")
	ErrNotFound       = errors.New("not_found")
)
