package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/voltara/pkg/db/pagination"
)

type RegisterConsumerRequest struct {
	Name     string
	Address  string
	PlanCode string
}

type ListConsumerRequest struct {
	PageToken string
	PageSize  int
	PlanCode  string
	Status    string
}

type ListConsumerResponse struct {
	pagination.PageInfo
	Consumers []Consumer `json:"consumers"`
}

type Service interface {
	Register(context.Context, RegisterConsumerRequest) (Consumer, error)
	Deactivate(ctx context.Context, id string) (Consumer, error)
	GetByID(ctx context.Context, id string) (Consumer, error)
	List(context.Context, ListConsumerRequest) (ListConsumerResponse, error)
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidAddress     = errors.New("invalid_address")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrAlreadyDeactivated = errors.New("already_deactivated")
)
