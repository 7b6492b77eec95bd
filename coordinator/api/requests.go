package api

import (
	"github.com/rodneyosodo/flock/pkg/api"
	"github.com/rodneyosodo/flock/pkg/errors"
)

type entityReq struct {
	id string
}

func (e *entityReq) validate() error {
	if e.id == "" {
		return errors.ErrEmptyKey
	}

	return nil
}

type roundReq struct {
	round uint64
}

func (r *roundReq) validate() error {
	if r.round == 0 {
		return errors.ErrInvalidData
	}

	return nil
}

type listEntityReq struct {
	offset, limit uint64
}

func (e *listEntityReq) validate() error {
	if e.limit > api.MaxLimitSize {
		return errors.ErrInvalidData
	}

	return nil
}
