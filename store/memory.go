// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/window"
)

// Memory keeps confirmations in process, bucketed by window.
// Each bucket is a sync.Map keyed by employee id so that submissions for
// different keys never contend on a shared lock. Values are stored by
// value and never written again.
type Memory struct {
	windows sync.Map // window.Window -> *sync.Map (employee id -> models.Confirmation)
	now     func() time.Time
}

var _ ConfirmationStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) bucket(w window.Window, create bool) *sync.Map {
	if v, ok := m.windows.Load(w); ok {
		return v.(*sync.Map)
	}
	if !create {
		return nil
	}
	v, _ := m.windows.LoadOrStore(w, &sync.Map{})
	return v.(*sync.Map)
}

func (m *Memory) Submit(ctx context.Context, employeeID string, w window.Window, prefs models.Preferences) (models.Confirmation, error) {
	if err := checkKey(employeeID, w); err != nil {
		return models.Confirmation{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Confirmation{}, err
	}

	c := newConfirmation(employeeID, w, prefs, m.now())
	if _, loaded := m.bucket(w, true).LoadOrStore(employeeID, c); loaded {
		return models.Confirmation{}, models.ErrAlreadySubmitted
	}
	return c, nil
}

func (m *Memory) Has(ctx context.Context, employeeID string, w window.Window) (bool, error) {
	_, err := m.Get(ctx, employeeID, w)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *Memory) Get(ctx context.Context, employeeID string, w window.Window) (models.Confirmation, error) {
	if err := checkKey(employeeID, w); err != nil {
		return models.Confirmation{}, err
	}
	b := m.bucket(w, false)
	if b == nil {
		return models.Confirmation{}, ErrNotFound
	}
	v, ok := b.Load(employeeID)
	if !ok {
		return models.Confirmation{}, ErrNotFound
	}
	return v.(models.Confirmation), nil
}

func (m *Memory) List(ctx context.Context, w window.Window) ([]models.Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []models.Confirmation{}
	b := m.bucket(w, false)
	if b == nil {
		return out, nil
	}
	b.Range(func(_, v any) bool {
		out = append(out, v.(models.Confirmation))
		return true
	})
	return out, nil
}

func (m *Memory) ListByEmployee(ctx context.Context, employeeID string, from, to window.Window) ([]models.Confirmation, error) {
	if err := checkHistory(employeeID, from, to); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []models.Confirmation{}
	for _, w := range window.Days(from, to) {
		b := m.bucket(w, false)
		if b == nil {
			continue
		}
		if v, ok := b.Load(employeeID); ok {
			out = append(out, v.(models.Confirmation))
		}
	}
	return out, nil
}

func (m *Memory) Purge(ctx context.Context, before window.Window) (int64, error) {
	var removed int64
	m.windows.Range(func(k, v any) bool {
		if !k.(window.Window).Before(before) {
			return true
		}
		v.(*sync.Map).Range(func(_, _ any) bool {
			removed++
			return true
		})
		m.windows.Delete(k)
		return true
	})
	return removed, nil
}
