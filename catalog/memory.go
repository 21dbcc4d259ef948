// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"sync"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/window"
)

type Memory struct {
	mu    sync.RWMutex
	menus map[window.Window]models.Menu
}

var _ Catalog = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{menus: make(map[window.Window]models.Menu)}
}

func (c *Memory) Menu(_ context.Context, w window.Window) (models.Menu, error) {
	if w.IsZero() {
		return models.Menu{}, models.ErrInvalidWindow
	}

	c.mu.RLock()
	m, ok := c.menus[w]
	c.mu.RUnlock()

	if !ok {
		return empty(w), nil
	}
	// hand out copies so callers cannot mutate the stored lists
	return normalize(w, m), nil
}

func (c *Memory) SetMenu(_ context.Context, w window.Window, m models.Menu) (models.Menu, error) {
	if w.IsZero() {
		return models.Menu{}, models.ErrInvalidWindow
	}

	m = normalize(w, m)
	c.mu.Lock()
	c.menus[w] = m
	c.mu.Unlock()
	return normalize(w, m), nil
}
