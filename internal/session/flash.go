// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

// CookieName is the name of the flash session cookie.
const CookieName = "sk_flash"

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

func init() {
	gob.Register(Flash{})
}

// Flasher queues flash messages on one request and hands them out on the
// next page render.
type Flasher struct {
	store sessions.Store
}

// NewFlasher returns a Flasher over any gorilla sessions store.
func NewFlasher(store sessions.Store) *Flasher {
	return &Flasher{store: store}
}

// load fetches the flash session. A cookie that no longer decodes, for
// example after a key rotation, yields a fresh session.
func (f *Flasher) load(r *http.Request) (*sessions.Session, error) {
	sess, err := f.store.Get(r, CookieName)
	if sess != nil {
		if err != nil {
			slog.Debug("discarding undecodable flash cookie", "error", err)
		}
		return sess, nil
	}
	return nil, err
}

// Add queues a message. It must be called before the response is written.
func (f *Flasher) Add(w http.ResponseWriter, r *http.Request, typ, message string) error {
	sess, err := f.load(r)
	if err != nil {
		return fmt.Errorf("load flash session: %w", err)
	}
	sess.AddFlash(Flash{Type: typ, Message: message})
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save flash session: %w", err)
	}
	return nil
}

// Pop returns and clears every queued message.
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	sess, err := f.load(r)
	if err != nil {
		return nil, fmt.Errorf("load flash session: %w", err)
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}
	if err := sess.Save(r, w); err != nil {
		return nil, fmt.Errorf("save flash session: %w", err)
	}

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if fl, ok := v.(Flash); ok {
			out = append(out, fl)
		}
	}
	return out, nil
}
