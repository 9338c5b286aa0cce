package cart

import (
	"encoding/gob"

	"github.com/gin-contrib/sessions"
)

const sessionKey = "cart"

func init() {
	// The cookie store gob-encodes session values.
	gob.Register([]uint{})
}

// FromSession loads the cart stored in the session, or an empty one. An
// abandoned cart simply disappears with its session.
func FromSession(sess sessions.Session) *Cart {
	items, ok := sess.Get(sessionKey).([]uint)
	if !ok {
		return &Cart{}
	}
	return &Cart{Items: items}
}

// Save writes the cart back to the session.
func Save(sess sessions.Session, c *Cart) error {
	if c.Empty() {
		sess.Delete(sessionKey)
	} else {
		sess.Set(sessionKey, c.Items)
	}
	return sess.Save()
}
