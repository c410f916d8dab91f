// Package session encodes and decodes the identity carried by the session cookie.
//
// The cookie value is the JSON object {"userId":..,"email":..}; gin URL-encodes it on write.
// When a secret is configured the JSON is followed by "." and a base64url HMAC-SHA256 of the
// JSON, and unsigned values are rejected.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	CookieName    = "session"
	DefaultMaxAge = 7 * 24 * time.Hour
)

var (
	ErrUnauthenticated = errors.New("session missing")
	ErrInvalidSession  = errors.New("session invalid")
)

// Identity 已认证用户，显式传递给下游
type Identity struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	c := &Codec{}
	if secret != "" {
		c.secret = []byte(secret)
	}
	return c
}

func (c *Codec) Signed() bool {
	return len(c.secret) > 0
}

func (c *Codec) Encode(id Identity) (string, error) {
	body, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	if !c.Signed() {
		return string(body), nil
	}
	return string(body) + "." + c.sign(body), nil
}

// Decode 空值返回 ErrUnauthenticated，无法解析或签名不符返回 ErrInvalidSession
func (c *Codec) Decode(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrUnauthenticated
	}

	payload := raw
	if c.Signed() {
		idx := strings.LastIndex(raw, ".")
		if idx <= 0 {
			return Identity{}, ErrInvalidSession
		}
		payload = raw[:idx]
		if !hmac.Equal([]byte(raw[idx+1:]), []byte(c.sign([]byte(payload)))) {
			return Identity{}, ErrInvalidSession
		}
	}

	var id Identity
	if err := json.Unmarshal([]byte(payload), &id); err != nil {
		return Identity{}, ErrInvalidSession
	}
	if id.UserID <= 0 || id.Email == "" {
		return Identity{}, ErrInvalidSession
	}
	return id, nil
}

func (c *Codec) sign(payload []byte) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
