package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const sessionCookie = "sid"

func (s *Server) sign(payload []byte) string {
	h := hmac.New(sha256.New, s.opts.SessionKey)
	h.Write(payload)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// readSessionID returns the visitor id carried by a valid signed cookie.
func (s *Server) readSessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return "", false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", false
	}
	want, _ := base64.RawURLEncoding.DecodeString(s.sign(payload))
	if !hmac.Equal(sig, want) {
		return "", false
	}
	id := string(payload)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func (s *Server) writeSessionID(w http.ResponseWriter, id string) {
	payload := []byte(id)
	val := s.sign(payload) + "." + base64.RawURLEncoding.EncodeToString(payload)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    val,
		Path:     "/",
		MaxAge:   int(s.opts.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// ensureSession returns the current visitor id, issuing a new cookie when the
// request has none or carries a tampered one. The cookie is refreshed on every
// call so its lifetime follows the stored session's TTL.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) string {
	id, ok := s.readSessionID(r)
	if !ok {
		id = s.storefront.NewSessionID()
	}
	s.writeSessionID(w, id)
	return id
}
