package shared

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionManager orchestrates cookie based sessions backed by Redis.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

// Session holds per-request session data.
type Session struct {
	ID     string
	UserID string
	isNew  bool
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		client:     client,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// CookieName exposes the configured cookie name.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

// IsNew reports whether the session was created for this request.
func (s *Session) IsNew() bool {
	return s != nil && s.isNew
}

// Load resolves the session referenced by the request cookie. Requests without
// a cookie, or whose session has expired in Redis, get a fresh anonymous
// session.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return &Session{ID: uuid.NewString(), isNew: true}, nil
		}
		return nil, err
	}
	userID, err := sm.client.Get(ctx, sm.redisKey(cookie.Value)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Session{ID: cookie.Value, isNew: true}, nil
		}
		return nil, err
	}
	return &Session{ID: cookie.Value, UserID: userID}, nil
}

// Issue binds a user to a brand new session and sets the cookie. The session
// id is always rotated on login.
func (sm *SessionManager) Issue(ctx context.Context, w http.ResponseWriter, userID string) (*Session, error) {
	sess := &Session{ID: uuid.NewString(), UserID: userID, isNew: true}
	if err := sm.client.Set(ctx, sm.redisKey(sess.ID), userID, sm.ttl).Err(); err != nil {
		return nil, err
	}
	http.SetCookie(w, sm.cookie(sess.ID, sm.ttl))
	return sess, nil
}

// Destroy removes the session from Redis and expires the cookie.
func (sm *SessionManager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}
	if err := sm.client.Del(ctx, sm.redisKey(sess.ID)).Err(); err != nil {
		return err
	}
	http.SetCookie(w, sm.cookie("", -time.Hour))
	return nil
}

func (sm *SessionManager) cookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (sm *SessionManager) redisKey(id string) string {
	return "session:" + id
}
