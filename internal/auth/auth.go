package auth

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"RCCalc/internal/repo"
	"RCCalc/internal/web"

	"github.com/ansel1/merry"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type contextKey string

const userIDKey contextKey = "userID"

const (
	cookieName    = "session_token"
	tokenLifetime = 30 * 24 * time.Hour
	minPassword   = 6
)

var (
	ErrUnauthorized = merry.New("unauthorized").WithHTTPCode(http.StatusUnauthorized)
	ErrBadLogin     = merry.New("invalid login or password").WithHTTPCode(http.StatusUnauthorized)
)

type Auth struct {
	JWTKey []byte
	Users  repo.UserRepository
	Log    *zap.Logger
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserID returns the authenticated user stored by Middleware.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok && id != 0
}

func WithUserID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type IPRateLimiter struct {
	clients map[string]*client
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		clients: make(map[string]*client),
		r:       r,
		b:       b,
	}
}

func (i *IPRateLimiter) getLimiter(ip string, now time.Time) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	c, exists := i.clients[ip]
	if !exists {
		c = &client{limiter: rate.NewLimiter(i.r, i.b)}
		i.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// Cleanup forgets clients idle for longer than maxIdle.
func (i *IPRateLimiter) Cleanup(maxIdle time.Duration, now time.Time) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	n := 0
	for ip, c := range i.clients {
		if now.Sub(c.lastSeen) > maxIdle {
			delete(i.clients, ip)
			n++
		}
	}
	return n
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (i *IPRateLimiter) RunCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			i.Cleanup(maxIdle, now)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LimitMiddleware rate limits per client address.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.getLimiter(clientIP(r), time.Now()).Allow() {
			http.Error(w, "Too Many Requests. Try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// IssueToken signs a session token for the user.
func (a *Auth) IssueToken(userID int, login string, now time.Time) (string, time.Time, error) {
	exp := now.Add(tokenLifetime)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"login":   login,
		"exp":     exp.Unix(),
	})
	s, err := token.SignedString(a.JWTKey)
	return s, exp, err
}

// ParseToken validates a session token and returns its user id.
func (a *Auth) ParseToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return a.JWTKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, ErrUnauthorized.Here()
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrUnauthorized.Here()
	}
	idFloat, ok := claims["user_id"].(float64)
	if !ok || idFloat <= 0 {
		return 0, ErrUnauthorized.Here()
	}
	if login, ok := claims["login"].(string); !ok || login == "" {
		return 0, ErrUnauthorized.Here()
	}
	return int(idFloat), nil
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// Middleware accepts a bearer token or the session cookie.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := tokenFromRequest(r)
		if tok == "" {
			web.WriteError(w, a.Log, ErrUnauthorized.Here())
			return
		}
		id, err := a.ParseToken(tok)
		if err != nil {
			web.WriteError(w, a.Log, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
	})
}

func (a *Auth) respondWithToken(w http.ResponseWriter, status, userID int, login string) {
	tok, exp, err := a.IssueToken(userID, login, time.Now())
	if err != nil {
		web.WriteError(w, a.Log, merry.Prepend(err, "sign token"))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tok,
		Expires:  exp,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	web.WriteJSON(w, a.Log, status, TokenResponse{Token: tok, ExpiresAt: exp})
}

func (a *Auth) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, a.Log, err)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	req.Email = strings.TrimSpace(req.Email)
	if req.Login == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Login, email and password required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < minPassword {
		http.Error(w, "Password too short", http.StatusBadRequest)
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		web.WriteError(w, a.Log, merry.Prepend(err, "hash password"))
		return
	}
	id, err := a.Users.CreateUser(r.Context(), req.Login, req.Email, hashed)
	if err != nil {
		web.WriteError(w, a.Log, err)
		return
	}
	if a.Log != nil {
		a.Log.Info("user registered", zap.Int("user_id", id), zap.String("login", req.Login))
	}
	a.respondWithToken(w, http.StatusCreated, id, req.Login)
}

func (a *Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, a.Log, err)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login and password required", http.StatusBadRequest)
		return
	}

	id, storedHash, err := a.Users.GetByLogin(r.Context(), req.Login)
	if err != nil {
		web.WriteError(w, a.Log, err)
		return
	}
	if id == 0 || bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)) != nil {
		web.WriteError(w, a.Log, ErrBadLogin.Here())
		return
	}
	a.respondWithToken(w, http.StatusOK, id, req.Login)
}
