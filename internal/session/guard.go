package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"eskimo_admin/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrLoginRequired = errors.New("login required")
	ErrUnknownStore  = errors.New("unknown store")
)

const defaultGuardInterval = 300 * time.Millisecond

type TokenReader interface {
	Token() string
}

// Guard decides whether protected commands may run. It is a client-side
// convenience only; the backend authorizes every request on its own.
type Guard struct {
	tokens   TokenReader
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu      sync.Mutex
	checked bool
	usable  bool
	subs    map[int]chan bool
	nextSub int
}

func NewGuard(cfg config.Config, tokens *Manager, logger *zap.Logger) *Guard {
	return newGuard(tokens, cfg.GuardInterval, logger)
}

func newGuard(tokens TokenReader, interval time.Duration, logger *zap.Logger) *Guard {
	if interval <= 0 {
		interval = defaultGuardInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		tokens:   tokens,
		interval: interval,
		now:      time.Now,
		logger:   logger.Named("guard"),
		subs:     map[int]chan bool{},
	}
}

// TokenUsable reports whether a stored token may be used. The payload is
// decoded without verification; a payload that cannot be decoded counts as
// enabled.
func TokenUsable(token string, now time.Time) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}

	claims, ok := payloadClaims(token)
	if !ok {
		return true
	}

	if enabled, ok := claims["isEnabled"]; ok && enabled != nil {
		if strings.EqualFold(strings.TrimSpace(fmt.Sprint(enabled)), "false") {
			return false
		}
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !exp.After(now) {
		return false
	}

	return true
}

// payloadClaims decodes the payload segment only. The header is not looked
// at, so an unknown or missing alg does not hide the claims.
func payloadClaims(token string) (jwt.MapClaims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}
	raw, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, false
	}
	return claims, true
}

// Check evaluates the stored token once and publishes the result if it
// changed.
func (g *Guard) Check() bool {
	usable := TokenUsable(g.tokens.Token(), g.now())
	g.publish(usable)
	return usable
}

func (g *Guard) Require() error {
	if !g.Check() {
		return ErrLoginRequired
	}
	return nil
}

// Subscribe returns a channel receiving the latest usable state whenever it
// changes. Slow readers only ever see the most recent value.
func (g *Guard) Subscribe() (<-chan bool, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextSub
	g.nextSub++
	ch := make(chan bool, 1)
	g.subs[id] = ch
	if g.checked {
		ch <- g.usable
	}

	return ch, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subs, id)
	}
}

// Run re-checks the session on every tick until ctx is done.
func (g *Guard) Run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.Check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Check()
		}
	}
}

func (g *Guard) publish(usable bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.checked && g.usable == usable {
		return
	}
	g.checked = true
	g.usable = usable
	g.logger.Debug("session state changed", zap.Bool("usable", usable))

	for _, ch := range g.subs {
		select {
		case <-ch:
		default:
		}
		ch <- usable
	}
}
