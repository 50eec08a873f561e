package useragent

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"
)

// DesktopChrome is the signature sent when no pool is configured.
const DesktopChrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Rotation selects how a Pool picks the next User-Agent.
type Rotation string

const (
	RoundRobin Rotation = "roundrobin"
	Random     Rotation = "random"
)

// ParseRotation maps a config value to a Rotation. Empty means RoundRobin.
func ParseRotation(s string) (Rotation, error) {
	switch r := Rotation(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoundRobin, nil
	case RoundRobin, Random:
		return r, nil
	default:
		return "", fmt.Errorf("useragent: unknown rotation %q", s)
	}
}

// Pool hands out User-Agent strings. A pool of one always returns the same value.
type Pool struct {
	uas     []string
	counter atomic.Uint64
}

// NewPool creates a pool from uas, dropping blank entries. An empty result
// falls back to DesktopChrome alone.
func NewPool(uas []string) *Pool {
	cleaned := make([]string, 0, len(uas))
	for _, ua := range uas {
		if ua = strings.TrimSpace(ua); ua != "" {
			cleaned = append(cleaned, ua)
		}
	}
	if len(cleaned) == 0 {
		cleaned = []string{DesktopChrome}
	}
	return &Pool{uas: cleaned}
}

// Next returns User-Agents in round-robin order. It is safe for concurrent use.
func (p *Pool) Next() string {
	if len(p.uas) == 0 {
		return ""
	}
	idx := p.counter.Add(1) - 1
	return p.uas[idx%uint64(len(p.uas))]
}

// Random returns a User-Agent chosen with crypto/rand.
func (p *Pool) Random() string {
	if len(p.uas) == 0 {
		return ""
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(p.uas))))
	if err != nil {
		return p.Next()
	}
	return p.uas[n.Int64()]
}

// Pick returns a User-Agent using the given rotation.
func (p *Pool) Pick(r Rotation) string {
	if r == Random {
		return p.Random()
	}
	return p.Next()
}
