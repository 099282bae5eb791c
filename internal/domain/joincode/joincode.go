// Package joincode generates unique, human-shareable join codes for newly
// created teams. Codes take the form PREFIX-NNNL: a five-letter prefix derived
// from the team name, a three-digit number, and one upper-case letter.
package joincode

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/okian/roundup/internal/adapters/store"
	"github.com/okian/roundup/pkg/logger"
	"github.com/okian/roundup/pkg/metrics"
)

const (
	prefixLength = 5
	// fillerAlphabet deterministically pads prefixes derived from short names.
	fillerAlphabet = "ABCDE"
	// fallbackPrefix is used when the team name contains no letters at all.
	fallbackPrefix = "SQUAD"

	// maxAttempts bounds candidate generation. Saturated namespaces and
	// degenerate random sources must fail loudly instead of spinning.
	maxAttempts = 50

	numberMin = 100
	numberMax = 999

	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// teamsCollection is scanned for codes currently held by live teams;
	// codesCollection holds one reservation document per issued code.
	teamsCollection = "teams"
	codesCollection = "joincodes"
)

// Option applies a configuration option to the Allocator.
type Option func(*Allocator)

// WithSeed makes candidate generation deterministic, for tests.
func WithSeed(seed int64) Option {
	return func(a *Allocator) {
		a.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // join codes are memorable, not secret
	}
}

// WithLogger sets a custom logger for the allocator.
func WithLogger(log logger.Logger) Option {
	return func(a *Allocator) {
		if log != nil {
			a.log = log
		}
	}
}

// Allocator issues join codes, avoiding collisions against all codes live for
// a tenant and reserving the winner through the store's conditional create.
type Allocator struct {
	store store.Store
	log   logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an Allocator backed by the given store.
func New(st store.Store, opts ...Option) *Allocator {
	a := &Allocator{
		store: st,
		log:   logger.Get(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // join codes are memorable, not secret
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Prefix derives the five-letter code prefix from a team name: alphabetic
// characters only, upper-cased, padded with a fixed filler alphabet when
// short, replaced by a fallback word when no letters remain.
func Prefix(teamName string) string {
	var letters []rune
	for _, r := range strings.ToUpper(teamName) {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
		}
	}
	if len(letters) == 0 {
		return fallbackPrefix
	}
	if len(letters) < prefixLength {
		letters = append(letters, []rune(fillerAlphabet)...)
	}
	return string(letters[:prefixLength])
}

// LiveCodes returns the case-normalized set of join codes currently assigned
// to the tenant's teams.
func (a *Allocator) LiveCodes(ctx context.Context, tenant string) (map[string]struct{}, error) {
	docs, err := a.store.ListUnder(ctx, tenant, teamsCollection)
	if err != nil {
		return nil, err
	}

	codes := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if code, ok := doc.Data["joinCode"].(string); ok && code != "" {
			codes[strings.ToUpper(code)] = struct{}{}
		}
	}
	return codes, nil
}

// Allocate issues a join code for a new team in the tenant. The set of live
// codes is read first; each candidate not in the set is then reserved with a
// conditional create keyed by (tenant, code), which collapses the remaining
// check-then-act window into a single atomic write. When the store cannot
// reserve (not configured, unavailable), the pre-read set is the only guard;
// that read failure is logged and swallowed, never surfaced to the caller.
func (a *Allocator) Allocate(ctx context.Context, tenant, teamName string) (string, error) {
	existing, err := a.LiveCodes(ctx, tenant)
	if err != nil {
		a.log.Warn(ctx, "could not read live join codes; proceeding without collision set",
			logger.String("tenant", tenant),
			logger.Error(err))
		existing = map[string]struct{}{}
	}

	prefix := Prefix(teamName)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := a.candidate(prefix)
		if _, taken := existing[candidate]; taken {
			metrics.RecordJoinCodeRetry()
			continue
		}

		err := a.store.CreateIfAbsent(ctx, tenant, codesCollection, candidate, map[string]any{
			"teamName":   teamName,
			"reservedAt": time.Now().UTC(),
		})
		switch {
		case err == nil:
			return candidate, nil
		case errors.Is(err, store.ErrAlreadyExists):
			metrics.RecordJoinCodeRetry()
			continue
		default:
			a.log.Debug(ctx, "join code reservation unavailable; relying on collision set",
				logger.String("tenant", tenant),
				logger.Error(err))
			return candidate, nil
		}
	}

	metrics.RecordJoinCodeExhausted()
	return "", fmt.Errorf("%w: gave up after %d attempts for prefix %s", ErrExhausted, maxAttempts, prefix)
}

// candidate builds PREFIX-NNNL with a pseudo-random number and letter. The
// rng is shared, so access is serialized.
func (a *Allocator) candidate(prefix string) string {
	a.mu.Lock()
	number := numberMin + a.rng.Intn(numberMax-numberMin+1)
	letter := uppercase[a.rng.Intn(len(uppercase))]
	a.mu.Unlock()
	return fmt.Sprintf("%s-%d%c", prefix, number, letter)
}
