package slug

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	// maxAttempts bounds the suffixed retry loop after the base slug collides.
	maxAttempts = 10

	// suffixLength is the random suffix appended on each retry.
	suffixLength = 6

	// fallbackBase and fallbackSuffixLength form the unconditional final
	// fallback when every suffixed attempt collides.
	fallbackBase         = "wedding"
	fallbackSuffixLength = 8
)

// ErrOracleUnavailable is returned when a uniqueness probe fails and the
// allocator is configured to abort rather than assume the slug is taken.
var ErrOracleUnavailable = errors.New("slug availability check failed")

// Oracle reports whether a slug is already in use. Implemented by the
// invitation store; each call is one read against the database. The probe is
// a UX optimization; the store's unique index is the real arbiter, and a
// benign race between two concurrent allocations surfaces there as a
// write-time conflict the caller retries through the allocator.
type Oracle interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Partner carries the name fields the allocator derives candidates from.
type Partner struct {
	FullName string
	Nickname string
}

// nameToken returns the normalized preferred token: nickname when present,
// full name otherwise.
func (p Partner) nameToken() string {
	if p.Nickname != "" {
		return Normalize(p.Nickname)
	}
	return Normalize(p.FullName)
}

// Allocator produces unique, validated slugs for new invitations.
type Allocator struct {
	validator *Validator
	oracle    Oracle

	// AssumeTakenOnError controls the contract for oracle failures during
	// the uniqueness probe. False (the default) aborts the allocation with
	// ErrOracleUnavailable. True treats the errored probe as "taken" and
	// keeps going.
	AssumeTakenOnError bool

	// rnd overrides the suffix generator. Nil (the default) uses the
	// goroutine-safe top-level rand functions, so one Allocator can serve
	// concurrent requests; tests inject a seeded generator for
	// deterministic sequences.
	rnd *rand.Rand
}

// NewAllocator creates an Allocator using the given validator and oracle.
func NewAllocator(v *Validator, o Oracle) *Allocator {
	return &Allocator{validator: v, oracle: o}
}

// Allocate resolves a unique slug for an invitation.
//
// When custom is non-empty it is normalized and validated as-is; validation
// failures abort the allocation (custom candidates are never silently
// repaired beyond normalization). When custom is empty, the four fixed-order
// name combinations are tried against the oracle, then the shorter single
// name, then the literal fallback token. Whatever base survives gets up to
// ten random suffixes on collision before the unconditional final fallback.
//
// No write happens here; the caller persists the returned slug, and a
// write-time unique violation means another allocation won the race.
func (a *Allocator) Allocate(ctx context.Context, bride, groom Partner, custom string) (string, error) {
	if custom != "" {
		base := Normalize(custom)
		if err := a.validator.Validate(base); err != nil {
			return "", err
		}
		return a.resolve(ctx, base)
	}

	combos := a.eligibleCombinations(bride, groom)
	if len(combos) == 0 {
		return a.resolve(ctx, a.singleNameBase(bride, groom))
	}

	for _, c := range combos {
		taken, err := a.probe(ctx, c)
		if err != nil {
			return "", err
		}
		if !taken {
			return c, nil
		}
	}

	// Every combination is taken: retry the first one with suffixes.
	return a.suffixed(ctx, combos[0])
}

// eligibleCombinations returns the couple-name combinations, in fixed order,
// that satisfy the length bounds and are not reserved. Format is guaranteed
// by construction.
func (a *Allocator) eligibleCombinations(bride, groom Partner) []string {
	b, g := bride.nameToken(), groom.nameToken()
	if b == "" || g == "" {
		return nil
	}

	combos := []string{
		b + "-" + g,
		g + "-" + b,
		b + "-and-" + g,
		g + "-and-" + b,
	}
	eligible := combos[:0]
	for _, c := range combos {
		if len(c) < MinLength || len(c) > MaxLength {
			continue
		}
		if a.validator.IsReserved(c) {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}

// singleNameBase falls back to the shorter of the two name tokens, provided
// it meets the length bounds and is not reserved, and to the literal fallback
// token otherwise. A reserved single name (say, "dashboard") would otherwise
// be shadowed by the named routes registered before the public catch-all,
// leaving the page unreachable.
func (a *Allocator) singleNameBase(bride, groom Partner) string {
	b, g := bride.nameToken(), groom.nameToken()
	shorter := b
	if len(g) < len(b) {
		shorter = g
	}
	if len(shorter) >= MinLength && len(shorter) <= MaxLength && !a.validator.IsReserved(shorter) {
		return shorter
	}
	return fallbackBase
}

// resolve probes base and, on collision, retries with suffixes.
func (a *Allocator) resolve(ctx context.Context, base string) (string, error) {
	taken, err := a.probe(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return a.suffixed(ctx, base)
}

// suffixed drives the candidate generator past the bare base (already probed
// by the caller) for up to maxAttempts suffixed probes, then returns the
// final escape hatch: a fresh random slug, deliberately not probed. A genuine
// collision there is accepted as practically impossible and would still be
// rejected by the store's unique index at write time.
func (a *Allocator) suffixed(ctx context.Context, base string) (string, error) {
	next := Candidates(base, a.rnd)
	next() // skip the bare base

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := next()
		taken, err := a.probe(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return fallbackBase + "-" + randomSuffix(a.rnd, fallbackSuffixLength), nil
}

// probe wraps one oracle read with the configured error contract.
func (a *Allocator) probe(ctx context.Context, candidate string) (bool, error) {
	taken, err := a.oracle.SlugExists(ctx, candidate)
	if err != nil {
		if a.AssumeTakenOnError {
			return true, nil
		}
		return false, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	return taken, nil
}

// Candidates returns a restartable generator over candidate slugs for base:
// the bare base first, then base with a fresh random suffix on every
// subsequent call, indefinitely. Suffixed candidates stay within MaxLength,
// trimming the base when needed, so every one still passes validation.
// A nil rnd draws from the goroutine-safe top-level rand functions.
// Generation is decoupled from the uniqueness probe so it can be tested
// without a store.
func Candidates(base string, rnd *rand.Rand) func() string {
	trimmed := base
	if max := MaxLength - suffixLength - 1; len(trimmed) > max {
		trimmed = strings.TrimRight(trimmed[:max], "-")
	}

	first := true
	return func() string {
		if first {
			first = false
			return base
		}
		return trimmed + "-" + randomSuffix(rnd, suffixLength)
	}
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomSuffix draws n characters from the suffix alphabet. A nil rnd uses
// the top-level rand functions, which are safe for concurrent callers.
func randomSuffix(rnd *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		if rnd != nil {
			b[i] = suffixAlphabet[rnd.IntN(len(suffixAlphabet))]
		} else {
			b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
		}
	}
	return string(b)
}
