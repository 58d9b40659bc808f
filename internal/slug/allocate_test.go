package slug

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"testing"
)

// fakeOracle reports slugs in the taken set as existing. When failing is set,
// every probe errors. When everything is set, every probe reports taken.
// Safe for concurrent probes.
type fakeOracle struct {
	mu         sync.Mutex
	taken      map[string]bool
	failing    bool
	everything bool
	probes     []string
}

func (f *fakeOracle) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes = append(f.probes, slug)
	if f.failing {
		return false, errors.New("connection refused")
	}
	if f.everything {
		return true, nil
	}
	return f.taken[slug], nil
}

func (f *fakeOracle) probeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.probes)
}

func newTestAllocator(o Oracle) *Allocator {
	a := NewAllocator(NewValidator(ReservedWords), o)
	a.rnd = rand.New(rand.NewPCG(1, 0))
	return a
}

func TestAllocate_FirstCombinationFree(t *testing.T) {
	oracle := &fakeOracle{}
	a := newTestAllocator(oracle)

	got, err := a.Allocate(context.Background(), Partner{Nickname: "Ann"}, Partner{Nickname: "Bo"}, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got != "ann-bo" {
		t.Errorf("slug = %q, want %q", got, "ann-bo")
	}
	if len(oracle.probes) != 1 {
		t.Errorf("probes = %d, want 1", len(oracle.probes))
	}
}

func TestAllocate_SecondCombinationWhenFirstTaken(t *testing.T) {
	oracle := &fakeOracle{taken: map[string]bool{"ann-bo": true}}
	a := newTestAllocator(oracle)

	got, err := a.Allocate(context.Background(), Partner{Nickname: "Ann"}, Partner{Nickname: "Bo"}, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got != "bo-ann" {
		t.Errorf("slug = %q, want %q (second candidate in fixed order)", got, "bo-ann")
	}
	if len(oracle.probes) != 2 {
		t.Errorf("probes = %d, want 2", len(oracle.probes))
	}
}

func TestAllocate_AllCombinationsTaken(t *testing.T) {
	oracle := &fakeOracle{taken: map[string]bool{
		"ann-bo":     true,
		"bo-ann":     true,
		"ann-and-bo": true,
		"bo-and-ann": true,
	}}
	a := newTestAllocator(oracle)

	got, err := a.Allocate(context.Background(), Partner{Nickname: "Ann"}, Partner{Nickname: "Bo"}, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	// The first combination gets a six-character suffix.
	want := regexp.MustCompile(`^ann-bo-[a-z0-9]{6}$`)
	if !want.MatchString(got) {
		t.Errorf("slug = %q, want match %s", got, want)
	}
	// The suffixed result must itself pass validation.
	if err := NewValidator(ReservedWords).Validate(got); err != nil {
		t.Errorf("suffixed slug %q fails validation: %v", got, err)
	}
}

func TestAllocate_NicknameFallsBackToFullName(t *testing.T) {
	a := newTestAllocator(&fakeOracle{})

	got, err := a.Allocate(context.Background(),
		Partner{FullName: "Siti Nurhaliza"},
		Partner{FullName: "Budi Santoso", Nickname: "Budi"}, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got != "siti-nurhaliza-budi" {
		t.Errorf("slug = %q, want %q", got, "siti-nurhaliza-budi")
	}
}

func TestAllocate_OverlongCombinationsUseShorterName(t *testing.T) {
	a := newTestAllocator(&fakeOracle{})

	got, err := a.Allocate(context.Background(),
		Partner{FullName: "Annabella Rosalinda Kusumawardhani"},
		Partner{FullName: "Bartholomew Maximilian Wirasatyanagara"}, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got != "annabella-rosalinda-kusumawardhani" {
		t.Errorf("slug = %q, want the shorter single name", got)
	}
}

func TestAllocate_TinyNamesFallBackToWedding(t *testing.T) {
	a := newTestAllocator(&fakeOracle{})

	got, err := a.Allocate(context.Background(), Partner{Nickname: "A"}, Partner{Nickname: "B"}, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	// "a-b" passes the length minimum, so shrink further: empty names.
	if got != "a-b" {
		t.Errorf("slug = %q, want %q", got, "a-b")
	}

	got, err = a.Allocate(context.Background(), Partner{}, Partner{}, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got != fallbackBase {
		t.Errorf("slug = %q, want %q", got, fallbackBase)
	}
}

func TestAllocate_CustomCandidate(t *testing.T) {
	tests := []struct {
		name    string
		custom  string
		wantErr error
		want    string
	}{
		{name: "normalized and accepted", custom: "My Wedding!!", want: "my-wedding"},
		{name: "reserved after normalization", custom: "Admin", wantErr: ErrReserved},
		{name: "too short after normalization", custom: "a!", wantErr: ErrTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAllocator(&fakeOracle{})
			got, err := a.Allocate(context.Background(), Partner{}, Partner{}, tt.custom)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Allocate(%q) err = %v, want %v", tt.custom, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Allocate(%q): %v", tt.custom, err)
			}
			if got != tt.want {
				t.Errorf("Allocate(%q) = %q, want %q", tt.custom, got, tt.want)
			}
		})
	}
}

func TestAllocate_CustomSuffixOnCollision(t *testing.T) {
	oracle := &fakeOracle{taken: map[string]bool{"my-wedding": true}}
	a := newTestAllocator(oracle)

	got, err := a.Allocate(context.Background(), Partner{}, Partner{}, "my-wedding")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	want := regexp.MustCompile(`^my-wedding-[a-z0-9]{6}$`)
	if !want.MatchString(got) {
		t.Errorf("slug = %q, want match %s", got, want)
	}
}

func TestAllocate_ExhaustedFallsBackToRandom(t *testing.T) {
	oracle := &fakeOracle{everything: true}
	a := newTestAllocator(oracle)

	got, err := a.Allocate(context.Background(), Partner{Nickname: "Ann"}, Partner{Nickname: "Bo"}, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	want := regexp.MustCompile(`^wedding-[a-z0-9]{8}$`)
	if !want.MatchString(got) {
		t.Errorf("slug = %q, want match %s", got, want)
	}
	// Four combinations plus ten suffixed attempts; the final fallback is
	// deliberately not probed.
	if n := len(oracle.probes); n != 4+maxAttempts {
		t.Errorf("probes = %d, want %d", n, 4+maxAttempts)
	}
}

func TestAllocate_ConcurrentSuffixAllocations(t *testing.T) {
	oracle := &fakeOracle{everything: true}
	// Default generator: one Allocator shared by concurrent requests, the
	// way serve.go wires it.
	a := NewAllocator(NewValidator(ReservedWords), oracle)

	const callers = 8
	want := regexp.MustCompile(`^wedding-[a-z0-9]{8}$`)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := a.Allocate(context.Background(), Partner{Nickname: "Ann"}, Partner{Nickname: "Bo"}, "")
			if err != nil {
				t.Errorf("Allocate: %v", err)
				return
			}
			if !want.MatchString(got) {
				t.Errorf("slug = %q, want match %s", got, want)
			}
		}()
	}
	wg.Wait()

	if n := oracle.probeCount(); n != callers*(4+maxAttempts) {
		t.Errorf("probes = %d, want %d", n, callers*(4+maxAttempts))
	}
}

func TestAllocate_ReservedSingleNameSkipped(t *testing.T) {
	a := newTestAllocator(&fakeOracle{})

	// Every combination overflows the length cap, and the shorter single
	// name collides with a route, so only the literal fallback remains.
	got, err := a.Allocate(context.Background(),
		Partner{Nickname: "Dashboard"},
		Partner{FullName: "Bartholomew Maximilian Wirasatyanagara Senior"}, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got != fallbackBase {
		t.Errorf("slug = %q, want %q", got, fallbackBase)
	}
}

func TestAllocate_OracleErrorAborts(t *testing.T) {
	a := newTestAllocator(&fakeOracle{failing: true})

	_, err := a.Allocate(context.Background(), Partner{Nickname: "Ann"}, Partner{Nickname: "Bo"}, "")
	if !errors.Is(err, ErrOracleUnavailable) {
		t.Errorf("err = %v, want ErrOracleUnavailable", err)
	}
}

func TestAllocate_OracleErrorAssumeTaken(t *testing.T) {
	oracle := &fakeOracle{failing: true}
	a := newTestAllocator(oracle)
	a.AssumeTakenOnError = true

	got, err := a.Allocate(context.Background(), Partner{Nickname: "Ann"}, Partner{Nickname: "Bo"}, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	// Every probe errored and counted as taken, so only the final fallback
	// can come out.
	want := regexp.MustCompile(`^wedding-[a-z0-9]{8}$`)
	if !want.MatchString(got) {
		t.Errorf("slug = %q, want match %s", got, want)
	}
}

func TestCandidates_Generator(t *testing.T) {
	rnd := rand.New(rand.NewPCG(42, 0))
	next := Candidates("ann-bo", rnd)

	if first := next(); first != "ann-bo" {
		t.Errorf("first candidate = %q, want bare base", first)
	}
	pattern := regexp.MustCompile(`^ann-bo-[a-z0-9]{6}$`)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		c := next()
		if !pattern.MatchString(c) {
			t.Fatalf("candidate %d = %q, want match %s", i, c, pattern)
		}
		seen[c] = true
	}
	if len(seen) < 2 {
		t.Error("suffixed candidates are not randomized")
	}

	// Restartable: a fresh generator yields the bare base again.
	if first := Candidates("ann-bo", rnd)(); first != "ann-bo" {
		t.Errorf("restarted generator first candidate = %q, want bare base", first)
	}
}

func TestCandidates_LongBaseStaysWithinBounds(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 0))
	base := "a" + strings.Repeat("-long", 9) + "head" // 50 chars, at the cap
	if len(base) != MaxLength {
		t.Fatalf("test base length = %d, want %d", len(base), MaxLength)
	}

	next := Candidates(base, rnd)
	if first := next(); first != base {
		t.Errorf("first candidate = %q, want bare base", first)
	}

	v := NewValidator(ReservedWords)
	for i := 0; i < 5; i++ {
		c := next()
		if len(c) > MaxLength {
			t.Errorf("candidate %d = %q: length %d exceeds %d", i, c, len(c), MaxLength)
		}
		if err := v.Validate(c); err != nil {
			t.Errorf("candidate %d = %q failed validation: %v", i, c, err)
		}
	}
}
