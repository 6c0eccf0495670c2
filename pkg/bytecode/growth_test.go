package bytecode

import (
	"errors"
	"math"
	"testing"
)

func TestGrowthNext(t *testing.T) {
	tests := []struct {
		name     string
		growth   Growth
		capacity int
		required int
		want     int
	}{
		{"from empty", DefaultGrowth, 0, 1, 8},
		{"from empty above minimum", DefaultGrowth, 0, 20, 20},
		{"doubling", DefaultGrowth, 8, 9, 16},
		{"doubling again", DefaultGrowth, 16, 17, 32},
		{"round up past factor", DefaultGrowth, 8, 40, 40},
		{"already fits", DefaultGrowth, 16, 10, 16},
		{"factor three", Growth{MinCapacity: 4, Factor: 3}, 4, 5, 12},
		{"clamped to limit", Growth{MinCapacity: 8, Factor: 2, MaxElements: 10}, 8, 9, 10},
		{"near int range", DefaultGrowth, math.MaxInt/2 + 1, math.MaxInt/2 + 2, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.growth.Next(tt.capacity, tt.required)
			if err != nil {
				t.Fatalf("Next(%d, %d) error: %v", tt.capacity, tt.required, err)
			}
			if got != tt.want {
				t.Errorf("Next(%d, %d) = %d, want %d", tt.capacity, tt.required, got, tt.want)
			}
			if got < tt.required {
				t.Errorf("Next(%d, %d) = %d, below required", tt.capacity, tt.required, got)
			}
		})
	}
}

func TestGrowthNextBeyondLimit(t *testing.T) {
	g := Growth{MinCapacity: 8, Factor: 2, MaxElements: 10}

	for _, required := range []int{11, 100, -1} {
		if _, err := g.Next(10, required); !errors.Is(err, ErrAllocation) {
			t.Errorf("Next(10, %d) error = %v, want ErrAllocation", required, err)
		}
	}
	if _, err := g.Next(0, 11); !errors.Is(err, ErrAllocation) {
		t.Errorf("Next(0, 11) error = %v, want ErrAllocation", err)
	}
}

func TestGrowthValidate(t *testing.T) {
	tests := []struct {
		growth Growth
		valid  bool
	}{
		{DefaultGrowth, true},
		{Growth{MinCapacity: 1, Factor: 2}, true},
		{Growth{MinCapacity: 8, Factor: 2, MaxElements: 8}, true},
		{Growth{MinCapacity: 0, Factor: 2}, false},
		{Growth{MinCapacity: 8, Factor: 1}, false},
		{Growth{MinCapacity: 8, Factor: 2, MaxElements: -1}, false},
		{Growth{MinCapacity: 8, Factor: 2, MaxElements: 4}, false},
	}

	for _, tt := range tests {
		err := tt.growth.Validate()
		if tt.valid && err != nil {
			t.Errorf("%+v: Validate() = %v, want nil", tt.growth, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidGrowth) {
			t.Errorf("%+v: Validate() = %v, want ErrInvalidGrowth", tt.growth, err)
		}
	}
}

func TestBufferGrowthSequence(t *testing.T) {
	b := newBuffer[int]("ints", DefaultGrowth)

	var caps []int
	for i := 0; i < 100; i++ {
		before := b.Cap()
		if err := b.Append(i); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
		if b.Cap() != before {
			caps = append(caps, b.Cap())
		}
	}

	want := []int{8, 16, 32, 64, 128}
	if len(caps) != len(want) {
		t.Fatalf("capacities = %v, want %v", caps, want)
	}
	for i := range want {
		if caps[i] != want[i] {
			t.Errorf("capacities[%d] = %d, want %d", i, caps[i], want[i])
		}
	}
}

func TestBufferZeroValueUsesDefaultGrowth(t *testing.T) {
	var b Buffer[string]
	if err := b.Append("x"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if b.Cap() != DefaultGrowth.MinCapacity {
		t.Errorf("Cap() = %d, want %d", b.Cap(), DefaultGrowth.MinCapacity)
	}
}

func TestAllocateOutOfRange(t *testing.T) {
	data, err := allocate[int64](math.MaxInt)
	if !errors.Is(err, ErrAllocation) {
		t.Errorf("allocate error = %v, want ErrAllocation", err)
	}
	if data != nil {
		t.Errorf("allocate returned %d elements, want nil", len(data))
	}
}

func TestGrowthNextRejectsInvalidPolicy(t *testing.T) {
	for _, g := range []Growth{
		{MaxElements: 100},
		{MinCapacity: 8, Factor: 1},
		{MinCapacity: 8},
		{Factor: 2},
	} {
		if _, err := g.Next(8, 9); !errors.Is(err, ErrInvalidGrowth) {
			t.Errorf("%+v: Next(8, 9) error = %v, want ErrInvalidGrowth", g, err)
		}
	}
}

func TestContainersWithPartialOrInvalidGrowth(t *testing.T) {
	tests := []struct {
		name         string
		growth       Growth
		n            int
		wantCap      int
		wantReallocs int
		wantErr      error
	}{
		{"max elements only", Growth{MaxElements: 100}, 100, 100, 5, nil},
		{"factor unset", Growth{MinCapacity: 4}, 100, 128, 6, nil},
		{"min capacity unset", Growth{Factor: 3}, 100, 216, 4, nil},
		{"factor one", Growth{MinCapacity: 8, Factor: 1}, 1, 0, 0, ErrInvalidGrowth},
		{"negative min capacity", Growth{MinCapacity: -1, Factor: 2}, 1, 0, 0, ErrInvalidGrowth},
		{"limit below default minimum", Growth{MaxElements: 4}, 1, 0, 0, ErrInvalidGrowth},
	}

	fill := func(t *testing.T, add func(i int) error, stats func() Stats, n int) (err error) {
		t.Helper()
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panicked: %v", r)
			}
		}()
		for i := 0; i < n; i++ {
			if err := add(i); err != nil {
				return err
			}
			if s := stats(); s.Len > s.Cap {
				t.Fatalf("Len %d > Cap %d", s.Len, s.Cap)
			}
		}
		return nil
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChunkWithGrowth(tt.growth)
			p := NewConstantPoolWithGrowth[int](tt.growth)

			chunkErr := fill(t, func(i int) error { return c.Append(byte(i)) }, c.Stats, tt.n)
			poolErr := fill(t, func(i int) error { _, err := p.Add(i); return err }, p.Stats, tt.n)

			for name, got := range map[string]struct {
				err   error
				stats Stats
			}{
				"chunk":         {chunkErr, c.Stats()},
				"constant pool": {poolErr, p.Stats()},
			} {
				if tt.wantErr != nil {
					if !errors.Is(got.err, tt.wantErr) {
						t.Errorf("%s: error = %v, want %v", name, got.err, tt.wantErr)
					}
					if got.stats.Len != 0 || got.stats.Cap != 0 {
						t.Errorf("%s: Stats = %v, want empty", name, got.stats)
					}
					continue
				}
				if got.err != nil {
					t.Fatalf("%s: unexpected error: %v", name, got.err)
				}
				if got.stats.Len != tt.n || got.stats.Cap != tt.wantCap || got.stats.Reallocations != tt.wantReallocs {
					t.Errorf("%s: Stats = %v, want len %d cap %d reallocations %d",
						name, got.stats, tt.n, tt.wantCap, tt.wantReallocs)
				}
			}
		})
	}
}

func TestDoublingStaysLogarithmic(t *testing.T) {
	c := NewChunkWithGrowth(Growth{MaxElements: 1 << 20})
	for i := 0; i < 100000; i++ {
		if err := c.Append(byte(i)); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}
	// 8 << 14 = 131072
	if s := c.Stats(); s.Reallocations != 15 {
		t.Errorf("Reallocations = %d, want 15", s.Reallocations)
	}
}
