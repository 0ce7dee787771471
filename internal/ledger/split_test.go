package ledger

import (
	"math"
	"testing"
)

func TestEqualSplits(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		memberIDs  []string
		wantErr    bool
		wantShares []float64
	}{
		{
			name:       "even division",
			amount:     300.0,
			memberIDs:  []string{"a", "b", "c"},
			wantShares: []float64{100.0, 100.0, 100.0},
		},
		{
			name:       "remainder cents go to first members",
			amount:     100.0,
			memberIDs:  []string{"a", "b", "c"},
			wantShares: []float64{33.34, 33.33, 33.33},
		},
		{
			name:       "two remainder cents",
			amount:     0.05,
			memberIDs:  []string{"a", "b", "c"},
			wantShares: []float64{0.02, 0.02, 0.01},
		},
		{
			name:       "single member gets everything",
			amount:     42.37,
			memberIDs:  []string{"a"},
			wantShares: []float64{42.37},
		},
		{
			name:      "zero amount should error",
			amount:    0,
			memberIDs: []string{"a"},
			wantErr:   true,
		},
		{
			name:      "negative amount should error",
			amount:    -10,
			memberIDs: []string{"a"},
			wantErr:   true,
		},
		{
			name:      "no members should error",
			amount:    10,
			memberIDs: []string{},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := EqualSplits("exp-1", tt.amount, tt.memberIDs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EqualSplits() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(splits) != len(tt.wantShares) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tt.wantShares))
			}
			var sum float64
			for i, split := range splits {
				if split.MemberID != tt.memberIDs[i] {
					t.Errorf("split %d member = %s, want %s", i, split.MemberID, tt.memberIDs[i])
				}
				if math.Abs(split.ShareAmount-tt.wantShares[i]) > 0.001 {
					t.Errorf("split %d share = %v, want %v", i, split.ShareAmount, tt.wantShares[i])
				}
				sum += split.ShareAmount
			}
			// Split completeness: shares always reassemble the amount exactly.
			if math.Abs(sum-tt.amount) > 0.001 {
				t.Errorf("shares sum to %v, want %v", sum, tt.amount)
			}
		})
	}
}

func TestEqualSplitsCompleteness(t *testing.T) {
	// Shares must sum back to the amount for every group size, including
	// ones that leave a remainder.
	members := []string{"a", "b", "c", "d", "e", "f", "g"}
	for k := 1; k <= len(members); k++ {
		for _, amount := range []float64{0.01, 1.0, 99.99, 100.0, 1234.56} {
			splits, err := EqualSplits("exp-1", amount, members[:k])
			if err != nil {
				t.Fatalf("EqualSplits(%v, %d members) failed: %v", amount, k, err)
			}
			var sum float64
			for _, s := range splits {
				sum += s.ShareAmount
			}
			if math.Abs(sum-amount) > 0.001 {
				t.Errorf("amount=%v k=%d: shares sum to %v", amount, k, sum)
			}
		}
	}
}

func TestSelfSplit(t *testing.T) {
	splits, err := SelfSplit("exp-1", 50.0, "a")
	if err != nil {
		t.Fatalf("SelfSplit failed: %v", err)
	}
	if len(splits) != 1 {
		t.Fatalf("got %d splits, want 1", len(splits))
	}
	if splits[0].MemberID != "a" || splits[0].ShareAmount != 50.0 {
		t.Errorf("got split %+v, want full amount assigned to payer", splits[0])
	}

	if _, err := SelfSplit("exp-1", 0, "a"); err == nil {
		t.Error("expected error for zero amount")
	}
}
