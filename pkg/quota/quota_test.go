package quota

import (
	"errors"
	"strings"
	"testing"
	"time"

	snerrors "github.com/vnykmshr/sentinel/pkg/common/errors"
)

func TestQuota_Validate(t *testing.T) {
	tests := []struct {
		name    string
		quota   Quota
		wantErr bool
	}{
		{"valid", Quota{Limit: 10, Window: time.Minute}, false},
		{"zero limit", Quota{Limit: 0, Window: time.Minute}, true},
		{"negative limit", Quota{Limit: -5, Window: time.Minute}, true},
		{"zero window", Quota{Limit: 10, Window: 0}, true},
		{"negative window", Quota{Limit: 10, Window: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.quota.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, snerrors.ErrInvalidQuota) {
				t.Errorf("error should wrap ErrInvalidQuota, got %v", err)
			}
		})
	}
}

func TestQuota_Rate(t *testing.T) {
	q := Quota{Limit: 60, Window: time.Minute}
	if got := q.Rate(); got != 1.0 {
		t.Errorf("Rate() = %v, want 1.0", got)
	}

	q = Quota{Limit: 5, Window: time.Minute}
	want := 5.0 / 60.0
	if got := q.Rate(); got != want {
		t.Errorf("Rate() = %v, want %v", got, want)
	}
}

func TestNewResolver_RejectsInvalidQuotas(t *testing.T) {
	_, err := NewResolver(TierTable{Default: Quota{Limit: 0, Window: time.Minute}})
	if !errors.Is(err, snerrors.ErrInvalidQuota) {
		t.Errorf("invalid default should be fatal, got %v", err)
	}

	_, err = NewResolver(TierTable{
		Default: Quota{Limit: 10, Window: time.Minute},
		Tiers: map[string]Quota{
			"free": {Limit: 5, Window: -time.Second},
		},
	})
	if !errors.Is(err, snerrors.ErrInvalidQuota) {
		t.Errorf("invalid tier quota should be fatal, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "free") {
		t.Errorf("error should name the offending tier, got %v", err)
	}

	_, err = NewResolver(TierTable{
		Default: Quota{Limit: 10, Window: time.Minute},
		Tiers:   map[string]Quota{"": {Limit: 5, Window: time.Minute}},
	})
	if err == nil {
		t.Error("empty tier name should be rejected")
	}
}

func TestResolver_Resolve(t *testing.T) {
	quotas, err := NewResolver(TierTable{
		Default: Quota{Limit: 100, Window: time.Minute},
		Tiers: map[string]Quota{
			"free":    {Limit: 5, Window: time.Minute},
			"premium": {Limit: 50, Window: time.Minute},
			"vip":     {Limit: 500, Window: time.Minute},
		},
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	// Exact identity match takes precedence.
	if got := quotas.Resolve("premium"); got.Limit != 50 {
		t.Errorf("Resolve(premium).Limit = %d, want 50", got.Limit)
	}

	// Unknown identity falls back to the default, never errors.
	got := quotas.Resolve("someone-new")
	if got.Limit != 100 || got.Window != time.Minute {
		t.Errorf("Resolve(unknown) = %+v, want default quota", got)
	}
}

func TestResolver_TierFunc(t *testing.T) {
	quotas, err := NewResolver(TierTable{
		Default: Quota{Limit: 5, Window: time.Minute},
		Tiers: map[string]Quota{
			"premium": {Limit: 50, Window: time.Minute},
			"vip":     {Limit: 500, Window: time.Minute},
		},
	}, WithTierFunc(func(identity string) string {
		switch {
		case strings.HasPrefix(identity, "vip_"):
			return "vip"
		case strings.HasPrefix(identity, "prem_"):
			return "premium"
		}
		return ""
	}))
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	if got := quotas.Resolve("vip_abc123"); got.Limit != 500 {
		t.Errorf("vip-prefixed key should get vip quota, got limit %d", got.Limit)
	}
	if got := quotas.Resolve("prem_abc123"); got.Limit != 50 {
		t.Errorf("prem-prefixed key should get premium quota, got limit %d", got.Limit)
	}
	if got := quotas.Resolve("anonymous"); got.Limit != 5 {
		t.Errorf("unclassified key should get default quota, got limit %d", got.Limit)
	}
}
