package crypto_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/claimdesk/claimdesk/internal/crypto"
)

const (
	testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	tenantA    = "11111111-1111-1111-1111-111111111111"
	tenantB    = "22222222-2222-2222-2222-222222222222"
)

func newService(t *testing.T) *crypto.Service {
	t.Helper()

	provider, err := crypto.NewStaticProvider(testKeyHex)
	if err != nil {
		t.Fatalf("new static provider: %v", err)
	}

	return crypto.NewService(provider)
}

func TestSealOpenRoundtrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sealed, err := svc.Seal(ctx, tenantA, "dana@example.com")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	if !strings.HasPrefix(sealed, "v1:") || strings.Contains(sealed, "dana") {
		t.Fatalf("unexpected sealed value %q", sealed)
	}

	opened, err := svc.Open(ctx, tenantA, sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if opened != "dana@example.com" {
		t.Fatalf("got %q", opened)
	}
}

func TestSealRandomNonce(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	a, _ := svc.Seal(ctx, tenantA, "same")
	b, _ := svc.Seal(ctx, tenantA, "same")

	if a == b {
		t.Fatal("two seals of the same value should differ")
	}
}

func TestSealEmptyStaysEmpty(t *testing.T) {
	svc := newService(t)

	sealed, err := svc.Seal(context.Background(), tenantA, "")
	if err != nil || sealed != "" {
		t.Fatalf("got %q, %v", sealed, err)
	}
}

func TestOpenPlaintextPassthrough(t *testing.T) {
	svc := newService(t)

	got, err := svc.Open(context.Background(), tenantA, "555-0100")
	if err != nil || got != "555-0100" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestOpenWrongTenantFails(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sealed, _ := svc.Seal(ctx, tenantA, "secret")

	if _, err := svc.Open(ctx, tenantB, sealed); err == nil {
		t.Fatal("expected error opening another tenant's value")
	}
}

func TestOpenCorrupted(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sealed, _ := svc.Seal(ctx, tenantA, "secret")
	raw, _ := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, "v1:"))
	raw[len(raw)-1] ^= 0xff
	tampered := "v1:" + base64.StdEncoding.EncodeToString(raw)

	if _, err := svc.Open(ctx, tenantA, tampered); err == nil {
		t.Fatal("expected error for tampered ciphertext")
	}

	if _, err := svc.Open(ctx, tenantA, "v1:!!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}

	if _, err := svc.Open(ctx, tenantA, "v1:"+base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Fatal("expected error for short ciphertext")
	}
}

func TestStaticProviderDerivesPerTenant(t *testing.T) {
	p, _ := crypto.NewStaticProvider(testKeyHex)
	ctx := context.Background()

	a1, err := p.GetKey(ctx, tenantA)
	if err != nil {
		t.Fatal(err)
	}
	a2, _ := p.GetKey(ctx, tenantA)
	b, _ := p.GetKey(ctx, tenantB)

	if len(a1) != 32 || string(a1) != string(a2) {
		t.Fatal("derived key must be 32 bytes and stable per tenant")
	}
	if string(a1) == string(b) {
		t.Fatal("tenants must get different keys")
	}

	a1[0] ^= 0xff
	a3, _ := p.GetKey(ctx, tenantA)
	if string(a3) != string(a2) {
		t.Fatal("caller mutation leaked into the cache")
	}

	if _, err := p.GetKey(ctx, ""); err == nil {
		t.Fatal("expected error for empty tenant")
	}
}

func TestStaticProviderBadKey(t *testing.T) {
	if _, err := crypto.NewStaticProvider("zz"); err == nil {
		t.Fatal("expected error for bad hex")
	}
	if _, err := crypto.NewStaticProvider("aabb"); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestVaultProviderFetchesOnce(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(make([]byte, 32))
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("X-Vault-Token") != "tok" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if !strings.HasSuffix(r.URL.Path, "/claimdesk/field-keys/"+tenantA) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"data":{"encryption_key":"` + key + `"}}}`))
	}))
	defer srv.Close()

	p := crypto.NewVaultProvider(srv.URL, "tok")
	ctx := context.Background()

	for range 3 {
		k, err := p.GetKey(ctx, tenantA)
		if err != nil {
			t.Fatalf("get key: %v", err)
		}
		if len(k) != 32 {
			t.Fatalf("key length %d", len(k))
		}
	}

	if hits.Load() != 1 {
		t.Errorf("vault hits = %d, want 1", hits.Load())
	}

	if _, err := p.GetKey(ctx, tenantB); err == nil {
		t.Error("expected error for missing tenant key")
	}

	if _, err := p.GetKey(ctx, "../../sys"); err == nil {
		t.Error("expected error for non-uuid tenant")
	}
}
