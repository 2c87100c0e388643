package x

import (
	"context"
	"testing"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/cescrowtest"
	"github.com/iov-one/cescrow/cescrowtest/assert"
	"github.com/iov-one/cescrow/errors"
)

func TestAuth(t *testing.T) {
	a := cescrowtest.NewCondition()
	b := cescrowtest.NewCondition()
	c := cescrowtest.NewCondition()

	ctx1 := &cescrowtest.CtxAuth{Key: "foo"}
	ctx2 := &cescrowtest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          context.Context
		auth         Authenticator
		mainSigner   cescrow.Condition
		wantInCtx    cescrow.Condition
		wantNotInCtx cescrow.Condition
		wantAll      []cescrow.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &cescrowtest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &cescrowtest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []cescrow.Condition{a},
		},
		"signer b": {
			ctx: context.Background(),
			auth: ChainAuth(
				&cescrowtest.Auth{Signer: b},
				&cescrowtest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []cescrow.Condition{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []cescrow.Condition{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()) {
				t.Fatal("condition address that was expected in context not found")
			}

			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()) {
				t.Fatal("condition address that was expected not to be in context found")
			}

			all := tc.auth.GetConditions(tc.ctx)
			assert.Equal(t, tc.wantAll, all)

			if !HasAllConditions(tc.ctx, tc.auth, all) {
				t.Fatal("has all conditions check failed")
			}
			if HasAllConditions(tc.ctx, tc.auth, append(all, tc.wantNotInCtx)) {
				t.Fatal("has all condition succeeded after adding non existing condition")
			}

			if len(all) > 0 {
				if !HasNConditions(tc.ctx, tc.auth, all, len(all)-1) {
					t.Fatal("want condition check of a subset to succeed")
				}
				if HasNConditions(tc.ctx, tc.auth, all, len(all)+1) {
					t.Fatal("want condition check of a superset to fail")
				}
			}
		})
	}
}

func TestChainAuthDeduplicates(t *testing.T) {
	a := cescrowtest.NewCondition()
	b := cescrowtest.NewCondition()

	auth := ChainAuth(
		&cescrowtest.Auth{Signers: []cescrow.Condition{a, b}},
		&cescrowtest.Auth{Signer: a},
	)
	assert.Equal(t, []cescrow.Condition{a, b}, auth.GetConditions(context.Background()))
	assert.Equal(t, []cescrow.Address{a.Address(), b.Address()}, GetAddresses(context.Background(), auth))
	if !HasAllAddresses(context.Background(), auth, []cescrow.Address{b.Address(), a.Address()}) {
		t.Fatal("want both addresses authenticated")
	}
}

func TestRequireSigner(t *testing.T) {
	a := cescrowtest.NewCondition()
	auth := &cescrowtest.Auth{Signer: a}
	ctx := context.Background()

	assert.Nil(t, RequireSigner(ctx, auth, "owner", a.Address()))
	assert.IsErr(t, errors.ErrUnauthorized, RequireSigner(ctx, auth, "owner", cescrowtest.NewAddress()))
	assert.IsErr(t, errors.ErrUnauthorized, RequireSigner(ctx, auth, "owner", nil))
}
