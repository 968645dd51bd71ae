package token

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "jwt", "j.w", "j.w.t.a", "a.b.c.d.e.f"} {
		_, err := New(raw)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

func TestClassification(t *testing.T) {
	cases := []struct {
		raw       string
		signed    bool
		unsigned  bool
		encrypted bool
	}{
		{raw: "j.w.", signed: true, unsigned: true},
		{raw: "j.w.s", signed: true},
		{raw: "jwt.is.signed", signed: true},
		{raw: "j.w.t.a.b", encrypted: true},
		{raw: "j.w.t.as.jwe", encrypted: true},
	}
	for _, tc := range cases {
		tok, err := New(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.signed, tok.IsSigned(), "signed %q", tc.raw)
		assert.Equal(t, tc.unsigned, tok.IsUnsigned(), "unsigned %q", tc.raw)
		assert.Equal(t, tc.encrypted, tok.IsEncrypted(), "encrypted %q", tc.raw)
	}
}

func TestPlainReturnsOriginal(t *testing.T) {
	tok, err := New("j.w.t")
	require.NoError(t, err)

	assert.Equal(t, "j.w.t", tok.Plain())
	assert.Equal(t, "j.w.t", tok.String())
	assert.Equal(t, "j.w.t", fmt.Sprint(tok))
}
