package cryptoutil_test

import (
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adminconsole/go-auth-client/internal/cryptoutil"
)

func TestRandomBytesLengthAndUniqueness(t *testing.T) {
	a, err := cryptoutil.RandomBytes(32)
	require.NoError(t, err)
	require.Len(t, a, 32)

	b, err := cryptoutil.RandomBytes(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestSHA256MatchesStdlib(t *testing.T) {
	input := []byte("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk")
	require.Equal(t, sha256.Sum256(input), cryptoutil.SHA256(input))
}

func TestBase64URLEncodeIsUnpadded(t *testing.T) {
	// 0xfb 0xff chosen to produce '+' and '/' under standard base64.
	encoded := cryptoutil.Base64URLEncode([]byte{0xfb, 0xef, 0xff})
	require.False(t, strings.ContainsAny(encoded, "+/="))
}

func TestBase64URLEncodeKnownVector(t *testing.T) {
	require.Equal(t, "aGVsbG8", cryptoutil.Base64URLEncode([]byte("hello")))
}
