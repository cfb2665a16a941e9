package email

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP_FourDigitsInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		otp := generateOTP()

		require.Len(t, otp, 4)

		n, err := strconv.Atoi(otp)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, otpMin)
		assert.LessOrEqual(t, n, otpMax)
	}
}

func TestGenerateOTP_NotConstant(t *testing.T) {
	first := generateOTP()
	for i := 0; i < 50; i++ {
		if generateOTP() != first {
			return
		}
	}
	t.Fatalf("50 consecutive draws all produced %s", first)
}

func TestRenderOTPEmailTemplate(t *testing.T) {
	body, err := renderOTPEmailTemplate("4321")
	require.NoError(t, err)

	assert.Contains(t, body, "4321")
	assert.Contains(t, body, "E-Volte")
	assert.Contains(t, body, "valid for 5 minutes")
}

func TestRenderOTPEmailTemplate_EscapesInput(t *testing.T) {
	// The code is always numeric in practice, but the template must not
	// become an injection vector if that ever changes.
	body, err := renderOTPEmailTemplate(`<script>alert(1)</script>`)
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
	assert.True(t, strings.Contains(body, "&lt;script&gt;"))
}
