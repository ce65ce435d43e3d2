package phone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "leading zero", in: "0705982249", want: "+254705982249", ok: true},
		{name: "bare nine digits", in: "705982249", want: "+254705982249", ok: true},
		{name: "already international", in: "+254705982249", want: "+254705982249", ok: true},
		{name: "missing plus", in: "254705982249", want: "+254705982249", ok: true},
		{name: "airtel 01 prefix", in: "0112345678", want: "+254112345678", ok: true},
		{name: "punctuation stripped", in: " (0705) 982-249 ", want: "+254705982249", ok: true},
		{name: "blank", in: "   ", ok: false},
		{name: "too short", in: "12345", ok: false},
		{name: "landline prefix", in: "0205982249", ok: false},
		{name: "nine digits wrong start", in: "505982249", ok: false},
		{name: "too long", in: "07059822491", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Normalize(tc.in)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.ok, IsValid(tc.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, in := range []string{"0705982249", "705982249", "254112345678"} {
		once, ok := Normalize(in)
		require.True(t, ok)
		twice, ok := Normalize(once)
		require.True(t, ok)
		require.Equal(t, once, twice)
	}
}

func TestNormalizeOptional(t *testing.T) {
	out, ok := NormalizeOptional(nil)
	require.True(t, ok)
	require.Nil(t, out)

	blank := "  "
	out, ok = NormalizeOptional(&blank)
	require.True(t, ok)
	require.Nil(t, out)

	raw := "0705982249"
	out, ok = NormalizeOptional(&raw)
	require.True(t, ok)
	require.Equal(t, "+254705982249", *out)

	bad := "12345"
	out, ok = NormalizeOptional(&bad)
	require.False(t, ok)
	require.Nil(t, out)
}

func TestFormatDisplay(t *testing.T) {
	require.Equal(t, "+254 705 982 249", FormatDisplay("0705982249"))
	require.Equal(t, "not a phone", FormatDisplay("not a phone"))
}

func TestContactLinks(t *testing.T) {
	require.Equal(t, "https://wa.me/254705982249", WhatsAppURL("0705982249", ""))
	require.Equal(t, "https://wa.me/254705982249?text=Hello%20there", WhatsAppURL("0705982249", "Hello there"))
	require.Equal(t, "sms:+254705982249", SMSURL("705982249", ""))
	require.Equal(t, "sms:+254705982249?body=Hi%20%26%20bye", SMSURL("705982249", "Hi & bye"))
	require.Empty(t, WhatsAppURL("123", "x"))
	require.Empty(t, SMSURL("", "x"))
}
