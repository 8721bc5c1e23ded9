package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormValue(t *testing.T) {
	cases := []struct {
		in   string
		want FormValue
	}{
		{`"35"`, "35"},
		{`35`, "35"},
		{`4.70`, "4.70"},
		{`null`, ""},
		{`""`, ""},
	}
	for _, tc := range cases {
		var v FormValue
		require.NoError(t, json.Unmarshal([]byte(tc.in), &v), tc.in)
		assert.Equal(t, tc.want, v, tc.in)
	}

	var v FormValue
	assert.Error(t, json.Unmarshal([]byte(`true`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &v))
}

func TestPositionRequestForm(t *testing.T) {
	var req PositionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"entry_date":"2025-09-15","short_strike":5800,"long_strike":"5790","expiry":"2025-09-25","quantity":2,"entry_credit":1.5}`), &req))
	f := req.Form()
	assert.Equal(t, "5800", f.ShortStrike)
	assert.Equal(t, "5790", f.LongStrike)
	assert.Equal(t, "2", f.Quantity)
	assert.Equal(t, "1.5", f.EntryCredit)
	assert.Equal(t, "2025-09-15", f.EntryDate)
}
