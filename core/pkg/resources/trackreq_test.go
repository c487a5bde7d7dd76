package resources

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleIDUnmarshal(t *testing.T) {
	var testcases = []struct {
		name     string
		raw      string
		expected FlexibleID
		err      bool
	}{
		{name: "String", raw: `{"user_id":"u-1"}`, expected: "u-1"},
		{name: "Number", raw: `{"user_id":42}`, expected: "42"},
		{name: "Null", raw: `{"user_id":null}`, expected: ""},
		{name: "Missing", raw: `{}`, expected: ""},
		{name: "Object", raw: `{"user_id":{"id":1}}`, err: true},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var body IngestLocationBody
			err := json.Unmarshal([]byte(tc.raw), &body)
			if tc.err {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, body.UserID)
		})
	}
}
