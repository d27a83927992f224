package pocketbase_test

import (
	"encoding/json"
	"testing"

	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOptionsToValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     *pocketbase.ListOptions
		expected string
	}{
		{
			name:     "nil options",
			opts:     nil,
			expected: "",
		},
		{
			name:     "empty options omit everything",
			opts:     pocketbase.NewListOptions(),
			expected: "",
		},
		{
			name:     "page and per page",
			opts:     pocketbase.NewListOptions().WithPage(2).WithPerPage(50),
			expected: "page=2&perPage=50",
		},
		{
			name:     "filter is forwarded opaquely",
			opts:     pocketbase.NewListOptions().WithFilter("status = 'active' && views > 10"),
			expected: "filter=status+%3D+%27active%27+%26%26+views+%3E+10",
		},
		{
			name:     "sort and expand",
			opts:     pocketbase.NewListOptions().WithSort("-created").WithExpand("author"),
			expected: "expand=author&sort=-created",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, testCase.opts.ToValues().Encode())
		})
	}
}

func TestAuthResultUnmarshalJSON(t *testing.T) {
	t.Parallel()
	t.Run("user shape with record", func(t *testing.T) {
		t.Parallel()

		var result pocketbase.AuthResult

		err := json.Unmarshal([]byte(`{"token":"t1","record":{"id":"u1","email":"user@example.com"}}`), &result)
		require.NoError(t, err)
		assert.Equal(t, "t1", result.Token)
		assert.Equal(t, "u1", result.Record["id"])
		assert.Nil(t, result.Meta)
	})

	t.Run("superuser shape with admin", func(t *testing.T) {
		t.Parallel()

		var result pocketbase.AuthResult

		err := json.Unmarshal([]byte(`{"token":"t2","admin":{"id":"a1"}}`), &result)
		require.NoError(t, err)
		assert.Equal(t, "t2", result.Token)
		assert.Equal(t, "a1", result.Record["id"])
	})

	t.Run("extra fields go to meta", func(t *testing.T) {
		t.Parallel()

		var result pocketbase.AuthResult

		err := json.Unmarshal([]byte(`{"token":"t3","record":{"id":"u1"},"meta2FA":true}`), &result)
		require.NoError(t, err)
		require.NotNil(t, result.Meta)
		assert.Equal(t, true, result.Meta["meta2FA"])
	})
}

func TestListResultUnmarshal(t *testing.T) {
	t.Parallel()

	payload := `{
		"page": 2,
		"perPage": 30,
		"totalItems": 65,
		"totalPages": 3,
		"items": [{"id": "rec1"}, {"id": "rec2"}]
	}`

	var result pocketbase.ListResult

	err := json.Unmarshal([]byte(payload), &result)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 30, result.PerPage)
	assert.Equal(t, 65, result.TotalItems)
	assert.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "rec2", result.Items[1]["id"])
}
