package claude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONText(t *testing.T) {
	t.Run("strips markdown fences", func(t *testing.T) {
		in := "```json\n[{\"trackingId\":\"A1\"}]\n```"
		assert.Equal(t, `[{"trackingId":"A1"}]`, cleanJSONText(in))
	})

	t.Run("slices prose around an array", func(t *testing.T) {
		in := `Here are the rows: [{"trackingId":"A1"}] as requested.`
		assert.Equal(t, `[{"trackingId":"A1"}]`, cleanJSONText(in))
	})

	t.Run("slices prose around an object", func(t *testing.T) {
		in := `The result is {"products":[]} done.`
		assert.Equal(t, `{"products":[]}`, cleanJSONText(in))
	})

	t.Run("returns input when no brackets found", func(t *testing.T) {
		assert.Equal(t, "no json here", cleanJSONText("  no json here "))
	})
}

func TestTryParseJSON(t *testing.T) {
	assert.Nil(t, tryParseJSON("not json"))
	assert.NotNil(t, tryParseJSON(`{"a":1}`))
	assert.NotNil(t, tryParseJSON(`[1,2]`))
}

func TestRowsFromParsed(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		parsed := tryParseJSON(`[{"trackingId":"A1"},{"trackingId":"B2"}]`)
		rows := rowsFromParsed(parsed)
		require.Len(t, rows, 2)
		assert.Equal(t, "A1", rows[0]["trackingId"])
	})

	t.Run("wrapped under products", func(t *testing.T) {
		parsed := tryParseJSON(`{"products":[{"trackingId":"A1"}]}`)
		rows := rowsFromParsed(parsed)
		require.Len(t, rows, 1)
		assert.Equal(t, "A1", rows[0]["trackingId"])
	})

	t.Run("single object becomes one row", func(t *testing.T) {
		parsed := tryParseJSON(`{"trackingId":"A1"}`)
		rows := rowsFromParsed(parsed)
		require.Len(t, rows, 1)
	})

	t.Run("non object items are dropped", func(t *testing.T) {
		parsed := tryParseJSON(`[{"trackingId":"A1"}, "junk", 42]`)
		rows := rowsFromParsed(parsed)
		require.Len(t, rows, 1)
	})

	t.Run("scalar yields nil", func(t *testing.T) {
		assert.Nil(t, rowsFromParsed(tryParseJSON(`42`)))
	})
}
