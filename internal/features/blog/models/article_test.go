package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleIDDecoding(t *testing.T) {
	cases := []struct {
		name string
		json string
		want string
	}{
		{"string", `{"id":"42","title":"t"}`, "42"},
		{"number", `{"id":42,"title":"t"}`, "42"},
		{"large number", `{"id":9007199254740993,"title":"t"}`, "9007199254740993"},
		{"null", `{"id":null,"title":"t"}`, ""},
		{"missing", `{"title":"t"}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var a Article
			require.NoError(t, json.Unmarshal([]byte(tc.json), &a))
			assert.Equal(t, tc.want, a.ID)
			assert.Equal(t, "t", a.Title)
		})
	}
}

func TestArticleIDRejectsOtherTypes(t *testing.T) {
	var a Article
	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &a))
	assert.Error(t, json.Unmarshal([]byte(`{"id":{"n":1}}`), &a))
}

func TestArticleEncodesStringID(t *testing.T) {
	out, err := json.Marshal(Article{ID: "7", Title: "t", CreatedAt: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7","title":"t","created_at":1}`, string(out))
}

func TestArticleCreateValidate(t *testing.T) {
	create := ArticleCreate{Title: "  Hello  "}
	require.NoError(t, create.Validate())
	assert.Equal(t, "Hello", create.Title)

	assert.ErrorIs(t, (&ArticleCreate{Title: "   "}).Validate(), ErrTitleRequired)
	long := make([]rune, MaxTitleLength+1)
	for i := range long {
		long[i] = '字'
	}
	assert.ErrorIs(t, (&ArticleCreate{Title: string(long)}).Validate(), ErrTitleTooLong)
}
