package dto_test

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/quillhq/inkwell/app/dto"
	"github.com/stretchr/testify/assert"
)

func TestRequestLengthBounds(t *testing.T) {
	v := validator.New()

	t.Run("PostTitle", func(t *testing.T) {
		assert.Error(t, v.Struct(&dto.CreatePostRequest{Title: "ab", Content: "long enough body"}))
		assert.Error(t, v.Struct(&dto.CreatePostRequest{Title: strings.Repeat("t", 201), Content: "long enough body"}))
		assert.NoError(t, v.Struct(&dto.CreatePostRequest{Title: "abc", Content: "long enough body"}))
	})

	t.Run("PostContent", func(t *testing.T) {
		assert.Error(t, v.Struct(&dto.CreatePostRequest{Title: "Valid title", Content: "too short"}))
		assert.NoError(t, v.Struct(&dto.CreatePostRequest{Title: "Valid title", Content: "ten chars!"}))
		assert.Error(t, v.Struct(&dto.UpdatePostRequest{Title: "Valid title", Content: "too short"}))
	})

	t.Run("CommentContent", func(t *testing.T) {
		assert.Error(t, v.Struct(&dto.CreateCommentRequest{Content: "ab"}))
		assert.NoError(t, v.Struct(&dto.CreateCommentRequest{Content: "abc"}))
		assert.Error(t, v.Struct(&dto.UpdateCommentRequest{Content: strings.Repeat("c", 5001)}))
		assert.NoError(t, v.Struct(&dto.UpdateCommentRequest{Content: strings.Repeat("c", 5000)}))
	})
}
