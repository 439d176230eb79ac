package form

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallGIF 是一张合法的 1x2 GIF 图片
var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	parsed, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	return parsed.File["image"][0]
}

// TestPostFormTextRequired 文本为空或全空白时校验失败
func TestPostFormTextRequired(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		f := &PostForm{Text: text}
		errs := f.Validate()
		assert.False(t, errs.Valid())
		assert.Contains(t, errs, "text")
	}
}

// TestPostFormValid 合法文本和图片校验通过
func TestPostFormValid(t *testing.T) {
	f := &PostForm{
		Text:  "test text",
		Image: fileHeader(t, "small.gif", smallGIF),
	}
	errs := f.Validate()
	assert.True(t, errs.Valid())
}

// TestPostFormBadImage 不可解码的图片内容校验失败
func TestPostFormBadImage(t *testing.T) {
	f := &PostForm{
		Text:  "test text",
		Image: fileHeader(t, "fake.gif", []byte("not an image at all")),
	}
	errs := f.Validate()
	assert.False(t, errs.Valid())
	assert.Contains(t, errs, "image")
}

// TestPostFormImageOptional 图片缺失不算错误
func TestPostFormImageOptional(t *testing.T) {
	f := &PostForm{Text: "no image here"}
	assert.True(t, f.Validate().Valid())
}

// TestCommentForm 评论文本校验
func TestCommentForm(t *testing.T) {
	assert.False(t, (&CommentForm{Text: "  "}).Validate().Valid())
	assert.True(t, (&CommentForm{Text: "nice post"}).Validate().Valid())
}
