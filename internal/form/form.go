package form

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"

	"social-blog-backend/internal/util"

	"github.com/go-playground/validator/v10"
)

// Errors 字段名到错误信息的映射。为空表示校验通过
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", util.ValidateNotBlank)
	return v
}

// PostForm 发帖和编辑帖子的表单
type PostForm struct {
	Text    string `validate:"notblank"`
	GroupID *int
	Image   *multipart.FileHeader
}

// Validate 校验表单，返回字段级错误。图片字段如有内容必须是
// 可解码的图片文件
func (f *PostForm) Validate() Errors {
	errs := Errors{}
	if err := validate.Struct(f); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			if fieldErr.Field() == "Text" {
				errs["text"] = "这个字段是必填项"
			}
		}
	}
	if f.Image != nil {
		if err := checkImage(f.Image); err != nil {
			errs["image"] = "请上传有效的图片文件"
		}
	}
	return errs
}

// CommentForm 评论表单
type CommentForm struct {
	Text string `validate:"notblank"`
}

func (f *CommentForm) Validate() Errors {
	errs := Errors{}
	if err := validate.Struct(f); err != nil {
		errs["text"] = "这个字段是必填项"
	}
	return errs
}

// checkImage 尝试解码图片头部，确认是标准的光栅图片格式
func checkImage(header *multipart.FileHeader) error {
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	_, _, err = image.DecodeConfig(file)
	return err
}
