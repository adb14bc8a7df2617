package web

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kamal-hamza/ivc/internal/core/domain"
)

// Form field names shared by the page and the API
const (
	fieldFiles    = "files"
	fieldCarried  = "carried"
	fieldXColumn  = "x_column"
	fieldYColumn  = "y_column"
	fieldApplyAbs = "apply_abs"
	fieldApplyLog = "apply_log"
	fieldTitle    = "title"
)

// multipartMemory is how much of an upload is kept in memory before spilling to disk
const multipartMemory = 8 << 20

// plotForm is one submitted render request
type plotForm struct {
	XColumn  string        `form:"x_column" validate:"max=256"`
	YColumn  string        `form:"y_column" validate:"max=256"`
	ApplyAbs bool          `form:"apply_abs"`
	ApplyLog bool          `form:"apply_log"`
	Title    string        `form:"title" validate:"max=200"`
	Files    []uploadField `form:"files" validate:"max=64,dive"`
}

type uploadField struct {
	Name    string `form:"name" validate:"required,uploadname"`
	Content []byte `form:"content"`
}

func (f *plotForm) options() domain.PlotOptions {
	return domain.PlotOptions{
		XColumn:  f.XColumn,
		YColumn:  f.YColumn,
		ApplyAbs: f.ApplyAbs,
		ApplyLog: f.ApplyLog,
		Title:    f.Title,
	}
}

func (f *plotForm) uploadedFiles() []domain.UploadedFile {
	files := make([]domain.UploadedFile, len(f.Files))
	for i, u := range f.Files {
		files[i] = domain.UploadedFile{Name: u.Name, Content: u.Content}
	}
	return files
}

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("uploadname", func(fl validator.FieldLevel) bool {
		return domain.ValidateFileName(fl.Field().String()) == nil
	})

	// Use form tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// decodePlotForm reads a multipart or urlencoded submission.
// Fresh uploads replace the carried files; otherwise the carried files are reused.
func decodePlotForm(r *http.Request) (*plotForm, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("failed to read form: %w", err)
		}
	}

	form := &plotForm{
		XColumn:  strings.TrimSpace(r.FormValue(fieldXColumn)),
		YColumn:  strings.TrimSpace(r.FormValue(fieldYColumn)),
		ApplyAbs: r.FormValue(fieldApplyAbs) != "",
		ApplyLog: r.FormValue(fieldApplyLog) != "",
		Title:    strings.TrimSpace(r.FormValue(fieldTitle)),
	}

	uploads, err := readUploads(r)
	if err != nil {
		return nil, err
	}
	if len(uploads) > 0 {
		form.Files = uploads
		return form, nil
	}

	for _, value := range r.Form[fieldCarried] {
		u, err := decodeCarried(value)
		if err != nil {
			return nil, err
		}
		form.Files = append(form.Files, u)
	}
	return form, nil
}

func readUploads(r *http.Request) ([]uploadField, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var uploads []uploadField
	for _, fh := range r.MultipartForm.File[fieldFiles] {
		// Browsers send an empty part when no file was chosen
		if fh.Filename == "" && fh.Size == 0 {
			continue
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
		}

		uploads = append(uploads, uploadField{Name: fh.Filename, Content: content})
	}
	return uploads, nil
}

// encodeCarried packs a file into a hidden field value: base64(name):base64(content)
func encodeCarried(f domain.UploadedFile) string {
	return base64.StdEncoding.EncodeToString([]byte(f.Name)) + ":" +
		base64.StdEncoding.EncodeToString(f.Content)
}

func decodeCarried(value string) (uploadField, error) {
	name, content, ok := strings.Cut(value, ":")
	if !ok {
		return uploadField{}, fmt.Errorf("malformed carried file")
	}

	rawName, err := base64.StdEncoding.DecodeString(name)
	if err != nil {
		return uploadField{}, fmt.Errorf("malformed carried file name: %w", err)
	}
	rawContent, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return uploadField{}, fmt.Errorf("malformed carried file %s: %w", rawName, err)
	}

	return uploadField{Name: string(rawName), Content: rawContent}, nil
}

// validationMessages turns validator errors into user-facing lines
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "uploadname":
			msgs = append(msgs, domain.ValidateFileName(fmt.Sprint(fe.Value())).Error())
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s exceeds the limit of %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return msgs
}
