package api

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxUploadSize caps image uploads.
const MaxUploadSize = 10 * 1024 * 1024

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename string
	Content  []byte
}

// ReadUpload loads a file from disk for upload.
func ReadUpload(path string) (*Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxUploadSize {
		return nil, fmt.Errorf("%s exceeds the %d MB upload limit", path, MaxUploadSize/(1024*1024))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &Upload{Filename: filepath.Base(path), Content: content}, nil
}

// contentType guesses the MIME type from the extension, then the content.
func (u *Upload) contentType() string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(u.Filename))); ct != "" {
		return ct
	}
	return http.DetectContentType(u.Content)
}

// Form is an ordered set of multipart fields and files.
type Form struct {
	fields [][2]string
	files  []formFile
}

type formFile struct {
	field  string
	upload *Upload
}

// FormEncoder is implemented by payloads sent as multipart/form-data.
type FormEncoder interface {
	Form() *Form
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, [2]string{name, value})
	return f
}

func (f *Form) SetInt(name string, value int) *Form {
	return f.Set(name, strconv.Itoa(value))
}

func (f *Form) SetFloat(name string, value float64) *Form {
	return f.Set(name, strconv.FormatFloat(value, 'f', -1, 64))
}

// SetString sets name when value is non-nil. Used for partial updates.
func (f *Form) SetString(name string, value *string) *Form {
	if value != nil {
		f.Set(name, *value)
	}
	return f
}

// SetIntPtr sets name when value is non-nil.
func (f *Form) SetIntPtr(name string, value *int) *Form {
	if value != nil {
		f.SetInt(name, *value)
	}
	return f
}

// SetFloatPtr sets name when value is non-nil.
func (f *Form) SetFloatPtr(name string, value *float64) *Form {
	if value != nil {
		f.SetFloat(name, *value)
	}
	return f
}

// AddFile attaches upload under field. A nil upload is ignored.
func (f *Form) AddFile(field string, upload *Upload) *Form {
	if upload != nil {
		f.files = append(f.files, formFile{field: field, upload: upload})
	}
	return f
}

// Fields returns the non-file fields.
func (f *Form) Fields() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, kv := range f.fields {
		out[kv[0]] = kv[1]
	}
	return out
}

// Files returns the attached filenames keyed by field.
func (f *Form) Files() map[string]string {
	out := make(map[string]string, len(f.files))
	for _, file := range f.files {
		out[file.field] = file.upload.Filename
	}
	return out
}

// Encode writes the form as multipart/form-data and returns the body and
// its content type (with boundary).
func (f *Form) Encode() ([]byte, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, kv := range f.fields {
		if err := writer.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", kv[0], err)
		}
	}

	for _, file := range f.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.upload.Filename))
		header.Set("Content-Type", file.upload.contentType())
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", file.upload.Filename, err)
		}
		if _, err := part.Write(file.upload.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write file content %s: %w", file.upload.Filename, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}
