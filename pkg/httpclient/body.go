package httpclient

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"
)

// FormFile is a single file part of a multipart Form.
type FormFile struct {
	Field    string
	FileName string
	Reader   io.Reader
}

// Form is a multipart payload. It is sent as-is and the transport picks the
// content type and boundary.
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

// applyBody attaches body to req: forms go out as multipart, anything else
// non-nil is JSON encoded.
func applyBody(req *resty.Request, body any) error {
	switch b := body.(type) {
	case nil:
		return nil
	case Form:
		applyForm(req, &b)
		return nil
	case *Form:
		if b == nil {
			return nil
		}
		applyForm(req, b)
		return nil
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	req.SetHeader("Content-Type", "application/json")
	req.SetBody(raw)
	return nil
}

func applyForm(req *resty.Request, f *Form) {
	if len(f.Fields) > 0 {
		req.SetMultipartFormData(f.Fields)
	}
	for _, file := range f.Files {
		req.SetFileReader(file.Field, file.FileName, file.Reader)
	}
}
