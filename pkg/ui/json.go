package ui

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/style"
)

type jsonRenderer struct {
	encoder *json.Encoder
}

func newJSONRenderer(output io.Writer) *jsonRenderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return &jsonRenderer{encoder: encoder}
}

func (r *jsonRenderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

func (r *jsonRenderer) RenderError(err error) error {
	obj := map[string]interface{}{
		"error": err.Error(),
		"code":  errors.GetErrorCode(err),
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		obj["details"] = details
	}
	return r.encoder.Encode(obj)
}

func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": style.NewMarkupParser(true).Render(msg)})
}
