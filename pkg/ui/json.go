package ui

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/assetpack/pkg/compiler"
	"github.com/arthur-debert/assetpack/pkg/errors"
)

// jsonRenderer writes one JSON document per call
type jsonRenderer struct {
	output  io.Writer
	encoder *json.Encoder
}

func newJSONRenderer(w io.Writer) *jsonRenderer {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &jsonRenderer{output: w, encoder: encoder}
}

func (r *jsonRenderer) RenderManifest(m *compiler.Manifest) error {
	data, err := m.Marshal("json")
	if err != nil {
		return err
	}
	if _, err := r.output.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

func (r *jsonRenderer) RenderList(l List) error {
	if l.Items == nil {
		l.Items = []string{}
	}
	return r.encoder.Encode(l)
}

type jsonProblem struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Evidence string `json:"evidence,omitempty"`
}

type jsonError struct {
	Error    string                 `json:"error"`
	Code     string                 `json:"code,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
	ID       string                 `json:"id,omitempty"`
	Problems []jsonProblem          `json:"problems,omitempty"`
}

func (r *jsonRenderer) RenderError(err error) error {
	doc := jsonError{Error: err.Error()}
	if assetErr, ok := assetProblems(err); ok {
		doc.ID = assetErr.ID()
		for _, p := range assetErr.Problems() {
			doc.Problems = append(doc.Problems, jsonProblem{
				File:     p.Filename,
				Line:     p.Line,
				Column:   p.Column,
				Message:  p.Message,
				Evidence: p.Evidence,
			})
		}
	} else if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		doc.Code = string(code)
		doc.Details = errors.GetErrorDetails(err)
	}
	return r.encoder.Encode(doc)
}

func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
