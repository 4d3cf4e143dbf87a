package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

// RawResponse is written as is instead of the json envelope.
type RawResponse interface {
	ContentType() string
	RawBody() []byte
}

// AttachmentResponse asks the client to download the body as a file.
type AttachmentResponse interface {
	AttachmentName() string
}

// StatusResponse overrides the http status of a successful response.
type StatusResponse interface {
	HTTPStatus() int
}

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) (int, response) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return errx.Code.HTTPStatus(), response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return errorx.Unknown.Code.HTTPStatus(), response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func writeResponse(ctx context.Context, w http.ResponseWriter) {
	if err := xcontext.Error(ctx); err != nil {
		status, resp := newErrorResponse(err)
		if err := WriteJson(w, status, resp); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		}
		return
	}

	resp := xcontext.Response(ctx)
	status := http.StatusOK
	if s, ok := resp.(StatusResponse); ok {
		status = s.HTTPStatus()
	}

	if raw, ok := resp.(RawResponse); ok {
		if attachment, ok := resp.(AttachmentResponse); ok {
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.AttachmentName()))
		}

		w.Header().Set("Content-Type", raw.ContentType())
		w.WriteHeader(status)
		if _, err := w.Write(raw.RawBody()); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		}
		return
	}

	if err := WriteJson(w, status, newResponse(resp)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
