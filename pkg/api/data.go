package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type JSON map[string]any

func (j JSON) ToReader() (io.Reader, string, error) {
	b, err := json.Marshal(j)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewBuffer(b), "application/json", nil
}

func (m JSON) Get(key string) (any, error) {
	value, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("not found field %s", key)
	}

	return value, nil
}

func (m JSON) GetString(key string) (string, error) {
	value, err := m.Get(key)
	if err != nil {
		return "", err
	}

	if value == nil {
		return "", nil
	}

	if s, ok := value.(string); ok {
		return s, nil
	}

	return "", fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func bytesToJSON(body []byte) (JSON, error) {
	result := JSON{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	return result, nil
}

type Response struct {
	Code    int
	Header  http.Header
	Body    any
	RawBody []byte
}

func (r *Response) JSON() (JSON, error) {
	if j, ok := r.Body.(JSON); ok {
		return j, nil
	}

	return nil, fmt.Errorf("response body is not a json object (%T)", r.Body)
}
