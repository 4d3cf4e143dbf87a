package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/mitchellh/mapstructure"
)

// pathParams returns the wildcard names of a ServeMux pattern, for example
// "/entries/{id}" gives ["id"].
func pathParams(pattern string) []string {
	var names []string
	for _, segment := range strings.Split(pattern, "/") {
		if !strings.HasPrefix(segment, "{") || !strings.HasSuffix(segment, "}") {
			continue
		}

		name := strings.TrimSuffix(strings.TrimPrefix(segment, "{"), "}")
		name = strings.TrimSuffix(name, "...")
		if name != "" && name != "$" {
			names = append(names, name)
		}
	}

	return names
}

// parseRequest fills req from the JSON body (POST) then from the query string
// and the path wildcards, matched on the json tags of req.
func parseRequest(r *http.Request, params []string, req any) error {
	if r.Method == http.MethodPost && r.Body != nil {
		err := json.NewDecoder(r.Body).Decode(req)
		if err != nil && !errors.Is(err, io.EOF) {
			return errorx.New(errorx.BadRequest, "Invalid json body")
		}
	}

	values := map[string]any{}
	for key, value := range r.URL.Query() {
		if len(value) > 0 {
			values[key] = value[0]
		}
	}

	for _, name := range params {
		values[name] = r.PathValue(name)
	}

	if len(values) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(values); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid parameters")
	}

	return nil
}
