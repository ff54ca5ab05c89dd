package shared

import (
	"encoding/json"
	"errors"
	"net/http"
)

// DecodeJSON decodes the request body into the given struct. Trailing
// garbage after the JSON value is rejected so a request like `{}{}` cannot
// slip through as valid.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
