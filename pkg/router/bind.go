package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

func bindJSON(r *http.Request, obj any) error {
	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(obj)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func bindQuery(r *http.Request, obj any) error {
	values := r.URL.Query()
	return bindValues(obj, func(name string) (string, bool) {
		if !values.Has(name) {
			return "", false
		}

		return values.Get(name), true
	})
}

func bindPath(r *http.Request, obj any) error {
	return bindValues(obj, func(name string) (string, bool) {
		value := r.PathValue(name)
		return value, value != ""
	})
}

// bindValues fills exported struct fields by their json tag. Only scalar
// kinds are supported; everything else must come through the JSON body.
func bindValues(obj any, lookup func(name string) (string, bool)) error {
	value := reflect.ValueOf(obj).Elem()
	if value.Kind() != reflect.Struct {
		return nil
	}

	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		raw, ok := lookup(name)
		if !ok {
			continue
		}

		field := value.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Int, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return err
			}
			field.SetBool(b)
		case reflect.Float64:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return err
			}
			field.SetFloat(f)
		}
	}

	return nil
}
