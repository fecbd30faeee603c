package requests

import (
	"fmt"
	"reflect"
	"strings"
)

// WithParamObject sets URL template params from the exported fields of the
// struct (or pointer to struct) v, in the manner of WithParam.
//
// A field is named by its "param" tag, or by its Go name when untagged.
// `param:"-"` skips the field and `param:"name,omitempty"` skips it when it
// holds its zero value. Field values follow the WithParam type rules. A nil v
// or a non struct value panics, as an unsupported WithParam value does.
func WithParamObject(v any) RequestOption {
	params := structParams(v)
	return requestOptionFunc(func(options *requestOptions) {
		if options.Params == nil {
			options.Params = make(map[string]string, len(params))
		}
		for name, value := range params {
			options.Params[name] = value
		}
	})
}

func structParams(v any) map[string]string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		panic(fmt.Sprintf("requests: param object must be a struct or a pointer to one, got %T", v))
	}

	rt := rv.Type()
	params := make(map[string]string, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name, flags, _ := strings.Cut(field.Tag.Get("param"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		fv := rv.Field(i)
		if flags == "omitempty" && fv.IsZero() {
			continue
		}
		params[name] = toString(fv.Interface())
	}
	return params
}
