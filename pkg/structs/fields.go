package structs

import (
	"reflect"

	"github.com/oleiade/reflections"
	"github.com/pkg/errors"
)

// GetField returns the value of the provided obj field. obj can whether be a structure or pointer to structure.
func GetField(obj any, name string) any {
	v, err := reflections.GetField(obj, name)
	if err != nil {
		panic(err)
	}

	return v
}

// SetField sets the provided obj field with provided value.
// obj param has to be a pointer to a struct, otherwise it will soundly fail.
// Provided value type should match with the struct field you're trying to set.
func SetField(obj any, name string, value any) {
	if err := reflections.SetField(obj, name, value); err != nil {
		panic(err)
	}
}

// Patch copies every non-nil pointer field of patch into the same-named field of dst.
// dst must be a pointer to a struct. A dst field can either be a pointer of the same
// type (the pointer is copied) or the pointed type itself (the value is copied).
// Fields of patch that do not exist in dst are ignored.
// It returns true if at least one field has been copied.
func Patch(dst, patch any) (bool, error) {
	names, err := reflections.Fields(patch)
	if err != nil {
		return false, errors.Wrap(err, "could not list patch fields")
	}

	var patched bool
	for _, name := range names {
		v := GetField(patch, name)
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr || rv.IsNil() {
			continue
		}

		ok, err := reflections.HasField(dst, name)
		if err != nil {
			return patched, errors.Wrapf(err, "could not inspect field %s", name)
		}
		if !ok {
			continue
		}

		kind, err := reflections.GetFieldKind(dst, name)
		if err != nil {
			return patched, errors.Wrapf(err, "could not inspect field %s", name)
		}

		if kind != reflect.Ptr {
			v = rv.Elem().Interface()
		} else {
			// Do not share the pointer with the patch.
			cp := reflect.New(rv.Elem().Type())
			cp.Elem().Set(rv.Elem())
			v = cp.Interface()
		}

		if err := reflections.SetField(dst, name, v); err != nil {
			return patched, errors.Wrapf(err, "could not set field %s", name)
		}
		patched = true
	}

	return patched, nil
}

// Project returns the values of the given fields of obj, keyed by field name.
func Project(obj any, names ...string) (map[string]any, error) {
	values := make(map[string]any, len(names))
	for _, name := range names {
		ok, err := reflections.HasField(obj, name)
		if err != nil {
			return nil, errors.Wrap(err, "could not inspect object")
		}
		if !ok {
			return nil, errors.Errorf("unknown field %s", name)
		}

		values[name], err = reflections.GetField(obj, name)
		if err != nil {
			return nil, errors.Wrapf(err, "could not get field %s", name)
		}
	}
	return values, nil
}
