package storage

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/pixil98/go-errors"
)

// AssetVersion is the only envelope version this package reads.
const AssetVersion = 1

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidatingSpec is implemented by every asset payload.
type ValidatingSpec interface {
	Validate() error
}

// ValidID reports whether id is a lowercase, hyphen separated key.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Asset is the on-disk envelope around a spec:
//
//	{"version": 1, "id": "health-potion", "spec": {...}}
type Asset[T ValidatingSpec] struct {
	Version uint   `json:"version"`
	ID      string `json:"id"`
	Spec    T      `json:"spec"`
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	switch a.Version {
	case 0:
		el.Add(fmt.Errorf("version must be set"))
	case AssetVersion:
	default:
		el.Add(fmt.Errorf("version %d is not supported", a.Version))
	}

	switch {
	case a.ID == "":
		el.Add(fmt.Errorf("id must be set"))
	case !ValidID(a.ID):
		el.Add(fmt.Errorf("id %q must be lowercase letters, digits and hyphens", a.ID))
	}

	if isNil(a.Spec) {
		el.Add(fmt.Errorf("spec must be set"))
	} else {
		el.Add(a.Spec.Validate())
	}

	return el.Err()
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
