package module

import (
	"fmt"
	"reflect"
)

// PortsOf finds a T in m's ports: the bundle itself or one of its exported
// fields, e.g. the report service inside report/module.Ports
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if t, ok := p.(T); ok {
		return t, true
	}
	v := reflect.Indirect(reflect.ValueOf(p))
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range v.NumField() {
		f := v.Field(i)
		if !f.CanInterface() {
			continue
		}
		if t, ok := f.Interface().(T); ok {
			return t, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code where a missing port is a programming error
func MustPortsOf[T any](m Module) T {
	t, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module %s exposes no %T port", m.Name(), (*T)(nil)))
	}
	return t
}
