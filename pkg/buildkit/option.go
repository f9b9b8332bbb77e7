// Copyright 2025 Sri Panyam
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//  http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package buildkit holds the small runtime that builders emitted by
// builder-gen depend on: an optional wrapper, a drain helper and the error
// returned when a required field was never set.
package buildkit

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Option holds either a value or nothing. The zero value holds nothing, which
// is what lets a freshly allocated builder start with every slot unset.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsSome reports whether the option holds a value.
func (o Option[T]) IsSome() bool { return o.ok }

// IsNone reports whether the option is empty.
func (o Option[T]) IsNone() bool { return !o.ok }

// Get returns the held value and whether there was one.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// OrElse returns the held value, or def when the option is empty.
func (o Option[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Take moves the value out of the option and leaves it empty.
func (o *Option[T]) Take() (T, bool) {
	v, ok := o.value, o.ok
	*o = Option[T]{}
	return v, ok
}

func (o Option[T]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

// MarshalJSON encodes an empty option as null and a full one as its value.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Option[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Take returns *p and resets it to the zero value of T. Generated builders
// drain fields that are already optional through it, so any type whose zero
// value means "absent" (Option, pointers, slices, maps) can be drained.
func Take[T any](p *T) T {
	v := *p
	var zero T
	*p = zero
	return v
}

// Require drains o. When o was empty it returns a *MissingFieldError naming
// record and field.
func Require[T any](o *Option[T], record, field string) (T, error) {
	v, ok := o.Take()
	if !ok {
		return v, MissingField(record, field)
	}
	return v, nil
}
