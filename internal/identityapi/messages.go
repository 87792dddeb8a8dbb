package identityapi

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformedMessage is returned when a payload lacks a field or carries it
// with the wrong type.
var ErrMalformedMessage = errors.New("malformed identity message")

// Message is implemented by every request and response of the service.
// Payloads travel as google.protobuf.Struct.
type Message interface {
	toStruct() (*structpb.Struct, error)
	fromStruct(s *structpb.Struct) error
}

type SignInRequest struct {
	Email    string
	Password string
}

type SignUpRequest struct {
	Email    string
	Password string
	Name     string
	Age      int
	Gender   string
}

// AuthResponse is returned by SignIn and SignUp. DisplayName may be empty.
type AuthResponse struct {
	UserID      string
	Token       string
	DisplayName string
}

// SignOutRequest is empty: the token travels in the authorization metadata.
type SignOutRequest struct{}

type SignOutResponse struct{}

type ResetPasswordRequest struct {
	Email string
}

type ResetPasswordResponse struct{}

func (r *SignInRequest) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"email": r.Email, "password": r.Password})
}

func (r *SignInRequest) fromStruct(s *structpb.Struct) error {
	f := fields{s: s}
	r.Email = f.string("email")
	r.Password = f.string("password")
	return f.err
}

func (r *SignUpRequest) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"email":    r.Email,
		"password": r.Password,
		"name":     r.Name,
		"age":      r.Age,
		"gender":   r.Gender,
	})
}

func (r *SignUpRequest) fromStruct(s *structpb.Struct) error {
	f := fields{s: s}
	r.Email = f.string("email")
	r.Password = f.string("password")
	r.Name = f.string("name")
	r.Age = f.int("age")
	r.Gender = f.string("gender")
	return f.err
}

func (r *AuthResponse) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"user_id":      r.UserID,
		"token":        r.Token,
		"display_name": r.DisplayName,
	})
}

func (r *AuthResponse) fromStruct(s *structpb.Struct) error {
	f := fields{s: s}
	r.UserID = f.string("user_id")
	r.Token = f.string("token")
	r.DisplayName = f.optionalString("display_name")
	return f.err
}

func (r *SignOutRequest) toStruct() (*structpb.Struct, error)  { return structpb.NewStruct(nil) }
func (r *SignOutRequest) fromStruct(*structpb.Struct) error     { return nil }
func (r *SignOutResponse) toStruct() (*structpb.Struct, error) { return structpb.NewStruct(nil) }
func (r *SignOutResponse) fromStruct(*structpb.Struct) error    { return nil }

func (r *ResetPasswordRequest) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"email": r.Email})
}

func (r *ResetPasswordRequest) fromStruct(s *structpb.Struct) error {
	f := fields{s: s}
	r.Email = f.string("email")
	return f.err
}

func (r *ResetPasswordResponse) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(nil)
}
func (r *ResetPasswordResponse) fromStruct(*structpb.Struct) error { return nil }

// fields reads typed values out of a Struct and remembers the first error.
type fields struct {
	s   *structpb.Struct
	err error
}

func (f *fields) value(name string) (*structpb.Value, bool) {
	if f.err != nil {
		return nil, false
	}
	v, ok := f.s.GetFields()[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (f *fields) string(name string) string {
	v, ok := f.value(name)
	if !ok {
		if f.err == nil {
			f.err = fmt.Errorf("%w: missing %q", ErrMalformedMessage, name)
		}
		return ""
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		f.err = fmt.Errorf("%w: %q is not a string", ErrMalformedMessage, name)
		return ""
	}
	return sv.StringValue
}

func (f *fields) optionalString(name string) string {
	if _, ok := f.value(name); !ok {
		return ""
	}
	return f.string(name)
}

func (f *fields) int(name string) int {
	v, ok := f.value(name)
	if !ok {
		if f.err == nil {
			f.err = fmt.Errorf("%w: missing %q", ErrMalformedMessage, name)
		}
		return 0
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || nv.NumberValue != math.Trunc(nv.NumberValue) {
		f.err = fmt.Errorf("%w: %q is not an integer", ErrMalformedMessage, name)
		return 0
	}
	return int(nv.NumberValue)
}
