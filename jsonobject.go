package qbt

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// JSONObject is a JSON value that is guaranteed to be an object. It is the
// payload of SetPreferences.
type JSONObject struct {
	raw []byte
}

// NewJSONObject marshals v and accepts the result only if it is a JSON object.
// Maps and structs (such as a partially filled AppPreferences) qualify; arrays,
// strings, numbers, booleans and nil do not.
func NewJSONObject(v any) (JSONObject, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return JSONObject{}, NewClientError(ErrorCodeBadInput, "invalid input", errors.Wrap(err, "failed to marshal value"))
	}
	return ParseJSONObject(data)
}

// ParseJSONObject validates data as a JSON object.
func ParseJSONObject(data []byte) (JSONObject, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return JSONObject{}, NewClientError(ErrorCodeBadInput, "invalid input", errors.Wrap(err, "failed to parse json"))
	}

	if v.Type() != fastjson.TypeObject {
		return JSONObject{}, NewClientError(ErrorCodeBadInput, "invalid input",
			errors.Errorf("expected a json object, got %s", v.Type()))
	}

	return JSONObject{raw: v.MarshalTo(nil)}, nil
}

// String returns the compact JSON encoding of the object.
func (o JSONObject) String() string {
	if o.raw == nil {
		return "{}"
	}
	return string(o.raw)
}

// Keys returns the top level keys of the object.
func (o JSONObject) Keys() []string {
	var p fastjson.Parser
	v, err := p.ParseBytes([]byte(o.String()))
	if err != nil {
		return nil
	}

	obj, err := v.Object()
	if err != nil {
		return nil
	}

	var keys []string
	obj.Visit(func(key []byte, _ *fastjson.Value) {
		keys = append(keys, string(key))
	})
	return keys
}

func (o JSONObject) MarshalJSON() ([]byte, error) {
	return []byte(o.String()), nil
}
