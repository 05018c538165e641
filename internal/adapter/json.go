package adapter

import (
	"encoding/json"
)

// JSON abstracts event payload encoding so publishers can be tested
// without asserting on raw byte output.
type JSON interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type stdJSON struct{}

// NewJSON returns a JSON backed by encoding/json.
func NewJSON() JSON {
	return &stdJSON{}
}

func (j *stdJSON) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (j *stdJSON) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
