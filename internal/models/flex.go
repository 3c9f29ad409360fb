package models

import "encoding/json"

// FlexString accepts either a JSON string or a JSON number and keeps the
// raw text. Storefront plugins disagree on whether money and weight
// fields are quoted, so every such field is declared as FlexString and
// resolved by the normalize package.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(b)
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f FlexString) String() string { return string(f) }

func (f FlexString) Empty() bool { return f == "" }
