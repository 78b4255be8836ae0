package schema

import "encoding/json"

// Schema is message schema interface
type Schema interface {
	// Attachment returns schema attachment
	Attachment() *Attachment
}

type SchemaPointer interface {
	Schema
	SetAttachment(*Attachment)
}

// Stringify returns the text form of a schema: raw text for String,
// JSON for everything else.
func Stringify(s Schema) string {
	if v, ok := s.(String); ok {
		return string(v)
	}
	bs, _ := json.Marshal(s)
	return string(bs)
}

func ToBytes(s Schema) []byte {
	if v, ok := s.(String); ok {
		return []byte(v)
	}
	bs, _ := json.Marshal(s)
	return bs
}
