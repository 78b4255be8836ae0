package schema

// String is a raw text schema without structure
type String string

func (s String) Attachment() *Attachment {
	return nil
}

func (s String) SetAttachment(v *Attachment) {
}

func (s String) String() string {
	return string(s)
}

func (s *String) Unmarshal(bs []byte) error {
	*s = String(bs)
	return nil
}
