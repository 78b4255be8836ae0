package schema

// Base is a base schema for embedding into concrete input/output types
type Base struct {
	attachment *Attachment `json:"-"`
}

// String implements Schema interface
func (r Base) String() string {
	return ""
}

// Attachment returns schema attachment
func (r Base) Attachment() *Attachment {
	return r.attachment
}

// SetAttachment set schema attachment
func (r *Base) SetAttachment(v *Attachment) {
	r.attachment = v
}
